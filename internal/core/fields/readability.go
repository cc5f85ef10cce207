package fields

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

var (
	sentenceSplitPattern = regexp.MustCompile(`[.!?]+(?:\s|$)|\n+`)
	wordPattern          = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?`)
)

// Readability is the Flesch reading ease of text, rounded and clamped to
// [0,100]. Every non-blank line counts as at least one sentence because
// resume bullets rarely end with punctuation. Text without words scores 0.
func Readability(text string) float64 {
	sentences, words, syllables := 0, 0, 0
	for _, sentence := range sentenceSplitPattern.Split(text, -1) {
		tokens := wordPattern.FindAllString(sentence, -1)
		if len(tokens) == 0 {
			continue
		}
		sentences++
		words += len(tokens)
		for _, w := range tokens {
			syllables += countSyllables(w)
		}
	}
	if words == 0 {
		return 0
	}
	score := 206.835 - 1.015*float64(words)/float64(sentences) - 84.6*float64(syllables)/float64(words)
	return math.Round(math.Max(0, math.Min(100, score)))
}

func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel && unicode.IsLetter(r)
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
