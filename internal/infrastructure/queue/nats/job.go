package nats

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var errEmptyJob = errors.New("job has no analysis id")

// job is the message body. Bare analysis ids are still accepted on
// receive so older publishers keep working.
type job struct {
	AnalysisID  string    `json:"analysis_id"`
	RequestedAt time.Time `json:"requested_at"`
}

func encodeJob(analysisID string, now time.Time) ([]byte, error) {
	if strings.TrimSpace(analysisID) == "" {
		return nil, errEmptyJob
	}
	payload, err := json.Marshal(job{AnalysisID: analysisID, RequestedAt: now.UTC()})
	if err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}
	return payload, nil
}

func decodeJob(data []byte) (job, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return job{}, errEmptyJob
	}
	if !strings.HasPrefix(raw, "{") {
		return job{AnalysisID: raw}, nil
	}
	var j job
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return job{}, fmt.Errorf("decode job: %w", err)
	}
	if strings.TrimSpace(j.AnalysisID) == "" {
		return job{}, errEmptyJob
	}
	return j, nil
}
