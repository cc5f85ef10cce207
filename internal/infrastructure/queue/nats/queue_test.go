package nats

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/resume-analyzer/internal/core/domain"
)

type lagFake struct {
	lags []time.Duration
}

func (f *lagFake) ObserveJobReceived(lag time.Duration) {
	f.lags = append(f.lags, lag)
}

func TestJobCodec(t *testing.T) {
	requested := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	payload, err := encodeJob("a-1", requested)
	if err != nil {
		t.Fatalf("encodeJob() error = %v", err)
	}
	got, err := decodeJob(payload)
	if err != nil {
		t.Fatalf("decodeJob() error = %v", err)
	}
	if got.AnalysisID != "a-1" || !got.RequestedAt.Equal(requested) {
		t.Fatalf("unexpected job: %+v", got)
	}

	legacy, err := decodeJob([]byte(" a-2 \n"))
	if err != nil || legacy.AnalysisID != "a-2" {
		t.Fatalf("expected bare id to decode, got %+v %v", legacy, err)
	}

	for _, bad := range []string{"", `{"analysis_id":""}`, `{"analysis_id":`} {
		if _, err := decodeJob([]byte(bad)); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
	if _, err := encodeJob(" ", requested); !errors.Is(err, errEmptyJob) {
		t.Fatalf("expected empty job error, got %v", err)
	}
}

func TestHandleReportsLagAndCallsHandler(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 3, 0, time.UTC)
	observer := &lagFake{}
	q := &Queue{
		observer: observer,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      func() time.Time { return now },
	}
	payload, _ := encodeJob("a-1", now.Add(-3*time.Second))

	var got string
	q.handle(context.Background(), payload, func(_ context.Context, id string) error {
		got = id
		return errors.New("handler failure is logged, not returned")
	})

	if got != "a-1" {
		t.Fatalf("expected handler call with a-1, got %q", got)
	}
	if len(observer.lags) != 1 || observer.lags[0] != 3*time.Second {
		t.Fatalf("unexpected lag: %v", observer.lags)
	}
}

func TestHandleRejectsMalformedJob(t *testing.T) {
	q := &Queue{logger: slog.New(slog.NewTextHandler(io.Discard, nil)), now: time.Now}
	called := false
	q.handle(context.Background(), []byte(`{"analysis_id":`), func(context.Context, string) error {
		called = true
		return nil
	})
	if called {
		t.Fatal("handler must not run for malformed job")
	}
}

func TestPublishErrorsAreTemporary(t *testing.T) {
	if err := wrapTemporaryIfNeeded(nats.ErrConnectionClosed); !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if err := wrapTemporaryIfNeeded(nats.ErrBadSubject); domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if class := classifyNATSError(context.Canceled); class.Retryable || class.RecordFailure {
		t.Fatalf("unexpected class for cancellation: %+v", class)
	}
}
