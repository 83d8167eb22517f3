package jobcontext

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJobBegin_Metadata(t *testing.T) {
	id := uuid.New()
	ctx, cancel := JobBegin(context.Background(), id, "archive", "core", time.Minute)
	defer cancel()

	meta := GetJobMetadata(ctx)
	if meta.JobID != id || meta.JobType != "archive" || meta.TeamID != "core" {
		t.Fatalf("metadata = %+v", meta)
	}
	if meta.MaxRetries != DefaultMaxRetries || meta.StartTime.IsZero() {
		t.Fatalf("metadata = %+v", meta)
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Fatalf("job context has no deadline")
	}
}

func TestJobEnd(t *testing.T) {
	tests := []struct {
		name      string
		failures  []error
		panics    bool
		wantCalls int
		wantErr   string
	}{
		{name: "success", wantCalls: 1},
		{name: "retryable then success", failures: []error{errors.New("connection refused")}, wantCalls: 2},
		{name: "non-retryable", failures: []error{errors.New("duplicate key")}, wantCalls: 1, wantErr: "non-retryable error: duplicate key"},
		{name: "panic", panics: true, wantCalls: 1, wantErr: "panic recovered: boom"},
		{
			name:      "exhausted",
			failures:  []error{errors.New("i/o timeout"), errors.New("i/o timeout"), errors.New("i/o timeout")},
			wantCalls: 3,
			wantErr:   "i/o timeout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := JobBegin(context.Background(), uuid.New(), "archive", "core", 30*time.Second)
			defer cancel()

			calls := 0
			err := JobEnd(ctx, func(ctx context.Context) error {
				if GetRetryAttempt(ctx) != calls {
					t.Errorf("attempt = %d, want %d", GetRetryAttempt(ctx), calls)
				}
				calls++
				if tt.panics {
					panic("boom")
				}
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})

			if calls != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("JobEnd() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("JobEnd() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{errors.New("dial tcp: connection reset by peer"), true},
		{errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{errors.New("SlowDown: please reduce your request rate"), true},
		{errors.New("record not found"), false},
	}
	for _, tt := range tests {
		if got := IsRetryableError(tt.err); got != tt.want {
			t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
