package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/styloxis/honeycomb/pkg/errors"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`[{"id":"me","titre":"Me"}]`))
		case "/bad":
			w.Write([]byte(`{not json`))
		case "/down":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	var recs []record
	if err := GetJSON(ctx, srv.Client(), srv.URL+"/ok", &recs); err != nil {
		t.Fatalf("GetJSON(ok) error: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "me" {
		t.Errorf("decoded %+v", recs)
	}

	tests := []struct {
		path      string
		code      errors.Code
		retryable bool
	}{
		{"/bad", errors.ErrCodeInvalidInput, false},
		{"/down", errors.ErrCodeNetwork, true},
		{"/forbidden", errors.ErrCodeInvalidInput, false},
		{"/missing", errors.ErrCodeNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var v any
			err := GetJSON(ctx, srv.Client(), srv.URL+tt.path, &v)
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.code)
			}
			if IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable = %v, want %v", IsRetryable(err), tt.retryable)
			}
		})
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return errors.New(errors.ErrCodeNotFound, "gone")
	})
	if err == nil || calls != 1 {
		t.Errorf("calls = %d, err = %v; want 1 call and an error", calls, err)
	}
}

func TestRetryRecovers(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"titre":"MMO"}`))
	}))
	defer srv.Close()

	var rec record
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		return GetJSON(context.Background(), srv.Client(), srv.URL, &rec)
	})
	if err != nil {
		t.Fatalf("Retry() error: %v", err)
	}
	if rec.Title != "MMO" || calls.Load() != 2 {
		t.Errorf("rec = %+v, calls = %d", rec, calls.Load())
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Second, func() error {
		return Retryable(errors.New(errors.ErrCodeNetwork, "down"))
	})
	if err != context.Canceled {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}

func TestBackoffCap(t *testing.T) {
	var waits []time.Duration
	last := time.Now()
	b := Backoff{Attempts: 4, Initial: time.Millisecond, Max: 2 * time.Millisecond}
	calls := 0
	err := b.Do(context.Background(), func() error {
		now := time.Now()
		if calls > 0 {
			waits = append(waits, now.Sub(last))
		}
		last = now
		calls++
		return Retryable(errors.New(errors.ErrCodeNetwork, "down"))
	})
	if err == nil || calls != 4 {
		t.Fatalf("calls = %d, err = %v", calls, err)
	}
	if len(waits) != 3 {
		t.Fatalf("waits = %v", waits)
	}
}

func TestBackoffSingleAttempt(t *testing.T) {
	calls := 0
	_ = Backoff{}.Do(context.Background(), func() error {
		calls++
		return Retryable(errors.New(errors.ErrCodeNetwork, "down"))
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
