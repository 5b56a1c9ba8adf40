package rate_test

import (
	"testing"
	"time"

	"quizrush-backend/internal/rate"

	"github.com/benbjohnson/clock"
)

func TestLimiter_Allow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		window   time.Duration
		limit    int
		requests int
		expect   bool
		interval time.Duration
		sleep    time.Duration
	}{
		{
			name:     "Within limit",
			window:   time.Minute,
			limit:    10,
			requests: 10,
			expect:   true,
		},
		{
			name:     "At limit",
			window:   time.Minute,
			limit:    10,
			requests: 11,
			expect:   false,
		},
		{
			name:     "Within limit after slide",
			window:   10 * time.Millisecond,
			interval: time.Millisecond,
			limit:    10,
			requests: 11,
			sleep:    time.Millisecond,
			expect:   true,
		},
		{
			name:     "At limit after slide",
			window:   10 * time.Millisecond,
			limit:    10,
			requests: 11,
			sleep:    9 * time.Millisecond,
			expect:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clock := clock.NewMock()
			limiter := rate.NewLimiterWithClock(tt.window, tt.limit, clock)

			clock.Set(time.Now())

			for i := 1; i < tt.requests; i++ {
				limiter.Allow()
				clock.Add(tt.interval)
			}

			clock.Add(tt.sleep)

			if got, want := limiter.Allow(), tt.expect; got != want {
				t.Fatalf("Invalid request allow, got %v, want %v", got, want)
			}
		})
	}
}

func TestLimiter_Slots(t *testing.T) {
	t.Parallel()

	clock := clock.NewMock()
	limiter := rate.NewLimiterWithClock(time.Minute, 3, clock)

	clock.Set(time.Now())

	if got, want := limiter.Slots(), 3; got != want {
		t.Fatalf("Invalid free slots, got %d, want %d", got, want)
	}

	limiter.Allow()
	limiter.Allow()

	if got, want := limiter.Slots(), 1; got != want {
		t.Fatalf("Invalid free slots, got %d, want %d", got, want)
	}

	clock.Add(time.Minute)

	if got, want := limiter.Slots(), 3; got != want {
		t.Fatalf("Invalid free slots after slide, got %d, want %d", got, want)
	}
}
