package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"shelfcheck/internal/catalog"
	"shelfcheck/internal/sources"
)

func newTestRegistry(initial int64) (*Registry, *[]time.Duration) {
	r := New(initial, nil)
	var slept []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) {
		slept = append(slept, d)
	}
	return r, &slept
}

func failingCall(context.Context) (sources.Result, error) {
	return sources.Result{}, errors.New("boom")
}

func succeedingCall(context.Context) (sources.Result, error) {
	return sources.Result{Candidates: []sources.Candidate{{Title: "x"}}}, nil
}

func TestDoSwallowsErrorsAndChargesPenalty(t *testing.T) {
	r, slept := newTestRegistry(100)

	result, ok := r.Do(context.Background(), "src", catalog.Work{ID: 1}, failingCall)
	if ok {
		t.Fatal("expected ok=false for failing call")
	}
	if len(result.Candidates) != 0 {
		t.Errorf("expected zero result, got %+v", result)
	}
	if len(*slept) != 1 {
		t.Fatalf("expected one penalty sleep, got %d", len(*slept))
	}
	// streak 0 < 2: delay = 1000 + 100*2
	if want := 1200 * time.Millisecond; (*slept)[0] != want {
		t.Errorf("penalty = %v, want %v", (*slept)[0], want)
	}
	if r.Delay("src") != 1200 {
		t.Errorf("stored delay = %d, want 1200", r.Delay("src"))
	}
}

func TestFailureClasses(t *testing.T) {
	tests := []struct {
		name      string
		successes int
		wantDelay int64 // from initial delay 100
	}{
		{"cold source", 0, 1200},
		{"one success still cold", 1, 1200},
		{"short streak doubles", 3, 201},
		{"medium streak unchanged", 10, 100},
		{"long streak halves", 21, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRegistry(100)
			ctx := context.Background()
			for i := 0; i < tt.successes; i++ {
				if _, ok := r.Do(ctx, "src", catalog.Work{ID: 1}, succeedingCall); !ok {
					t.Fatal("success call reported failure")
				}
			}
			r.Do(ctx, "src", catalog.Work{ID: 1}, failingCall)
			if got := r.Delay("src"); got != tt.wantDelay {
				t.Errorf("delay after failure = %d, want %d", got, tt.wantDelay)
			}
			if r.Successes("src") != 0 {
				t.Errorf("streak = %d, want 0 after failure", r.Successes("src"))
			}
		})
	}
}

func TestColdFailureStrictlyIncreasesDelay(t *testing.T) {
	r, _ := newTestRegistry(100)
	ctx := context.Background()

	previous := r.Delay("src")
	for i := 0; i < 5; i++ {
		r.Do(ctx, "src", catalog.Work{ID: 1}, failingCall)
		current := r.Delay("src")
		if current <= previous {
			t.Fatalf("delay did not increase: %d -> %d", previous, current)
		}
		previous = current
	}
}

func TestGenerationOfSuccessesHalvesDelayOnce(t *testing.T) {
	r, _ := newTestRegistry(100)
	ctx := context.Background()

	// Push the delay up first so decay is observable.
	r.Do(ctx, "src", catalog.Work{ID: 1}, failingCall)
	start := r.Delay("src")

	for i := 0; i < 99; i++ {
		r.Do(ctx, "src", catalog.Work{ID: 1}, succeedingCall)
	}
	if got := r.Delay("src"); got != start {
		t.Fatalf("delay changed before full generation: %d -> %d", start, got)
	}

	r.Do(ctx, "src", catalog.Work{ID: 1}, succeedingCall)
	if got, want := r.Delay("src"), start/2; got != want {
		t.Fatalf("delay after 100 successes = %d, want %d", got, want)
	}

	// The next 99 successes must not halve again.
	for i := 0; i < 99; i++ {
		r.Do(ctx, "src", catalog.Work{ID: 1}, succeedingCall)
	}
	if got, want := r.Delay("src"), start/2; got != want {
		t.Errorf("delay drifted within generation: %d, want %d", got, want)
	}
}

func TestStatePerSource(t *testing.T) {
	r, _ := newTestRegistry(100)
	ctx := context.Background()

	r.Do(ctx, "flaky", catalog.Work{ID: 1}, failingCall)
	r.Do(ctx, "solid", catalog.Work{ID: 1}, succeedingCall)

	if r.Delay("flaky") == r.Delay("solid") {
		t.Error("sources should not share delay state")
	}
	if r.Successes("solid") != 1 {
		t.Errorf("solid streak = %d, want 1", r.Successes("solid"))
	}
}
