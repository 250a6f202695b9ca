// Package breaker throttles calls to unreliable external sources with an
// adaptive per-source delay.
//
// The breaker never blocks the current call: failures only grow the delay
// charged before control returns, penalizing the failing attempt itself. A
// long run of successes slowly decays the delay again. State is keyed by
// source id and shared across all works verified in one run; counters use
// atomic primitives so concurrent fan-out stays safe.
package breaker

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"shelfcheck/internal/catalog"
	"shelfcheck/internal/logging"
	"shelfcheck/internal/sources"
)

// successesPerGeneration is how many consecutive successes make up one
// generation; completing a generation halves the delay once.
const successesPerGeneration = 100

// state tracks one source. successes counts since the last failure; delayMs
// is the penalty charged after the next failure.
type state struct {
	successes atomic.Int64
	delayMs   atomic.Int64
}

// Registry holds per-source breaker state for the lifetime of a run.
type Registry struct {
	mu             sync.RWMutex
	states         map[string]*state
	initialDelayMs int64
	logger         *slog.Logger

	// sleep is replaceable so tests do not wait out real penalties.
	sleep func(ctx context.Context, d time.Duration)
}

// New creates a Registry. Every source starts at initialDelayMs.
func New(initialDelayMs int64, logger *slog.Logger) *Registry {
	if initialDelayMs <= 0 {
		initialDelayMs = 100
	}
	return &Registry{
		states:         make(map[string]*state),
		initialDelayMs: initialDelayMs,
		logger:         logging.NewComponentLogger(logger, "breaker"),
		sleep:          sleepContext,
	}
}

func (r *Registry) stateFor(id string) *state {
	r.mu.RLock()
	st, ok := r.states[id]
	r.mu.RUnlock()
	if ok {
		return st
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok = r.states[id]; ok {
		return st
	}
	st = &state{}
	st.delayMs.Store(r.initialDelayMs)
	r.states[id] = st
	return st
}

// Do runs fn for the given source. On success the source's success counter
// advances and the result is returned with ok=true. On error the error is
// swallowed: the failure penalty is applied, the penalty delay is waited out
// (honoring ctx), and a zero Result is returned with ok=false; the caller
// treats the source as having produced no candidates for this attempt.
func (r *Registry) Do(ctx context.Context, id string, work catalog.Work, fn func(context.Context) (sources.Result, error)) (sources.Result, bool) {
	st := r.stateFor(id)

	result, err := fn(ctx)
	if err != nil {
		delay := r.onFailure(st)
		r.logger.Warn("source call failed",
			logging.String(logging.FieldSource, id),
			logging.Int64(logging.FieldWorkID, work.ID),
			logging.Int64("penalty_ms", delay),
			logging.Error(err))
		r.sleep(ctx, time.Duration(delay)*time.Millisecond)
		return sources.Result{}, false
	}

	r.onSuccess(st, id)
	return result, true
}

// onSuccess advances the counter and halves the delay each time a full
// generation of consecutive successes completes.
func (r *Registry) onSuccess(st *state, id string) {
	n := st.successes.Add(1)
	if generation(n) != generation(n-1) {
		updated := halve(&st.delayMs)
		r.logger.Debug("delay decayed after success generation",
			logging.String(logging.FieldSource, id),
			logging.Int64("delay_ms", updated))
	}
}

// onFailure resets the success streak and adjusts the delay according to how
// warm the source was, returning the delay to charge.
func (r *Registry) onFailure(st *state) int64 {
	streak := st.successes.Swap(0)
	for {
		current := st.delayMs.Load()
		var next int64
		switch {
		case streak < 2:
			next = 1000 + current*2
		case streak < 5:
			next = 1 + current*2
		case streak > 20:
			next = current / 2
		default:
			next = current
		}
		if st.delayMs.CompareAndSwap(current, next) {
			return next
		}
	}
}

// Delay reports the current delay for a source in milliseconds.
func (r *Registry) Delay(id string) int64 {
	return r.stateFor(id).delayMs.Load()
}

// Successes reports the current success streak for a source.
func (r *Registry) Successes(id string) int64 {
	return r.stateFor(id).successes.Load()
}

func generation(n int64) int64 {
	return n / successesPerGeneration
}

func halve(v *atomic.Int64) int64 {
	for {
		current := v.Load()
		next := current / 2
		if v.CompareAndSwap(current, next) {
			return next
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
