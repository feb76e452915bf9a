package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/pinboard/internal/apperr"
	"github.com/starford/pinboard/internal/filter"
	"github.com/starford/pinboard/internal/models"
)

// ErrSuperseded is returned by LoadNotes when a newer list request started
// before its response arrived. The newer response wins.
var ErrSuperseded = errors.New("orchestrator: load superseded by a newer request")

const msgLoad = "Failed to load notes"

// loadTracker numbers list requests. Only the latest may touch the store.
type loadTracker struct {
	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	last    models.Filter
	started bool
}

// beginLoad starts request number seq for crit, cancelling the previous
// one, and raises the loading flag.
func (o *Orchestrator) beginLoad(ctx context.Context, crit models.Filter) (uint64, context.Context) {
	t := &o.loads
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	t.seq++
	t.cancel = cancel
	t.last = crit.Clone()
	t.started = true
	o.store.SetLoading(true)
	return t.seq, reqCtx
}

// finishLoad applies a list response if seq is still the latest request.
// A failure leaves the collection untouched.
func (o *Orchestrator) finishLoad(seq uint64, notes []models.Note, err error) bool {
	t := &o.loads
	t.mu.Lock()
	defer t.mu.Unlock()

	if seq != t.seq {
		o.logger.Debug("discarding stale list response", slog.Uint64("seq", seq), slog.Uint64("latest", t.seq))
		return false
	}
	t.cancel()
	t.cancel = nil
	o.store.SetLoading(false)

	switch {
	case err == nil:
		o.store.SetNotes(notes)
	case errors.Is(err, context.Canceled):
		o.logger.Debug("list request cancelled", slog.Uint64("seq", seq))
	default:
		o.logger.Warn("list notes failed", slog.String("error", err.Error()))
		o.store.SetError(apperr.Message(err, msgLoad))
	}
	return true
}

// needsLoad reports whether crit differs from the last requested criteria.
func (o *Orchestrator) needsLoad(crit models.Filter) bool {
	t := &o.loads
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.started || !filter.Equivalent(t.last, crit)
}

// cancelLoad aborts the in-flight list request, if any.
func (o *Orchestrator) cancelLoad() {
	t := &o.loads
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
}

// LoadNotes fetches the notes for the current criteria and waits for the
// result. It clears the last error first.
func (o *Orchestrator) LoadNotes(ctx context.Context) error {
	crit := o.store.Filter()
	o.store.SetError("")

	seq, reqCtx := o.beginLoad(ctx, crit)
	notes, err := o.api.ListNotes(reqCtx, crit)
	if !o.finishLoad(seq, notes, err) {
		return ErrSuperseded
	}
	return err
}

// Run keeps the collection in step with the criteria until ctx ends. It
// loads once at start, then reloads after every criteria change once the
// debounce period has passed quietly. With a mirror configured it primes
// an empty store from it and syncs it after every collection change.
func (o *Orchestrator) Run(ctx context.Context) error {
	changed := make(chan struct{}, 1)
	stopFilter := o.store.ObserveFilter(func() { poke(changed) })
	defer stopFilter()

	dirty := make(chan struct{}, 1)
	if o.mirror != nil {
		o.primeFromMirror(ctx)
		stopNotes := o.store.ObserveNotes(func() { poke(dirty) })
		defer stopNotes()
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	defer o.cancelLoad()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-changed:
			timer.Reset(o.debounce)

		case <-dirty:
			o.syncMirror(ctx)

		case <-timer.C:
			crit := o.store.Filter()
			if !o.needsLoad(crit) {
				continue
			}
			o.store.SetError("")
			seq, reqCtx := o.beginLoad(ctx, crit)
			wg.Add(1)
			go func() {
				defer wg.Done()
				notes, err := o.api.ListNotes(reqCtx, crit)
				o.finishLoad(seq, notes, err)
			}()
		}
	}
}

func poke(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (o *Orchestrator) primeFromMirror(ctx context.Context) {
	if o.store.TotalCount() > 0 {
		return
	}
	notes, err := o.mirror.Load(ctx)
	if err != nil {
		o.logger.Warn("mirror load failed", slog.String("error", err.Error()))
		return
	}
	if len(notes) == 0 || o.store.TotalCount() > 0 {
		return
	}
	o.store.SetNotes(notes)
	o.logger.Info("store primed from mirror", slog.Int("notes", len(notes)))
}

func (o *Orchestrator) syncMirror(ctx context.Context) {
	if err := o.mirror.Sync(ctx, o.store.Notes()); err != nil {
		o.logger.Warn("mirror sync failed", slog.String("error", err.Error()))
	}
}
