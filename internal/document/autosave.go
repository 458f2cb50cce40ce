package document

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SaveStatus is the externally visible state of the auto-save machine.
type SaveStatus string

const (
	SaveIdle    SaveStatus = "idle"
	SavePending SaveStatus = "pending"
	SaveSaving  SaveStatus = "saving"
	SaveSaved   SaveStatus = "saved"
	SaveError   SaveStatus = "error"
)

// DefaultQuietPeriod is the debounce delay after the last edit before an
// auto-save fires.
const DefaultQuietPeriod = 2 * time.Second

// SaveFunc persists a document snapshot. A nil id means create; a non-nil
// id means update that record. It returns the persisted identifier, which
// the saver pins for every subsequent call.
type SaveFunc func(ctx context.Context, id *uuid.UUID, doc Payload) (uuid.UUID, error)

// AutoSaverOptions configures an AutoSaver. Zero values get defaults.
type AutoSaverOptions struct {
	// QuietPeriod is the debounce window (default 2s).
	QuietPeriod time.Duration
	// Baseline, when set, is captured on every successful save.
	Baseline *Baseline

	OnSaveStart   func()
	OnSaveSuccess func(id uuid.UUID)
	OnSaveError   func(err error)
}

// AutoSaver coalesces rapid edits into a single debounced write and
// guarantees at most one in-flight save per document. Each Schedule call
// with changed content rearms the quiet-period timer; a save already in
// flight defers the next one until it resolves. TriggerNow bypasses the
// debounce. Close cancels pending work; an in-flight save is allowed to
// finish but its result is discarded.
type AutoSaver struct {
	save  SaveFunc
	quiet time.Duration

	onStart   func()
	onSuccess func(id uuid.UUID)
	onError   func(err error)
	baseline  *Baseline

	// saveMu serializes the actual persistence calls. Timer fires and
	// manual triggers both queue on it, so two writes can never race.
	saveMu sync.Mutex

	mu          sync.Mutex
	timer       *time.Timer
	pending     Payload
	lastFP      string
	status      SaveStatus
	lastSavedAt time.Time
	id          *uuid.UUID
	closed      bool
}

// ErrSaverClosed is returned by TriggerNow after Close.
var ErrSaverClosed = fmt.Errorf("auto-saver is closed")

// NewAutoSaver builds an AutoSaver around the given persistence function.
func NewAutoSaver(save SaveFunc, opts AutoSaverOptions) *AutoSaver {
	quiet := opts.QuietPeriod
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &AutoSaver{
		save:      save,
		quiet:     quiet,
		onStart:   opts.OnSaveStart,
		onSuccess: opts.OnSaveSuccess,
		onError:   opts.OnSaveError,
		baseline:  opts.Baseline,
		status:    SaveIdle,
	}
}

// Schedule records the latest document state and arms the debounce timer.
// Content identical to the last scheduled state does not rearm the timer,
// so a stream of no-op notifications cannot starve the save.
func (as *AutoSaver) Schedule(doc Payload) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.closed {
		return
	}

	fp := doc.Fingerprint()
	if fp == as.lastFP {
		return
	}
	as.lastFP = fp
	as.pending = doc

	if as.status != SaveSaving {
		as.status = SavePending
	}
	if as.timer != nil {
		as.timer.Stop()
	}
	as.timer = time.AfterFunc(as.quiet, as.fire)
}

// TriggerNow cancels any pending timer and saves the given state
// immediately, waiting for an in-flight save to resolve first.
func (as *AutoSaver) TriggerNow(ctx context.Context, doc Payload) (uuid.UUID, error) {
	as.mu.Lock()
	if as.closed {
		as.mu.Unlock()
		return uuid.Nil, ErrSaverClosed
	}
	if as.timer != nil {
		as.timer.Stop()
		as.timer = nil
	}
	as.pending = nil
	as.lastFP = doc.Fingerprint()
	as.mu.Unlock()

	as.saveMu.Lock()
	defer as.saveMu.Unlock()
	return as.doSave(ctx, doc)
}

// fire runs on timer expiry. It waits its turn behind any in-flight save,
// then persists the latest scheduled snapshot.
func (as *AutoSaver) fire() {
	as.saveMu.Lock()
	defer as.saveMu.Unlock()

	as.mu.Lock()
	doc := as.pending
	as.pending = nil
	closed := as.closed
	as.mu.Unlock()

	if closed || doc == nil {
		return
	}
	as.doSave(context.Background(), doc)
}

// doSave performs one persistence call. Caller holds saveMu.
func (as *AutoSaver) doSave(ctx context.Context, doc Payload) (uuid.UUID, error) {
	as.mu.Lock()
	as.status = SaveSaving
	id := as.id
	as.mu.Unlock()

	if as.onStart != nil {
		as.onStart()
	}

	savedID, err := as.save(ctx, id, doc)

	as.mu.Lock()
	if as.closed {
		// Session torn down while the save was en route; the write
		// completed but the result is discarded.
		as.mu.Unlock()
		return savedID, err
	}
	if err != nil {
		as.status = SaveError
		as.mu.Unlock()
		if as.onError != nil {
			as.onError(err)
		}
		return uuid.Nil, err
	}
	pinned := savedID
	as.id = &pinned
	as.status = SaveSaved
	as.lastSavedAt = time.Now()
	as.mu.Unlock()

	if as.baseline != nil {
		as.baseline.Capture(doc)
	}
	if as.onSuccess != nil {
		as.onSuccess(savedID)
	}
	return savedID, nil
}

// Flush waits for any in-flight save to finish. It does not start one.
func (as *AutoSaver) Flush() {
	as.saveMu.Lock()
	as.saveMu.Unlock()
}

// Close cancels pending work. Safe to call more than once.
func (as *AutoSaver) Close() {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.closed = true
	as.pending = nil
	if as.timer != nil {
		as.timer.Stop()
		as.timer = nil
	}
}

// Status returns the current save-machine state.
func (as *AutoSaver) Status() SaveStatus {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.status
}

// LastSavedAt returns the completion time of the last successful save, or
// the zero time if none has succeeded.
func (as *AutoSaver) LastSavedAt() time.Time {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.lastSavedAt
}

// CurrentID returns the pinned identifier assigned by the first successful
// save.
func (as *AutoSaver) CurrentID() (uuid.UUID, bool) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.id == nil {
		return uuid.Nil, false
	}
	return *as.id, true
}

// SetCurrentID pins an identifier up front, for resuming an existing draft.
func (as *AutoSaver) SetCurrentID(id uuid.UUID) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.id = &id
}
