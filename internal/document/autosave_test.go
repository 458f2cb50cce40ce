package document

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSaver captures every persistence call the AutoSaver makes and can
// simulate slow or failing storage.
type recordingSaver struct {
	mu       sync.Mutex
	calls    []savedCall
	inFlight int32
	maxSeen  int32
	delay    time.Duration
	err      error
	assigned uuid.UUID
}

type savedCall struct {
	id  *uuid.UUID
	doc Payload
}

func newRecordingSaver() *recordingSaver {
	return &recordingSaver{assigned: uuid.New()}
}

func (r *recordingSaver) fn(ctx context.Context, id *uuid.UUID, doc Payload) (uuid.UUID, error) {
	current := atomic.AddInt32(&r.inFlight, 1)
	defer atomic.AddInt32(&r.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&r.maxSeen)
		if current <= seen || atomic.CompareAndSwapInt32(&r.maxSeen, seen, current) {
			break
		}
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var pinned *uuid.UUID
	if id != nil {
		v := *id
		pinned = &v
	}
	r.calls = append(r.calls, savedCall{id: pinned, doc: doc})
	if r.err != nil {
		return uuid.Nil, r.err
	}
	if id != nil {
		return *id, nil
	}
	return r.assigned, nil
}

func (r *recordingSaver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recordingSaver) call(i int) savedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[i]
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

func TestAutoSaverCoalescesRapidEdits(t *testing.T) {
	saver := newRecordingSaver()
	as := NewAutoSaver(saver.fn, AutoSaverOptions{QuietPeriod: 40 * time.Millisecond})
	defer as.Close()

	for i := 1; i <= 5; i++ {
		data := sampleQuotation()
		data.ProjectTitle = fmt.Sprintf("Revision %d", i)
		as.Schedule(data)
		time.Sleep(5 * time.Millisecond)
	}

	waitFor(t, func() bool { return saver.callCount() == 1 }, "debounced save")
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, saver.callCount(), "intermediate keystrokes must not each persist")
	assert.Equal(t, "Revision 5", saver.call(0).doc.(*QuotationData).ProjectTitle)
	assert.Equal(t, SaveSaved, as.Status())
}

func TestAutoSaverIdenticalContentDoesNotRearm(t *testing.T) {
	saver := newRecordingSaver()
	as := NewAutoSaver(saver.fn, AutoSaverOptions{QuietPeriod: 30 * time.Millisecond})
	defer as.Close()

	data := sampleQuotation()
	as.Schedule(data)
	time.Sleep(20 * time.Millisecond)
	as.Schedule(data.Clone()) // same content: timer must not reset

	waitFor(t, func() bool { return saver.callCount() == 1 }, "single save")
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, saver.callCount())
}

func TestAutoSaverCreateThenUpdate(t *testing.T) {
	saver := newRecordingSaver()
	as := NewAutoSaver(saver.fn, AutoSaverOptions{QuietPeriod: time.Hour})
	defer as.Close()

	data := sampleQuotation()
	id, err := as.TriggerNow(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, saver.assigned, id)
	assert.Nil(t, saver.call(0).id, "first save of an unsaved draft must create")

	pinned, ok := as.CurrentID()
	require.True(t, ok)
	assert.Equal(t, saver.assigned, pinned)

	data.ProjectTitle = "Updated"
	id, err = as.TriggerNow(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, saver.assigned, id)
	require.NotNil(t, saver.call(1).id, "second save must update, not re-create")
	assert.Equal(t, saver.assigned, *saver.call(1).id)
	assert.Equal(t, 2, saver.callCount())
}

func TestAutoSaverTriggerNowCancelsPendingTimer(t *testing.T) {
	saver := newRecordingSaver()
	as := NewAutoSaver(saver.fn, AutoSaverOptions{QuietPeriod: 50 * time.Millisecond})
	defer as.Close()

	as.Schedule(sampleQuotation())
	_, err := as.TriggerNow(context.Background(), sampleQuotation())
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, saver.callCount(), "the cancelled timer must not fire a second save")
}

func TestAutoSaverAtMostOneInFlight(t *testing.T) {
	saver := newRecordingSaver()
	saver.delay = 60 * time.Millisecond
	as := NewAutoSaver(saver.fn, AutoSaverOptions{QuietPeriod: 10 * time.Millisecond})
	defer as.Close()

	first := sampleQuotation()
	first.ProjectTitle = "First"
	as.Schedule(first)

	waitFor(t, func() bool { return atomic.LoadInt32(&saver.inFlight) == 1 }, "first save in flight")

	// Two edits arrive while the save is in flight.
	second := sampleQuotation()
	second.ProjectTitle = "Second"
	as.Schedule(second)
	third := sampleQuotation()
	third.ProjectTitle = "Third"
	as.Schedule(third)

	waitFor(t, func() bool { return saver.callCount() == 2 }, "trailing save")
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 2, saver.callCount(), "exactly one trailing save for edits arriving mid-save")
	assert.Equal(t, "Third", saver.call(1).doc.(*QuotationData).ProjectTitle,
		"trailing save carries the latest state")
	assert.Equal(t, int32(1), atomic.LoadInt32(&saver.maxSeen), "saves must never overlap")
}

func TestAutoSaverErrorLeavesDocumentIntact(t *testing.T) {
	saver := newRecordingSaver()
	saver.err = fmt.Errorf("storage unavailable")
	var gotErr error
	as := NewAutoSaver(saver.fn, AutoSaverOptions{
		QuietPeriod: time.Hour,
		OnSaveError: func(err error) { gotErr = err },
	})
	defer as.Close()

	data := sampleQuotation()
	before := data.Fingerprint()
	_, err := as.TriggerNow(context.Background(), data)
	require.Error(t, err)

	assert.Equal(t, SaveError, as.Status())
	assert.Equal(t, before, data.Fingerprint(), "failure must not corrupt the document")
	_, ok := as.CurrentID()
	assert.False(t, ok, "no identifier is pinned on failure")
	assert.EqualError(t, gotErr, "storage unavailable")

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, saver.callCount(), "no automatic retry")

	// The caller decides to retry.
	saver.err = nil
	_, err = as.TriggerNow(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, SaveSaved, as.Status())
}

func TestAutoSaverBaselineUpdatesOnSuccess(t *testing.T) {
	saver := newRecordingSaver()
	var baseline Baseline
	as := NewAutoSaver(saver.fn, AutoSaverOptions{QuietPeriod: time.Hour, Baseline: &baseline})
	defer as.Close()

	data := sampleQuotation()
	baseline.Capture(data)
	data.ProjectTitle = "Edited"
	require.True(t, baseline.IsDirty(data))

	_, err := as.TriggerNow(context.Background(), data)
	require.NoError(t, err)

	assert.False(t, baseline.IsDirty(data), "save completion resets the dirty flag")
	assert.False(t, as.LastSavedAt().IsZero())

	data.Notes = append(data.Notes, "follow up re: deposit")
	assert.True(t, baseline.IsDirty(data), "any later mutation is dirty again")
}

func TestAutoSaverCloseCancelsPending(t *testing.T) {
	saver := newRecordingSaver()
	as := NewAutoSaver(saver.fn, AutoSaverOptions{QuietPeriod: 20 * time.Millisecond})

	as.Schedule(sampleQuotation())
	as.Close()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 0, saver.callCount(), "a cancelled timer must not fire into torn-down state")

	_, err := as.TriggerNow(context.Background(), sampleQuotation())
	assert.ErrorIs(t, err, ErrSaverClosed)

	as.Close() // idempotent
}

func TestAutoSaverInFlightSaveCompletesAfterClose(t *testing.T) {
	saver := newRecordingSaver()
	saver.delay = 50 * time.Millisecond
	var succeeded atomic.Int32
	as := NewAutoSaver(saver.fn, AutoSaverOptions{
		QuietPeriod:   5 * time.Millisecond,
		OnSaveSuccess: func(uuid.UUID) { succeeded.Add(1) },
	})

	as.Schedule(sampleQuotation())
	waitFor(t, func() bool { return atomic.LoadInt32(&saver.inFlight) == 1 }, "save in flight")
	as.Close()
	as.Flush()

	// The write ran to completion (no forced abort mid-write) but its
	// result was discarded.
	assert.Equal(t, 1, saver.callCount())
	assert.Equal(t, int32(0), succeeded.Load())
	_, ok := as.CurrentID()
	assert.False(t, ok)
}

func TestAutoSaverCallbacks(t *testing.T) {
	saver := newRecordingSaver()
	var started, saved atomic.Int32
	as := NewAutoSaver(saver.fn, AutoSaverOptions{
		QuietPeriod:   time.Hour,
		OnSaveStart:   func() { started.Add(1) },
		OnSaveSuccess: func(uuid.UUID) { saved.Add(1) },
	})
	defer as.Close()

	_, err := as.TriggerNow(context.Background(), sampleQuotation())
	require.NoError(t, err)
	assert.Equal(t, int32(1), started.Load())
	assert.Equal(t, int32(1), saved.Load())
}

func TestAutoSaverResumeExistingDraft(t *testing.T) {
	saver := newRecordingSaver()
	as := NewAutoSaver(saver.fn, AutoSaverOptions{QuietPeriod: time.Hour})
	defer as.Close()

	existing := uuid.New()
	as.SetCurrentID(existing)

	_, err := as.TriggerNow(context.Background(), sampleQuotation())
	require.NoError(t, err)
	require.NotNil(t, saver.call(0).id)
	assert.Equal(t, existing, *saver.call(0).id, "a resumed draft updates its record from the first save")
}
