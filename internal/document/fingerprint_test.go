package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuotation() *QuotationData {
	data := NewQuotationData("#QUO000001", time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	data.ProjectTitle = "Office renovation"
	data.From = Party{Name: "Acme Sdn Bhd", Email: "billing@acme.example"}
	data.To = Party{Name: "Beta Holdings", Email: "ap@beta.example"}
	data.Items = []LineItem{
		{ID: "1", Description: "Design work", UnitPrice: 100, Quantity: 2, Unit: "Day"},
	}
	data.Terms = []string{"Valid for 30 days."}
	return data
}

func TestFingerprintDeterministic(t *testing.T) {
	data := sampleQuotation()
	assert.Equal(t, data.Fingerprint(), data.Fingerprint())
	assert.Equal(t, data.Fingerprint(), data.Clone().Fingerprint())
}

func TestFingerprintChangesWithEditableFields(t *testing.T) {
	base := sampleQuotation().Fingerprint()

	edited := sampleQuotation()
	edited.ProjectTitle = "Warehouse renovation"
	assert.NotEqual(t, base, edited.Fingerprint())

	edited = sampleQuotation()
	edited.Items[0].Quantity = 3
	assert.NotEqual(t, base, edited.Fingerprint())

	edited = sampleQuotation()
	edited.BankInfoID = "b2f4c9a0-0000-0000-0000-000000000000"
	assert.NotEqual(t, base, edited.Fingerprint(),
		"soft-reference ids participate in change detection")
}

func TestBaselineDirtyTracking(t *testing.T) {
	var baseline Baseline
	data := sampleQuotation()

	// Brand-new document: nothing captured yet, so the stabilizing form
	// must not flag as dirty.
	assert.False(t, baseline.IsDirty(data))
	assert.False(t, baseline.Captured())

	// Async defaults land (the default company), then the baseline is
	// captured once fields have stabilized.
	data.From.Address = "12 Jalan Example, Kuala Lumpur"
	baseline.Capture(data)
	assert.False(t, baseline.IsDirty(data))

	// A real edit after capture is dirty.
	data.Items[0].Description = "Design and build"
	assert.True(t, baseline.IsDirty(data))

	// Capturing after a save marks it clean again.
	baseline.Capture(data)
	assert.False(t, baseline.IsDirty(data))
}

func TestBaselineCaptureRace(t *testing.T) {
	// Capturing before defaults are applied produces a false dirty flag
	// the moment the defaults land; the capture-after-stabilize ordering
	// avoids it.
	var early Baseline
	data := NewQuotationData("#QUO000002", time.Now())
	early.Capture(data)
	data.From = Party{Name: "Acme Sdn Bhd"} // async default company arrives
	assert.True(t, early.IsDirty(data), "early capture misreports defaults as edits")

	var settled Baseline
	fresh := NewQuotationData("#QUO000002", time.Now())
	fresh.From = Party{Name: "Acme Sdn Bhd"}
	settled.Capture(fresh)
	assert.False(t, settled.IsDirty(fresh))
}

func TestBaselineReset(t *testing.T) {
	var baseline Baseline
	data := sampleQuotation()
	baseline.Capture(data)
	require.True(t, baseline.Captured())

	baseline.Reset()
	assert.False(t, baseline.Captured())
	assert.False(t, baseline.IsDirty(data))
}
