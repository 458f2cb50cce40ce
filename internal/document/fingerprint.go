package document

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
)

// Payload is any document shape that can report a content fingerprint.
// QuotationData and InvoiceData both implement it.
type Payload interface {
	Fingerprint() string
}

// fingerprintOf hashes the canonical JSON serialization of a document.
// Struct fields marshal in declaration order, so the serialization is
// deterministic; only user-editable fields live on the data structs, never
// volatile ones like updatedAt.
func fingerprintOf(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		// Data structs contain only marshalable field types.
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Fingerprint returns an opaque digest of every user-editable field,
// including the soft-reference ids.
func (d *QuotationData) Fingerprint() string {
	return fingerprintOf(d)
}

// Fingerprint returns an opaque digest of every user-editable field.
func (d *InvoiceData) Fingerprint() string {
	return fingerprintOf(d)
}

// Baseline tracks the last-known-saved fingerprint of an open document and
// answers whether unsaved changes exist. Capture it at draft load, after a
// successful save, and when starting a new document once async defaults have
// been applied. Until the first capture the document is still stabilizing
// and reports clean.
type Baseline struct {
	mu       sync.Mutex
	fp       string
	captured bool
}

// Capture records the given document state as the clean reference point.
func (b *Baseline) Capture(doc Payload) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fp = doc.Fingerprint()
	b.captured = true
}

// IsDirty reports whether the document differs from the captured baseline.
func (b *Baseline) IsDirty(doc Payload) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.captured {
		return false
	}
	return doc.Fingerprint() != b.fp
}

// Captured reports whether a reference point exists yet.
func (b *Baseline) Captured() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.captured
}

// Reset clears the baseline, e.g. on an explicit start-new-document action
// before defaults have stabilized.
func (b *Baseline) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fp = ""
	b.captured = false
}
