package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"quotabill/internal/document"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB creates a pooled connection for testing
func SetupTestDB(t *testing.T, connString string) *TestDB {
	t.Helper()

	if connString == "" {
		connString = os.Getenv("TEST_DATABASE_URL")
		if connString == "" {
			connString = "host=localhost port=5432 user=postgres password=postgres dbname=quotabill_test sslmode=disable"
		}
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestUser creates a test user for testing
func SetupTestUser(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	query := `
		INSERT INTO users (id, email, display_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (email) DO NOTHING
	`
	email := userID.String()[:8] + "@example.test"
	_, err := db.Pool.Exec(context.Background(), query, userID, email, "Test User", "active", time.Now())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// SampleQuotationData builds a small but complete quotation payload with
// totals already consistent, so tests can persist it without recomputing.
func SampleQuotationData() *document.QuotationData {
	return &document.QuotationData{
		QuotationNumber: "#QUO000001",
		Date:            "2026-08-01",
		ValidUntil:      "2026-08-31",
		ProjectTitle:    "Office renovation",
		From: document.Party{
			Name:    "Acme Builders Sdn Bhd",
			Address: "12 Jalan Contoh, Kuala Lumpur",
			Email:   "hello@acme.test",
			Phone:   "+60 12-345 6789",
		},
		To: document.Party{
			Name:    "Widget Trading",
			Address: "88 Jalan Pelanggan, Penang",
			Email:   "accounts@widget.test",
		},
		Items: []document.LineItem{
			{ID: uuid.NewString(), Description: "Site survey", UnitPrice: 500, Quantity: 1, Unit: "job", LineTotal: 500},
			{ID: uuid.NewString(), Description: "Paint work", UnitPrice: 25, Quantity: 40, Unit: "sqm", LineTotal: 1000},
		},
		Subtotal: 1500,
		Discount: 0,
		Tax:      0,
		Shipping: 0,
		Total:    1500,
		Terms:    []string{"Valid for 30 days"},
		Notes:    []string{"Access via rear entrance"},
		BankInfo: document.BankInfo{
			BankName:      "Maybank",
			AccountNumber: "512345678901",
			AccountName:   "Acme Builders Sdn Bhd",
		},
	}
}
