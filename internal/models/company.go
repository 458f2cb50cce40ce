package models

import (
	"time"

	"github.com/google/uuid"
)

// CompanyInfo is a reusable issuer profile. IsDefault marks the profile
// pre-selected when a new document is started.
type CompanyInfo struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	UserID             uuid.UUID `json:"user_id" db:"user_id"`
	Name               string    `json:"name" db:"name"`
	RegistrationNumber string    `json:"registration_number" db:"registration_number"`
	Address            string    `json:"address" db:"address"`
	Email              string    `json:"email" db:"email"`
	Phone              string    `json:"phone" db:"phone"`
	LogoURL            string    `json:"logo_url" db:"logo_url"`
	IsDefault          bool      `json:"is_default" db:"is_default"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}
