package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model carries the backend-assigned identity of a record. It is never part
// of conversion input.
type Model struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not supply one.
func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Identity returns the record identity.
func (m Model) Identity() Model {
	return m
}

// IdentityColumns are the columns excluded from business-field updates.
var IdentityColumns = []string{"id", "created_at", "updated_at"}
