// Package domain defines the persistence model for customer records and the
// value types exchanged with the dialogue platform and the lead collaborators.
package domain

import "time"

// CustomerRecord maps a phone number to the display name the customer gave
// and the message that introduced it. Rows are append-only: every name
// confirmation creates a new row and readers take the newest one.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Phone: normalized identifier (e.g. "+5511987654321"); indexed together
//     with CreatedAt for newest-first lookups.
//   - Name: display name; nullable so rows without a name are never chosen.
//   - InitialMessage: free-text note recorded with the capture.
//   - CreatedAt: capture timestamp managed by GORM.
type CustomerRecord struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	Phone          string    `json:"phone"           gorm:"type:varchar(32);not null;index:idx_customer_phone_created,priority:1"`
	Name           *string   `json:"name,omitempty"  gorm:"type:varchar(255)"`
	InitialMessage string    `json:"initial_message" gorm:"type:text;not null;default:''"`
	CreatedAt      time.Time `json:"created_at"      gorm:"not null;index:idx_customer_phone_created,priority:2"`
}

// TableName returns the database table name for CustomerRecord.
func (CustomerRecord) TableName() string { return "customer_records" }
