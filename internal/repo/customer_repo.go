// This file provides repository functions for the CustomerRecord model.
//
// Functions follow the "thin repository" approach used across the package:
// no business logic, only persistence and query composition.
//
//   - CreateCustomerRecord(ctx, db, phone, name, note) -> *domain.CustomerRecord, error
//     Appends a row with a UUID primary key and UTC timestamp.
//
//   - LatestCustomerName(ctx, db, phone) -> string, error
//     Returns the name on the newest row for phone that has one, or
//     ErrNotFound.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/lead-webhook/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateCustomerRecord appends a customer record. An empty name is stored
// as NULL so it never shadows an earlier named row.
func CreateCustomerRecord(ctx context.Context, db *gorm.DB, phone, name, note string) (*domain.CustomerRecord, error) {
	r := &domain.CustomerRecord{
		ID:             uuid.NewString(),
		Phone:          phone,
		InitialMessage: note,
		CreatedAt:      time.Now().UTC(),
	}
	if n := strings.TrimSpace(name); n != "" {
		r.Name = &n
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// LatestCustomerName returns the most recently recorded name for phone.
// An empty phone, or a phone with no named rows, yields ErrNotFound.
func LatestCustomerName(ctx context.Context, db *gorm.DB, phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrNotFound
	}
	var r domain.CustomerRecord
	err := db.WithContext(ctx).
		Where("phone = ? AND name IS NOT NULL AND name <> ''", phone).
		Order("created_at DESC").
		Take(&r).Error
	if err != nil {
		return "", err
	}
	return *r.Name, nil
}
