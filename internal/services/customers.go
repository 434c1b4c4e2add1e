package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/lead-webhook/internal/repo"
)

// DBProvider hands out a live database handle.
type DBProvider interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

// CustomerService reads and appends customer records.
type CustomerService struct {
	Conn DBProvider
}

// LatestName returns the newest stored name for identifier. An unknown
// customer (including an empty identifier) yields "" and no error; errors
// wrap ErrCustomerStoreUnavailable.
func (s *CustomerService) LatestName(ctx context.Context, identifier string) (string, error) {
	tr := otel.Tracer("services/CustomerService")
	ctx, span := tr.Start(ctx, "LatestName",
		trace.WithAttributes(attribute.Bool("identifier.present", identifier != "")),
	)
	defer span.End()

	db, err := s.db(ctx)
	if err != nil {
		return "", err
	}
	name, err := repo.LatestCustomerName(ctx, db, identifier)
	if errors.Is(err, repo.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %v", ErrCustomerStoreUnavailable, err)
	}
	return name, nil
}

// SaveName appends a record for identifier with the given display name.
func (s *CustomerService) SaveName(ctx context.Context, identifier, name string) error {
	tr := otel.Tracer("services/CustomerService")
	ctx, span := tr.Start(ctx, "SaveName")
	defer span.End()

	db, err := s.db(ctx)
	if err != nil {
		return err
	}
	note := "O cliente informou o nome: " + name
	if _, err := repo.CreateCustomerRecord(ctx, db, identifier, name, note); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrCustomerStoreUnavailable, err)
	}
	return nil
}

func (s *CustomerService) db(ctx context.Context) (*gorm.DB, error) {
	if s == nil || s.Conn == nil {
		return nil, ErrCustomerStoreUnavailable
	}
	db, err := s.Conn.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCustomerStoreUnavailable, err)
	}
	return db, nil
}
