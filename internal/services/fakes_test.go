package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/lead-webhook/internal/config"
	"github.com/tbourn/lead-webhook/internal/domain"
	"github.com/tbourn/lead-webhook/internal/repo"
)

type fakeStore struct {
	mu       sync.Mutex
	disabled bool
	status   int
	err      error
	leads    []domain.Lead
}

func (f *fakeStore) Enabled() bool { return !f.disabled }

func (f *fakeStore) CreateRecord(_ context.Context, lead domain.Lead) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leads = append(f.leads, lead)
	return f.status, f.err
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.leads)
}

type fakeNotifier struct {
	mu         sync.Mutex
	disabled   bool
	noTemplate domain.TripType
	err        error
	sent       []domain.Notification
}

func (f *fakeNotifier) Enabled() bool { return !f.disabled }

func (f *fakeNotifier) Supports(trip domain.TripType) bool { return trip != f.noTemplate }

func (f *fakeNotifier) Send(_ context.Context, n domain.Notification) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	if f.err != nil {
		return "", f.err
	}
	return "SM1", nil
}

func (f *fakeNotifier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeQueue struct {
	err    error
	bodies [][]byte
}

func (f *fakeQueue) Enqueue(_ context.Context, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.bodies = append(f.bodies, body)
	return "task-1", nil
}

type failingConn struct{ err error }

func (c failingConn) DB(context.Context) (*gorm.DB, error) { return nil, c.err }

func newCustomerService(t *testing.T) *CustomerService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "customers.db")
	conn := repo.NewConn(func() (*gorm.DB, error) {
		return repo.Open(config.DBConfig{Driver: "sqlite", Path: path})
	})
	t.Cleanup(func() { _ = conn.Close() })
	return &CustomerService{Conn: conn}
}
