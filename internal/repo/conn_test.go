package repo

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/lead-webhook/internal/config"
)

func TestConn_LazyOpenAndReuse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	opens := 0
	c := NewConn(func() (*gorm.DB, error) {
		opens++
		return Open(config.DBConfig{Driver: "sqlite", Path: path})
	})
	t.Cleanup(func() { _ = c.Close() })

	if opens != 0 {
		t.Fatalf("NewConn must not dial")
	}
	ctx := context.Background()
	db1, err := c.DB(ctx)
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	db2, err := c.DB(ctx)
	if err != nil {
		t.Fatalf("DB again: %v", err)
	}
	if db1 != db2 || opens != 1 {
		t.Fatalf("healthy handle should be reused; opens=%d", opens)
	}
}

func TestConn_ReopensStaleHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	opens := 0
	c := NewConn(func() (*gorm.DB, error) {
		opens++
		return Open(config.DBConfig{Driver: "sqlite", Path: path})
	})
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	db, err := c.DB(ctx)
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	sqlDB, _ := db.DB()
	_ = sqlDB.Close()

	if _, err := c.DB(ctx); err != nil {
		t.Fatalf("DB after close: %v", err)
	}
	if opens != 2 {
		t.Fatalf("stale handle should trigger a reopen; opens=%d", opens)
	}
}

func TestConn_OpenFailureIsRetried(t *testing.T) {
	boom := errors.New("dial refused")
	fail := true
	c := NewConn(func() (*gorm.DB, error) {
		if fail {
			return nil, boom
		}
		return Open(config.DBConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "ok.db")})
	})
	t.Cleanup(func() { _ = c.Close() })

	_, err := c.DB(context.Background())
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, boom) {
		t.Fatalf("want ErrUnavailable wrapping cause, got %v", err)
	}
	fail = false
	if _, err := c.DB(context.Background()); err != nil {
		t.Fatalf("second attempt should succeed: %v", err)
	}
}

func TestConn_CloseWithoutOpen(t *testing.T) {
	if err := NewConn(nil).Close(); err != nil {
		t.Fatalf("Close on unopened conn: %v", err)
	}
}

func TestConn_CancelledCallerKeepsSharedHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	opens := 0
	c := NewConn(func() (*gorm.DB, error) {
		opens++
		return Open(config.DBConfig{Driver: "sqlite", Path: path})
	})
	t.Cleanup(func() { _ = c.Close() })

	held, err := c.DB(context.Background())
	if err != nil {
		t.Fatalf("DB: %v", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.DB(cancelled); !errors.Is(err, ErrUnavailable) || !errors.Is(err, context.Canceled) {
		t.Fatalf("want ErrUnavailable wrapping context.Canceled, got %v", err)
	}
	if opens != 1 {
		t.Fatalf("cancelled caller must not reopen; opens=%d", opens)
	}

	if _, err := CreateCustomerRecord(context.Background(), held, "+5511987654321", "Maria", ""); err != nil {
		t.Fatalf("held handle unusable: %v", err)
	}
	if name, err := LatestCustomerName(context.Background(), held, "+5511987654321"); err != nil || name != "Maria" {
		t.Fatalf("LatestCustomerName on held handle = %q, %v", name, err)
	}
}

func TestConn_ConcurrentCallersShareOneDial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	var opens atomic.Int32
	c := NewConn(func() (*gorm.DB, error) {
		opens.Add(1)
		return Open(config.DBConfig{Driver: "sqlite", Path: path})
	})
	t.Cleanup(func() { _ = c.Close() })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.DB(context.Background()); err != nil {
				t.Errorf("DB: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := opens.Load(); got != 1 {
		t.Fatalf("opens=%d; want 1", got)
	}
}
