package repo

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrUnavailable is returned by Conn.DB when no handle could be opened.
var ErrUnavailable = errors.New("database unavailable")

// pingTimeout bounds the liveness check independently of the caller.
const pingTimeout = 2 * time.Second

// Opener produces a ready-to-use handle.
type Opener func() (*gorm.DB, error)

// Conn owns a lazily opened database handle. The handle is pinged before
// each use and replaced only once its pool has been closed; transient
// connection errors are left to database/sql, which redials on its own. A
// failed open is retried on the next call instead of failing the process.
type Conn struct {
	mu   sync.RWMutex
	open Opener
	db   *gorm.DB
	dial singleflight.Group
}

// NewConn returns a Conn that opens handles with open. Nothing is dialed
// until the first call to DB.
func NewConn(open Opener) *Conn {
	return &Conn{open: open}
}

// DB returns a live handle, opening or replacing one as needed. Errors wrap
// ErrUnavailable. A cancelled ctx never affects the shared handle.
func (c *Conn) DB(ctx context.Context) (*gorm.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	c.mu.RLock()
	cur := c.db
	c.mu.RUnlock()

	if cur != nil {
		err := ping(ctx, cur)
		if err == nil {
			return cur, nil
		}
		if !isClosed(err) {
			return nil, errors.Join(ErrUnavailable, err)
		}
		log.Warn().Err(err).Msg("db_handle_closed_reopening")
	}

	// Concurrent callers share one dial instead of queueing behind it.
	v, err, _ := c.dial.Do("open", func() (any, error) {
		c.mu.RLock()
		latest := c.db
		c.mu.RUnlock()
		if latest != nil && latest != cur {
			return latest, nil
		}

		db, err := c.open()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.db = db
		c.mu.Unlock()
		return db, nil
	})
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return v.(*gorm.DB), nil
}

// Close releases the current handle, if any.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	c.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pingTimeout)
	defer cancel()
	return sqlDB.PingContext(pctx)
}

// isClosed matches database/sql's unexported errDBClosed, the only state a
// pool cannot recover from by itself.
func isClosed(err error) bool {
	return err != nil && strings.Contains(err.Error(), "sql: database is closed")
}
