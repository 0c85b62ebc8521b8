package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/eatwise/eatwise-backend/pkg/config"
	"github.com/eatwise/eatwise-backend/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Source hands out the process-wide store handle.
type Source interface {
	Conn(ctx context.Context) (*gorm.DB, error)
	Invalidate(err error) bool
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Opener opens and verifies a fresh handle.
type Opener func(ctx context.Context) (*gorm.DB, error)

// Connector lazily opens a single GORM handle and caches it for the lifetime of
// the process. A failed open is never cached; the next caller retries.
type Connector struct {
	mu     sync.Mutex
	conn   *gorm.DB
	open   Opener
	logg   *logger.Logger
	static bool
}

// NewConnector builds a Connector for the configured Postgres DSN. No
// connection is attempted until the first Conn call.
func NewConnector(cfg config.DBConfig, logg *logger.Logger) (*Connector, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	return NewConnectorWithOpener(postgresOpener(cfg), logg), nil
}

func NewConnectorWithOpener(open Opener, logg *logger.Logger) *Connector {
	return &Connector{open: open, logg: logg}
}

// Static wraps an already-open handle. Invalidate never drops it.
func Static(conn *gorm.DB) *Connector {
	c := &Connector{conn: conn, static: true}
	c.open = func(context.Context) (*gorm.DB, error) {
		return conn, nil
	}
	return c
}

func (c *Connector) Conn(ctx context.Context) (*gorm.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn, nil
	}

	conn, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	if c.logg != nil {
		c.logg.Info(ctx, "database connection established")
	}
	return conn, nil
}

// Invalidate drops the cached handle when err indicates the connection itself
// is gone. It reports whether the handle was dropped.
func (c *Connector) Invalidate(err error) bool {
	if c.static || !IsConnectivityError(err) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return false
	}
	if sqlDB, dbErr := c.conn.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	c.conn = nil
	if c.logg != nil {
		c.logg.Warn(context.Background(), "database connection invalidated")
	}
	return true
}

// Ping verifies the datasource is reachable, opening it if needed.
func (c *Connector) Ping(ctx context.Context) error {
	conn, err := c.Conn(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		c.Invalidate(err)
		return err
	}
	return nil
}

// Close shuts down the pooled connections.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	sqlDB, err := c.conn.DB()
	c.conn = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx executes fn inside a transaction, rolling back on error/panic.
func (c *Connector) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	conn, err := c.Conn(ctx)
	if err != nil {
		return err
	}

	tx := conn.WithContext(ctx).Begin()
	if tx.Error != nil {
		c.Invalidate(tx.Error)
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		c.Invalidate(err)
		return err
	}

	return tx.Commit().Error
}

// IsConnectivityError reports whether err means the connection is unusable,
// as opposed to a query or constraint failure.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return strings.Contains(err.Error(), "sql: database is closed")
}

func postgresOpener(cfg config.DBConfig) Opener {
	return func(ctx context.Context) (*gorm.DB, error) {
		dialector := postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})

		gormLogger := gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		)

		conn, err := gorm.Open(dialector, &gorm.Config{
			Logger:                 gormLogger,
			SkipDefaultTransaction: true,
		})
		if err != nil {
			return nil, fmt.Errorf("opening db connection: %w", err)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return nil, fmt.Errorf("getting sql db handle: %w", err)
		}
		applyPoolSettings(sqlDB, cfg)

		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		}
		return conn, nil
	}
}

func applyPoolSettings(sqlDB *sql.DB, cfg config.DBConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}
