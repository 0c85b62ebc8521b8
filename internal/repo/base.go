package repo

import (
	"context"
	"fmt"

	"github.com/eatwise/eatwise-backend/pkg/db"
	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	src db.Source
}

// NewBase constructs a Base repository backed by the cached store handle.
func NewBase(src db.Source) (Base, error) {
	if src == nil {
		return Base{}, fmt.Errorf("db source required")
	}
	return Base{src: src}, nil
}

// Run acquires the store handle, binds ctx and executes fn. Connectivity
// failures drop the cached handle so the next request reconnects.
func (b Base) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	conn, err := b.src.Conn(ctx)
	if err != nil {
		return err
	}
	if ctx != nil {
		conn = conn.WithContext(ctx)
	}
	if err := fn(conn); err != nil {
		b.src.Invalidate(err)
		return err
	}
	return nil
}
