// Package store persists calibrated curves as immutable snapshots.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/meenmo/zerocurve/curve"
	"github.com/meenmo/zerocurve/marketdata"
)

// ErrNotFound is returned when no snapshot has the requested id.
var ErrNotFound = errors.New("curve snapshot not found")

// Snapshot is a calibrated curve together with the market data it was built from.
type Snapshot struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Method    string                `json:"method"`
	CreatedAt time.Time             `json:"created_at"`
	Deposit   marketdata.Deposit    `json:"deposit"`
	Quotes    []marketdata.QuoteRow `json:"quotes"`
	Pillars   []curve.Pillar        `json:"pillars"`
}

// Curve rebuilds the pillar store from the snapshot.
func (s *Snapshot) Curve() *curve.Curve {
	return curve.New(s.Pillars...)
}

// Repository stores and retrieves snapshots.
type Repository interface {
	Save(ctx context.Context, snap *Snapshot) error
	Get(ctx context.Context, id string) (*Snapshot, error)
	List(ctx context.Context, limit int) ([]Snapshot, error)
}
