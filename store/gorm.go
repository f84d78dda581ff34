package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/meenmo/zerocurve/curve"
	"github.com/meenmo/zerocurve/marketdata"
)

// CurveModel is the curves table row.
type CurveModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:128;index"`
	Method       string `gorm:"size:32"`
	DepositRate  float64
	DepositTenor float64
	CreatedAt    time.Time     `gorm:"index"`
	Pillars      []PillarModel `gorm:"foreignKey:CurveID;constraint:OnDelete:CASCADE"`
	Quotes       []QuoteModel  `gorm:"foreignKey:CurveID;constraint:OnDelete:CASCADE"`
}

func (CurveModel) TableName() string { return "curves" }

// PillarModel is one (time, zero rate) row of a curve.
type PillarModel struct {
	ID       uint   `gorm:"primaryKey"`
	CurveID  string `gorm:"size:36;index"`
	Seq      int
	Time     float64
	ZeroRate float64
}

func (PillarModel) TableName() string { return "curve_pillars" }

// QuoteModel is one input quote of a curve.
type QuoteModel struct {
	ID       uint   `gorm:"primaryKey"`
	CurveID  string `gorm:"size:36;index"`
	Seq      int
	Maturity float64
	Rate     float64
}

func (QuoteModel) TableName() string { return "curve_quotes" }

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the database named by driver and migrates the schema. For sqlite dsn is
// a file path; for postgres it is a libpq connection string or URL.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("store.Open: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store.Open %s: %w", driver, err)
	}
	if err := db.AutoMigrate(&CurveModel{}, &PillarModel{}, &QuoteModel{}); err != nil {
		return nil, fmt.Errorf("store.Open %s: migrate: %w", driver, err)
	}
	return db, nil
}

// OpenSQLite opens (or creates) the sqlite database at path.
func OpenSQLite(path string) (*gorm.DB, error) {
	return Open(DriverSQLite, path)
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	if sqlDB, err := db.DB(); err == nil {
		return sqlDB.Close()
	}
	if c, ok := db.ConnPool.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// GormRepository is a Repository over any gorm dialect.
type GormRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db, now: time.Now}
}

// Save inserts snap, assigning an id and creation time when unset.
func (r *GormRepository) Save(ctx context.Context, snap *Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = r.now().UTC()
	}
	m := toModel(snap)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("store.Save: %w", err)
	}
	return nil
}

func (r *GormRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	var m CurveModel
	err := r.withChildren(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("store.Get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store.Get %s: %w", id, err)
	}
	return fromModel(m), nil
}

// List returns the most recent snapshots first. limit <= 0 means no limit.
func (r *GormRepository) List(ctx context.Context, limit int) ([]Snapshot, error) {
	q := r.withChildren(ctx).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var models []CurveModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("store.List: %w", err)
	}
	out := make([]Snapshot, 0, len(models))
	for _, m := range models {
		out = append(out, *fromModel(m))
	}
	return out, nil
}

func (r *GormRepository) withChildren(ctx context.Context) *gorm.DB {
	bySeq := func(db *gorm.DB) *gorm.DB { return db.Order("seq") }
	return r.db.WithContext(ctx).Preload("Pillars", bySeq).Preload("Quotes", bySeq)
}

func toModel(s *Snapshot) CurveModel {
	m := CurveModel{
		ID:           s.ID,
		Name:         s.Name,
		Method:       s.Method,
		DepositRate:  s.Deposit.Rate,
		DepositTenor: s.Deposit.Tenor,
		CreatedAt:    s.CreatedAt,
		Pillars:      make([]PillarModel, len(s.Pillars)),
		Quotes:       make([]QuoteModel, len(s.Quotes)),
	}
	for i, p := range s.Pillars {
		m.Pillars[i] = PillarModel{CurveID: s.ID, Seq: i, Time: p.Time, ZeroRate: p.ZeroRate}
	}
	for i, q := range s.Quotes {
		m.Quotes[i] = QuoteModel{CurveID: s.ID, Seq: i, Maturity: q.Maturity, Rate: q.Rate}
	}
	return m
}

func fromModel(m CurveModel) *Snapshot {
	s := &Snapshot{
		ID:        m.ID,
		Name:      m.Name,
		Method:    m.Method,
		CreatedAt: m.CreatedAt,
		Deposit:   marketdata.Deposit{Rate: m.DepositRate, Tenor: m.DepositTenor},
		Pillars:   make([]curve.Pillar, len(m.Pillars)),
		Quotes:    make([]marketdata.QuoteRow, len(m.Quotes)),
	}
	for i, p := range m.Pillars {
		s.Pillars[i] = curve.Pillar{Time: p.Time, ZeroRate: p.ZeroRate}
	}
	for i, q := range m.Quotes {
		s.Quotes[i] = marketdata.QuoteRow{Maturity: q.Maturity, Rate: q.Rate}
	}
	return s
}
