package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/ironsworn-play/internal/character"
	"github.com/DoyleJ11/ironsworn-play/internal/protocol"
)

// sessionRow is the table layout. Character and journal are stored as JSON
// columns.
type sessionRow struct {
	ID        string              `gorm:"primaryKey;size:36"`
	Name      string              `gorm:"not null"`
	Phase     string              `gorm:"size:16;not null"`
	Character character.Character `gorm:"serializer:json"`
	Journal   []protocol.Block    `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (sessionRow) TableName() string { return "play_sessions" }

func toRow(s Session) sessionRow {
	return sessionRow{
		ID:        s.ID,
		Name:      s.Name,
		Phase:     s.Phase,
		Character: s.Character,
		Journal:   s.Journal,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r sessionRow) session() Session {
	s := Session{
		ID:        r.ID,
		Name:      r.Name,
		Phase:     r.Phase,
		Character: r.Character,
		Journal:   r.Journal,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if s.Journal == nil {
		s.Journal = []protocol.Block{}
	}
	if s.Character.Vows == nil {
		s.Character.Vows = []character.Vow{}
	}
	return s
}

// Postgres is a Store backed by gorm.
type Postgres struct {
	db *gorm.DB
}

// OpenPostgres connects to dsn and migrates the sessions table.
func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewPostgres(db)
}

func NewPostgres(db *gorm.DB) (*Postgres, error) {
	if err := db.AutoMigrate(&sessionRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Create(ctx context.Context, name string) (Session, error) {
	s := NewSession(name, time.Now().UTC())
	row := toRow(s)
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return row.session(), nil
}

func (p *Postgres) Get(ctx context.Context, id string) (Session, error) {
	var row sessionRow
	err := p.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return row.session(), nil
}

func (p *Postgres) Save(ctx context.Context, s Session) error {
	row := toRow(s)
	res := p.db.WithContext(ctx).Model(&sessionRow{ID: s.ID}).
		Select("name", "phase", "character", "journal", "updated_at").
		Updates(&row)
	if res.Error != nil {
		return fmt.Errorf("save session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	res := p.db.WithContext(ctx).Delete(&sessionRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) List(ctx context.Context) ([]Session, error) {
	var rows []sessionRow
	if err := p.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]Session, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.session())
	}
	return out, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
