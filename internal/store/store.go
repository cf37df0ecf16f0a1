package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"weighbridge-backend/internal/model"
)

// ErrNotFound is returned when a referenced row does not exist. For
// CloseWeighing this is also how the loser of a concurrent close learns that
// the winner already consumed the pending record.
var ErrNotFound = errors.New("store: record not found")

// Store defines the interface for all database operations.
type Store interface {
	InsertPending(ctx context.Context, p *model.PendingWeighing) error
	FetchPending(ctx context.Context, id int64) (model.PendingWeighing, error)
	ListPending(ctx context.Context) ([]model.PendingWeighing, error)
	CloseWeighing(ctx context.Context, pendingID int64, t *model.Ticket) error
	FetchTicket(ctx context.Context, id int64) (model.Ticket, error)
	ListTickets(ctx context.Context) ([]model.Ticket, error)
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for health checks and tests.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) InsertPending(ctx context.Context, p *model.PendingWeighing) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to insert pending weighing: %w", err)
	}
	return nil
}

func (s *gormStore) FetchPending(ctx context.Context, id int64) (model.PendingWeighing, error) {
	var p model.PendingWeighing
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PendingWeighing{}, ErrNotFound
	}
	if err != nil {
		return model.PendingWeighing{}, fmt.Errorf("failed to fetch pending weighing %d: %w", id, err)
	}
	return p, nil
}

func (s *gormStore) ListPending(ctx context.Context) ([]model.PendingWeighing, error) {
	var rows []model.PendingWeighing
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending weighings: %w", err)
	}
	return rows, nil
}

// CloseWeighing atomically converts a pending weighing into a ticket: the
// pending row is deleted and the ticket row inserted inside one transaction.
// The delete runs first and is conditioned on the row still existing; zero
// rows affected means a concurrent close already won, so the whole
// transaction rolls back with ErrNotFound and no ticket is created.
func (s *gormStore) CloseWeighing(ctx context.Context, pendingID int64, t *model.Ticket) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.PendingWeighing{}, pendingID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete pending weighing %d: %w", pendingID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("failed to insert ticket: %w", err)
		}
		return nil
	})
}

func (s *gormStore) FetchTicket(ctx context.Context, id int64) (model.Ticket, error) {
	var t model.Ticket
	err := s.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Ticket{}, ErrNotFound
	}
	if err != nil {
		return model.Ticket{}, fmt.Errorf("failed to fetch ticket %d: %w", id, err)
	}
	return t, nil
}

func (s *gormStore) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	var rows []model.Ticket
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return rows, nil
}
