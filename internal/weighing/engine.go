package weighing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"weighbridge-backend/internal/model"
	"weighbridge-backend/internal/parse"
	"weighbridge-backend/internal/store"
)

// WeightSource is the live scale reading consumed by the engine. Satisfied
// by *scale.Reader.
type WeightSource interface {
	CurrentWeight() string
	IsAlive() bool
}

// Service enforces the two-phase weighing lifecycle. It is the only
// component that creates or deletes pending weighings or creates tickets,
// and it never caches rows across calls.
type Service struct {
	store store.Store
	scale WeightSource
}

// NewService creates the workflow engine.
func NewService(st store.Store, sc WeightSource) *Service {
	return &Service{store: st, scale: sc}
}

// OpenRequest carries the first-stage input. Weight is the raw operator
// entry; comma decimal separators are accepted.
type OpenRequest struct {
	Flow         model.WeighFlow
	Plate        string
	TrailerPlate string
	Driver       string
	Origin       string
	Destination  string
	CargoType    string
	Weight       string
}

// CloseRequest carries the second-stage input. CargoType is required only
// for the tare-first flow, where the cargo is not known until exit.
type CloseRequest struct {
	Weight    string
	CargoType string
}

// Open validates the first-stage input and creates a pending weighing.
// Gross-first requires the cargo type up front; tare-first leaves it empty
// until closing. The store is not touched on validation failure.
func (s *Service) Open(ctx context.Context, req OpenRequest) (model.PendingWeighing, error) {
	if !req.Flow.Valid() {
		return model.PendingWeighing{}, invalid("flow", "must be gross_first or tare_first")
	}

	plate := parse.NormalizePlate(req.Plate)
	if plate == "" {
		return model.PendingWeighing{}, invalid("plate", "vehicle plate is required")
	}
	driver := strings.TrimSpace(req.Driver)
	if driver == "" {
		return model.PendingWeighing{}, invalid("driver", "driver name is required")
	}

	weight, err := parseWeight(req.Weight)
	if err != nil {
		return model.PendingWeighing{}, err
	}

	cargo := strings.TrimSpace(req.CargoType)
	if req.Flow == model.FlowGrossFirst {
		if cargo == "" {
			return model.PendingWeighing{}, invalid("cargo_type", "cargo type is required for the gross-first flow")
		}
	} else {
		// Supplied at closing instead.
		cargo = ""
	}

	pending := model.PendingWeighing{
		Flow:         req.Flow,
		Plate:        plate,
		TrailerPlate: parse.NormalizePlate(req.TrailerPlate),
		Driver:       driver,
		Origin:       strings.TrimSpace(req.Origin),
		Destination:  strings.TrimSpace(req.Destination),
		CargoType:    cargo,
		FirstWeight:  weight,
	}
	if err := s.store.InsertPending(ctx, &pending); err != nil {
		return model.PendingWeighing{}, &StoreError{Op: "open weighing", Err: err}
	}
	return pending, nil
}

// Close finalizes a pending weighing into a ticket. The second measurement
// completes whichever side the entry flow left open; gross must strictly
// exceed tare so the net is always positive. Ticket insert and pending
// delete happen in one store transaction.
func (s *Service) Close(ctx context.Context, pendingID int64, req CloseRequest) (model.Ticket, error) {
	pending, err := s.store.FetchPending(ctx, pendingID)
	if errors.Is(err, store.ErrNotFound) {
		return model.Ticket{}, &NotFoundError{ID: pendingID}
	}
	if err != nil {
		return model.Ticket{}, &StoreError{Op: "fetch pending weighing", Err: err}
	}

	second, err := parseWeight(req.Weight)
	if err != nil {
		return model.Ticket{}, err
	}

	var gross, tare decimal.Decimal
	cargo := pending.CargoType
	switch pending.Flow {
	case model.FlowGrossFirst:
		gross, tare = pending.FirstWeight, second
	case model.FlowTareFirst:
		gross, tare = second, pending.FirstWeight
		cargo = strings.TrimSpace(req.CargoType)
		if cargo == "" {
			return model.Ticket{}, invalid("cargo_type", "cargo type is required to close a tare-first weighing")
		}
	default:
		return model.Ticket{}, invalid("flow", "pending weighing has an unknown flow")
	}

	if !gross.GreaterThan(tare) {
		return model.Ticket{}, invalid("weight", "gross weight must be strictly greater than tare")
	}

	ticket := model.Ticket{
		IssuedAt:     time.Now().UTC(),
		Plate:        pending.Plate,
		TrailerPlate: pending.TrailerPlate,
		Driver:       pending.Driver,
		Origin:       pending.Origin,
		Destination:  pending.Destination,
		CargoType:    cargo,
		GrossWeight:  gross,
		TareWeight:   tare,
		NetWeight:    gross.Sub(tare),
	}
	err = s.store.CloseWeighing(ctx, pendingID, &ticket)
	if errors.Is(err, store.ErrNotFound) {
		return model.Ticket{}, &NotFoundError{ID: pendingID}
	}
	if err != nil {
		return model.Ticket{}, &StoreError{Op: "close weighing", Err: err}
	}
	return ticket, nil
}

// CaptureWeight returns the live scale reading, used to pre-fill a weight
// field instead of manual transcription.
func (s *Service) CaptureWeight() string {
	return s.scale.CurrentWeight()
}

// ScaleAlive reports whether the acquisition loop is still running.
func (s *Service) ScaleAlive() bool {
	return s.scale.IsAlive()
}

// ListPending returns open weighings, most recent first.
func (s *Service) ListPending(ctx context.Context) ([]model.PendingWeighing, error) {
	rows, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list pending weighings", Err: err}
	}
	return rows, nil
}

// ListTickets returns finalized tickets, most recent first.
func (s *Service) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	rows, err := s.store.ListTickets(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list tickets", Err: err}
	}
	return rows, nil
}

// GetTicket fetches one finalized ticket by its receipt number.
func (s *Service) GetTicket(ctx context.Context, id int64) (model.Ticket, error) {
	t, err := s.store.FetchTicket(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Ticket{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return model.Ticket{}, &StoreError{Op: "fetch ticket", Err: err}
	}
	return t, nil
}

// parseWeight parses an operator-entered weight. Comma decimal separators
// are normalized and the value must be strictly positive.
func parseWeight(raw string) (decimal.Decimal, error) {
	trimmed := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if trimmed == "" {
		return decimal.Zero, invalid("weight", "weight is required")
	}
	w, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, invalid("weight", "not a valid number")
	}
	if !w.IsPositive() {
		return decimal.Zero, invalid("weight", "must be strictly positive")
	}
	return w.Round(2), nil
}
