package tables

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/pkg"
	"github.com/appetiteclub/comandas/pkg/enums/tablestatus"
)

var (
	ErrNotFound        = errors.New("table not found")
	ErrDuplicateNumber = errors.New("table number already in use")
	ErrInvalidZone     = errors.New("invalid zone")
	ErrInvalidTable    = errors.New("invalid table")
)

const tableEventSource = "table-store"

// Store owns the Table aggregate. Status writes are unconditional: the rules
// for when a table may change state live with the callers that know why.
type Store struct {
	repo      TableRepo
	publisher events.Publisher
	logger    apt.Logger
}

func NewStore(repo TableRepo, publisher events.Publisher, logger apt.Logger) *Store {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Store{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Store) Create(ctx context.Context, restaurantID, number, zone string) (*Table, error) {
	number = strings.TrimSpace(number)
	if restaurantID == "" || number == "" {
		return nil, fmt.Errorf("%w: restaurant and number are required", ErrInvalidTable)
	}
	if zone == "" {
		zone = ZoneIndoor
	}
	if zone != ZoneIndoor && zone != ZoneOutdoor {
		return nil, fmt.Errorf("%w: %s", ErrInvalidZone, zone)
	}

	existing, err := s.repo.GetByNumber(ctx, restaurantID, number)
	if err != nil {
		return nil, fmt.Errorf("cannot check table number: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNumber, number)
	}

	table := NewTable()
	table.RestaurantID = restaurantID
	table.Number = number
	table.Zone = zone
	table.BeforeCreate()

	if err := s.repo.Create(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot create table: %w", err)
	}

	s.publishStatusChanged(ctx, table, "", pkg.TableReasonCreated)
	return table, nil
}

func (s *Store) Get(ctx context.Context, restaurantID string, id uuid.UUID) (*Table, error) {
	table, err := s.repo.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get table: %w", err)
	}
	if table == nil {
		return nil, ErrNotFound
	}
	return table, nil
}

// List returns every table of the restaurant, or only those in status when
// one is given.
func (s *Store) List(ctx context.Context, restaurantID string, status *tablestatus.Status) ([]*Table, error) {
	if status != nil {
		return s.repo.ListByStatus(ctx, restaurantID, status.Code())
	}
	return s.repo.List(ctx, restaurantID)
}

// ResolveByNumber joins a human-facing table number to the stored table.
// It returns nil, nil when no table carries that number.
func (s *Store) ResolveByNumber(ctx context.Context, restaurantID, number string) (*Table, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, nil
	}
	table, err := s.repo.GetByNumber(ctx, restaurantID, number)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve table %s: %w", number, err)
	}
	return table, nil
}

// AppendOrder merges items into the table tab. It serves both the first
// order and follow-up orders of a seating.
func (s *Store) AppendOrder(ctx context.Context, restaurantID string, id uuid.UUID, customerName string, items []LineItem) (*Table, error) {
	table, err := s.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}

	table.AppendItems(items)
	if table.CustomerName == "" && customerName != "" {
		table.CustomerName = customerName
	}
	table.BeforeUpdate()

	if err := s.repo.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot save table: %w", err)
	}
	return table, nil
}

func (s *Store) SetStatus(ctx context.Context, restaurantID string, id uuid.UUID, status tablestatus.Status) (*Table, error) {
	table, err := s.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}

	previous := table.Status
	table.SetStatus(status)

	if err := s.repo.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot save table: %w", err)
	}

	if previous != table.Status {
		s.publishStatusChanged(ctx, table, previous, pkg.TableReasonStatus)
	}
	return table, nil
}

// Release frees the table and clears the tab. Releasing a free table is a
// no-op.
func (s *Store) Release(ctx context.Context, restaurantID string, id uuid.UUID) (*Table, error) {
	return s.release(ctx, restaurantID, id, pkg.TableReasonReleased)
}

// Move is the staff override: it releases the table whatever its state,
// even while the kitchen still holds orders for it.
func (s *Store) Move(ctx context.Context, restaurantID string, id uuid.UUID) (*Table, error) {
	table, err := s.release(ctx, restaurantID, id, pkg.TableReasonMoved)
	if err != nil {
		return nil, err
	}
	s.logger.Info("table released by manual override", "restaurant_id", restaurantID, "table_id", id.String(), "number", table.Number)
	return table, nil
}

func (s *Store) release(ctx context.Context, restaurantID string, id uuid.UUID, reason string) (*Table, error) {
	table, err := s.Get(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}

	if table.IsReleased() {
		return table, nil
	}

	previous := table.Status
	table.Release()

	if err := s.repo.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("cannot save table: %w", err)
	}

	s.publishStatusChanged(ctx, table, previous, reason)
	return table, nil
}

func (s *Store) publishStatusChanged(ctx context.Context, table *Table, previousStatus, reason string) {
	if s.publisher == nil || table == nil {
		return
	}

	event := pkg.TableStatusEvent{
		EventType:      pkg.EventTableStatusChanged,
		RestaurantID:   table.RestaurantID,
		TableID:        table.ID.String(),
		Number:         table.Number,
		Status:         table.Status,
		PreviousStatus: previousStatus,
		Reason:         reason,
		Source:         tableEventSource,
		Total:          table.Total,
		OccurredAt:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("cannot marshal table status event", "error", err, "table_id", table.ID.String())
		return
	}

	if err := s.publisher.Publish(ctx, pkg.TableStatusTopic, payload); err != nil {
		s.logger.Error("cannot publish table status event", "error", err, "table_id", table.ID.String())
	}
}
