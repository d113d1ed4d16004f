package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/SoundInkube/soundinkube-sub000/internal/calendar"
	"github.com/SoundInkube/soundinkube-sub000/internal/config"
	"github.com/SoundInkube/soundinkube-sub000/internal/events"
	"github.com/SoundInkube/soundinkube-sub000/internal/model"
	"github.com/SoundInkube/soundinkube-sub000/internal/repository"
)

type ResourceRegistry struct {
	resources repository.ResourceRepository
	opts      Options
}

func NewResourceRegistry(resources repository.ResourceRepository, opts Options) *ResourceRegistry {
	return &ResourceRegistry{resources: resources, opts: opts.withDefaults()}
}

type RegisterResourceInput struct {
	// ID is optional; a new one is generated when zero.
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Kind           model.ResourceKind
	Name           string
	Capacity       int
	UnitPriceCents int64
	Currency       string
	Attributes     model.ResourceAttributes
}

func (s *ResourceRegistry) normalize(in RegisterResourceInput) (*model.Resource, error) {
	if in.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner id is required", ErrInvalidArgument)
	}
	if !in.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, in.Kind)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if in.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", ErrInvalidArgument)
	}
	if in.Kind == model.ResourceKindTimeSlot && in.Capacity != 1 {
		return nil, fmt.Errorf("%w: time_slot resources are exclusive, capacity must be 1", ErrInvalidArgument)
	}
	if in.UnitPriceCents < 0 {
		return nil, fmt.Errorf("%w: unit price must not be negative", ErrInvalidArgument)
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.opts.DefaultCurrency
	}
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency %q", ErrInvalidArgument, in.Currency)
	}

	attrs := in.Attributes
	if attrs.Category == "" {
		attrs.Category = model.CategoryOther
	}
	if !attrs.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidArgument, attrs.Category)
	}
	if attrs.SessionCount < 0 {
		return nil, fmt.Errorf("%w: session count must not be negative", ErrInvalidArgument)
	}

	return &model.Resource{
		ID:             in.ID,
		Kind:           in.Kind,
		OwnerID:        in.OwnerID,
		Name:           name,
		Capacity:       in.Capacity,
		UnitPriceCents: in.UnitPriceCents,
		Currency:       currency,
		Active:         true,
		Attributes:     datatypes.NewJSONType(attrs),
	}, nil
}

func (s *ResourceRegistry) Register(ctx context.Context, in RegisterResourceInput) (*model.Resource, error) {
	res, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	createCtx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	err = s.resources.Create(createCtx, res)
	cancel()
	if err != nil {
		return nil, storeErr("create resource", err)
	}

	s.opts.Logger.Info("resource registered",
		"resource_id", res.ID, "owner_id", res.OwnerID, "kind", res.Kind, "capacity", res.Capacity)
	return res, nil
}

// Deactivate soft-deletes a resource. Only its owner or an admin may do it,
// and not while a reservation on it is active and not yet over at now.
func (s *ResourceRegistry) Deactivate(
	ctx context.Context,
	resourceID uuid.UUID,
	actor model.Actor,
	now time.Time,
) (*model.Resource, error) {
	if err := actor.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if now.IsZero() {
		now = s.opts.Clock()
	}

	res, err := s.Get(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if actor.ID != res.OwnerID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only the owner or an admin may deactivate", ErrForbidden)
	}
	if !res.Active {
		return res, nil
	}

	var out *model.Resource
	err = locked(ctx, s.opts, res.ID.String(), "deactivate resource", func(ctx context.Context) error {
		var err error
		out, err = s.resources.Deactivate(ctx, res.ID, actor, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.opts.Logger.Info("resource deactivated", "resource_id", out.ID, "actor_id", actor.ID)
	publish(ctx, s.opts, events.ForDeactivation(out, actor, now))
	return out, nil
}

func (s *ResourceRegistry) Get(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	return bounded(ctx, s.opts.StoreTimeout, "get resource", func(ctx context.Context) (*model.Resource, error) {
		return s.resources.GetByID(ctx, id)
	})
}

func (s *ResourceRegistry) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	page, pageSize int,
) (calendar.Page[model.Resource], error) {
	page, pageSize = calendar.NormalizePage(page, pageSize)

	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	items, total, err := s.resources.ListByOwner(ctx, ownerID, repository.ListOptions{Page: page, PageSize: pageSize})
	if err != nil {
		return calendar.Page[model.Resource]{}, storeErr("list resources", err)
	}
	return calendar.PageOf(items, page, pageSize, total), nil
}

// Seed registers catalogue entries that are not stored yet and returns how
// many were created. Entries with an id already present are skipped.
func (s *ResourceRegistry) Seed(ctx context.Context, cat *config.Catalog) (int, error) {
	created := 0
	for i, e := range cat.Resources {
		in, err := entryInput(e)
		if err != nil {
			return created, fmt.Errorf("catalog entry %d: %w", i, err)
		}

		if in.ID != uuid.Nil {
			_, err := s.Get(ctx, in.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, ErrResourceNotFound) {
				return created, fmt.Errorf("catalog entry %d: %w", i, err)
			}
		}

		if _, err := s.Register(ctx, in); err != nil {
			return created, fmt.Errorf("catalog entry %d (%s): %w", i, e.Name, err)
		}
		created++
	}
	return created, nil
}

func entryInput(e config.CatalogEntry) (RegisterResourceInput, error) {
	in := RegisterResourceInput{
		Kind:           model.ResourceKind(e.Kind),
		Name:           e.Name,
		Capacity:       e.Capacity,
		UnitPriceCents: e.UnitPriceCents,
		Currency:       e.Currency,
		Attributes: model.ResourceAttributes{
			Category:     model.ResourceCategory(e.Category),
			Location:     e.Location,
			SessionCount: e.SessionCount,
			Tags:         e.Tags,
		},
	}
	if e.ID != "" {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return in, fmt.Errorf("%w: id: %v", ErrInvalidArgument, err)
		}
		in.ID = id
	}
	owner, err := uuid.Parse(e.OwnerID)
	if err != nil {
		return in, fmt.Errorf("%w: owner_id: %v", ErrInvalidArgument, err)
	}
	in.OwnerID = owner
	return in, nil
}
