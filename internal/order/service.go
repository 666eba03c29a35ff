package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"catcloud/internal/cart"
	"catcloud/internal/cat"
	"catcloud/internal/user"
)

var ErrIDMismatch = errors.New("order id does not match the id in the path")

// SubmitInput carries the delivery and payment fields of a submit request.
type SubmitInput struct {
	DeliveryName   string `json:"delivery_name"`
	DeliveryStreet string `json:"delivery_street"`
	DeliveryCity   string `json:"delivery_city"`
	DeliveryState  string `json:"delivery_state"`
	DeliveryZip    string `json:"delivery_zip"`
	CCNumber       string `json:"cc_number"`
	CCExpiration   string `json:"cc_expiration"`
	CCCVV          string `json:"cc_cvv"`
}

type Service interface {
	Submit(ctx context.Context, sessionID string, input SubmitInput, principal *user.User) (*Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	Replace(ctx context.Context, id uuid.UUID, ord *Order) (*Order, error)
	Patch(ctx context.Context, id uuid.UUID, patch *Order) (*Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllOrders(ctx context.Context, principal *user.User) error
}

type service struct {
	repo     Repository
	carts    *cart.Store
	validate *validator.Validate
}

func NewService(repo Repository, carts *cart.Store) Service {
	return &service{
		repo:     repo,
		carts:    carts,
		validate: newValidator(),
	}
}

// Submit validates the delivery and payment fields, then commits the
// session's accumulated cats as one order. Validation failure leaves the
// in-flight order untouched and retryable; so does a persistence failure.
// On success the session slot is cleared and the persisted order returned.
func (s *service) Submit(ctx context.Context, sessionID string, input SubmitInput, principal *user.User) (*Order, error) {
	ord := &Order{
		DeliveryName:   input.DeliveryName,
		DeliveryStreet: input.DeliveryStreet,
		DeliveryCity:   input.DeliveryCity,
		DeliveryState:  input.DeliveryState,
		DeliveryZip:    input.DeliveryZip,
		CCNumber:       input.CCNumber,
		CCExpiration:   input.CCExpiration,
		CCCVV:          input.CCCVV,
	}

	if err := s.validate.Struct(ord); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			log.Info().Str("session_id", sessionID).Int("fields", len(validationErrors)).Msg("service: order rejected by validation")
			return nil, validationErrors
		}
		return nil, fmt.Errorf("service: order validation failed: %w", err)
	}

	if principal != nil {
		username := principal.Username
		ord.Username = &username
	}

	err := s.carts.Checkout(sessionID, func(items []cat.Cat) error {
		ord.PlacedAt = time.Now().UTC()
		ord.Cats = items
		if err := s.repo.Create(ctx, ord); err != nil {
			log.Error().Err(err).Str("session_id", sessionID).Msg("service: failed to persist order")
			return fmt.Errorf("service: failed to persist order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Stringer("order_id", ord.ID).Int("cats", len(ord.Cats)).Msg("service: order placed")

	return ord, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	ord, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch order: %w", err)
	}

	return ord, nil
}

// Replace overwrites the delivery and payment fields of an existing order
// with the given representation.
func (s *service) Replace(ctx context.Context, id uuid.UUID, ord *Order) (*Order, error) {
	if ord.ID != uuid.Nil && ord.ID != id {
		return nil, ErrIDMismatch
	}
	ord.ID = id

	if err := s.validate.Struct(ord); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, validationErrors
		}
		return nil, fmt.Errorf("service: order validation failed: %w", err)
	}

	if err := s.repo.Update(ctx, ord); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to update order: %w", err)
	}

	return s.FindByID(ctx, id)
}

// Patch merges the non-empty fields of patch into the stored order.
func (s *service) Patch(ctx context.Context, id uuid.UUID, patch *Order) (*Order, error) {
	if patch.ID != uuid.Nil && patch.ID != id {
		return nil, ErrIDMismatch
	}

	ord, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to fetch order for patch: %w", err)
	}

	if patch.DeliveryName != "" {
		ord.DeliveryName = patch.DeliveryName
	}
	if patch.DeliveryStreet != "" {
		ord.DeliveryStreet = patch.DeliveryStreet
	}
	if patch.DeliveryCity != "" {
		ord.DeliveryCity = patch.DeliveryCity
	}
	if patch.DeliveryState != "" {
		ord.DeliveryState = patch.DeliveryState
	}
	if patch.DeliveryZip != "" {
		ord.DeliveryZip = patch.DeliveryZip
	}
	if patch.CCNumber != "" {
		ord.CCNumber = patch.CCNumber
	}
	if patch.CCExpiration != "" {
		ord.CCExpiration = patch.CCExpiration
	}
	if patch.CCCVV != "" {
		ord.CCCVV = patch.CCCVV
	}

	if err := s.validate.Struct(ord); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, validationErrors
		}
		return nil, fmt.Errorf("service: order validation failed: %w", err)
	}

	if err := s.repo.Update(ctx, ord); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("service: failed to patch order: %w", err)
	}

	return ord, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("service: failed to delete order: %w", err)
	}

	return nil
}

// DeleteAllOrders removes every persisted order. The role check here is
// deliberate even though the admin routes are already guarded: this operation
// must refuse a non-admin principal no matter which route reached it.
// Deleting from an already empty store succeeds.
func (s *service) DeleteAllOrders(ctx context.Context, principal *user.User) error {
	if principal == nil {
		return user.ErrNotAuthenticated
	}
	if !principal.HasRole(user.RoleAdmin) {
		log.Warn().Str("username", principal.Username).Msg("service: bulk order delete refused")
		return user.ErrForbidden
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("service: failed to delete all orders: %w", err)
	}

	log.Info().Str("username", principal.Username).Msg("service: all orders deleted")

	return nil
}
