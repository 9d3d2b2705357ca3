package settings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-perks/internal/common"
	"github.com/noah-isme/backend-perks/internal/obs"
)

// ErrInvalidInput wraps admin payload validation failures.
var ErrInvalidInput = errors.New("invalid settings input")

// Input is the strict admin write shape. Checkout-time reads are lenient, but
// writes are validated so stores cannot persist garbage in the first place.
type Input struct {
	Percentage              float64 `json:"percentage" validate:"gte=0,lte=100"`
	Enabled                 bool    `json:"enabled"`
	FreeShipping            *bool   `json:"freeShipping"`
	MemberTag               string  `json:"memberTag" validate:"required"`
	ProductDiscountMessage  string  `json:"productDiscountMessage"`
	ShippingDiscountMessage string  `json:"shippingDiscountMessage"`
}

// Storage captures the persistence methods required by the service.
type Storage interface {
	Get(ctx context.Context, storeID string) (Record, error)
	Upsert(ctx context.Context, storeID string, payload []byte) error
}

// Service mediates settings access between the admin surface, the cache and
// the store. Evaluation reads never fail: any collaborator error degrades to
// an empty payload, which parses to feature-off defaults.
type Service struct {
	Store    Storage
	Cache    *Cache
	Validate *validator.Validate
	Logger   zerolog.Logger
}

// Raw returns the raw settings payload for evaluation. Missing records,
// cache failures and store failures all yield nil: a broken settings lookup
// must disable the perk, never break checkout.
func (s *Service) Raw(ctx context.Context, storeID string) []byte {
	if s == nil || s.Store == nil || strings.TrimSpace(storeID) == "" {
		return nil
	}
	if payload, ok, err := s.Cache.Get(ctx, storeID); err == nil && ok {
		obs.ObserveSettingsCache("hit")
		return payload
	} else if err != nil {
		obs.ObserveSettingsCache("error")
		s.Logger.Warn().Err(err).Str("store_id", storeID).Msg("settings cache read failed")
	} else {
		obs.ObserveSettingsCache("miss")
	}
	rec, err := s.Store.Get(ctx, storeID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.Logger.Warn().Err(err).Str("store_id", storeID).Msg("settings load failed")
		}
		return nil
	}
	if err := s.Cache.Set(ctx, storeID, rec.Payload); err != nil {
		s.Logger.Warn().Err(err).Str("store_id", storeID).Msg("settings cache write failed")
	}
	return rec.Payload
}

// Get loads the persisted record for the admin surface.
func (s *Service) Get(ctx context.Context, storeID string) (Record, error) {
	if s == nil || s.Store == nil {
		return Record{}, errors.New("settings service not configured")
	}
	rec, err := s.Store.Get(ctx, storeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, common.NewAppError("NOT_FOUND", "settings not found", http.StatusNotFound, err)
		}
		return Record{}, err
	}
	return rec, nil
}

// Update validates and persists an admin write, then invalidates the cache.
func (s *Service) Update(ctx context.Context, storeID string, in Input) (Record, error) {
	if s == nil || s.Store == nil {
		return Record{}, errors.New("settings service not configured")
	}
	if strings.TrimSpace(storeID) == "" {
		return Record{}, common.NewAppError("VALIDATION", "store id is required", http.StatusUnprocessableEntity, ErrInvalidInput)
	}
	in.MemberTag = strings.TrimSpace(in.MemberTag)
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			obs.ObserveSettingsUpdate("invalid")
			return Record{}, common.NewAppError("VALIDATION", err.Error(), http.StatusUnprocessableEntity, ErrInvalidInput)
		}
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return Record{}, err
	}
	if err := s.Store.Upsert(ctx, storeID, payload); err != nil {
		obs.ObserveSettingsUpdate("error")
		return Record{}, err
	}
	obs.ObserveSettingsUpdate("ok")
	if err := s.Cache.Invalidate(ctx, storeID); err != nil {
		s.Logger.Warn().Err(err).Str("store_id", storeID).Msg("settings cache invalidate failed")
	}
	return s.Store.Get(ctx, storeID)
}
