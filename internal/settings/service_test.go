package settings_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	validator "github.com/go-playground/validator/v10"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-perks/internal/discount"
	"github.com/noah-isme/backend-perks/internal/settings"
)

type fakeStorage struct {
	records map[string]settings.Record
	getErr  error
	gets    int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{records: map[string]settings.Record{}}
}

func (f *fakeStorage) Get(_ context.Context, storeID string) (settings.Record, error) {
	f.gets++
	if f.getErr != nil {
		return settings.Record{}, f.getErr
	}
	rec, ok := f.records[storeID]
	if !ok {
		return settings.Record{}, settings.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStorage) Upsert(_ context.Context, storeID string, payload []byte) error {
	f.records[storeID] = settings.Record{StoreID: storeID, Payload: payload, UpdatedAt: time.Now()}
	return nil
}

func newTestService(t *testing.T, store *fakeStorage) (*settings.Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &settings.Service{
		Store:    store,
		Cache:    settings.NewCache(client, time.Minute),
		Validate: validator.New(),
		Logger:   zerolog.Nop(),
	}, mr
}

func TestRawReadThrough(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	require.NoError(t, store.Upsert(context.Background(), "shop-1", []byte(`{"enabled":true,"percentage":10}`)))
	svc, _ := newTestService(t, store)

	raw := svc.Raw(context.Background(), "shop-1")
	require.JSONEq(t, `{"enabled":true,"percentage":10}`, string(raw))
	require.Equal(t, 1, store.gets)

	// Second read is served from cache.
	raw = svc.Raw(context.Background(), "shop-1")
	require.JSONEq(t, `{"enabled":true,"percentage":10}`, string(raw))
	require.Equal(t, 1, store.gets)
}

func TestRawDegradesToNil(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	svc, _ := newTestService(t, store)

	require.Nil(t, svc.Raw(context.Background(), "unknown-shop"))
	require.Nil(t, svc.Raw(context.Background(), ""))

	store.getErr = errors.New("connection refused")
	require.Nil(t, svc.Raw(context.Background(), "shop-1"))

	// A nil payload parses to safe defaults, so checkout stays inert.
	cfg := discount.ParseSettings(svc.Raw(context.Background(), "shop-1"))
	require.False(t, cfg.Enabled)
	require.Zero(t, cfg.Percentage)
}

func TestUpdateValidatesAndInvalidatesCache(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	svc, mr := newTestService(t, store)

	_, err := svc.Update(context.Background(), "shop-1", settings.Input{Percentage: 120, MemberTag: "vip"})
	require.ErrorIs(t, err, settings.ErrInvalidInput)

	_, err = svc.Update(context.Background(), "shop-1", settings.Input{Percentage: 10, MemberTag: ""})
	require.ErrorIs(t, err, settings.ErrInvalidInput)

	rec, err := svc.Update(context.Background(), "shop-1", settings.Input{
		Percentage: 10,
		Enabled:    true,
		MemberTag:  " vip ",
	})
	require.NoError(t, err)

	var persisted settings.Input
	require.NoError(t, json.Unmarshal(rec.Payload, &persisted))
	require.Equal(t, "vip", persisted.MemberTag, "member tag is trimmed before persisting")

	// Warm the cache, then overwrite; the old payload must not be served.
	require.NotNil(t, svc.Raw(context.Background(), "shop-1"))
	_, err = svc.Update(context.Background(), "shop-1", settings.Input{
		Percentage: 20,
		Enabled:    true,
		MemberTag:  "vip",
	})
	require.NoError(t, err)
	require.False(t, mr.Exists("perks:settings:shop-1"))

	cfg := discount.ParseSettings(svc.Raw(context.Background(), "shop-1"))
	require.Equal(t, 20.0, cfg.Percentage)
}

func TestUpdateFreeShippingRoundTrip(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	svc, _ := newTestService(t, store)

	// Omitted freeShipping keeps the default-on behavior.
	_, err := svc.Update(context.Background(), "shop-1", settings.Input{Percentage: 10, MemberTag: "vip"})
	require.NoError(t, err)
	cfg := discount.ParseSettings(svc.Raw(context.Background(), "shop-1"))
	require.True(t, cfg.FreeShipping)

	// An explicit opt-out survives the round trip.
	off := false
	_, err = svc.Update(context.Background(), "shop-1", settings.Input{Percentage: 10, MemberTag: "vip", FreeShipping: &off})
	require.NoError(t, err)
	cfg = discount.ParseSettings(svc.Raw(context.Background(), "shop-1"))
	require.False(t, cfg.FreeShipping)
}
