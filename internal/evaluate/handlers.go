package evaluate

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-perks/internal/common"
	"github.com/noah-isme/backend-perks/internal/discount"
	"github.com/noah-isme/backend-perks/internal/obs"
)

// SettingsSource supplies the raw settings payload for a store. A nil or
// empty payload parses to feature-off defaults.
type SettingsSource interface {
	Raw(ctx context.Context, storeID string) []byte
}

// Handler exposes the three checkout-time evaluation endpoints. The host
// pricing pipeline calls one of them per checkout; storage or cache failures
// degrade to an inert result, never to an error response.
type Handler struct {
	Settings SettingsSource
	Logger   zerolog.Logger
}

type evaluateRequest struct {
	StoreID string                 `json:"storeId"`
	Member  bool                   `json:"member"`
	Cart    discount.SnapshotInput `json:"cart"`
}

// OrderDiscount runs the combined-mode order evaluator.
func (h *Handler) OrderDiscount(w http.ResponseWriter, r *http.Request) {
	h.evaluate(w, r, discount.EvaluatorOrder, discount.EvaluateOrder)
}

// CartTransform runs the per-line evaluator.
func (h *Handler) CartTransform(w http.ResponseWriter, r *http.Request) {
	h.evaluate(w, r, discount.EvaluatorCartTransform, discount.EvaluateCartTransform)
}

// ShippingDiscount runs the shipping evaluator.
func (h *Handler) ShippingDiscount(w http.ResponseWriter, r *http.Request) {
	h.evaluate(w, r, discount.EvaluatorShipping, discount.EvaluateShipping)
}

type evaluator func(discount.Snapshot, discount.Settings, discount.Tracer) discount.Result

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request, name string, eval evaluator) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	storeID := strings.TrimSpace(req.StoreID)
	if storeID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "storeId is required", nil)
		return
	}

	var raw []byte
	if h.Settings != nil {
		raw = h.Settings.Raw(r.Context(), storeID)
	}
	cfg := discount.ParseSettings(raw)
	snap := req.Cart.Snapshot(req.Member)

	start := time.Now()
	res := eval(snap, cfg, h.tracer(storeID, name))
	obs.ObserveEvaluation(name, len(res.Discounts) > 0, time.Since(start))

	common.JSON(w, http.StatusOK, map[string]any{"data": discount.Render(res)})
}

func (h *Handler) tracer(storeID, evaluator string) discount.Tracer {
	logger := h.Logger.With().Str("store_id", storeID).Str("evaluator", evaluator).Logger()
	if logger.GetLevel() > zerolog.DebugLevel {
		return discount.NopTracer{}
	}
	return logTracer{logger: logger}
}

// logTracer forwards evaluator decision points to the debug log. It is purely
// observational; disabling it never changes a result.
type logTracer struct {
	logger zerolog.Logger
}

func (t logTracer) NotEligible(evaluator, reason string) {
	t.logger.Debug().Str("reason", reason).Msg("evaluation short-circuited")
}

func (t logTracer) LinePriced(merchandiseID string, perUnit decimal.Decimal, applies bool) {
	t.logger.Debug().
		Str("merchandise_id", merchandiseID).
		Str("per_unit_discount", perUnit.String()).
		Bool("applies", applies).
		Msg("line priced")
}

func (t logTracer) LineSkipped(merchandiseID, reason string) {
	t.logger.Debug().
		Str("merchandise_id", merchandiseID).
		Str("reason", reason).
		Msg("line skipped")
}
