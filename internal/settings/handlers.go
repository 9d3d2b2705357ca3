package settings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-perks/internal/common"
	"github.com/noah-isme/backend-perks/internal/discount"
	"github.com/noah-isme/backend-perks/internal/member"
)

// Handler exposes the administrative settings endpoints, including the
// preview and member-check debug surfaces. Preview reuses the checkout-time
// evaluators verbatim so the admin view can never drift from checkout.
type Handler struct {
	Svc *Service
}

type settingsResponse struct {
	StoreID   string          `json:"storeId"`
	Payload   json.RawMessage `json:"settings"`
	UpdatedAt string          `json:"updatedAt"`
}

// Get returns the persisted settings payload for a store.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "settings service not configured", nil)
		return
	}
	storeID := strings.TrimSpace(chi.URLParam(r, "storeID"))
	if storeID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "store id is required", nil)
		return
	}
	rec, err := h.Svc.Get(r.Context(), storeID)
	if err != nil {
		writeServiceError(w, err, "unable to load settings")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toResponse(rec)})
}

// Put validates and persists settings for a store.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "settings service not configured", nil)
		return
	}
	storeID := strings.TrimSpace(chi.URLParam(r, "storeID"))
	if storeID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "store id is required", nil)
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	rec, err := h.Svc.Update(r.Context(), storeID, in)
	if err != nil {
		writeServiceError(w, err, "unable to save settings")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": toResponse(rec)})
}

type previewRequest struct {
	BuyerTags []string               `json:"buyerTags"`
	Evaluator string                 `json:"evaluator"`
	Cart      discount.SnapshotInput `json:"cart"`
}

type previewResponse struct {
	Member    bool                   `json:"member"`
	Evaluator string                 `json:"evaluator"`
	Result    discount.ResultPayload `json:"result"`
}

// Preview resolves the member signal from the posted buyer tags and runs the
// selected checkout-time evaluator against the posted cart without touching
// persisted state.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "settings service not configured", nil)
		return
	}
	storeID := strings.TrimSpace(chi.URLParam(r, "storeID"))
	if storeID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "store id is required", nil)
		return
	}
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	evaluator := strings.TrimSpace(req.Evaluator)
	if evaluator == "" {
		evaluator = discount.EvaluatorOrder
	}

	cfg := discount.ParseSettings(h.Svc.Raw(r.Context(), storeID))
	isMember := member.HasTag(req.BuyerTags, cfg.MemberTag)
	snap := req.Cart.Snapshot(isMember)

	var res discount.Result
	switch evaluator {
	case discount.EvaluatorOrder:
		res = discount.EvaluateOrder(snap, cfg, nil)
	case discount.EvaluatorCartTransform:
		res = discount.EvaluateCartTransform(snap, cfg, nil)
	case discount.EvaluatorShipping:
		res = discount.EvaluateShipping(snap, cfg, nil)
	default:
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown evaluator", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": previewResponse{
		Member:    isMember,
		Evaluator: evaluator,
		Result:    discount.Render(res),
	}})
}

// MemberCheck reports whether the supplied tags qualify under the store's
// configured member tag, using the same normalization rule as the external
// member lookup.
func (h *Handler) MemberCheck(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "settings service not configured", nil)
		return
	}
	storeID := strings.TrimSpace(chi.URLParam(r, "storeID"))
	if storeID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "store id is required", nil)
		return
	}
	tags := splitTags(r.URL.Query().Get("tags"))
	cfg := discount.ParseSettings(h.Svc.Raw(r.Context(), storeID))
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"member":        member.HasTag(tags, cfg.MemberTag),
		"configuredTag": member.Normalize(cfg.MemberTag),
	}})
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", fallback, nil)
}

func splitTags(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

func toResponse(rec Record) settingsResponse {
	return settingsResponse{
		StoreID:   rec.StoreID,
		Payload:   json.RawMessage(rec.Payload),
		UpdatedAt: rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
