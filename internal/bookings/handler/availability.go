package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"pujari/internal/availability"
	apperrors "pujari/pkg/errors"
	httputil "pujari/pkg/http"
	"pujari/pkg/logger"
	"pujari/pkg/model"
)

type AvailabilityHandler struct {
	resolver *availability.Resolver
	log      *logger.Logger
}

func NewAvailabilityHandler(resolver *availability.Resolver, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		resolver: resolver,
		log:      log,
	}
}

type availabilityResponse struct {
	PriestID string             `json:"priest_id"`
	Date     string             `json:"date"`
	Slots    []model.TimeWindow `json:"slots"`
}

func (h *AvailabilityHandler) ListSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	priestID := ps.ByName("id")
	date := r.URL.Query().Get("date")

	if _, err := time.Parse(model.DateLayout, date); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("date query parameter must be in YYYY-MM-DD format")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSlots", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	slots, err := h.resolver.ListAvailableSlots(r.Context(), priestID, date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSlots", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availabilityResponse{
		PriestID: priestID,
		Date:     date,
		Slots:    slots,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "ListSlots", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/priests/id/:id/availability", h.ListSlots)
}
