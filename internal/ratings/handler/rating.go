package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"pujari/internal/ratings/service"
	httputil "pujari/pkg/http"
	"pujari/pkg/logger"
	"pujari/pkg/model"
)

type RatingHandler struct {
	service service.RatingService
	log     *logger.Logger
}

func NewRatingHandler(service service.RatingService, log *logger.Logger) *RatingHandler {
	return &RatingHandler{
		service: service,
		log:     log,
	}
}

func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var rating model.Rating
	if err := json.NewDecoder(r.Body).Decode(&rating); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Submit", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	rating.BookingID = ps.ByName("id")

	if err := h.service.Submit(r.Context(), &rating); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Submit", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, rating); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *RatingHandler) GetByBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rating, err := h.service.GetByBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, rating); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByBooking", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RatingHandler) ListByPriest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByPriest", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	ratings, total, err := h.service.ListByPriest(r.Context(), ps.ByName("id"), page, limit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByPriest", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, ratings, total, page, limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListByPriest", "operation", "WritePaginated", "error", err)
	}
}

func (h *RatingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings/id/:id/rating", h.Submit)
	router.GET("/api/v1/bookings/id/:id/rating", h.GetByBooking)
	router.GET("/api/v1/priests/id/:id/ratings", h.ListByPriest)
}
