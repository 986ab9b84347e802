package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"pujari/internal/priests/service"
	httputil "pujari/pkg/http"
	"pujari/pkg/logger"
	"pujari/pkg/model"
)

// UserIDHeader carries the authenticated caller's user ID, set by the
// gateway in front of this service.
const UserIDHeader = "X-User-ID"

type PriestHandler struct {
	service service.PriestService
	log     *logger.Logger
}

func NewPriestHandler(service service.PriestService, log *logger.Logger) *PriestHandler {
	return &PriestHandler{
		service: service,
		log:     log,
	}
}

func (h *PriestHandler) UpsertProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.Header.Get(UserIDHeader)
	if userID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Missing " + UserIDHeader + " header",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpsertProfile", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	var updates model.PriestProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpsertProfile", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	profile, err := h.service.UpsertProfile(r.Context(), userID, &updates)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpsertProfile", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "UpsertProfile", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PriestHandler) GetOwnProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.Header.Get(UserIDHeader)
	if userID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Missing " + UserIDHeader + " header",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "GetOwnProfile", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	profile, err := h.service.GetByUserID(r.Context(), userID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetOwnProfile", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "GetOwnProfile", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PriestHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	profile, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PriestHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	profiles, total, err := h.service.Search(r.Context(), query.Get("ceremony"), query.Get("city"), page, limit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, profiles, total, page, limit); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "operation", "WritePaginated", "error", err)
	}
}

func (h *PriestHandler) SetAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.Header.Get(UserIDHeader)
	if userID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
			Error: "Missing " + UserIDHeader + " header",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetAvailability", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	var availability map[model.Weekday][]model.TimeWindow
	if err := json.NewDecoder(r.Body).Decode(&availability); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetAvailability", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.SetAvailability(r.Context(), userID, availability); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetAvailability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

type verificationRequest struct {
	GovernmentIDVerified  bool `json:"government_id_verified"`
	CertificationVerified bool `json:"certification_verified"`
}

func (h *PriestHandler) SetVerification(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req verificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetVerification", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.SetVerification(r.Context(), id, req.GovernmentIDVerified, req.CertificationVerified); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SetVerification", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *PriestHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/priests/profile", h.UpsertProfile)
	router.GET("/api/v1/priests/profile", h.GetOwnProfile)
	router.PUT("/api/v1/priests/availability", h.SetAvailability)
	router.GET("/api/v1/priests/search", h.Search)
	router.GET("/api/v1/priests/id/:id", h.GetByID)
	router.PATCH("/api/v1/priests/id/:id/verification", h.SetVerification)
}
