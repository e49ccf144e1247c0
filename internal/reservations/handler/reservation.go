package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tablebook/internal/reservations/service"
	apperrors "tablebook/pkg/errors"
	httputil "tablebook/pkg/http"
	"tablebook/pkg/logger"
	"tablebook/pkg/middleware"
	"tablebook/pkg/model"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	var reservation model.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}
	reservation.UserID = userID

	if err := h.service.Create(r.Context(), &reservation); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, reservation)
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByID(
		r.Context(),
		ps.ByName("id"),
		middleware.UserIDFromContext(r.Context()),
		middleware.IsAdmin(r.Context()),
	)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

// GetAll lists every reservation for admins (optionally filtered to one
// service date) and only the caller's own reservations otherwise.
func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var (
		reservations []*model.Reservation
		total        int64
	)
	if middleware.IsAdmin(r.Context()) {
		if r.URL.Query().Get("date") != "" {
			date, dateErr := httputil.ExtractDate(r, "date")
			if dateErr != nil {
				httputil.WriteError(w, dateErr)
				return
			}
			reservations, total, err = h.service.GetByDate(r.Context(), date, limit, offset)
		} else {
			reservations, total, err = h.service.GetAll(r.Context(), limit, offset)
		}
	} else {
		userID := middleware.UserIDFromContext(r.Context())
		reservations, total, err = h.service.GetByUser(r.Context(), userID, limit, offset)
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, reservations, total, limit, offset)
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	var change model.ReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	reservation, err := h.service.UpdateUserReservation(r.Context(), ps.ByName("id"), userID, &change)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	if err := h.service.CancelUserReservation(r.Context(), ps.ByName("id"), userID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) AdminUpdate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !middleware.IsAdmin(r.Context()) {
		httputil.WriteError(w, apperrors.Forbidden("Only admins can use this endpoint"))
		return
	}

	var change model.AdminReservationUpdate
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	reservation, err := h.service.UpdateAdminReservation(r.Context(), ps.ByName("id"), &change)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.GetAll)
	router.GET("/api/v1/reservations/:id", h.GetByID)
	router.PUT("/api/v1/reservations/:id", h.Update)
	router.DELETE("/api/v1/reservations/:id", h.Cancel)

	router.PATCH("/api/v1/admin/reservations/:id", h.AdminUpdate)
}
