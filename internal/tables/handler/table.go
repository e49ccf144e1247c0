package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"tablebook/internal/tables/service"
	apperrors "tablebook/pkg/errors"
	httputil "tablebook/pkg/http"
	"tablebook/pkg/logger"
	"tablebook/pkg/middleware"
	"tablebook/pkg/model"
	"tablebook/pkg/slot"
)

type TableHandler struct {
	service service.TableService
	log     *logger.Logger
}

func NewTableHandler(service service.TableService, log *logger.Logger) *TableHandler {
	return &TableHandler{
		service: service,
		log:     log,
	}
}

func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !middleware.IsAdmin(r.Context()) {
		httputil.WriteError(w, apperrors.Forbidden("Only admins can manage tables"))
		return
	}

	var table model.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.CreateTable(r.Context(), &table); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, table)
}

func (h *TableHandler) GetByNumber(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tableNumber, err := tableNumberParam(ps)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	table, err := h.service.GetTable(r.Context(), tableNumber)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, table)
}

func (h *TableHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	onlyActive := r.URL.Query().Get("active") == "true"

	tables, total, err := h.service.GetTables(r.Context(), onlyActive, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, tables, total, limit, offset)
}

func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !middleware.IsAdmin(r.Context()) {
		httputil.WriteError(w, apperrors.Forbidden("Only admins can manage tables"))
		return
	}

	tableNumber, err := tableNumberParam(ps)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var update model.TableUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	table, err := h.service.UpdateTable(r.Context(), tableNumber, &update)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, table)
}

func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !middleware.IsAdmin(r.Context()) {
		httputil.WriteError(w, apperrors.Forbidden("Only admins can manage tables"))
		return
	}

	tableNumber, err := tableNumberParam(ps)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeleteTable(r.Context(), tableNumber); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

// GetSlots returns the slot grid so clients never hardcode the dinner hours.
func (h *TableHandler) GetSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	httputil.WriteSuccess(w, slot.All())
}

func (h *TableHandler) ScanAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	startSlot, err := httputil.ExtractInt(r, "slot", 0)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	minCapacity, err := httputil.ExtractInt(r, "capacity", 1)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	scan, err := h.service.ScanAvailability(r.Context(), date, startSlot, minCapacity)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, scan)
}

func (h *TableHandler) DailyReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	report, err := h.service.DailyAvailabilityReport(r.Context(), date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, report)
}

func tableNumberParam(ps httprouter.Params) (int, error) {
	raw := ps.ByName("number")
	tableNumber, err := strconv.Atoi(raw)
	if err != nil || tableNumber < 1 {
		return 0, apperrors.InvalidInput("invalid table number: " + raw)
	}
	return tableNumber, nil
}

func (h *TableHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/tables", h.Create)
	router.GET("/api/v1/tables", h.GetAll)
	router.GET("/api/v1/tables/:number", h.GetByNumber)
	router.PATCH("/api/v1/tables/:number", h.Update)
	router.DELETE("/api/v1/tables/:number", h.Delete)

	router.GET("/api/v1/slots", h.GetSlots)
	router.GET("/api/v1/availability", h.ScanAvailability)
	router.GET("/api/v1/availability/report", h.DailyReport)
}
