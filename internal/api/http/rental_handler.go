package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/repository"
	"carfleet-backend/internal/service"

	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

type RentalHandler struct {
	rentalSvc    service.RentalService
	extensionSvc service.ExtensionService
	availability service.AvailabilityService
}

func NewRentalHandler(
	rentalSvc service.RentalService,
	extensionSvc service.ExtensionService,
	availability service.AvailabilityService,
) *RentalHandler {
	return &RentalHandler{
		rentalSvc:    rentalSvc,
		extensionSvc: extensionSvc,
		availability: availability,
	}
}

func actorID(r *http.Request) int32 {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		return claims.UserID
	}
	return 0
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError().Add(name, "must be a positive integer")
	}
	return int32(id), nil
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError().Add(field, "must be formatted yyyy-mm-dd")
	}
	return t, nil
}

type initialPaymentRequest struct {
	AmountCents   int64  `json:"amount_cents"`
	Type          string `json:"type"`
	MethodID      *int32 `json:"method_id,omitempty"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
	Note          string `json:"note,omitempty"`
}

type createRentalRequest struct {
	CustomerID           int32                   `json:"customer_id"`
	CarID                int32                   `json:"car_id"`
	BranchID             int32                   `json:"branch_id,omitempty"`
	StartDate            string                  `json:"start_date"`
	EndDate              string                  `json:"end_date"`
	DailyRateCents       int64                   `json:"daily_rate_cents,omitempty"`
	WithDriver           bool                    `json:"with_driver,omitempty"`
	DriverName           string                  `json:"driver_name,omitempty"`
	DriverPhone          string                  `json:"driver_phone,omitempty"`
	DriverDailyRateCents int64                   `json:"driver_daily_rate_cents,omitempty"`
	Notes                string                  `json:"notes,omitempty"`
	InitialPayments      []initialPaymentRequest `json:"initial_payments,omitempty"`
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json"})
		return
	}
	start, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		writeError(w, err)
		return
	}

	in := service.CreateRentalInput{
		CustomerID:           req.CustomerID,
		CarID:                req.CarID,
		BranchID:             req.BranchID,
		StartDate:            start,
		EndDate:              end,
		DailyRateCents:       req.DailyRateCents,
		WithDriver:           req.WithDriver,
		DriverName:           req.DriverName,
		DriverPhone:          req.DriverPhone,
		DriverDailyRateCents: req.DriverDailyRateCents,
		Notes:                req.Notes,
	}
	for _, p := range req.InitialPayments {
		in.InitialPayments = append(in.InitialPayments, service.InitialPayment{
			AmountCents:   p.AmountCents,
			Type:          domain.PaymentType(p.Type),
			MethodID:      p.MethodID,
			ReceiptNumber: p.ReceiptNumber,
			Note:          p.Note,
		})
	}

	rt, err := h.rentalSvc.Create(r.Context(), actorID(r), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rt, err := h.rentalSvc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (h *RentalHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	rt, err := h.rentalSvc.GetByNumber(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

type listRentalsResponse struct {
	Rentals []domain.Rental `json:"rentals"`
	Total   int32           `json:"total"`
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.RentalFilter{
		Status: domain.RentalStatus(q.Get("status")),
	}
	if raw := q.Get("customer_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 32); err == nil {
			filter.CustomerID = int32(id)
		}
	}
	if raw := q.Get("car_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 32); err == nil {
			filter.CarID = int32(id)
		}
	}
	page, _ := strconv.ParseInt(q.Get("page"), 10, 32)
	pageSize, _ := strconv.ParseInt(q.Get("page_size"), 10, 32)

	rentals, total, err := h.rentalSvc.List(r.Context(), filter, int32(page), int32(pageSize))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listRentalsResponse{Rentals: rentals, Total: total})
}

func (h *RentalHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	rt, err := h.rentalSvc.Confirm(r.Context(), actorID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

type activateRequest struct {
	OdometerStart int64  `json:"odometer_start"`
	FuelLevel     string `json:"fuel_level_start"`
	ConditionNote string `json:"condition_note,omitempty"`
}

func (h *RentalHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json"})
		return
	}
	rt, err := h.rentalSvc.Activate(r.Context(), actorID(r), id, service.ActivateInput{
		OdometerStart: req.OdometerStart,
		FuelLevel:     domain.FuelLevel(req.FuelLevel),
		ConditionNote: req.ConditionNote,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

type extendRequest struct {
	NewEndDate string `json:"new_end_date"`
}

type extendResponse struct {
	Rental    *domain.Rental    `json:"rental"`
	Extension *domain.Extension `json:"extension"`
}

func (h *RentalHandler) Extend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req extendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json"})
		return
	}
	newEnd, err := parseDate(req.NewEndDate, "new_end_date")
	if err != nil {
		writeError(w, err)
		return
	}
	rt, ext, err := h.rentalSvc.Extend(r.Context(), actorID(r), id, newEnd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, extendResponse{Rental: rt, Extension: ext})
}

func (h *RentalHandler) CanExtend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	newEnd, err := parseDate(r.URL.Query().Get("new_end_date"), "new_end_date")
	if err != nil {
		writeError(w, err)
		return
	}
	check, err := h.extensionSvc.CanExtend(r.Context(), id, newEnd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

func (h *RentalHandler) ListExtensions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	exts, err := h.extensionSvc.ListByRental(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exts)
}

type completeRequest struct {
	OdometerEnd   int64  `json:"odometer_end"`
	FuelLevel     string `json:"fuel_level_end"`
	ConditionNote string `json:"condition_note,omitempty"`
}

func (h *RentalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json"})
		return
	}
	rt, err := h.rentalSvc.Complete(r.Context(), actorID(r), id, service.CompleteInput{
		OdometerEnd:   req.OdometerEnd,
		FuelLevel:     domain.FuelLevel(req.FuelLevel),
		ConditionNote: req.ConditionNote,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json"})
		return
	}
	rt, err := h.rentalSvc.Cancel(r.Context(), actorID(r), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (h *RentalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.rentalSvc.Delete(r.Context(), actorID(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type availabilityResponse struct {
	Available bool `json:"available"`
}

func (h *RentalHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	start, err := parseDate(q.Get("start_date"), "start_date")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDate(q.Get("end_date"), "end_date")
	if err != nil {
		writeError(w, err)
		return
	}
	var exclude int32
	if raw := q.Get("exclude_rental_id"); raw != "" {
		if id, perr := strconv.ParseInt(raw, 10, 32); perr == nil {
			exclude = int32(id)
		}
	}
	available, err := h.availability.IsAvailable(r.Context(), carID, start, end, exclude)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{Available: available})
}
