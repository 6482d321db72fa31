package http

import (
	"encoding/json"
	"net/http"
	"time"

	"carfleet-backend/internal/domain"
	"carfleet-backend/internal/service"
)

type PaymentHandler struct {
	paymentSvc service.PaymentService
}

func NewPaymentHandler(paymentSvc service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

type postPaymentRequest struct {
	AmountCents   int64  `json:"amount_cents"`
	Type          string `json:"type"`
	MethodID      *int32 `json:"method_id,omitempty"`
	PaidOn        string `json:"paid_on,omitempty"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
	Note          string `json:"note,omitempty"`
}

type postPaymentResponse struct {
	Payment *domain.Payment       `json:"payment"`
	Ledger  *domain.LedgerSummary `json:"ledger"`
}

func (h *PaymentHandler) Post(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req postPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json"})
		return
	}
	var paidOn time.Time
	if req.PaidOn != "" {
		paidOn, err = parseDate(req.PaidOn, "paid_on")
		if err != nil {
			writeError(w, err)
			return
		}
	}
	payment, ledger, err := h.paymentSvc.Post(r.Context(), actorID(r), service.PostPaymentInput{
		RentalID:      rentalID,
		AmountCents:   req.AmountCents,
		Type:          domain.PaymentType(req.Type),
		MethodID:      req.MethodID,
		PaidOn:        paidOn,
		ReceiptNumber: req.ReceiptNumber,
		Note:          req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, postPaymentResponse{Payment: payment, Ledger: ledger})
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	payments, err := h.paymentSvc.ListByRental(r.Context(), rentalID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rentalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	paymentID, err := pathID(r, "paymentID")
	if err != nil {
		writeError(w, err)
		return
	}
	ledger, err := h.paymentSvc.Delete(r.Context(), actorID(r), rentalID, paymentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ledger)
}
