package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/auth"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Repo: NewRepository(db)}
}

// BrokerSummary aggregates a broker's earned and projected commission.
type BrokerSummary struct {
	BrokerID         uint    `json:"brokerId"`
	Earned           float64 `json:"earned"`           // splits of received payments
	Projected        float64 `json:"projected"`        // splits of pending/overdue payments
	ReceivedPayments int     `json:"receivedPayments"`
	OpenPayments     int     `json:"openPayments"`
	OpenDeals        int64   `json:"openDeals"` // deals not yet ClosedPaid or Lost
}

// ListByDeal returns a deal's payments. GET /deals/{id}/payments
func (h *Handler) ListByDeal(w http.ResponseWriter, r *http.Request) {
	dealID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid deal ID", http.StatusBadRequest)
		return
	}

	payments, err := h.Repo.FindByDeal(uint(dealID))
	if err != nil {
		http.Error(w, "could not list payments", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(payments)
}

// ListByBroker returns payments carrying a split for a broker.
// GET /brokers/{id}/payments
func (h *Handler) ListByBroker(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid broker ID", http.StatusBadRequest)
		return
	}
	if !auth.IsAdmin(r) && uint(id) != auth.BrokerID(r) {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	payments, err := h.Repo.BrokerPayments(uint(id))
	if err != nil {
		http.Error(w, "could not list payments", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(payments)
}

// Receive marks a payment received. PUT /payments/{id}/receive
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "payment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not load payment", http.StatusInternalServerError)
		return
	}
	if p.Status == StatusReceived {
		http.Error(w, "payment already received", http.StatusUnprocessableEntity)
		return
	}

	var req struct {
		ReceivedDate *time.Time `json:"receivedDate"`
	}
	// body is optional; default to now
	_ = json.NewDecoder(r.Body).Decode(&req)
	received := time.Now()
	if req.ReceivedDate != nil {
		received = *req.ReceivedDate
	}

	p.ReceivedDate = &received
	p.Status = StatusReceived
	if err := h.Repo.Update(p); err != nil {
		logrus.WithError(err).Error("payment receive failed")
		http.Error(w, "could not update payment", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(p)
}

// Summary builds a broker's earned/projected totals.
// GET /brokers/{id}/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid broker ID", http.StatusBadRequest)
		return
	}
	if !auth.IsAdmin(r) && uint(id) != auth.BrokerID(r) {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	received, err := h.Repo.BrokerSplits(uint(id), []string{StatusReceived})
	if err != nil {
		http.Error(w, "could not load splits", http.StatusInternalServerError)
		return
	}
	open, err := h.Repo.BrokerSplits(uint(id), []string{StatusPending, StatusOverdue})
	if err != nil {
		http.Error(w, "could not load splits", http.StatusInternalServerError)
		return
	}
	openDeals, err := h.Repo.OpenDealCount(uint(id))
	if err != nil {
		http.Error(w, "could not count deals", http.StatusInternalServerError)
		return
	}

	summary := BrokerSummary{BrokerID: uint(id)}
	for _, s := range received {
		summary.Earned += s.Amount
	}
	for _, s := range open {
		summary.Projected += s.Amount
	}
	summary.Earned = roundCents(summary.Earned)
	summary.Projected = roundCents(summary.Projected)
	summary.ReceivedPayments = len(received)
	summary.OpenPayments = len(open)
	summary.OpenDeals = openDeals

	json.NewEncoder(w).Encode(summary)
}

// SweepOverdue is the daily cron body: pending payments past their
// estimated date become overdue.
func (h *Handler) SweepOverdue() {
	n, err := h.Repo.MarkOverdue(time.Now())
	if err != nil {
		logrus.WithError(err).Error("overdue sweep failed")
		return
	}
	if n > 0 {
		logrus.WithField("payments", n).Info("marked payments overdue")
	}
}
