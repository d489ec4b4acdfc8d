package deal

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/harborcre/api-brokerage/internal/commission"
	"github.com/harborcre/api-brokerage/internal/payment"
)

type generatePaymentsRequest struct {
	FirstPaymentDate string `json:"firstPaymentDate"` // RFC3339 or YYYY-MM-DD
	NumberOfPayments int    `json:"numberOfPayments"` // optional, defaults to the deal's
}

// allocateSplits spreads each broker's total commission share across the
// n installments with the same last-row remainder absorption used for the
// installment amounts, so per-broker totals reconcile to the cent.
func allocateSplits(b commission.Breakdown, splits []commission.Split, n int) map[uint][]float64 {
	parts := make(map[uint][]float64, len(splits))
	for _, s := range splits {
		parts[s.BrokerID] = payment.Allocate(b.Amount(s.SplitPercent), n)
	}
	return parts
}

// GeneratePayments replaces a deal's outstanding payment schedule: GCI is
// divided into monthly installments, and each installment carries per-broker
// splits computed from the deal's commission splits against its AGCI
// portion. Everything happens in one transaction.
// POST /deals/{id}/payments/generate
func (h *Handler) GeneratePayments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var req generatePaymentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	firstDate, err := parseDate(req.FirstPaymentDate)
	if err != nil {
		http.Error(w, "invalid firstPaymentDate", http.StatusBadRequest)
		return
	}

	d, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "deal not found", http.StatusNotFound)
		return
	}

	n := d.NumberOfPayments
	if req.NumberOfPayments > 0 {
		n = req.NumberOfPayments
	}
	if n <= 0 || n > 120 {
		http.Error(w, "numberOfPayments must be between 1 and 120", http.StatusUnprocessableEntity)
		return
	}

	breakdown := commission.Calculate(d.CommissionInputs())
	if breakdown.GCI <= 0 {
		http.Error(w, "deal has no fee to schedule", http.StatusUnprocessableEntity)
		return
	}

	gciParts := payment.Allocate(breakdown.GCI, n)
	splitParts := allocateSplits(breakdown, d.CommissionSplits, n)

	tx := h.Repo.DB.Begin()
	if tx.Error != nil {
		http.Error(w, "could not start transaction", http.StatusInternalServerError)
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			_ = tx.Rollback()
			http.Error(w, "internal failure", http.StatusInternalServerError)
		}
	}()

	payRepo := payment.NewRepository(tx)
	if err := payRepo.DeletePendingByDeal(tx, d.ID); err != nil {
		_ = tx.Rollback()
		http.Error(w, "could not clear old payments", http.StatusInternalServerError)
		return
	}

	payments := make([]*payment.Payment, 0, n)
	for i := 0; i < n; i++ {
		p := &payment.Payment{
			DealID:        d.ID,
			PaymentNumber: i + 1,
			Amount:        gciParts[i],
			EstimatedDate: firstDate.AddDate(0, i, 0),
			Status:        payment.StatusPending,
		}
		for _, s := range d.CommissionSplits {
			p.Splits = append(p.Splits, payment.Split{
				BrokerID: s.BrokerID,
				Amount:   splitParts[s.BrokerID][i],
			})
		}
		payments = append(payments, p)
	}

	if err := payRepo.CreateInBatch(payments); err != nil {
		_ = tx.Rollback()
		logrus.WithError(err).Error("payment generation failed")
		http.Error(w, "could not create payments", http.StatusInternalServerError)
		return
	}

	// keep the deal's installment count in step with what was generated
	if err := tx.Model(&Deal{}).Where("id = ?", d.ID).
		Update("number_of_payments", n).Error; err != nil {
		_ = tx.Rollback()
		http.Error(w, "could not update deal", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "could not commit payments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(payments)
}
