package deal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/auth"
	"github.com/harborcre/api-brokerage/internal/commission"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Repo: NewRepository(db)}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var d Deal
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(d.Name) == "" {
		http.Error(w, "name is required", http.StatusUnprocessableEntity)
		return
	}
	if d.Stage == "" {
		d.Stage = StageProspect
	}
	if !validStages[d.Stage] {
		http.Error(w, "unknown stage", http.StatusUnprocessableEntity)
		return
	}
	if d.BrokerID == 0 {
		d.BrokerID = auth.BrokerID(r)
	}
	if d.NumberOfPayments <= 0 {
		d.NumberOfPayments = 1
	}

	if err := h.Repo.Create(&d); err != nil {
		logrus.WithError(err).Error("deal create failed")
		http.Error(w, "could not save deal", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

// List returns the board: all deals, or one stage when ?stage= is present.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	stage := r.URL.Query().Get("stage")

	var (
		deals []Deal
		err   error
	)
	if stage != "" {
		if !validStages[stage] {
			http.Error(w, "unknown stage", http.StatusBadRequest)
			return
		}
		deals, err = h.Repo.ListByStage(stage)
	} else {
		deals, err = h.Repo.ListAll()
	}
	if err != nil {
		http.Error(w, "could not list deals", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(deals)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	obj, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "deal not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(obj)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "deal not found", http.StatusNotFound)
		return
	}

	var data Deal
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	// Stage moves go through the gated endpoint, not the generic update.
	existing.Name = data.Name
	existing.ClientID = data.ClientID
	existing.ContactID = data.ContactID
	existing.PropertyID = data.PropertyID
	existing.DealValue = data.DealValue
	existing.FeePercent = data.FeePercent
	existing.FlatFee = data.FlatFee
	existing.ReferralFeePercent = data.ReferralFeePercent
	existing.ReferralPayeeID = data.ReferralPayeeID
	existing.HousePercent = data.HousePercent
	existing.TargetCloseDate = data.TargetCloseDate
	if data.NumberOfPayments > 0 {
		existing.NumberOfPayments = data.NumberOfPayments
	}

	if err := h.Repo.Update(existing); err != nil {
		http.Error(w, "could not update deal", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(existing)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(uint(id)); err != nil {
		http.Error(w, "could not delete deal", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("deal deleted"))
}

// UpdateStage moves a deal between kanban columns with gating.
// PUT /deals/{id}/stage
func (h *Handler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	d, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "deal not found", http.StatusNotFound)
		return
	}

	var change StageChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if err := CheckGate(d, change); err != nil {
		var gate *GateError
		if errors.As(err, &gate) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{
				"field": gate.Field,
				"error": gate.Message,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	ApplyStageChange(d, change)
	if err := h.Repo.Update(d); err != nil {
		logrus.WithError(err).Error("stage update failed")
		http.Error(w, "could not update deal", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(d)
}

// Reorder applies a drag-and-drop rearrangement of the board in one
// transaction. Cross-column moves into gated stages are rejected unless the
// deal already carries the required field.
// PUT /deals/reorder
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	var items []ReorderItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if len(items) == 0 {
		http.Error(w, "empty reorder", http.StatusBadRequest)
		return
	}

	for _, item := range items {
		if !validStages[item.Stage] {
			http.Error(w, "unknown stage", http.StatusUnprocessableEntity)
			return
		}
		d, err := h.Repo.FindByID(item.DealID)
		if err != nil {
			http.Error(w, "deal not found", http.StatusNotFound)
			return
		}
		if d.Stage != item.Stage {
			if err := CheckGate(d, StageChange{Stage: item.Stage}); err != nil {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
		}
	}

	if err := h.Repo.Reorder(items); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "deal not found", http.StatusNotFound)
			return
		}
		logrus.WithError(err).Error("board reorder failed")
		http.Error(w, "could not reorder deals", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("board updated"))
}

// commissionResponse pairs the waterfall with per-broker amounts.
type commissionResponse struct {
	commission.Breakdown
	Splits []brokerAmount `json:"splits"`
}

type brokerAmount struct {
	BrokerID     uint    `json:"brokerId"`
	SplitPercent float64 `json:"splitPercent"`
	Role         string  `json:"role"`
	Amount       float64 `json:"amount"`
}

// Commission returns the AGCI breakdown and each broker's share.
// GET /deals/{id}/commission
func (h *Handler) Commission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	d, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "deal not found", http.StatusNotFound)
		return
	}

	breakdown := commission.Calculate(d.CommissionInputs())
	resp := commissionResponse{Breakdown: breakdown}
	for _, s := range d.CommissionSplits {
		resp.Splits = append(resp.Splits, brokerAmount{
			BrokerID:     s.BrokerID,
			SplitPercent: s.SplitPercent,
			Role:         s.Role,
			Amount:       breakdown.Amount(s.SplitPercent),
		})
	}
	json.NewEncoder(w).Encode(resp)
}

// parseDate accepts RFC3339 or bare YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
