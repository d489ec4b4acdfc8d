package commission

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// epsilon forgives float drift when checking that splits stay within 100%.
const epsilon = 1e-9

type Handler struct {
	Repo *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Repo: NewRepository(db)}
}

type splitRequest struct {
	BrokerID     uint    `json:"brokerId"`
	SplitPercent float64 `json:"splitPercent"`
	Role         string  `json:"role"`
}

// Create adds a split row to a deal. POST /deals/{id}/splits
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	dealID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid deal ID", http.StatusBadRequest)
		return
	}

	var req splitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.SplitPercent <= 0 || req.SplitPercent > 1 {
		http.Error(w, "splitPercent must be in (0, 1]", http.StatusUnprocessableEntity)
		return
	}

	existing, err := h.Repo.FindByDeal(uint(dealID))
	if err != nil {
		http.Error(w, "could not load splits", http.StatusInternalServerError)
		return
	}
	if TotalPercent(existing)+req.SplitPercent > 1+epsilon {
		http.Error(w, "split percents exceed 100% of AGCI", http.StatusUnprocessableEntity)
		return
	}

	s := Split{
		DealID:       uint(dealID),
		BrokerID:     req.BrokerID,
		SplitPercent: req.SplitPercent,
		Role:         req.Role,
	}
	if err := h.Repo.Create(&s); err != nil {
		logrus.WithError(err).Error("split create failed")
		http.Error(w, "could not save split", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(s)
}

// ListByDeal returns the splits of a deal. GET /deals/{id}/splits
func (h *Handler) ListByDeal(w http.ResponseWriter, r *http.Request) {
	dealID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid deal ID", http.StatusBadRequest)
		return
	}

	splits, err := h.Repo.FindByDeal(uint(dealID))
	if err != nil {
		http.Error(w, "could not list splits", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(splits)
}

// Update changes a split row. PUT /splits/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	s, err := h.Repo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "split not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not load split", http.StatusInternalServerError)
		return
	}

	var req splitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.SplitPercent <= 0 || req.SplitPercent > 1 {
		http.Error(w, "splitPercent must be in (0, 1]", http.StatusUnprocessableEntity)
		return
	}

	siblings, err := h.Repo.FindByDeal(s.DealID)
	if err != nil {
		http.Error(w, "could not load splits", http.StatusInternalServerError)
		return
	}
	var others float64
	for _, o := range siblings {
		if o.ID != s.ID {
			others += o.SplitPercent
		}
	}
	if others+req.SplitPercent > 1+epsilon {
		http.Error(w, "split percents exceed 100% of AGCI", http.StatusUnprocessableEntity)
		return
	}

	s.BrokerID = req.BrokerID
	s.SplitPercent = req.SplitPercent
	s.Role = req.Role
	if err := h.Repo.Update(s); err != nil {
		http.Error(w, "could not update split", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(s)
}

// Delete removes a split row. DELETE /splits/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	s, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "split not found", http.StatusNotFound)
		return
	}
	if err := h.Repo.Delete(s); err != nil {
		http.Error(w, "could not delete split", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("split deleted"))
}
