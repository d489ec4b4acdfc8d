package activity

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var a Activity
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if !validTypes[a.Type] {
		http.Error(w, "unknown activity type", http.StatusUnprocessableEntity)
		return
	}
	if a.Type == TypeTask && a.Status == "" {
		a.Status = StatusOpen
	}
	a.BrokerID = auth.BrokerID(r)

	if err := h.Repo.Create(&a); err != nil {
		logrus.WithError(err).Error("activity create failed")
		http.Error(w, "could not save activity", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(a)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	activities, err := h.Repo.ListAll()
	if err != nil {
		http.Error(w, "could not list activities", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(activities)
}

// ListByDeal returns a deal's timeline. GET /deals/{id}/activities
func (h *Handler) ListByDeal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid deal ID", http.StatusBadRequest)
		return
	}
	activities, err := h.Repo.ListByDeal(uint(id))
	if err != nil {
		http.Error(w, "could not list activities", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(activities)
}

// ListByContact returns a contact's timeline. GET /contacts/{id}/activities
func (h *Handler) ListByContact(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid contact ID", http.StatusBadRequest)
		return
	}
	activities, err := h.Repo.ListByContact(uint(id))
	if err != nil {
		http.Error(w, "could not list activities", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(activities)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}
	obj, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "activity not found", http.StatusNotFound)
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
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "activity not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not load activity", http.StatusInternalServerError)
		return
	}

	var data Activity
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	existing.Subject = data.Subject
	existing.Body = data.Body
	existing.Status = data.Status
	existing.DueDate = data.DueDate
	existing.DealID = data.DealID
	existing.ClientID = data.ClientID
	existing.ContactID = data.ContactID
	existing.PropertyID = data.PropertyID

	if err := h.Repo.Update(existing); err != nil {
		http.Error(w, "could not update activity", http.StatusInternalServerError)
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
		http.Error(w, "could not delete activity", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("activity deleted"))
}
