package sitesubmit

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Repo: NewRepository(db)}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var s SiteSubmit
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if s.ClientID == 0 || s.PropertyID == 0 {
		http.Error(w, "clientId and propertyId are required", http.StatusUnprocessableEntity)
		return
	}
	if s.Stage == "" {
		s.Stage = StageSubmitted
	}
	if !validStages[s.Stage] {
		http.Error(w, "unknown stage", http.StatusUnprocessableEntity)
		return
	}

	s.Code = uuid.NewString()
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}

	if err := h.Repo.Create(&s); err != nil {
		logrus.WithError(err).Error("site submit create failed")
		http.Error(w, "could not save site submit", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(s)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		submits []SiteSubmit
		err     error
	)
	switch {
	case q.Get("clientId") != "":
		var id int
		if id, err = strconv.Atoi(q.Get("clientId")); err != nil {
			http.Error(w, "invalid clientId", http.StatusBadRequest)
			return
		}
		submits, err = h.Repo.ListByClient(uint(id))
	case q.Get("propertyId") != "":
		var id int
		if id, err = strconv.Atoi(q.Get("propertyId")); err != nil {
			http.Error(w, "invalid propertyId", http.StatusBadRequest)
			return
		}
		submits, err = h.Repo.ListByProperty(uint(id))
	default:
		submits, err = h.Repo.ListAll()
	}
	if err != nil {
		http.Error(w, "could not list site submits", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(submits)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}
	obj, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "site submit not found", http.StatusNotFound)
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
			http.Error(w, "site submit not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not load site submit", http.StatusInternalServerError)
		return
	}

	var data SiteSubmit
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if data.Stage != "" && !validStages[data.Stage] {
		http.Error(w, "unknown stage", http.StatusUnprocessableEntity)
		return
	}

	// Code is assigned at creation and immutable
	if data.Stage != "" {
		existing.Stage = data.Stage
	}
	existing.Notes = data.Notes
	existing.DealID = data.DealID

	if err := h.Repo.Update(existing); err != nil {
		http.Error(w, "could not update site submit", http.StatusInternalServerError)
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
		http.Error(w, "could not delete site submit", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("site submit deleted"))
}
