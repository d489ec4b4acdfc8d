package contact

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

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
	var c Contact
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(c.FirstName) == "" && strings.TrimSpace(c.LastName) == "" {
		http.Error(w, "a first or last name is required", http.StatusUnprocessableEntity)
		return
	}

	if err := h.Repo.Create(&c); err != nil {
		logrus.WithError(err).Error("contact create failed")
		http.Error(w, "could not save contact", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		contacts []Contact
		err      error
	)
	if q != "" {
		contacts, err = h.Repo.Search(q)
	} else {
		contacts, err = h.Repo.ListAll()
	}
	if err != nil {
		http.Error(w, "could not list contacts", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(contacts)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	obj, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "contact not found", http.StatusNotFound)
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

	var data Contact
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := h.Repo.Update(uint(id), &data); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "contact not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not update contact", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("contact updated"))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(uint(id)); err != nil {
		http.Error(w, "could not delete contact", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("contact deleted"))
}
