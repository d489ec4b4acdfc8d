package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/contact"
	"github.com/harborcre/api-brokerage/internal/deal"
)

type Handler struct {
	Repo *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Repo: NewRepository(db)}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var c Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(c.Name) == "" {
		http.Error(w, "name is required", http.StatusUnprocessableEntity)
		return
	}

	if err := h.Repo.Create(&c); err != nil {
		logrus.WithError(err).Error("client create failed")
		http.Error(w, "could not save client", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

// List returns all clients, or a bounded search when ?q= is present.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		clients []Client
		err     error
	)
	if q != "" {
		clients, err = h.Repo.Search(q)
	} else {
		clients, err = h.Repo.ListAll()
	}
	if err != nil {
		http.Error(w, "could not list clients", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(clients)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	obj, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "client not found", http.StatusNotFound)
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

	var data Client
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := h.Repo.Update(uint(id), &data); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not update client", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("client updated"))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(uint(id)); err != nil {
		http.Error(w, "could not delete client", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("client deleted"))
}

// ListContacts returns the contacts attached to a client.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	var contacts []contact.Contact
	if err := h.Repo.DB.Where("client_id = ?", id).Order("last_name, first_name").Find(&contacts).Error; err != nil {
		http.Error(w, "could not list contacts", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(contacts)
}

// ListDeals returns the deals attached to a client.
func (h *Handler) ListDeals(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	var deals []deal.Deal
	if err := h.Repo.DB.Where("client_id = ?", id).Order("updated_at DESC").Find(&deals).Error; err != nil {
		http.Error(w, "could not list deals", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(deals)
}
