package property

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TileInvalidator drops cached map tiles covering a coordinate after a
// property write. The map tile cache implements it.
type TileInvalidator interface {
	InvalidateAt(ctx context.Context, lat, lng float64)
}

type Handler struct {
	Repo  *Repository
	Tiles TileInvalidator
}

func NewHandler(db *gorm.DB, tiles TileInvalidator) *Handler {
	return &Handler{Repo: NewRepository(db), Tiles: tiles}
}

func (h *Handler) invalidate(ctx context.Context, lat, lng float64) {
	if h.Tiles != nil {
		h.Tiles.InvalidateAt(ctx, lat, lng)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p Property
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		http.Error(w, "name is required", http.StatusUnprocessableEntity)
		return
	}

	if err := h.Repo.Create(&p); err != nil {
		logrus.WithError(err).Error("property create failed")
		http.Error(w, "could not save property", http.StatusInternalServerError)
		return
	}
	h.invalidate(r.Context(), p.Latitude, p.Longitude)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		properties []Property
		err        error
	)
	if q != "" {
		properties, err = h.Repo.Search(q)
	} else {
		properties, err = h.Repo.ListAll()
	}
	if err != nil {
		http.Error(w, "could not list properties", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(properties)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	obj, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "property not found", http.StatusNotFound)
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

	// the old position may differ from the new one; drop both tiles
	before, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}

	var data Property
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := h.Repo.Update(uint(id), &data); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "property not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not update property", http.StatusInternalServerError)
		return
	}
	h.invalidate(r.Context(), before.Latitude, before.Longitude)
	h.invalidate(r.Context(), data.Latitude, data.Longitude)

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("property updated"))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	before, err := h.Repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "property not found", http.StatusNotFound)
		return
	}

	if err := h.Repo.Delete(uint(id)); err != nil {
		http.Error(w, "could not delete property", http.StatusInternalServerError)
		return
	}
	h.invalidate(r.Context(), before.Latitude, before.Longitude)

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("property deleted"))
}
