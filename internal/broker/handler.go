package broker

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/auth"
	"github.com/harborcre/api-brokerage/internal/utils"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createBrokerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Photo     string `json:"photo"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Handler wraps DB access for broker routes.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

// Login issues a JWT for valid credentials. When the account is flagged for
// reset, a temp password is generated and the caller is told to reset.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	user, err := h.Repository.FindByEmail(h.DB, req.Email)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		http.Error(w, "wrong password", http.StatusUnauthorized)
		return
	}

	// Only after the current password checked out does a flagged account
	// get its temp password.
	if user.MustResetPassword {
		temp, err := utils.GenerateTempPassword()
		if err != nil {
			http.Error(w, "could not generate temp password", http.StatusInternalServerError)
			return
		}
		hash, err := utils.HashPassword(temp)
		if err != nil {
			http.Error(w, "could not process password", http.StatusInternalServerError)
			return
		}
		user.PasswordHash = hash
		user.MustResetPassword = false
		if err := h.Repository.Save(h.DB, user); err != nil {
			http.Error(w, "could not save temp password", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"message":      "password reset required",
			"tempPassword": temp,
		})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		logrus.WithError(err).Error("token generation failed")
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// Create registers a new broker (admin only, enforced by route middleware).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBrokerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "could not process password", http.StatusInternalServerError)
		return
	}

	b := Broker{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Photo:        req.Photo,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
	}

	if err := h.Repository.Save(h.DB, &b); err != nil {
		logrus.WithError(err).Error("broker create failed")
		http.Error(w, "could not save broker", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(b)
}

// FlagReset marks a broker for a password reset on next login (admin only,
// enforced by route middleware). PUT /brokers/{id}/reset
func (h *Handler) FlagReset(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	obj, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "broker not found", http.StatusNotFound)
		return
	}
	obj.MustResetPassword = true
	if err := h.Repository.Save(h.DB, obj); err != nil {
		http.Error(w, "could not flag broker", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("password reset flagged"))
}

// List returns all brokers for admins, or just the caller's own record.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if auth.IsAdmin(r) {
		brokers, err := h.Repository.ListAll(h.DB)
		if err != nil {
			http.Error(w, "could not list brokers", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(brokers)
		return
	}

	obj, err := h.Repository.FindByID(h.DB, auth.BrokerID(r))
	if err != nil {
		http.Error(w, "broker not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode([]Broker{*obj})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	if !auth.IsAdmin(r) && uint(id) != auth.BrokerID(r) {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	obj, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "broker not found", http.StatusNotFound)
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

	if !auth.IsAdmin(r) && uint(id) != auth.BrokerID(r) {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	var data Broker
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Update(h.DB, uint(id), &data); err != nil {
		http.Error(w, "could not update broker", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("broker updated"))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	if !auth.IsAdmin(r) && uint(id) != auth.BrokerID(r) {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	if err := h.Repository.Delete(h.DB, uint(id)); err != nil {
		http.Error(w, "could not delete broker", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("broker deleted"))
}
