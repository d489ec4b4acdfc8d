package email

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/activity"
	"github.com/harborcre/api-brokerage/internal/auth"
)

type Handler struct {
	DB     *gorm.DB
	Sender *Sender
}

func NewHandler(db *gorm.DB, sender *Sender) *Handler {
	return &Handler{DB: db, Sender: sender}
}

type sendRequest struct {
	To        []string `json:"to"`
	CC        []string `json:"cc"`
	Subject   string   `json:"subject"`
	Body      string   `json:"body"`
	DealID    *uint    `json:"dealId"`
	ClientID  *uint    `json:"clientId"`
	ContactID *uint    `json:"contactId"`
}

// Send posts the email to the provider and, only on success, records an
// email activity on the linked records. POST /emails/send
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if len(req.To) == 0 {
		http.Error(w, "at least one recipient is required", http.StatusUnprocessableEntity)
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		http.Error(w, "subject is required", http.StatusUnprocessableEntity)
		return
	}

	if err := h.Sender.Send(Message{
		To:      req.To,
		CC:      req.CC,
		Subject: req.Subject,
		Body:    req.Body,
	}); err != nil {
		logrus.WithError(err).Error("email send failed")
		http.Error(w, "email provider failure", http.StatusBadGateway)
		return
	}

	a := activity.Activity{
		Type:           activity.TypeEmail,
		Subject:        req.Subject,
		Body:           req.Body,
		DealID:         req.DealID,
		ClientID:       req.ClientID,
		ContactID:      req.ContactID,
		BrokerID:       auth.BrokerID(r),
		EmailMessageID: uuid.NewString(),
	}
	if err := activity.NewRepository(h.DB).Create(&a); err != nil {
		// the mail went out; surface the bookkeeping failure but keep 200-family
		logrus.WithError(err).Error("email activity record failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(a)
}
