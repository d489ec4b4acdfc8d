package quickbooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/payment"
)

type Handler struct {
	DB     *gorm.DB
	Client *Client
}

func NewHandler(db *gorm.DB, client *Client) *Handler {
	return &Handler{DB: db, Client: client}
}

type dealInfo struct {
	DealName   string
	ClientName string
}

func (h *Handler) dealInfo(dealID uint) (dealInfo, error) {
	var info dealInfo
	err := h.DB.Table("deals").
		Select("deals.name AS deal_name, clients.name AS client_name").
		Joins("JOIN clients ON clients.id = deals.client_id").
		Where("deals.id = ?", dealID).
		Scan(&info).Error
	return info, err
}

// CreateInvoice raises a QuickBooks invoice for a payment.
// POST /payments/{id}/invoice
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	if !h.Client.Configured() {
		http.Error(w, "quickbooks integration not configured", http.StatusServiceUnavailable)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	repo := payment.NewRepository(h.DB)
	p, err := repo.FindByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "payment not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not load payment", http.StatusInternalServerError)
		return
	}
	if p.QBInvoiceID != "" {
		http.Error(w, "payment already invoiced", http.StatusUnprocessableEntity)
		return
	}

	info, err := h.dealInfo(p.DealID)
	if err != nil {
		http.Error(w, "could not load deal", http.StatusInternalServerError)
		return
	}

	memo := fmt.Sprintf("%s - commission payment %d", info.DealName, p.PaymentNumber)
	invoiceID, err := h.Client.CreateInvoice(info.ClientName, p.Amount, memo)
	if err != nil {
		logrus.WithError(err).Error("quickbooks invoice create failed")
		http.Error(w, "quickbooks failure", http.StatusBadGateway)
		return
	}

	now := time.Now()
	p.QBInvoiceID = invoiceID
	p.InvoiceSentDate = &now
	if err := repo.Update(p); err != nil {
		http.Error(w, "could not record invoice", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// DeleteInvoice voids the payment's invoice in QuickBooks.
// DELETE /payments/{id}/invoice
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if !h.Client.Configured() {
		http.Error(w, "quickbooks integration not configured", http.StatusServiceUnavailable)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid ID", http.StatusBadRequest)
		return
	}

	repo := payment.NewRepository(h.DB)
	p, err := repo.FindByID(uint(id))
	if err != nil {
		http.Error(w, "payment not found", http.StatusNotFound)
		return
	}
	if p.QBInvoiceID == "" {
		http.Error(w, "payment has no invoice", http.StatusUnprocessableEntity)
		return
	}

	if err := h.Client.VoidInvoice(p.QBInvoiceID); err != nil {
		logrus.WithError(err).Error("quickbooks invoice void failed")
		http.Error(w, "quickbooks failure", http.StatusBadGateway)
		return
	}

	p.QBInvoiceID = ""
	p.InvoiceSentDate = nil
	if err := repo.Update(p); err != nil {
		http.Error(w, "could not record void", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("invoice voided"))
}
