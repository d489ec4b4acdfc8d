package quickbooks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// refreshMargin forces a refresh when the access token is this close to
// expiring.
const refreshMargin = 5 * time.Minute

// Client is a thin binding to the QuickBooks Online invoice API with
// OAuth token refresh backed by the tokens table.
type Client struct {
	DB           *gorm.DB
	apiURL       string
	tokenURL     string
	clientID     string
	clientSecret string
	realmID      string
	http         *http.Client
}

// NewClientFromEnv reads QB_API_URL, QB_TOKEN_URL, QB_CLIENT_ID,
// QB_CLIENT_SECRET and QB_REALM_ID.
func NewClientFromEnv(db *gorm.DB) *Client {
	return &Client{
		DB:           db,
		apiURL:       strings.TrimRight(os.Getenv("QB_API_URL"), "/"),
		tokenURL:     os.Getenv("QB_TOKEN_URL"),
		clientID:     os.Getenv("QB_CLIENT_ID"),
		clientSecret: os.Getenv("QB_CLIENT_SECRET"),
		realmID:      os.Getenv("QB_REALM_ID"),
		http:         &http.Client{Timeout: 20 * time.Second},
	}
}

// Configured reports whether the integration has credentials.
func (c *Client) Configured() bool {
	return c.apiURL != "" && c.clientID != "" && c.realmID != ""
}

func (c *Client) loadToken() (*Token, error) {
	var t Token
	if err := c.DB.Where("realm_id = ?", c.realmID).First(&t).Error; err != nil {
		return nil, fmt.Errorf("no QuickBooks token for realm %s: %w", c.realmID, err)
	}
	return &t, nil
}

type refreshResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"x_refresh_token_expires_in"`
}

// refresh exchanges the refresh token and persists the new pair.
func (c *Client) refresh(t *Token) error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", t.RefreshToken)

	req, err := http.NewRequest(http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token refresh returned %d", resp.StatusCode)
	}

	var rr refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return err
	}

	now := time.Now()
	t.AccessToken = rr.AccessToken
	if rr.RefreshToken != "" {
		t.RefreshToken = rr.RefreshToken
	}
	t.AccessExpiresAt = now.Add(time.Duration(rr.ExpiresIn) * time.Second)
	t.RefreshExpiresAt = now.Add(time.Duration(rr.RefreshExpiresIn) * time.Second)
	return c.DB.Save(t).Error
}

// ensureToken returns a usable access token, refreshing when close to
// expiry or when force is set.
func (c *Client) ensureToken(force bool) (*Token, error) {
	t, err := c.loadToken()
	if err != nil {
		return nil, err
	}
	if force || time.Until(t.AccessExpiresAt) < refreshMargin {
		if err := c.refresh(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// RefreshJob is the cron body keeping the access token warm.
func (c *Client) RefreshJob() {
	if !c.Configured() {
		return
	}
	if _, err := c.ensureToken(false); err != nil {
		logrus.WithError(err).Warn("quickbooks token refresh failed")
	}
}

// do sends one authorized request, retrying once after a forced refresh on
// 401.
func (c *Client) do(method, path string, payload interface{}) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}

	send := func(accessToken string) (*http.Response, error) {
		req, err := http.NewRequest(method, c.apiURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Request-Id", uuid.NewString())
		return c.http.Do(req)
	}

	t, err := c.ensureToken(false)
	if err != nil {
		return nil, err
	}
	resp, err := send(t.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if t, err = c.ensureToken(true); err != nil {
			return nil, err
		}
		if resp, err = send(t.AccessToken); err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("quickbooks returned %d: %s", resp.StatusCode, raw)
	}
	return raw, nil
}

type invoiceEnvelope struct {
	Invoice struct {
		ID        string `json:"Id"`
		SyncToken string `json:"SyncToken"`
	} `json:"Invoice"`
}

// CreateInvoice creates a one-line invoice and returns its QuickBooks ID.
func (c *Client) CreateInvoice(customerName string, amount float64, memo string) (string, error) {
	payload := map[string]interface{}{
		"Line": []map[string]interface{}{{
			"Amount":     amount,
			"DetailType": "SalesItemLineDetail",
			"Description": memo,
			"SalesItemLineDetail": map[string]interface{}{
				"ItemRef": map[string]string{"value": "1", "name": "Services"},
			},
		}},
		"CustomerRef": map[string]string{"name": customerName, "value": "1"},
	}

	raw, err := c.do(http.MethodPost, fmt.Sprintf("/v3/company/%s/invoice", c.realmID), payload)
	if err != nil {
		return "", err
	}
	var env invoiceEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", err
	}
	if env.Invoice.ID == "" {
		return "", fmt.Errorf("quickbooks response carried no invoice id")
	}
	return env.Invoice.ID, nil
}

// VoidInvoice reads the invoice for its current SyncToken, then voids it.
func (c *Client) VoidInvoice(invoiceID string) error {
	raw, err := c.do(http.MethodGet, fmt.Sprintf("/v3/company/%s/invoice/%s", c.realmID, invoiceID), nil)
	if err != nil {
		return err
	}
	var env invoiceEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}

	_, err = c.do(http.MethodPost,
		fmt.Sprintf("/v3/company/%s/invoice?operation=void", c.realmID),
		map[string]string{"Id": invoiceID, "SyncToken": env.Invoice.SyncToken})
	return err
}
