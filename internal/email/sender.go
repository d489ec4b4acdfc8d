package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Message is an outbound email.
type Message struct {
	To      []string `json:"to"`
	CC      []string `json:"cc,omitempty"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Sender posts messages to the provider's HTTP API.
type Sender struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

// NewSenderFromEnv reads EMAIL_API_URL, EMAIL_API_KEY and EMAIL_FROM.
func NewSenderFromEnv() *Sender {
	return &Sender{
		endpoint: os.Getenv("EMAIL_API_URL"),
		apiKey:   os.Getenv("EMAIL_API_KEY"),
		from:     os.Getenv("EMAIL_FROM"),
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type address struct {
	Email string `json:"email"`
}

type personalization struct {
	To []address `json:"to"`
	CC []address `json:"cc,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// providerPayload is the SendGrid-shaped send request.
type providerPayload struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

func toAddresses(emails []string) []address {
	out := make([]address, 0, len(emails))
	for _, e := range emails {
		out = append(out, address{Email: e})
	}
	return out
}

// Send posts the message and fails on any non-2xx provider response.
func (s *Sender) Send(msg Message) error {
	if s.endpoint == "" || s.apiKey == "" {
		return fmt.Errorf("email provider not configured")
	}

	payload := providerPayload{
		Personalizations: []personalization{{
			To: toAddresses(msg.To),
			CC: toAddresses(msg.CC),
		}},
		From:    address{Email: s.from},
		Subject: msg.Subject,
	}
	payload.Content = append(payload.Content, content{Type: "text/html", Value: msg.Body})

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned %d", resp.StatusCode)
	}
	return nil
}
