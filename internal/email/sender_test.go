package email

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSender(url string) *Sender {
	return &Sender{
		endpoint: url,
		apiKey:   "test-key",
		from:     "broker@harborcre.com",
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSendPostsProviderPayload(t *testing.T) {
	var got providerPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := testSender(srv.URL).Send(Message{
		To:      []string{"tenant@example.com"},
		CC:      []string{"partner@example.com"},
		Subject: "Site submit: Midtown Plaza",
		Body:    "<p>See attached flyer.</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", auth)
	require.Len(t, got.Personalizations, 1)
	assert.Equal(t, "tenant@example.com", got.Personalizations[0].To[0].Email)
	assert.Equal(t, "partner@example.com", got.Personalizations[0].CC[0].Email)
	assert.Equal(t, "broker@harborcre.com", got.From.Email)
	assert.Equal(t, "Site submit: Midtown Plaza", got.Subject)
	require.Len(t, got.Content, 1)
	assert.Equal(t, "text/html", got.Content[0].Type)
}

func TestSendFailsOnProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	err := testSender(srv.URL).Send(Message{To: []string{"a@b.c"}, Subject: "x"})
	assert.Error(t, err)
}

func TestSendFailsWhenUnconfigured(t *testing.T) {
	s := &Sender{client: http.DefaultClient}
	assert.Error(t, s.Send(Message{To: []string{"a@b.c"}, Subject: "x"}))
}
