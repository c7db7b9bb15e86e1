package sendgrid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lumina-backend/internal/platform/logger"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(logger.Nop(), Config{})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestSendBuildsMailPayload(t *testing.T) {
	var got mailSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("X-Message-Id", "msg-1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{
		APIKey:           "sg-key",
		BaseURL:          srv.URL,
		DefaultFromEmail: "shop@lumina.test",
		DefaultFromName:  "Lumina",
	})
	require.NoError(t, err)

	res, err := c.Send(context.Background(), SendEmailRequest{
		To:      []EmailAddress{{Email: "jane@example.com"}},
		Subject: " Your order ",
		Text:    "thanks",
		HTML:    "<p>thanks</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, res.StatusCode)
	assert.Equal(t, "msg-1", res.MessageID)

	assert.Equal(t, "shop@lumina.test", got.From.Email)
	assert.Equal(t, "Lumina", got.From.Name)
	assert.Equal(t, "Your order", got.Subject)
	require.Len(t, got.Content, 2)
	assert.Equal(t, "text/plain", got.Content[0].Type)
	assert.Equal(t, "text/html", got.Content[1].Type)
}

func TestSendValidatesRequest(t *testing.T) {
	c, err := New(logger.Nop(), Config{APIKey: "k", DefaultFromEmail: "a@b.c"})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), SendEmailRequest{Subject: "x", Text: "y"})
	assert.Error(t, err)
	_, err = c.Send(context.Background(), SendEmailRequest{To: []EmailAddress{{Email: "x@y.z"}}, Text: "y"})
	assert.Error(t, err)
	_, err = c.Send(context.Background(), SendEmailRequest{To: []EmailAddress{{Email: "x@y.z"}}, Subject: "x"})
	assert.Error(t, err)
}

func TestSendRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{
		APIKey:           "k",
		BaseURL:          srv.URL,
		DefaultFromEmail: "a@b.c",
		MaxRetries:       2,
		BaseBackoff:      time.Millisecond,
	})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), SendEmailRequest{
		To: []EmailAddress{{Email: "x@y.z"}}, Subject: "s", Text: "t",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad from"}]}`))
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL, DefaultFromEmail: "a@b.c", MaxRetries: 3})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), SendEmailRequest{
		To: []EmailAddress{{Email: "x@y.z"}}, Subject: "s", Text: "t",
	})
	var he *HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, "sendgrid http 400: bad from", he.Error())
	assert.Equal(t, int32(1), calls.Load())
}
