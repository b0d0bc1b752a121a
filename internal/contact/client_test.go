package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRelaysJSON(t *testing.T) {
	var got relayPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"next":"/thanks"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	receipt, err := client.Send(context.Background(), validSubmission(), "ar")
	require.NoError(t, err)
	assert.True(t, receipt.Relayed)
	assert.Equal(t, "/thanks", receipt.Next)

	_, err = ulid.ParseStrict(receipt.Reference)
	require.NoError(t, err)
	assert.Equal(t, receipt.Reference, got.Reference)
	assert.Equal(t, "ar", got.Lang)
	assert.Equal(t, "layla@example.com", got.Email)
}

func TestReceiptNextURL(t *testing.T) {
	cases := map[string]string{
		"":                         "",
		"/thanks":                  "/thanks",
		" /thanks?ref=1 ":          "/thanks?ref=1",
		"https://example.com/done": "https://example.com/done",
		"http://example.com":       "http://example.com",
		"//evil.example":           "",
		"/\\evil.example":          "",
		"javascript:alert(1)":      "",
		"thanks":                   "",
		"ftp://example.com/file":   "",
	}
	for next, want := range cases {
		assert.Equal(t, want, Receipt{Next: next}.NextURL(), next)
	}
}

func TestSendErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[{"field":"email","message":"should be an email"}]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Send(context.Background(), validSubmission(), "en")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRelayRejected)
	var rerr *RelayError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusUnprocessableEntity, rerr.Status)
	assert.Equal(t, "should be an email", rerr.Fields["email"])
}

func TestSendOKStatusWithErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"form disabled"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Send(context.Background(), validSubmission(), "en")
	assert.ErrorIs(t, err, ErrRelayRejected)
	assert.Contains(t, err.Error(), "form disabled")
}

func TestSendTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Send(context.Background(), validSubmission(), "en")
	assert.ErrorIs(t, err, ErrRelayUnavailable)
	assert.NotErrorIs(t, err, ErrRelayRejected)
}

func TestSendUnconfiguredAcceptsLocally(t *testing.T) {
	client := NewClient("", 0)
	assert.False(t, client.Configured())
	receipt, err := client.Send(context.Background(), validSubmission(), "en")
	require.NoError(t, err)
	assert.False(t, receipt.Relayed)
	assert.NotEmpty(t, receipt.Reference)
}

func TestSendHoneypotSkipsRelay(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	s := validSubmission()
	s.Website = "http://spam.example"
	receipt, err := NewClient(srv.URL, time.Second).Send(context.Background(), s, "en")
	require.NoError(t, err)
	assert.False(t, receipt.Relayed)
	assert.False(t, called)
}
