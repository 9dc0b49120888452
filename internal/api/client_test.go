package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestAuthenticateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/user/login", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "a@b.com", req["email"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"42","name":"Jane Doe","isAdmin":true,"token":"tok-1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, nil)
	p, token, err := c.Authenticate(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "42", p.ID)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.True(t, p.IsAdmin)
	assert.Equal(t, "tok-1", token)
}

func TestAuthenticateInvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid email or password."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, nil)
	_, _, err := c.Authenticate(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	assert.Equal(t, "Invalid email or password.", UserMessage(err))
}

func TestUpdatePersonSendsBearerAndNoPasswordKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/user/update/42", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasPassword := body["password"]
		_, hasConfirm := body["confirmPassword"]
		assert.False(t, hasPassword, "update payload must not contain password")
		assert.False(t, hasConfirm, "update payload must not contain confirmPassword")

		_, _ = w.Write([]byte(`{"status":true,"message":"Profile updated.","user":{"_id":"42","name":"New Name"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, staticToken("tok-1"), nil)
	p, err := c.UpdatePerson(context.Background(), "42", UpdatePayload{Name: "New Name", IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, "New Name", p.Name)
}

func TestCreatePersonConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"status":false,"message":"Email already in use"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, nil)
	_, err := c.CreatePerson(context.Background(), CreatePayload{Email: "dup@b.com"})
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Email already in use", UserMessage(err))
}

func TestListRosterPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "alice", r.URL.Query().Get("search"))
		_, _ = w.Write([]byte(`[{"_id":"1","name":"A"},{"_id":"2","name":"B"},{"_id":"3","name":"C"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, nil)
	roster, err := c.ListRoster(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, roster, 3)
	for i, want := range []string{"A", "B", "C"} {
		assert.Equal(t, want, roster[i].Name)
	}
}

func TestFetchDashboardStatsBadJSONIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalTasks":`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, nil)
	_, err := c.FetchDashboardStats(context.Background())
	require.Error(t, err)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, "Something went wrong. Please try again.", UserMessage(err))
}

func TestTransportErrorOnConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately: every request now fails to connect

	c := NewClient(srv.URL, time.Second, nil, nil)
	_, err := c.ListRoster(context.Background(), "")
	require.Error(t, err)

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.False(t, IsAuth(err))
}

func TestValidationErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":"Email Address is required!"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil, nil)
	_, err := c.CreatePerson(context.Background(), CreatePayload{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "Email Address is required!", UserMessage(err))
}
