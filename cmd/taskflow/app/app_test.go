package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/cmd/taskflow/ui"
	"taskflow/internal/api"
	"taskflow/internal/config"
	"taskflow/internal/form"
	"taskflow/internal/session"
	"taskflow/internal/types"
)

func testBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/user/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "hunter42" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": false, "message": "Invalid email or password.",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"_id": "u1", "name": "Ada Lovelace", "email": body.Email,
			"isAdmin": true, "isActive": true, "token": "tok-1",
		})
	})
	mux.HandleFunc("GET /api/task/dashboard", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"totalTasks": 3,
			"tasks":      map[string]int{"todo": 2, "completed": 1},
			"last10Task": []any{},
			"users":      []any{},
		})
	})
	mux.HandleFunc("GET /api/user/get-team", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"_id": "u1", "name": "Ada Lovelace", "isAdmin": true},
			{"_id": "u2", "name": "Grace Hopper"},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testModel(t *testing.T, srv *httptest.Server, seed *session.Session) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = srv.URL + "/api"

	file := session.NewFile(filepath.Join(t.TempDir(), "session.json"))
	if seed != nil {
		require.NoError(t, file.Save(*seed))
	}

	var store *session.Store
	client := api.NewClient(cfg.API.BaseURL, 5*time.Second, tokenFunc(func() string {
		if store == nil {
			return ""
		}
		return store.Token()
	}), nil)
	store = session.NewStore(file, client, nil)
	return New(cfg, client, store, nil)
}

type tokenFunc func() string

func (f tokenFunc) Token() string { return f() }

func adminSession() *session.Session {
	return &session.Session{
		Token: "tok-1",
		Principal: types.Principal{
			ID: "u1", Name: "Ada Lovelace", Email: "ada@example.com",
			IsAdmin: true, IsActive: true,
		},
	}
}

func memberSession() *session.Session {
	s := adminSession()
	s.Principal.IsAdmin = false
	return s
}

func asModel(t *testing.T, tm tea.Model) Model {
	t.Helper()
	m, ok := tm.(Model)
	require.True(t, ok, "Update returned %T", tm)
	return m
}

func TestStartsAtLoginWithoutSession(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, nil)
	assert.Equal(t, PageLogin, m.page)
	assert.Nil(t, m.Init())
}

func TestRestoredSessionOpensDashboard(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, adminSession())
	assert.Equal(t, PageDashboard, m.page)
	assert.NotNil(t, m.Init(), "restored session should trigger a data load")
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, nil)

	msg := m.loginCmd("ada@example.com", "wrong")()
	res, ok := msg.(loginResultMsg)
	require.True(t, ok)
	require.Error(t, res.err)

	m = asModel(t, must2(m.Update(res)))
	assert.Equal(t, PageLogin, m.page)
	assert.Equal(t, "Invalid email or password.", m.notice.text)
	assert.True(t, m.notice.isErr)
}

func TestLoginSuccessLoadsDashboard(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, nil)

	msg := m.loginCmd("ada@example.com", "hunter42")()
	res := msg.(loginResultMsg)
	require.NoError(t, res.err)

	model, cmd := m.Update(res)
	m = asModel(t, model)
	assert.Equal(t, PageDashboard, m.page)
	require.NotNil(t, cmd)

	loaded, ok := cmd().(dataLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	assert.Equal(t, 3, loaded.stats.TotalTasks)
	assert.Len(t, loaded.roster, 2, "admin viewer also loads the roster")

	m = asModel(t, must2(m.Update(loaded)))
	assert.Contains(t, m.dashboard.View(), "Welcome back, Ada")
}

func TestNonAdminSkipsRosterAndTeamTab(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, memberSession())

	loaded := m.loadDataCmd()().(dataLoadedMsg)
	require.NoError(t, loaded.err)
	assert.Nil(t, loaded.roster)

	m = asModel(t, must2(m.Update(loaded)))
	assert.NotContains(t, m.header(), "Team")

	m = asModel(t, must2(m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})))
	assert.Equal(t, PageDashboard, m.page, "non-admin must not reach the team page")
}

func TestAuthErrorForcesSignOut(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, adminSession())

	m = asModel(t, must2(m.Update(dataLoadedMsg{err: &api.AuthError{Message: "jwt expired"}})))
	assert.Equal(t, PageLogin, m.page)
	_, ok := m.session.Current()
	assert.False(t, ok, "session must be cleared")
}

func TestTeamPageOpensForms(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, adminSession())

	loaded := m.loadDataCmd()().(dataLoadedMsg)
	require.NoError(t, loaded.err)
	m = asModel(t, must2(m.Update(loaded)))

	m = asModel(t, must2(m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})))
	require.Equal(t, PageTeam, m.page)

	m = asModel(t, must2(m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})))
	assert.Equal(t, modalUserForm, m.modal)
	assert.Equal(t, form.ModeCreate, m.userForm.Controller().Mode())

	m = asModel(t, must2(m.Update(ui.CancelRequestedMsg{})))
	assert.Equal(t, modalNone, m.modal)

	m = asModel(t, must2(m.Update(tea.KeyMsg{Type: tea.KeyEnter})))
	require.Equal(t, modalUserForm, m.modal)
	assert.Equal(t, form.ModeUpdate, m.userForm.Controller().Mode())
	assert.Equal(t, "Ada Lovelace", m.userForm.Controller().Draft().Name)
}

func TestInvalidFormSubmitStaysOpen(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, adminSession())

	loaded := m.loadDataCmd()().(dataLoadedMsg)
	m = asModel(t, must2(m.Update(loaded)))
	m = asModel(t, must2(m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})))
	m = asModel(t, must2(m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})))

	model, cmd := m.submitModal()
	m = asModel(t, model)
	assert.Nil(t, cmd, "invalid draft must not issue a network command")
	assert.Equal(t, modalUserForm, m.modal)
	assert.NotEmpty(t, m.userForm.Controller().FieldErrors())
}

func TestStaleFormOutcomeIgnored(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, adminSession())

	loaded := m.loadDataCmd()().(dataLoadedMsg)
	m = asModel(t, must2(m.Update(loaded)))
	m = asModel(t, must2(m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})))
	m = asModel(t, must2(m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})))

	stale := form.Outcome{ControllerID: "some-other-instance"}
	m = asModel(t, must2(m.Update(formResolvedMsg{outcome: stale})))
	assert.Equal(t, modalUserForm, m.modal)
	assert.Empty(t, m.notice.text)
}

func TestNoticeExpiryIsSequenced(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, adminSession())

	m.setNotice("first", false)
	first := m.notice.seq
	m.setNotice("second", false)

	m = asModel(t, must2(m.Update(noticeExpiredMsg{seq: first})))
	assert.Equal(t, "second", m.notice.text, "stale expiry must not clear a newer notice")

	m = asModel(t, must2(m.Update(noticeExpiredMsg{seq: m.notice.seq})))
	assert.Empty(t, m.notice.text)
}

func TestExternalSignOutReturnsToLogin(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, adminSession())
	require.Equal(t, PageDashboard, m.page)

	m.session.Logout()
	m = asModel(t, must2(m.Update(SessionChangedMsg{})))
	assert.Equal(t, PageLogin, m.page)
}

func TestViewShowsAdminTabs(t *testing.T) {
	srv := testBackend(t)
	m := testModel(t, srv, adminSession())
	m = asModel(t, must2(m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})))

	out := m.View()
	assert.Contains(t, out, "Dashboard")
	assert.Contains(t, out, "Team")
	assert.True(t, strings.Contains(out, "ada@example.com"))
}

// must2 drops the command so Update calls chain in assertions.
func must2(model tea.Model, _ tea.Cmd) tea.Model { return model }
