package registration

import (
	"acadeemia/impl/core"
	"acadeemia/internal/config"
	"acadeemia/internal/database/memory"
	"acadeemia/internal/service/auth"
	wizard "acadeemia/wizard/registration"
	"acadeemia/wizard/workflow"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type session struct {
	ID        string `json:"id"`
	Step      string `json:"step"`
	Completed bool   `json:"completed"`
	Payload   struct {
		AdminEmail    string `json:"adminEmail"`
		AdminPassword string `json:"adminPassword"`
		SchoolName    string `json:"schoolName"`
		Plan          struct {
			Name string `json:"name"`
		} `json:"selectedPlan"`
	} `json:"payload"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()

	authService := auth.NewAuthService(log)
	authService.SetRepository(store)

	conf := &config.Config{}
	conf.Plans = []config.Plan{{Name: "Premium", Price: 15000, Currency: "KES", BillingPeriod: "year"}}

	c := core.New(log)
	c.SetConfig(conf)
	c.SetRepository(store)
	c.SetAuthService(authService)

	engine := workflow.NewEngine(workflow.NewMemoryStateStorage(time.Hour), log)
	engine.RegisterWorkflow(wizard.NewRegistrationWorkflow(authService, c.CompleteRegistration, log))
	c.SetWizard(engine)

	r := chi.NewRouter()
	r.Get("/plans", Plans(log, c))
	r.Route("/registration", func(r chi.Router) {
		r.Post("/", Start(log, c))
		r.Get("/{id}", Get(log, c))
		r.Delete("/{id}", Close(log, c))
		r.Post("/{id}/step", Step(log, c))
		r.Post("/{id}/submit", Submit(log, c))
	})
	return r
}

func call(t *testing.T, h http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decodeSession(t *testing.T, raw json.RawMessage) session {
	t.Helper()
	var s session
	require.NoError(t, json.Unmarshal(raw, &s))
	return s
}

const adminStep = `{"action":"next","data":{"adminFirstName":"Jane","adminLastName":"Doe","adminEmail":"jane@school.edu","adminPhone":"+254700000000","adminPassword":"longenough1","adminConfirmPassword":"longenough1"}}`

func TestWizardOverHTTP(t *testing.T) {
	h := newRouter(t)

	code, env := call(t, h, http.MethodGet, "/plans", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"Premium"`)

	code, env = call(t, h, http.MethodPost, "/registration/", `{"plan":"premium"}`)
	require.Equal(t, http.StatusCreated, code)
	s := decodeSession(t, env.Data)
	assert.Equal(t, "admin", s.Step)
	assert.Equal(t, "Premium", s.Payload.Plan.Name)

	code, env = call(t, h, http.MethodPost, "/registration/"+s.ID+"/step", adminStep)
	require.Equal(t, http.StatusOK, code, env.Message)
	s = decodeSession(t, env.Data)
	assert.Equal(t, "school", s.Step)
	assert.Equal(t, "jane@school.edu", s.Payload.AdminEmail)
	assert.Empty(t, s.Payload.AdminPassword)

	code, env = call(t, h, http.MethodPost, "/registration/"+s.ID+"/submit", `{}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)

	code, env = call(t, h, http.MethodPost, "/registration/"+s.ID+"/step", `{"action":"next","data":{"schoolName":"Hill School"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, env.Success)

	code, env = call(t, h, http.MethodPost, "/registration/"+s.ID+"/step", `{"action":"next","data":{"schoolName":"Hill School","schoolAddress":"1 Hill Road","schoolType":"primary","studentCount":"100-500"}}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	s = decodeSession(t, env.Data)
	assert.Equal(t, "review", s.Step)

	code, env = call(t, h, http.MethodPost, "/registration/"+s.ID+"/step", `{"action":"back"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "school", decodeSession(t, env.Data).Step)

	code, _ = call(t, h, http.MethodPost, "/registration/"+s.ID+"/step", `{"action":"next","data":{"schoolName":"Hill School","schoolAddress":"1 Hill Road","schoolType":"primary","studentCount":"100-500"}}`)
	require.Equal(t, http.StatusOK, code)

	// no gateway configured: the hand-off fails and the session stays on review
	code, env = call(t, h, http.MethodPost, "/registration/"+s.ID+"/submit", `{"countryCode":"KE"}`)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "review", decodeSession(t, env.Data).Step)

	code, _ = call(t, h, http.MethodDelete, "/registration/"+s.ID, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, h, http.MethodGet, "/registration/"+s.ID, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestWizardRejectsShortPassword(t *testing.T) {
	h := newRouter(t)

	_, env := call(t, h, http.MethodPost, "/registration/", `{"plan":"Premium"}`)
	s := decodeSession(t, env.Data)

	body := strings.ReplaceAll(adminStep, "longenough1", "short")
	code, env := call(t, h, http.MethodPost, "/registration/"+s.ID+"/step", body)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	var data struct {
		Session session                `json:"session"`
		Error   wizard.ValidationError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "admin", data.Session.Step)
	assert.Equal(t, wizard.RuleLength, data.Error.Rule)
}

func TestStartUnknownPlan(t *testing.T) {
	h := newRouter(t)

	code, env := call(t, h, http.MethodPost, "/registration/", `{"plan":"Gold"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
}
