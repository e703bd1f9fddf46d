package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"reflow_oven/internal/models"
	"reflow_oven/internal/profile"
	"reflow_oven/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(ctx context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockOven struct {
	err error

	lastBake   service.BakeParams
	lastLevel  int
	lastTarget float64
	calls      []string
}

func (m *mockOven) StartBake(ctx context.Context, p service.BakeParams) error {
	m.calls = append(m.calls, "bake")
	m.lastBake = p
	return m.err
}
func (m *mockOven) StartReflow(ctx context.Context) error {
	m.calls = append(m.calls, "reflow")
	return m.err
}
func (m *mockOven) StartManualPower(ctx context.Context, level int) error {
	m.calls = append(m.calls, "manual_power")
	m.lastLevel = level
	return m.err
}
func (m *mockOven) StartManualTemp(ctx context.Context, targetC float64) error {
	m.calls = append(m.calls, "manual_temp")
	m.lastTarget = targetC
	return m.err
}
func (m *mockOven) Stop(ctx context.Context) error {
	m.calls = append(m.calls, "stop")
	return nil
}

type mockMonitoring struct {
	status models.OvenStatus
	err    error
}

func (m *mockMonitoring) GetStatus(ctx context.Context) (models.OvenStatus, error) {
	return m.status, m.err
}

type mockProfiles struct {
	list    service.ProfileList
	detail  service.ProfileDetail
	addIdx  int
	err     error
	lastIdx int
	lastP   profile.Profile
	calls   []string
}

func (m *mockProfiles) List(ctx context.Context) (service.ProfileList, error) {
	m.calls = append(m.calls, "list")
	return m.list, m.err
}
func (m *mockProfiles) Get(ctx context.Context, idx int) (service.ProfileDetail, error) {
	m.calls = append(m.calls, "get")
	m.lastIdx = idx
	return m.detail, m.err
}
func (m *mockProfiles) Add(ctx context.Context) (int, error) {
	m.calls = append(m.calls, "add")
	return m.addIdx, m.err
}
func (m *mockProfiles) Update(ctx context.Context, idx int, p profile.Profile) error {
	m.calls = append(m.calls, "update")
	m.lastIdx, m.lastP = idx, p
	return m.err
}
func (m *mockProfiles) Delete(ctx context.Context, idx int) error {
	m.calls = append(m.calls, "delete")
	m.lastIdx = idx
	return m.err
}
func (m *mockProfiles) Activate(ctx context.Context, idx int) error {
	m.calls = append(m.calls, "activate")
	m.lastIdx = idx
	return m.err
}

type mockSettings struct {
	current models.Settings
	err     error
	last    service.SettingsParams
}

func (m *mockSettings) ApplyStored(ctx context.Context) error { return nil }
func (m *mockSettings) GetSettings(ctx context.Context) (models.Settings, error) {
	return m.current, m.err
}
func (m *mockSettings) UpdateSettings(ctx context.Context, p service.SettingsParams) (models.Settings, error) {
	m.last = p
	if m.err != nil {
		return models.Settings{}, m.err
	}
	return models.Settings{Units: p.Units, Kp: uint16(p.Kp), Ki: uint16(p.Ki), Kd: uint16(p.Kd)}, nil
}

type mockEventLog struct {
	resp     []models.OvenEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
	calls    int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.OvenEvent, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// serveAuthed sends an authenticated request with an optional JSON body.
func serveAuthed(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
