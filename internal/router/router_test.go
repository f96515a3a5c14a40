package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/hireboard/config"
	"github.com/oksasatya/hireboard/internal/container"
	"github.com/oksasatya/hireboard/pkg/helpers"
	"github.com/oksasatya/hireboard/pkg/validation"
)

const fixedOTP = "123456"

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type server struct {
	t *testing.T
	h http.Handler
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	cfg := &config.Config{
		AppName:             "hireboard",
		JWTSecret:           "test-secret",
		JWTIssuer:           "hireboard",
		JWTTTL:              time.Hour,
		MaxResumeBytes:      1 << 20,
		SweepInterval:       time.Hour,
		DebugMetricsEnabled: true,
	}
	c := container.New(cfg, helpers.NewDiscardLogger(), container.Infra{})
	c.AuthSvc.GenOTP = func() (string, error) { return fixedOTP, nil }

	r := gin.New()
	reg := NewRegistry(r, cfg.APIPrefix)
	InitModules(reg, c)
	reg.RegisterAll()
	return &server{t: t, h: r}
}

func (s *server) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.h.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type session struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID string `json:"userId"`
}

func (s *server) jobSeeker(email string) session {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/auth/user/signup", "", gin.H{"email": email})
	require.Equal(s.t, http.StatusCreated, w.Code)

	w, env := s.do(http.MethodPost, "/auth/user/verify-and-complete", "", gin.H{
		"email":       email,
		"otp":         fixedOTP,
		"password":    "hunter22!",
		"name":        "Jane",
		"phoneNumber": "5550100",
		"skills":      []string{"go"},
		"experience":  "3 years",
		"education":   gin.H{"degree": "BSc", "institution": "State University"},
		"location":    "Pune",
	})
	require.Equal(s.t, http.StatusOK, w.Code, env.Message)
	return decode[session](s.t, env.Data)
}

func (s *server) recruiter(email, company string) session {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/auth/recruiter/signup", "", gin.H{"email": email, "password": "recruit3r!"})
	require.Equal(s.t, http.StatusCreated, w.Code)

	w, env := s.do(http.MethodPost, "/auth/recruiter/verify", "", gin.H{
		"email":          email,
		"otp":            fixedOTP,
		"name":           "Rick",
		"phoneNumber":    "5550111",
		"designation":    "Talent Lead",
		"companyName":    company,
		"companyWebsite": "https://" + company + ".test",
	})
	require.Equal(s.t, http.StatusOK, w.Code, env.Message)
	return decode[session](s.t, env.Data)
}

func TestSignupVerifyAndSession(t *testing.T) {
	s := newServer(t)
	jane := s.jobSeeker("jane@x.com")
	assert.Equal(t, "user", jane.Role)
	assert.NotEmpty(t, jane.Token)

	w, env := s.do(http.MethodGet, "/auth/verify", jane.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, env.Data)
	assert.Equal(t, true, got["valid"])
	assert.Equal(t, "user", got["role"])
	assert.Equal(t, jane.UserID, got["userId"])

	w, _ = s.do(http.MethodPost, "/auth/login", "", gin.H{"email": "jane@x.com", "password": "hunter22!", "role": "user"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/auth/login", "", gin.H{"email": "jane@x.com", "password": "hunter22!", "role": "recruiter"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/auth/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyAndCompleteReportsMissingFields(t *testing.T) {
	s := newServer(t)
	w, _ := s.do(http.MethodPost, "/auth/user/signup", "", gin.H{"email": "sam@x.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(http.MethodPost, "/auth/user/verify-and-complete", "", gin.H{"email": "sam@x.com", "otp": fixedOTP})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	details := decode[struct {
		Fields []string `json:"fields"`
	}](t, env.Error)
	assert.Contains(t, details.Fields, "password")
	assert.Contains(t, details.Fields, "location")

	// still unverified
	w, _ = s.do(http.MethodPost, "/auth/login", "", gin.H{"email": "sam@x.com", "password": "hunter22!", "role": "user"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJobApplicationFlowAndOwnership(t *testing.T) {
	s := newServer(t)
	rick := s.recruiter("rick@acme.test", "acme")
	mallory := s.recruiter("mallory@globex.test", "globex")
	jane := s.jobSeeker("jane@x.com")

	w, env := s.do(http.MethodPost, "/jobs", rick.Token, gin.H{
		"title":       "Backend Engineer",
		"description": "Build APIs in Go",
		"location":    "Remote",
		"skills":      []string{"go", "postgres"},
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	job := decode[struct {
		ID          string `json:"id"`
		CompanyName string `json:"companyName"`
		Status      string `json:"status"`
	}](t, env.Data)
	assert.Equal(t, "acme", job.CompanyName)
	assert.Equal(t, "open", job.Status)

	// job seekers cannot post jobs
	w, _ = s.do(http.MethodPost, "/jobs", jane.Token, gin.H{"title": "x", "description": "y", "location": "z"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodPost, "/jobs/"+job.ID+"/apply", jane.Token, gin.H{"coverLetter": "Hello"})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	app := decode[struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}](t, env.Data)
	assert.Equal(t, "applied", app.Status)

	w, _ = s.do(http.MethodPost, "/jobs/"+job.ID+"/apply", jane.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodGet, "/jobs/"+job.ID+"/applications", mallory.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodGet, "/jobs/"+job.ID+"/applications", rick.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)

	w, _ = s.do(http.MethodPatch, "/applications/"+app.ID+"/status", mallory.Token, gin.H{"status": "reviewed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodPatch, "/applications/"+app.ID+"/status", rick.Token, gin.H{"status": "shortlisted"})
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	w, env = s.do(http.MethodGet, "/applications/me", jane.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]map[string]any](t, env.Data)
	require.Len(t, mine, 1)
	assert.Equal(t, "shortlisted", mine[0]["status"])

	w, _ = s.do(http.MethodGet, "/jobseekers/"+jane.UserID, rick.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/jobseekers/"+jane.UserID, jane.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReferralLifecycle(t *testing.T) {
	s := newServer(t)
	jane := s.jobSeeker("jane@x.com")
	ann := s.jobSeeker("ann@x.com")

	w, env := s.do(http.MethodPost, "/referrals", jane.Token, gin.H{
		"companyName": "Initech",
		"jobTitle":    "SRE",
		"description": "Can refer for the SRE team",
		"location":    "Austin",
		"deadline":    time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	ref := decode[struct {
		ID string `json:"id"`
	}](t, env.Data)

	w, _ = s.do(http.MethodPost, "/referrals/"+ref.ID+"/apply", jane.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodPost, "/referrals/"+ref.ID+"/apply", ann.Token, gin.H{"coverLetter": "Hi"})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)

	w, _ = s.do(http.MethodGet, "/referrals/"+ref.ID+"/applications", ann.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(http.MethodGet, "/referrals", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, env.Data), 1)
}

func TestOpsEndpoints(t *testing.T) {
	s := newServer(t)
	w, _ := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	rec := httptest.NewRecorder()
	s.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hireboard"`)
}

func TestVerifyAndCompleteRejectsOverlongPassword(t *testing.T) {
	s := newServer(t)
	w, _ := s.do(http.MethodPost, "/auth/user/signup", "", gin.H{"email": "long@x.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(http.MethodPost, "/auth/user/verify-and-complete", "", gin.H{
		"email":       "long@x.com",
		"otp":         fixedOTP,
		"password":    strings.Repeat("p", 80),
		"name":        "Long",
		"phoneNumber": "5550102",
		"skills":      []string{"go"},
		"experience":  "1 year",
		"education":   gin.H{"degree": "BSc", "institution": "State University"},
		"location":    "Oslo",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, env.Message)
	assert.False(t, env.Success)
}
