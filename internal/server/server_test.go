package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authsvc "edura/internal/auth"
	"edura/internal/models"
	"edura/internal/store"
)

// --- in-memory store and mailer for driving the router ---

type memStore struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]*models.User
	students map[int64]*models.StudentProfile
	teachers map[int64]*models.TeacherProfile
}

func newMemStore() *memStore {
	return &memStore{
		nextID:   1,
		users:    map[int64]*models.User{},
		students: map[int64]*models.StudentProfile{},
		teachers: map[int64]*models.TeacherProfile{},
	}
}

func (m *memStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) Create(ctx context.Context, nu store.NewUser) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == nu.Email {
			return nil, store.ErrDuplicateEmail
		}
	}
	otp := nu.OTP
	exp := nu.OTPExpiresAt
	u := &models.User{
		ID:           m.nextID,
		Name:         nu.Name,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		Role:         nu.Role,
		OTP:          &otp,
		OTPExpiresAt: &exp,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.nextID++
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memStore) RotateOTP(ctx context.Context, id int64, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.IsVerified {
		return store.ErrConflict
	}
	u.OTP = &code
	u.OTPExpiresAt = &expiresAt
	return nil
}

func (m *memStore) ConsumeOTP(ctx context.Context, id int64, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.IsVerified || u.OTP == nil || *u.OTP != code {
		return store.ErrConflict
	}
	u.IsVerified = true
	u.OTP = nil
	u.OTPExpiresAt = nil
	return nil
}

func (m *memStore) UpdateUserFields(ctx context.Context, id int64, p store.UserPatch) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.ProfileImage != nil {
		u.ProfileImage = p.ProfileImage
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = p.PhoneNumber
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UpsertStudentProfile(ctx context.Context, p models.StudentProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students[p.UserID] = &p
	return nil
}

func (m *memStore) UpsertTeacherProfile(ctx context.Context, p models.TeacherProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teachers[p.UserID] = &p
	return nil
}

func (m *memStore) GetStudentProfile(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.students[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) GetTeacherProfile(ctx context.Context, userID int64) (*models.TeacherProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.teachers[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type captureMailer struct {
	mu     sync.Mutex
	bodies []string
}

func (c *captureMailer) Send(ctx context.Context, to, subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies = append(c.bodies, body)
	return nil
}

var otpPattern = regexp.MustCompile(`\d{6}`)

func (c *captureMailer) lastOTP(t *testing.T) string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.bodies)
	code := otpPattern.FindString(c.bodies[len(c.bodies)-1])
	require.Len(t, code, 6)
	return code
}

// --- harness ---

func newTestRouter() (http.Handler, *memStore, *captureMailer) {
	st := newMemStore()
	m := &captureMailer{}
	tokens := authsvc.NewTokenService("e2e-secret", time.Hour)
	log := logrus.New()
	log.SetOutput(bytes.NewBuffer(nil))
	srv := NewServer(":0", st, m, tokens, bcrypt.MinCost, log)
	return srv.Router(), st, m
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out struct {
		Success bool                   `json:"success"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.Data
}

// --- tests ---

func TestEndToEnd_StudentJourney(t *testing.T) {
	router, _, mail := newTestRouter()

	// register
	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Amy", "email": "a@x.com", "password": "pw123", "role": "STUDENT",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeEnvelope(t, rec)
	require.Equal(t, false, data["is_verified"])
	require.Equal(t, "STUDENT", data["role"])
	otp := mail.lastOTP(t)

	// login before verification is refused
	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// verify email
	rec = doJSON(t, router, http.MethodPost, "/auth/verify-email", "", map[string]string{
		"email": "a@x.com", "otp": otp,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeEnvelope(t, rec)
	require.Equal(t, true, data["is_verified"])

	// login
	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeEnvelope(t, rec)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)

	// identity endpoint
	rec = doJSON(t, router, http.MethodGet, "/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeEnvelope(t, rec)
	require.Equal(t, "a@x.com", data["email"])

	// teacher-only route is forbidden for a student
	rec = doJSON(t, router, http.MethodGet, "/auth/teacher-only", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// student profile upsert and readback
	rec = doJSON(t, router, http.MethodPut, "/profile/student", token, map[string]string{
		"education_level": "HIGH_SCHOOL", "institution": "Springfield High",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeEnvelope(t, rec)
	require.NotNil(t, data["student_profile"])

	// teacher profile route is role-gated
	rec = doJSON(t, router, http.MethodPut, "/profile/teacher", token, map[string]string{"bio": "nope"})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEndToEnd_TeacherOnlyRoute(t *testing.T) {
	router, _, mail := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Tom", "email": "t@x.com", "password": "secret", "role": "TEACHER",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/verify-email", "", map[string]string{
		"email": "t@x.com", "otp": mail.lastOTP(t),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "t@x.com", "password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeEnvelope(t, rec)["token"].(string)

	rec = doJSON(t, router, http.MethodGet, "/auth/teacher-only", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEndToEnd_ResendCooldown(t *testing.T) {
	router, st, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Amy", "email": "a@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// immediate resend hits the cooldown
	rec = doJSON(t, router, http.MethodPost, "/auth/resend-otp", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	data := decodeEnvelope(t, rec)
	retryAfter, ok := data["retryAfter"].(float64)
	require.True(t, ok)
	require.Positive(t, retryAfter)

	// age the window past the cooldown anchor, then resend succeeds
	st.mu.Lock()
	for _, u := range st.users {
		at := time.Now().Add(-61 * time.Second)
		u.OTPExpiresAt = &at
	}
	st.mu.Unlock()

	rec = doJSON(t, router, http.MethodPost, "/auth/resend-otp", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEndToEnd_RegisterValidation(t *testing.T) {
	router, _, _ := newTestRouter()

	// duplicate email
	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Amy", "email": "a@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Amy2", "email": "a@x.com", "password": "pw456",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// bad role
	rec = doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Eve", "email": "e@x.com", "password": "pw", "role": "ADMIN",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// missing fields
	rec = doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{"email": "x@x.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEndToEnd_UnauthenticatedAccess(t *testing.T) {
	router, _, _ := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/auth/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/profile", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
