package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/scribeapp/scribe/internal/auth"
	"github.com/scribeapp/scribe/internal/middleware"
	"github.com/scribeapp/scribe/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	a := auth.New(repo.NewUserRepo(db), []byte("test-secret"), time.Hour, bcrypt.MinCost)
	return &AuthHandler{Auth: a}, mock
}

func userRows(id int, username, email, hash string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
		AddRow(id, username, email, hash, time.Now())
}

func TestAuthHandler_Register(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("bob", "b@x.com", sqlmock.AnyArg()).
		WillReturnRows(userRows(2, "bob", "b@x.com", "hash"))

	body, _ := json.Marshal(map[string]string{"username": "bob", "email": "b@x.com", "password": "longenough"})
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Register status: got %d, want 201, body: %s", rr.Code, rr.Body.String())
	}
	var user struct {
		ID       int    `json:"id"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&user); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if user.ID != 2 || user.Username != "bob" {
		t.Errorf("unexpected user: %+v", user)
	}
	// The password hash must not be serialized.
	if bytes.Contains(rr.Body.Bytes(), []byte("password")) {
		t.Errorf("response leaks password material: %s", rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "b@y.com", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	body, _ := json.Marshal(map[string]string{"username": "alice", "email": "b@y.com", "password": "longenough"})
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("Register status: got %d, want 409", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h, _ := newAuthHandler(t)

	body, _ := json.Marshal(map[string]string{"username": "x", "email": "not-an-email", "password": "short"})
	req := httptest.NewRequest("POST", "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Register status: got %d, want 400", rr.Code)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at`).
		WithArgs("alice").
		WillReturnRows(userRows(1, "alice", "a@x.com", string(hash)))

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "pw1"})
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Login status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Token == "" || out.User.Username != "alice" || out.User.ID != 1 {
		t.Errorf("unexpected response: token=%q user=%+v", out.Token, out.User)
	}

	// Session cookie set, HTTP-only
	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Errorf("expected HTTP-only session cookie, got %+v", cookie)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// Unknown user and wrong password must produce the same status and wording.
func TestAuthHandler_Login_GenericFailure(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)

	cases := []struct {
		name  string
		setup func(mock sqlmock.Sqlmock)
		creds map[string]string
	}{
		{
			name: "unknown user",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at`).
					WithArgs("nobody").
					WillReturnError(sql.ErrNoRows)
			},
			creds: map[string]string{"username": "nobody", "password": "pw1"},
		},
		{
			name: "wrong password",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at`).
					WithArgs("alice").
					WillReturnRows(userRows(1, "alice", "a@x.com", string(hash)))
			},
			creds: map[string]string{"username": "alice", "password": "wrong"},
		},
	}

	var bodies []string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, mock := newAuthHandler(t)
			tc.setup(mock)

			body, _ := json.Marshal(tc.creds)
			req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			h.Login(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("Login status: got %d, want 401", rr.Code)
			}
			bodies = append(bodies, rr.Body.String())
		})
	}

	if len(bodies) == 2 && bodies[0] != bodies[1] {
		t.Errorf("login failures must be indistinguishable: %q vs %q", bodies[0], bodies[1])
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h, _ := newAuthHandler(t)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Logout status: got %d, want 200", rr.Code)
	}
	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("expected expired empty session cookie, got %+v", cookie)
	}
}
