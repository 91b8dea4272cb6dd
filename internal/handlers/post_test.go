package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/scribeapp/scribe/internal/middleware"
	"github.com/scribeapp/scribe/internal/repo"
)

func newPostHandler(t *testing.T) (*PostHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &PostHandler{Repo: repo.NewPostRepo(db)}, mock
}

// withURLParam builds a request context carrying a chi route parameter.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func asUser(r *http.Request, userID int) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func TestPostHandler_List(t *testing.T) {
	h, mock := newPostHandler(t)

	mock.ExpectQuery(`FROM posts p`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "image", "category", "user_id", "created_at", "username"}).
			AddRow(1, "Hello", "body", "", "tech", 1, time.Now(), "alice"))

	req := httptest.NewRequest("GET", "/posts", nil)
	rr := httptest.NewRecorder()
	h.ListPosts(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("ListPosts status: got %d, want 200", rr.Code)
	}
	var posts []struct {
		ID     int    `json:"id"`
		Author string `json:"author"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&posts); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(posts) != 1 || posts[0].Author != "alice" {
		t.Errorf("unexpected posts: %+v", posts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_List_CategoryFilter(t *testing.T) {
	h, mock := newPostHandler(t)

	mock.ExpectQuery(`WHERE p.category = \$1`).
		WithArgs("travel", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "image", "category", "user_id", "created_at", "username"}))

	req := httptest.NewRequest("GET", "/posts?cat=travel", nil)
	rr := httptest.NewRecorder()
	h.ListPosts(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("ListPosts status: got %d, want 200", rr.Code)
	}
	// Empty result renders as [] rather than null
	if rr.Body.String() != "[]\n" {
		t.Errorf("expected empty array, got %q", rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Get_NotFound(t *testing.T) {
	h, mock := newPostHandler(t)

	mock.ExpectQuery(`FROM posts p`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	req := withURLParam(httptest.NewRequest("GET", "/posts/42", nil), "id", "42")
	rr := httptest.NewRecorder()
	h.GetPost(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("GetPost status: got %d, want 404", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Create(t *testing.T) {
	h, mock := newPostHandler(t)

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs("Hello", "body", "", "tech", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "image", "category", "user_id", "created_at"}).
			AddRow(1, "Hello", "body", "", "tech", 1, time.Now()))

	body, _ := json.Marshal(map[string]string{"title": "Hello", "content": "body", "category": "tech"})
	req := asUser(httptest.NewRequest("POST", "/posts", bytes.NewReader(body)), 1)
	rr := httptest.NewRecorder()
	h.CreatePost(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("CreatePost status: got %d, want 201, body: %s", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Create_Unauthenticated(t *testing.T) {
	h, _ := newPostHandler(t)

	body, _ := json.Marshal(map[string]string{"title": "Hello", "content": "body"})
	req := httptest.NewRequest("POST", "/posts", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreatePost(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("CreatePost status: got %d, want 401", rr.Code)
	}
}

func TestPostHandler_Create_Validation(t *testing.T) {
	h, _ := newPostHandler(t)

	body, _ := json.Marshal(map[string]string{"title": "", "content": ""})
	req := asUser(httptest.NewRequest("POST", "/posts", bytes.NewReader(body)), 1)
	rr := httptest.NewRecorder()
	h.CreatePost(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("CreatePost status: got %d, want 400", rr.Code)
	}
}

// Updating someone else's post is forbidden, with a body that does not reveal
// whether the post exists.
func TestPostHandler_Update_Forbidden(t *testing.T) {
	h, mock := newPostHandler(t)

	mock.ExpectQuery(`UPDATE posts`).
		WithArgs("New", "body", "", "", 7, 99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "image", "category", "user_id", "created_at"}))

	body, _ := json.Marshal(map[string]string{"title": "New", "content": "body"})
	req := asUser(withURLParam(httptest.NewRequest("PUT", "/posts/7", bytes.NewReader(body)), "id", "7"), 99)
	rr := httptest.NewRecorder()
	h.UpdatePost(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("UpdatePost status: got %d, want 403", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != errMessageNotOwner {
		t.Errorf("unexpected error message: %q", out["error"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Delete_Forbidden(t *testing.T) {
	h, mock := newPostHandler(t)

	mock.ExpectExec(`DELETE FROM posts`).
		WithArgs(7, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := asUser(withURLParam(httptest.NewRequest("DELETE", "/posts/7", nil), "id", "7"), 99)
	rr := httptest.NewRecorder()
	h.DeletePost(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("DeletePost status: got %d, want 403", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostHandler_Delete(t *testing.T) {
	h, mock := newPostHandler(t)

	mock.ExpectExec(`DELETE FROM posts`).
		WithArgs(7, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := asUser(withURLParam(httptest.NewRequest("DELETE", "/posts/7", nil), "id", "7"), 1)
	rr := httptest.NewRecorder()
	h.DeletePost(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("DeletePost status: got %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
