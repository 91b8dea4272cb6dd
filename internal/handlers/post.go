package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/scribeapp/scribe/internal/middleware"
	"github.com/scribeapp/scribe/internal/models"
	"github.com/scribeapp/scribe/internal/repo"
)

// errMessageNotOwner is the response for mutations that matched no owned row.
// It is the same whether the post is missing or belongs to someone else.
const errMessageNotOwner = "you can modify only your own posts"

type PostHandler struct {
	Repo      *repo.PostRepo
	AuditRepo *repo.AuditRepo
}

type postInput struct {
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Content  string `json:"content" validate:"required"`
	Image    string `json:"image" validate:"max=255"`
	Category string `json:"category" validate:"max=64"`
}

//
// ==========================
// List Posts
// ==========================
//

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	// Default pagination
	limit := 10
	offset := 0

	// Parse limit
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}

	// Parse offset
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	// Optional category filter
	category := r.URL.Query().Get("cat")

	var posts []models.Post
	var err error

	if category != "" {
		posts, err = h.Repo.ListByCategoryPaginated(r.Context(), category, limit, offset)
	} else {
		posts, err = h.Repo.ListPaginated(r.Context(), limit, offset)
	}

	if err != nil {
		slog.Error("list posts failed", "err", err)
		JSONError(w, "failed to fetch posts", http.StatusInternalServerError)
		return
	}

	if posts == nil {
		posts = []models.Post{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(posts)
}

//
// ==========================
// Get Post By ID
// ==========================
//

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	post, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			JSONError(w, "post not found", http.StatusNotFound)
			return
		}
		slog.Error("get post failed", "err", err)
		JSONError(w, "failed to fetch post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

//
// ==========================
// Create Post
// ==========================
//

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var input postInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.Repo.Create(r.Context(), input.Title, input.Content, input.Image, input.Category, userID)
	if err != nil {
		slog.Error("create post failed", "err", err)
		JSONError(w, "failed to create post", http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), userID, "create", "post", post.ID, "")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

//
// ==========================
// Update Post (owner only)
// ==========================
//

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	var input postInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.Repo.UpdateOwned(r.Context(), id, userID, input.Title, input.Content, input.Image, input.Category)
	if err != nil {
		if errors.Is(err, repo.ErrNotOwner) {
			JSONError(w, errMessageNotOwner, http.StatusForbidden)
			return
		}
		slog.Error("update post failed", "err", err)
		JSONError(w, "failed to update post", http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), userID, "update", "post", post.ID, "")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

//
// ==========================
// Delete Post (owner only)
// ==========================
//

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid post id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.DeleteOwned(r.Context(), id, userID); err != nil {
		if errors.Is(err, repo.ErrNotOwner) {
			JSONError(w, errMessageNotOwner, http.StatusForbidden)
			return
		}
		slog.Error("delete post failed", "err", err)
		JSONError(w, "failed to delete post", http.StatusInternalServerError)
		return
	}

	if h.AuditRepo != nil {
		_ = h.AuditRepo.Log(r.Context(), userID, "delete", "post", id, "")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "post deleted"})
}
