package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/scribeapp/scribe/internal/models"
)

// ErrNotOwner is returned when an ownership-gated mutation matched no row.
// It deliberately does not distinguish "post missing" from "post owned by
// someone else", so callers cannot probe for existence.
var ErrNotOwner = errors.New("post not found or not owned by user")

// ========================
// REPOSITORY STRUCT
// ========================

type PostRepo struct {
	DB *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{DB: db}
}

// ========================
// CREATE POST
// ========================

func (r *PostRepo) Create(ctx context.Context, title, content, image, category string, userID int) (models.Post, error) {
	var post models.Post
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO posts (title, content, image, category, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, title, content, image, category, user_id, created_at`,
		title, content, image, category, userID,
	).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Image,
		&post.Category,
		&post.UserID,
		&post.CreatedAt,
	)
	return post, err
}

// ========================
// GET POST BY ID
// ========================

// GetByID returns a single post joined with its author's username.
func (r *PostRepo) GetByID(ctx context.Context, id int) (models.Post, error) {
	var post models.Post
	err := r.DB.QueryRowContext(ctx,
		`SELECT p.id, p.title, p.content, p.image, p.category, p.user_id, p.created_at, u.username
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1`,
		id,
	).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Image,
		&post.Category,
		&post.UserID,
		&post.CreatedAt,
		&post.Author,
	)
	return post, err
}

// ========================
// LIST POSTS WITH PAGINATION
// ========================

func (r *PostRepo) ListPaginated(ctx context.Context, limit, offset int) ([]models.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT p.id, p.title, p.content, p.image, p.category, p.user_id, p.created_at, u.username
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

// ========================
// LIST POSTS BY CATEGORY
// ========================

func (r *PostRepo) ListByCategoryPaginated(ctx context.Context, category string, limit, offset int) ([]models.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT p.id, p.title, p.content, p.image, p.category, p.user_id, p.created_at, u.username
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.category = $1
		 ORDER BY p.created_at DESC
		 LIMIT $2 OFFSET $3`,
		category, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Image, &p.Category, &p.UserID, &p.CreatedAt, &p.Author); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ========================
// UPDATE OWNED POST
// ========================

// UpdateOwned updates a post only when userID owns it. The ownership check is
// part of the UPDATE itself, so there is no read-then-write window and no way
// to tell a missing post from someone else's post.
func (r *PostRepo) UpdateOwned(ctx context.Context, id, userID int, title, content, image, category string) (models.Post, error) {
	var post models.Post
	err := r.DB.QueryRowContext(ctx,
		`UPDATE posts
		 SET title = $1, content = $2, image = $3, category = $4
		 WHERE id = $5 AND user_id = $6
		 RETURNING id, title, content, image, category, user_id, created_at`,
		title, content, image, category, id, userID,
	).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Image,
		&post.Category,
		&post.UserID,
		&post.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return models.Post{}, ErrNotOwner
	}
	return post, err
}

// ========================
// DELETE OWNED POST
// ========================

func (r *PostRepo) DeleteOwned(ctx context.Context, id, userID int) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotOwner
	}

	return nil
}

// ========================
// LIST REFERENCED IMAGES
// ========================

// ListImageRefs returns the distinct image filenames referenced by any post.
// Used by the upload cleanup job to decide which files are orphaned.
func (r *PostRepo) ListImageRefs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT image FROM posts WHERE image <> ''`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
