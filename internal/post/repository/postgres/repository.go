package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	authrepo "github.com/square-net/server/internal/auth/repository/postgres"
	"github.com/square-net/server/internal/post/domain"
)

const postColumns = `id, post_id, author_id, type, content, media_images, media_videos, created_at, updated_at`

type PostRepository struct {
	db authrepo.PgxIface
}

func NewPostRepository(db authrepo.PgxIface) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (post_id, author_id, type, content, media_images, media_videos)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at;
	`

	err := r.db.QueryRow(ctx, query,
		post.PostID, post.AuthorID, post.Type, post.Content,
		post.Media.Images, post.Media.Videos,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *PostRepository) GetByPostID(ctx context.Context, postID string) (*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = $1 LIMIT 1;`

	post, err := scanPost(r.db.QueryRow(ctx, query, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

func (r *PostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, postID string, authorID int64, postType, content string) (*domain.Post, error) {
	query := `
		UPDATE posts SET type = $3, content = $4, updated_at = NOW()
		WHERE post_id = $1 AND author_id = $2
		RETURNING ` + postColumns + `;
	`

	post, err := scanPost(r.db.QueryRow(ctx, query, postID, authorID, postType, content))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

func (r *PostRepository) Delete(ctx context.Context, postID string, authorID int64) error {
	query := `DELETE FROM posts WHERE post_id = $1 AND author_id = $2;`

	if _, err := r.db.Exec(ctx, query, postID, authorID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post

	err := row.Scan(
		&post.ID, &post.PostID, &post.AuthorID, &post.Type, &post.Content,
		&post.Media.Images, &post.Media.Videos, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &post, nil
}
