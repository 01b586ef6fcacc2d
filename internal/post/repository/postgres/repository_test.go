package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/square-net/server/internal/post/domain"
	repo "github.com/square-net/server/internal/post/repository/postgres"
)

var postColumns = []string{
	"id", "post_id", "author_id", "type", "content", "media_images", "media_videos",
	"created_at", "updated_at",
}

func postRow(id int64, postID string, authorID int64, content string, createdAt time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(postColumns).AddRow(
		id, postID, authorID, "text", content, []string{}, []string{}, createdAt, createdAt,
	)
}

func TestPostRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostRepository(mock)
	now := time.Now()

	post := &domain.Post{
		PostID:   "3f6ad119-21a5-4bb0-b8b7-7fe60fca1f19",
		AuthorID: 1,
		Type:     "text",
		Content:  "hello",
		Media:    domain.Media{Images: []string{"a.png"}},
	}

	mock.ExpectQuery("INSERT INTO posts").
		WithArgs(post.PostID, post.AuthorID, post.Type, post.Content, post.Media.Images, post.Media.Videos).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	require.NoError(t, r.Create(context.Background(), post))
	assert.Equal(t, int64(7), post.ID)
	assert.Equal(t, now, post.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByPostID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostRepository(mock)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, post_id").
			WithArgs("p-1").
			WillReturnRows(postRow(7, "p-1", 1, "hello", time.Now()))

		post, err := r.GetByPostID(ctx, "p-1")
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, "hello", post.Content)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, post_id").
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		post, err := r.GetByPostID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, post)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, post_id(.+)ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(postColumns).
			AddRow(int64(2), "p-2", int64(1), "text", "second", []string{}, []string{}, now, now).
			AddRow(int64(1), "p-1", int64(1), "text", "first", []string{}, []string{}, now.Add(-time.Hour), now.Add(-time.Hour)))

	posts, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p-2", posts[0].PostID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostRepository(mock)
	ctx := context.Background()

	t.Run("own post", func(t *testing.T) {
		mock.ExpectQuery("UPDATE posts SET").
			WithArgs("p-1", int64(1), "text", "edited").
			WillReturnRows(postRow(7, "p-1", 1, "edited", time.Now()))

		post, err := r.Update(ctx, "p-1", 1, "text", "edited")
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, "edited", post.Content)
	})

	t.Run("foreign post", func(t *testing.T) {
		mock.ExpectQuery("UPDATE posts SET").
			WithArgs("p-1", int64(2), "text", "edited").
			WillReturnError(pgx.ErrNoRows)

		post, err := r.Update(ctx, "p-1", 2, "text", "edited")
		require.NoError(t, err)
		assert.Nil(t, post)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("UPDATE posts SET").
			WithArgs("p-1", int64(1), "text", "edited").
			WillReturnError(fmt.Errorf("db down"))

		_, err := r.Update(ctx, "p-1", 1, "text", "edited")
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewPostRepository(mock)

	// Zero affected rows is still success: delete is idempotent and scoped to
	// the author, so foreign post ids simply match nothing.
	mock.ExpectExec("DELETE FROM posts").
		WithArgs("p-1", int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, r.Delete(context.Background(), "p-1", 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
