package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/square-net/server/internal/auth/domain"
	"github.com/square-net/server/internal/logging"
	"github.com/square-net/server/internal/mocks"
	"github.com/square-net/server/internal/post/domain"
	"github.com/square-net/server/internal/post/dto"
	"github.com/square-net/server/internal/post/service"
)

type fixture struct {
	svc   *service.PostService
	posts *mocks.MockPostRepository
	users *mocks.MockUserRepository
}

func newFixture(ctrl *gomock.Controller) *fixture {
	posts := mocks.NewMockPostRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	return &fixture{
		svc:   service.NewPostService(posts, users, log),
		posts: posts,
		users: users,
	}
}

func author(id int64) *authdomain.User {
	return &authdomain.User{
		ID:        id,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Profile:   authdomain.Profile{ProfilePicture: "avatar.png"},
	}
}

func TestPostService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f.posts.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, p *domain.Post) error {
				assert.NotEmpty(t, p.PostID)
				assert.Equal(t, int64(1), p.AuthorID)
				p.ID = 7
				p.CreatedAt = time.Now()
				p.UpdatedAt = p.CreatedAt
				return nil
			})
		f.users.EXPECT().GetByID(ctx, int64(1)).Return(author(1), nil)

		resp := f.svc.Create(ctx, 1, dto.CreatePostInput{Type: "text", Content: "hello"})
		require.Empty(t, resp.Errors)
		require.NotNil(t, resp.Post)
		assert.Equal(t, "hello", resp.Post.Content)
		require.NotNil(t, resp.Post.Author)
		assert.Equal(t, "Ada Lovelace", resp.Post.Author.Name)
		assert.Equal(t, "/ada", resp.Post.Author.Link)
	})

	t.Run("missing content", func(t *testing.T) {
		resp := f.svc.Create(ctx, 1, dto.CreatePostInput{Type: "text"})
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "content", resp.Errors[0].Field)
		assert.Nil(t, resp.Post)
	})

	t.Run("missing type", func(t *testing.T) {
		resp := f.svc.Create(ctx, 1, dto.CreatePostInput{Content: "hello"})
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "type", resp.Errors[0].Field)
	})

	t.Run("not authenticated", func(t *testing.T) {
		resp := f.svc.Create(ctx, 0, dto.CreatePostInput{Type: "text", Content: "hello"})
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "You are not authenticated", resp.Errors[0].Message)
	})

	t.Run("storage failure becomes a field error", func(t *testing.T) {
		f.posts.EXPECT().Create(ctx, gomock.Any()).Return(fmt.Errorf("db down"))

		resp := f.svc.Create(ctx, 1, dto.CreatePostInput{Type: "text", Content: "hello"})
		require.Len(t, resp.Errors, 1)
		assert.Contains(t, resp.Errors[0].Message, "try again later")
		assert.Nil(t, resp.Post)
	})
}

func TestPostService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		updated := &domain.Post{PostID: "p-1", AuthorID: 1, Type: "text", Content: "edited"}
		f.posts.EXPECT().Update(ctx, "p-1", int64(1), "text", "edited").Return(updated, nil)
		f.users.EXPECT().GetByID(ctx, int64(1)).Return(author(1), nil)

		resp := f.svc.Update(ctx, 1, "p-1", dto.UpdatePostInput{Type: "text", Content: "edited"})
		require.Empty(t, resp.Errors)
		require.NotNil(t, resp.Post)
		assert.Equal(t, "edited", resp.Post.Content)
	})

	t.Run("emptied content", func(t *testing.T) {
		resp := f.svc.Update(ctx, 1, "p-1", dto.UpdatePostInput{Type: "text"})
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "You can't update a post by removing the content", resp.Errors[0].Message)
	})

	t.Run("foreign post stays untouched", func(t *testing.T) {
		f.posts.EXPECT().Update(ctx, "p-1", int64(2), "text", "edited").Return(nil, nil)

		resp := f.svc.Update(ctx, 2, "p-1", dto.UpdatePostInput{Type: "text", Content: "edited"})
		assert.Empty(t, resp.Errors)
		assert.Nil(t, resp.Post)
	})
}

func TestPostService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f.posts.EXPECT().Delete(ctx, "p-1", int64(1)).Return(nil)
		assert.True(t, f.svc.Delete(ctx, 1, "p-1"))
	})

	t.Run("not authenticated", func(t *testing.T) {
		assert.False(t, f.svc.Delete(ctx, 0, "p-1"))
	})

	t.Run("storage failure", func(t *testing.T) {
		f.posts.EXPECT().Delete(ctx, "p-1", int64(1)).Return(fmt.Errorf("db down"))
		assert.False(t, f.svc.Delete(ctx, 1, "p-1"))
	})
}

func TestPostService_Feed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	ctx := context.Background()

	posts := []*domain.Post{
		{PostID: "p-2", AuthorID: 1, Type: "text", Content: "second"},
		{PostID: "p-1", AuthorID: 1, Type: "text", Content: "first"},
	}

	f.posts.EXPECT().List(ctx).Return(posts, nil)
	// Both posts share an author; the lookup happens once.
	f.users.EXPECT().GetByID(ctx, int64(1)).Return(author(1), nil).Times(1)

	feed, err := f.svc.Feed(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "p-2", feed[0].PostID)
	assert.Equal(t, feed[0].Author, feed[1].Author)
}

func TestPostService_Find(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		f.posts.EXPECT().GetByPostID(ctx, "p-1").
			Return(&domain.Post{PostID: "p-1", AuthorID: 1, Type: "text", Content: "hello"}, nil)
		f.users.EXPECT().GetByID(ctx, int64(1)).Return(author(1), nil)

		post, err := f.svc.Find(ctx, "p-1")
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, "hello", post.Content)
	})

	t.Run("absent", func(t *testing.T) {
		f.posts.EXPECT().GetByPostID(ctx, "missing").Return(nil, nil)

		post, err := f.svc.Find(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, post)
	})

	t.Run("author lookup failure degrades the payload", func(t *testing.T) {
		f.posts.EXPECT().GetByPostID(ctx, "p-1").
			Return(&domain.Post{PostID: "p-1", AuthorID: 9, Type: "text", Content: "hello"}, nil)
		f.users.EXPECT().GetByID(ctx, int64(9)).Return(nil, fmt.Errorf("db down"))

		post, err := f.svc.Find(ctx, "p-1")
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Nil(t, post.Author)
	})
}
