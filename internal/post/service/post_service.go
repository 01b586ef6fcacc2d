package service

//go:generate mockgen -destination=../../mocks/mock_post_repository.go -package=mocks github.com/square-net/server/internal/post/domain PostRepository

import (
	"context"

	"github.com/google/uuid"

	authdomain "github.com/square-net/server/internal/auth/domain"
	authdto "github.com/square-net/server/internal/auth/dto"
	"github.com/square-net/server/internal/logging"
	"github.com/square-net/server/internal/post/domain"
	"github.com/square-net/server/internal/post/dto"
)

const (
	msgMissingContent   = "You can't publish a post without content"
	msgEmptiedContent   = "You can't update a post by removing the content"
	msgInvalidType      = "Invalid type provided"
	msgNotAuthenticated = "You are not authenticated"
	msgCreateFailed     = "An error has occurred. Please try again later to create a post"
	msgUpdateFailed     = "An error has occurred. Please try again later to update your post"
)

type PostService struct {
	posts domain.PostRepository
	users authdomain.UserRepository
	log   logging.Logger
}

func NewPostService(posts domain.PostRepository, users authdomain.UserRepository, log logging.Logger) *PostService {
	return &PostService{posts: posts, users: users, log: log}
}

// Create publishes a new post for the authenticated author. Validation
// failures come back as field errors, never as an error return.
func (s *PostService) Create(ctx context.Context, authorID int64, input dto.CreatePostInput) *dto.PostResponse {
	resp := &dto.PostResponse{}

	if input.Content == "" {
		resp.Errors = append(resp.Errors, authdto.FieldError{Field: "content", Message: msgMissingContent})
	}
	if input.Type == "" {
		resp.Errors = append(resp.Errors, authdto.FieldError{Field: "type", Message: msgInvalidType})
	}
	if authorID == 0 {
		resp.Errors = append(resp.Errors, authdto.FieldError{Field: "content", Message: msgNotAuthenticated})
	}

	if len(resp.Errors) > 0 {
		return resp
	}

	post := &domain.Post{
		PostID:   uuid.NewString(),
		AuthorID: authorID,
		Type:     input.Type,
		Content:  input.Content,
		Media:    domain.Media{Images: input.Media.Images, Videos: input.Media.Videos},
	}

	if err := s.posts.Create(ctx, post); err != nil {
		s.log.Error(ctx, "create post", "author_id", authorID, "error", err)
		resp.Errors = append(resp.Errors, authdto.FieldError{Field: "content", Message: msgCreateFailed})
		return resp
	}

	resp.Post = dto.NewPostOutput(post, s.author(ctx, authorID))

	return resp
}

// Update rewrites the author's own post. Posts belonging to other users are
// silently left untouched.
func (s *PostService) Update(ctx context.Context, authorID int64, postID string, input dto.UpdatePostInput) *dto.PostResponse {
	resp := &dto.PostResponse{}

	if input.Content == "" {
		resp.Errors = append(resp.Errors, authdto.FieldError{Field: "content", Message: msgEmptiedContent})
	}
	if input.Type == "" {
		resp.Errors = append(resp.Errors, authdto.FieldError{Field: "type", Message: msgInvalidType})
	}
	if authorID == 0 {
		resp.Errors = append(resp.Errors, authdto.FieldError{Field: "content", Message: msgNotAuthenticated})
	}

	if len(resp.Errors) > 0 {
		return resp
	}

	post, err := s.posts.Update(ctx, postID, authorID, input.Type, input.Content)
	if err != nil {
		s.log.Error(ctx, "update post", "post_id", postID, "error", err)
		resp.Errors = append(resp.Errors, authdto.FieldError{Field: "content", Message: msgUpdateFailed})
		return resp
	}

	if post != nil {
		resp.Post = dto.NewPostOutput(post, s.author(ctx, authorID))
	}

	return resp
}

// Delete removes the author's own post and reports whether the request was
// accepted. Deleting an absent or foreign post still reports true.
func (s *PostService) Delete(ctx context.Context, authorID int64, postID string) bool {
	if authorID == 0 {
		return false
	}

	if err := s.posts.Delete(ctx, postID, authorID); err != nil {
		s.log.Error(ctx, "delete post", "post_id", postID, "error", err)
		return false
	}

	return true
}

// Feed returns every post, newest first, with its author attached.
func (s *PostService) Feed(ctx context.Context) ([]*dto.PostOutput, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	authors := make(map[int64]*authdto.PublicUser)
	feed := make([]*dto.PostOutput, 0, len(posts))

	for _, post := range posts {
		author, ok := authors[post.AuthorID]
		if !ok {
			author = s.author(ctx, post.AuthorID)
			authors[post.AuthorID] = author
		}

		feed = append(feed, dto.NewPostOutput(post, author))
	}

	return feed, nil
}

// Find returns a single post by its public id, or nil when it does not exist.
func (s *PostService) Find(ctx context.Context, postID string) (*dto.PostOutput, error) {
	post, err := s.posts.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}

	return dto.NewPostOutput(post, s.author(ctx, post.AuthorID)), nil
}

// author resolves a user into their public representation. Lookup failures
// only degrade the payload, so they are logged and swallowed.
func (s *PostService) author(ctx context.Context, userID int64) *authdto.PublicUser {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn(ctx, "resolve post author", "user_id", userID, "error", err)
		return nil
	}
	if user == nil {
		return nil
	}

	return &authdto.PublicUser{
		Name:   user.FirstName + " " + user.LastName,
		Link:   "/" + user.Username,
		Avatar: user.Profile.ProfilePicture,
	}
}
