package dto

import (
	"time"

	authdto "github.com/square-net/server/internal/auth/dto"
	"github.com/square-net/server/internal/post/domain"
)

type CreatePostInput struct {
	Type    string     `json:"type"`
	Content string     `json:"content"`
	Media   MediaInput `json:"media"`
}

type UpdatePostInput struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type MediaInput struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
}

type MediaOutput struct {
	Images []string `json:"images,omitempty"`
	Videos []string `json:"videos,omitempty"`
}

type PostOutput struct {
	PostID    string              `json:"postId"`
	Type      string              `json:"type"`
	Content   string              `json:"content"`
	Media     MediaOutput         `json:"media"`
	Author    *authdto.PublicUser `json:"author,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

type PostResponse struct {
	Errors []authdto.FieldError `json:"errors,omitempty"`
	Post   *PostOutput          `json:"post,omitempty"`
	Status string               `json:"status,omitempty"`
}

func NewPostOutput(p *domain.Post, author *authdto.PublicUser) *PostOutput {
	return &PostOutput{
		PostID:    p.PostID,
		Type:      p.Type,
		Content:   p.Content,
		Media:     MediaOutput{Images: p.Media.Images, Videos: p.Media.Videos},
		Author:    author,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
