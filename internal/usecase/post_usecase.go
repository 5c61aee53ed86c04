package usecase

import (
	"context"

	"chatter/internal/domain/entity"
)

// --- Input DTOs ---

// CreatePostInput defines the data required to publish a post. A non-empty
// Prompt requests background image enrichment for the post.
type CreatePostInput struct {
	Body   string
	Prompt string
	User   *entity.User
}

// CreateCommentInput defines the data required to comment on a post.
type CreateCommentInput struct {
	PostID int64
	Body   string
	User   *entity.User
}

// LikeInput defines the data required to like a post.
type LikeInput struct {
	PostID int64
	User   *entity.User
}

// --- Output DTOs ---

// GetPostOutput returns a post together with its comments.
type GetPostOutput struct {
	Post     *entity.Post
	Comments []*entity.Comment
}

// PostUsecase defines the interface for post-related business operations.
type PostUsecase interface {
	// CreatePost persists the post and returns it immediately. When a prompt
	// is present, image enrichment runs in the background after the fact.
	CreatePost(ctx context.Context, input *CreatePostInput) (*entity.Post, error)

	// ListPosts returns all posts with like counts in the requested order.
	// An empty sorting defaults to newest first.
	ListPosts(ctx context.Context, sorting entity.PostSorting) ([]*entity.PostWithLikes, error)

	// GetPost returns a single post with its comments.
	GetPost(ctx context.Context, postID int64) (*GetPostOutput, error)

	// ListComments returns the comments attached to a post, oldest first.
	ListComments(ctx context.Context, postID int64) ([]*entity.Comment, error)

	// CreateComment attaches a comment to an existing post.
	CreateComment(ctx context.Context, input *CreateCommentInput) (*entity.Comment, error)

	// LikePost records a like on an existing post.
	LikePost(ctx context.Context, input *LikeInput) (*entity.Like, error)
}
