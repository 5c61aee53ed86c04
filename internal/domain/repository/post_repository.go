package repository

import (
	"context"
	"errors"

	"chatter/internal/domain/entity"
)

// ErrPostNotFound is returned when a referenced post does not exist.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the persistence operations for posts, comments and likes.
type PostRepository interface {
	// CreatePost persists a new post and assigns its ID.
	CreatePost(ctx context.Context, post *entity.Post) error

	// FindPostByID retrieves a single post by its ID.
	FindPostByID(ctx context.Context, id int64) (*entity.Post, error)

	// ListPosts returns all posts with their like counts in the requested order.
	ListPosts(ctx context.Context, sorting entity.PostSorting) ([]*entity.PostWithLikes, error)

	// UpdatePostImageURL sets the image URL of an existing post.
	// Last write wins; at most one enrichment task targets a given post.
	UpdatePostImageURL(ctx context.Context, postID int64, imageURL string) error

	// CreateComment persists a new comment and assigns its ID.
	CreateComment(ctx context.Context, comment *entity.Comment) error

	// ListCommentsByPostID returns all comments attached to a post.
	ListCommentsByPostID(ctx context.Context, postID int64) ([]*entity.Comment, error)

	// CreateLike persists a new like and assigns its ID.
	CreateLike(ctx context.Context, like *entity.Like) error
}
