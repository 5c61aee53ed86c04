package entity

import "time"

// Post is a user-authored message. ImageURL stays nil until the optional
// background enrichment has completed; its continued absence is the only
// observable signal that enrichment failed or is still pending.
type Post struct {
	ID        int64
	Body      string
	UserID    int64
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment references an existing post. Creating a comment against a missing
// post is rejected by the use case before any insert happens.
type Comment struct {
	ID        int64
	Body      string
	PostID    int64
	UserID    int64
	CreatedAt time.Time
}

// Like records that a user liked a post.
type Like struct {
	ID        int64
	PostID    int64
	UserID    int64
	CreatedAt time.Time
}

// PostWithLikes pairs a post with its aggregated like count for listing.
type PostWithLikes struct {
	Post  *Post
	Likes int64
}

// PostSorting enumerates the supported orderings for listing posts.
type PostSorting string

const (
	SortNew       PostSorting = "new"
	SortOld       PostSorting = "old"
	SortMostLikes PostSorting = "most_likes"
)

// Valid reports whether the sorting value is one of the supported orderings.
func (s PostSorting) Valid() bool {
	switch s {
	case SortNew, SortOld, SortMostLikes:
		return true
	}

	return false
}
