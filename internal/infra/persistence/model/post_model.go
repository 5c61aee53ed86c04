package model

import "time"

// PostModel mirrors the 'posts' table. ImageURL stays NULL until the
// background enrichment task fills it in.
type PostModel struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	Body      string  `gorm:"type:text;not null"`
	UserID    int64   `gorm:"not null;index"`
	ImageURL  *string `gorm:"type:varchar(2048)"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Comments []CommentModel `gorm:"foreignKey:PostID"`
	Likes    []LikeModel    `gorm:"foreignKey:PostID"`
}

// TableName explicitly sets the table name for GORM.
func (PostModel) TableName() string {
	return "posts"
}

// CommentModel mirrors the 'comments' table.
type CommentModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Body      string `gorm:"type:text;not null"`
	PostID    int64  `gorm:"not null;index"`
	UserID    int64  `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CommentModel) TableName() string {
	return "comments"
}

// LikeModel mirrors the 'likes' table.
type LikeModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	PostID    int64 `gorm:"not null;index"`
	UserID    int64 `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (LikeModel) TableName() string {
	return "likes"
}
