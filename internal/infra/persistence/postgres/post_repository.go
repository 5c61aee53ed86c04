package postgres

import (
	"context"

	"chatter/internal/domain/entity"
	domainerrors "chatter/internal/domain/errors"
	"chatter/internal/domain/repository"
	"chatter/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// postRepository implements the repository.PostRepository interface using GORM.
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository is the constructor for postRepository.
func NewPostRepository(db *gorm.DB) repository.PostRepository {
	return &postRepository{db: db}
}

// CreatePost persists a new post and assigns its generated ID.
func (repo *postRepository) CreatePost(ctx context.Context, post *entity.Post) error {
	postM := fromPostDomain(post)

	if err := repo.db.WithContext(ctx).Create(postM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create post")
	}

	post.ID = postM.ID
	post.CreatedAt = postM.CreatedAt
	post.UpdatedAt = postM.UpdatedAt

	return nil
}

// FindPostByID retrieves a single post by its ID.
func (repo *postRepository) FindPostByID(ctx context.Context, id int64) (*entity.Post, error) {
	var postM model.PostModel
	if err := repo.db.WithContext(ctx).First(&postM, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPostNotFound
		}

		return nil, errors.Wrap(err, "failed to find post by id")
	}

	return toPostDomain(&postM), nil
}

// postWithLikesRow carries a post together with its aggregated like count.
type postWithLikesRow struct {
	model.PostModel
	Likes int64
}

// ListPosts returns all posts with their like counts in the requested order.
func (repo *postRepository) ListPosts(ctx context.Context, sorting entity.PostSorting) ([]*entity.PostWithLikes, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Select("posts.*, count(likes.id) as likes").
		Joins("left join likes on likes.post_id = posts.id").
		Group("posts.id")

	switch sorting {
	case entity.SortOld:
		query = query.Order("posts.id asc")
	case entity.SortMostLikes:
		query = query.Order("likes desc, posts.id asc")
	default:
		query = query.Order("posts.id desc")
	}

	var rows []postWithLikesRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}

	result := make([]*entity.PostWithLikes, 0, len(rows))
	for i := range rows {
		result = append(result, &entity.PostWithLikes{
			Post:  toPostDomain(&rows[i].PostModel),
			Likes: rows[i].Likes,
		})
	}

	return result, nil
}

// UpdatePostImageURL sets the image URL of an existing post. Last write wins.
func (repo *postRepository) UpdatePostImageURL(ctx context.Context, postID int64, imageURL string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PostModel{}).
		Where("id = ?", postID).
		Update("image_url", imageURL)

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update post image url")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPostNotFound
	}

	return nil
}

// CreateComment persists a new comment and assigns its generated ID.
func (repo *postRepository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	commentM := &model.CommentModel{
		Body:   comment.Body,
		PostID: comment.PostID,
		UserID: comment.UserID,
	}

	if err := repo.db.WithContext(ctx).Create(commentM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPostNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create comment")
	}

	comment.ID = commentM.ID
	comment.CreatedAt = commentM.CreatedAt

	return nil
}

// ListCommentsByPostID returns all comments attached to a post, oldest first.
func (repo *postRepository) ListCommentsByPostID(ctx context.Context, postID int64) ([]*entity.Comment, error) {
	var commentMs []model.CommentModel
	if err := repo.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id asc").
		Find(&commentMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list comments")
	}

	comments := make([]*entity.Comment, 0, len(commentMs))
	for i := range commentMs {
		comments = append(comments, toCommentDomain(&commentMs[i]))
	}

	return comments, nil
}

// CreateLike persists a new like and assigns its generated ID.
func (repo *postRepository) CreateLike(ctx context.Context, like *entity.Like) error {
	likeM := &model.LikeModel{
		PostID: like.PostID,
		UserID: like.UserID,
	}

	if err := repo.db.WithContext(ctx).Create(likeM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPostNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create like")
	}

	like.ID = likeM.ID
	like.CreatedAt = likeM.CreatedAt

	return nil
}

// --- Mapper Functions ---

func toPostDomain(data *model.PostModel) *entity.Post {
	if data == nil {
		return nil
	}

	return &entity.Post{
		ID:        data.ID,
		Body:      data.Body,
		UserID:    data.UserID,
		ImageURL:  data.ImageURL,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromPostDomain(data *entity.Post) *model.PostModel {
	if data == nil {
		return nil
	}

	return &model.PostModel{
		ID:       data.ID,
		Body:     data.Body,
		UserID:   data.UserID,
		ImageURL: data.ImageURL,
	}
}

func toCommentDomain(data *model.CommentModel) *entity.Comment {
	if data == nil {
		return nil
	}

	return &entity.Comment{
		ID:        data.ID,
		Body:      data.Body,
		PostID:    data.PostID,
		UserID:    data.UserID,
		CreatedAt: data.CreatedAt,
	}
}
