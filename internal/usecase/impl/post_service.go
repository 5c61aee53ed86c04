package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chatter/config"
	deliverycontext "chatter/internal/delivery/context"
	"chatter/internal/domain/entity"
	domainerrors "chatter/internal/domain/errors"
	"chatter/internal/domain/repository"
	"chatter/internal/domain/service"
	"chatter/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// postService implements the PostUsecase interface.
type postService struct {
	txManager      repository.TransactionManager
	postRepo       repository.PostRepository
	imageGenerator service.ImageGenerator
	mailSender     service.MailSender
	taskQueue      service.TaskQueue
	baseURL        string
	logger         *slog.Logger
}

// PostServiceParams holds dependencies for postService, injected by Fx.
type PostServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	PostRepo       repository.PostRepository
	ImageGenerator service.ImageGenerator
	MailSender     service.MailSender
	TaskQueue      service.TaskQueue
	Config         *config.Config
	Logger         *slog.Logger
}

// NewPostService is the constructor for postService.
func NewPostService(params PostServiceParams) usecase.PostUsecase {
	return &postService{
		txManager:      params.TxManager,
		postRepo:       params.PostRepo,
		imageGenerator: params.ImageGenerator,
		mailSender:     params.MailSender,
		taskQueue:      params.TaskQueue,
		baseURL:        strings.TrimRight(params.Config.HTTP.BaseURL, "/"),
		logger:         params.Logger,
	}
}

func (srv *postService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreatePost persists the post synchronously and, when a prompt is given,
// schedules image enrichment to run after the response has been sent.
func (srv *postService) CreatePost(ctx context.Context, input *usecase.CreatePostInput) (*entity.Post, error) {
	post := &entity.Post{
		Body:   input.Body,
		UserID: input.User.ID,
	}

	if err := srv.postRepo.CreatePost(ctx, post); err != nil {
		srv.log(ctx).Error("Failed to create post", slog.Int64("userID", input.User.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create post")
	}

	srv.log(ctx).Debug("Post created", slog.Int64("postID", post.ID), slog.Int64("userID", input.User.ID))

	if input.Prompt != "" {
		srv.enqueueImageEnrichment(post.ID, input.Prompt, input.User.Email)
	}

	return post, nil
}

// enqueueImageEnrichment schedules the generate-update-notify sequence for a
// freshly created post. The post is already committed; any failure here leaves
// image_url null and is visible only in the logs.
func (srv *postService) enqueueImageEnrichment(postID int64, prompt, ownerEmail string) {
	srv.taskQueue.Enqueue("post-image-enrichment", func(taskCtx context.Context) error {
		imageURL, err := srv.imageGenerator.Generate(taskCtx, prompt)
		if err != nil {
			return errors.Wrapf(err, "failed to generate image for post %d", postID)
		}

		if err := srv.postRepo.UpdatePostImageURL(taskCtx, postID, imageURL); err != nil {
			return errors.Wrapf(err, "failed to attach image to post %d", postID)
		}

		body := fmt.Sprintf(
			"Your post now has an image. See it here:\n\n%s/post/%d\n",
			srv.baseURL, postID,
		)
		if err := srv.mailSender.Send(taskCtx, ownerEmail, "Your post has been enriched", body); err != nil {
			return errors.Wrapf(err, "failed to send enrichment notification for post %d", postID)
		}

		return nil
	})
}

// ListPosts returns all posts with like counts in the requested order.
func (srv *postService) ListPosts(ctx context.Context, sorting entity.PostSorting) ([]*entity.PostWithLikes, error) {
	if sorting == "" {
		sorting = entity.SortNew
	}
	if !sorting.Valid() {
		return nil, domainerrors.ErrInvalidSorting.WrapMessage(string(sorting))
	}

	posts, err := srv.postRepo.ListPosts(ctx, sorting)
	if err != nil {
		srv.log(ctx).Error("Failed to list posts", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list posts")
	}

	return posts, nil
}

// GetPost returns a single post together with its comments.
func (srv *postService) GetPost(ctx context.Context, postID int64) (*usecase.GetPostOutput, error) {
	post, err := srv.postRepo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, domainerrors.ErrPostNotFound.WrapMessage(fmt.Sprintf("post %d", postID))
		}

		return nil, errors.Wrap(err, "failed to find post")
	}

	comments, err := srv.postRepo.ListCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list post comments")
	}

	return &usecase.GetPostOutput{
		Post:     post,
		Comments: comments,
	}, nil
}

// ListComments returns the comments attached to a post, oldest first. A
// missing post simply yields an empty list.
func (srv *postService) ListComments(ctx context.Context, postID int64) ([]*entity.Comment, error) {
	comments, err := srv.postRepo.ListCommentsByPostID(ctx, postID)
	if err != nil {
		srv.log(ctx).Error("Failed to list comments", slog.Int64("postID", postID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list comments")
	}

	return comments, nil
}

// CreateComment attaches a comment to an existing post. The existence check
// and the insert share one transaction so the post cannot vanish in between.
func (srv *postService) CreateComment(ctx context.Context, input *usecase.CreateCommentInput) (*entity.Comment, error) {
	comment := &entity.Comment{
		Body:   input.Body,
		PostID: input.PostID,
		UserID: input.User.ID,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		if _, findErr := postRepo.FindPostByID(ctx, input.PostID); findErr != nil {
			if errors.Is(findErr, repository.ErrPostNotFound) {
				return domainerrors.ErrPostNotFound.WrapMessage(fmt.Sprintf("post %d", input.PostID))
			}

			return errors.Wrap(findErr, "failed to find post for comment")
		}

		return postRepo.CreateComment(ctx, comment)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to create comment", slog.Int64("postID", input.PostID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute comment transaction")
	}

	srv.log(ctx).Debug("Comment created", slog.Int64("commentID", comment.ID), slog.Int64("postID", input.PostID))

	return comment, nil
}

// LikePost records a like on an existing post. Repeated likes from the same
// user are allowed; each one is a separate row.
func (srv *postService) LikePost(ctx context.Context, input *usecase.LikeInput) (*entity.Like, error) {
	like := &entity.Like{
		PostID: input.PostID,
		UserID: input.User.ID,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		if _, findErr := postRepo.FindPostByID(ctx, input.PostID); findErr != nil {
			if errors.Is(findErr, repository.ErrPostNotFound) {
				return domainerrors.ErrPostNotFound.WrapMessage(fmt.Sprintf("post %d", input.PostID))
			}

			return errors.Wrap(findErr, "failed to find post for like")
		}

		return postRepo.CreateLike(ctx, like)
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to like post", slog.Int64("postID", input.PostID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute like transaction")
	}

	srv.log(ctx).Debug("Like created", slog.Int64("likeID", like.ID), slog.Int64("postID", input.PostID))

	return like, nil
}
