package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	deliverycontext "chatter/internal/delivery/context"
	"chatter/internal/delivery/http/response"
	"chatter/internal/domain/entity"
	domainerrors "chatter/internal/domain/errors"
	"chatter/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PostHandlerParams holds dependencies for PostHandler, injected by Fx.
type PostHandlerParams struct {
	fx.In

	PostUC usecase.PostUsecase
	Logger *slog.Logger
}

// PostHandler holds dependencies for post-related handlers
type PostHandler struct {
	postUC usecase.PostUsecase
	logger *slog.Logger
}

// NewPostHandler is the constructor for PostHandler
func NewPostHandler(params PostHandlerParams) *PostHandler {
	return &PostHandler{
		postUC: params.PostUC,
		logger: params.Logger,
	}
}

// CreatePostRequest represents the request body for publishing a post
type CreatePostRequest struct {
	Body string `json:"body" validate:"required"`
}

// CreateCommentRequest represents the request body for commenting on a post
type CreateCommentRequest struct {
	PostID int64  `json:"post_id" validate:"required"`
	Body   string `json:"body" validate:"required"`
}

// LikeRequest represents the request body for liking a post
type LikeRequest struct {
	PostID int64 `json:"post_id" validate:"required"`
}

// PostResponse is the public view of a post. ImageURL stays null until the
// optional background enrichment has run.
type PostResponse struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	UserID    int64     `json:"user_id"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// PostWithLikesResponse pairs a post with its aggregated like count.
type PostWithLikesResponse struct {
	PostResponse
	Likes int64 `json:"likes"`
}

// CommentResponse is the public view of a comment.
type CommentResponse struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostDetailResponse carries a post together with its comments.
type PostDetailResponse struct {
	Post     PostResponse      `json:"post"`
	Comments []CommentResponse `json:"comments"`
}

// LikeResponse acknowledges a recorded like.
type LikeResponse struct {
	ID     int64 `json:"id"`
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
}

func toPostResponse(post *entity.Post) PostResponse {
	return PostResponse{
		ID:        post.ID,
		Body:      post.Body,
		UserID:    post.UserID,
		ImageURL:  post.ImageURL,
		CreatedAt: post.CreatedAt,
	}
}

func toCommentResponses(comments []*entity.Comment) []CommentResponse {
	result := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		result = append(result, CommentResponse{
			ID:        comment.ID,
			Body:      comment.Body,
			PostID:    comment.PostID,
			UserID:    comment.UserID,
			CreatedAt: comment.CreatedAt,
		})
	}

	return result
}

// currentUser extracts the account placed on the context by the auth middleware.
func currentUser(c echo.Context) (*entity.User, error) {
	user := deliverycontext.GetCurrentUser(c)
	if user == nil {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("no authenticated user on request")
	}

	return user, nil
}

// postIDParam parses the :post_id path parameter.
func postIDParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// Create publishes a post; an optional ?prompt= query requests background
// image enrichment
func (h *PostHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid post input")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postUC.CreatePost(c.Request().Context(), &usecase.CreatePostInput{
		Body:   req.Body,
		Prompt: c.QueryParam("prompt"),
		User:   user,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// List returns all posts with like counts in the requested order
func (h *PostHandler) List(c echo.Context) error {
	sorting := entity.PostSorting(c.QueryParam("sorting"))

	posts, err := h.postUC.ListPosts(c.Request().Context(), sorting)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	result := make([]PostWithLikesResponse, 0, len(posts))
	for _, post := range posts {
		result = append(result, PostWithLikesResponse{
			PostResponse: toPostResponse(post.Post),
			Likes:        post.Likes,
		})
	}

	return c.JSON(http.StatusOK, result)
}

// Get returns a single post with its comments
func (h *PostHandler) Get(c echo.Context) error {
	postID, ok := postIDParam(c)
	if !ok {
		return response.UnprocessableEntity(c, "INVALID_POST_ID", "Post ID must be a positive integer")
	}

	output, err := h.postUC.GetPost(c.Request().Context(), postID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.JSON(http.StatusOK, PostDetailResponse{
		Post:     toPostResponse(output.Post),
		Comments: toCommentResponses(output.Comments),
	})
}

// ListComments returns the comments attached to a post
func (h *PostHandler) ListComments(c echo.Context) error {
	postID, ok := postIDParam(c)
	if !ok {
		return response.UnprocessableEntity(c, "INVALID_POST_ID", "Post ID must be a positive integer")
	}

	comments, err := h.postUC.ListComments(c.Request().Context(), postID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.JSON(http.StatusOK, toCommentResponses(comments))
}

// CreateComment attaches a comment to an existing post
func (h *PostHandler) CreateComment(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.postUC.CreateComment(c.Request().Context(), &usecase.CreateCommentInput{
		PostID: req.PostID,
		Body:   req.Body,
		User:   user,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.JSON(http.StatusCreated, CommentResponse{
		ID:        comment.ID,
		Body:      comment.Body,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		CreatedAt: comment.CreatedAt,
	})
}

// Like records a like on an existing post
func (h *PostHandler) Like(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req LikeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid like input")
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	like, err := h.postUC.LikePost(c.Request().Context(), &usecase.LikeInput{
		PostID: req.PostID,
		User:   user,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return c.JSON(http.StatusCreated, LikeResponse{
		ID:     like.ID,
		PostID: like.PostID,
		UserID: like.UserID,
	})
}
