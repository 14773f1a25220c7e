package handler

import (
	"enddit/backend/internal/apperr"
	"enddit/backend/internal/auth"
	"enddit/backend/internal/models"
	"enddit/backend/internal/repository"
	"enddit/backend/internal/storage"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	msgInvalidPostID   = "Invalid Post Id"
	msgPostNotFound    = "Post not found"
	unknownUsername    = "Unknown user"
	imageFormField     = "image"
	imageContentPrefix = "image/"
	msgImageTooLarge   = "Image too large"

	// room for the text fields and multipart framing around the image
	formOverheadBytes = 1 << 20
)

// region --- DTOs ---

// CreatePostInput is accepted as multipart form (with an optional image
// file) or as JSON.
type CreatePostInput struct {
	Title   string `form:"title" json:"title" example:"Hello World"`
	Content string `form:"content" json:"content" example:"My first post"`
}

// PostResponse is a post in the feed.
type PostResponse struct {
	ID                 uint      `json:"id" example:"1"`
	Title              string    `json:"title" example:"Hello World"`
	Content            string    `json:"content"`
	CreatedAt          time.Time `json:"created_at"`
	Slug               string    `json:"slug" example:"hello-world"`
	Image              *string   `json:"image"`
	UserID             uuid.UUID `json:"user_id"`
	Username           string    `json:"username" example:"alice"`
	LikesCount         int64     `json:"likesCount" example:"3"`
	LikedByCurrentUser bool      `json:"likedByCurrentUser"`
}

// ToggleLikeResponse is the caller's like state after a toggle.
type ToggleLikeResponse struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

// AddCommentInput defines the structure for a new comment.
type AddCommentInput struct {
	Content  string `json:"content" example:"Nice post"`
	ParentID *uint  `json:"parent_id"`
}

type CommentUser struct {
	Username *string `json:"username"`
}

// CommentResponse is a top-level comment with its author.
type CommentResponse struct {
	ID        uint        `json:"id"`
	PostID    uint        `json:"post_id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	ParentID  *uint       `json:"parent_id"`
	User      CommentUser `json:"user"`
}

// endregion

// ListPosts godoc
// @Summary      List posts
// @Description  Lists all posts newest first, with like counts and whether the caller liked each one. Paginated when page or limit is given.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int  false  "Page number" default(1)
// @Param        limit query     int  false  "Items per page" default(10)
// @Success      200   {array}   PostResponse
// @Header       200   {integer} X-Total-Count "Total number of posts"
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /posts [get]
func (h *Handler) ListPosts(c *gin.Context, caller *auth.Caller) error {
	page := pageFromQuery(c)

	posts, total, err := h.Posts.List(c.Request.Context(), caller.ID(), page)
	if err != nil {
		return apperr.Internal("", err)
	}

	response := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		username := unknownUsername
		if p.Username != nil {
			username = *p.Username
		}
		response = append(response, PostResponse{
			ID:                 p.ID,
			Title:              p.Title,
			Content:            p.Content,
			CreatedAt:          p.CreatedAt,
			Slug:               p.Slug,
			Image:              p.Image,
			UserID:             p.UserID,
			Username:           username,
			LikesCount:         p.LikesCount,
			LikedByCurrentUser: p.LikedByCurrentUser,
		})
	}

	setPaginationHeaders(c, total, page)
	c.JSON(http.StatusOK, response)
	return nil
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Creates a post with a unique slug derived from its title. An optional image is uploaded to storage.
// @Tags         posts
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title   formData  string  true   "Title"
// @Param        content formData  string  true   "Content"
// @Param        image   formData  file    false  "Image"
// @Success      201  {object}  models.Post
// @Failure      400  {object}  ErrorResponse "Title and content required"
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts [post]
func (h *Handler) CreatePost(c *gin.Context, caller *auth.Caller) error {
	if h.MaxUploadBytes > 0 {
		limit := h.MaxUploadBytes + formOverheadBytes
		if c.Request.ContentLength > limit {
			return apperr.BadRequest(msgImageTooLarge)
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	var input CreatePostInput
	if err := c.ShouldBind(&input); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.BadRequest(msgImageTooLarge)
		}
		return apperr.BadRequest("Title and content required")
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || strings.TrimSpace(input.Content) == "" {
		return apperr.BadRequest("Title and content required")
	}

	post := models.Post{
		UserID:  caller.ID(),
		Title:   input.Title,
		Content: input.Content,
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := c.FormFile(imageFormField)
		switch {
		case errors.Is(err, http.ErrMissingFile):
			// no image
		case err != nil:
			return apperr.BadRequest("Invalid image upload")
		default:
			url, err := h.uploadImage(c, file)
			if err != nil {
				return err
			}
			post.Image = &url
		}
	}

	if err := h.Posts.Create(c.Request.Context(), &post); err != nil {
		return apperr.Internal("", err)
	}

	c.JSON(http.StatusCreated, post)
	return nil
}

func (h *Handler) uploadImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, imageContentPrefix) {
		return "", apperr.BadRequest("Image must be an image file")
	}
	if h.MaxUploadBytes > 0 && file.Size > h.MaxUploadBytes {
		return "", apperr.BadRequest(msgImageTooLarge)
	}

	f, err := file.Open()
	if err != nil {
		return "", apperr.BadRequest("Invalid image upload")
	}
	defer f.Close()

	url, err := h.Storage.Upload(c.Request.Context(), storage.Object{
		Filename:    file.Filename,
		ContentType: contentType,
		Size:        file.Size,
		Body:        f,
	})
	if err != nil {
		return "", apperr.Internal("Failed to upload image", err)
	}
	return url, nil
}

// ToggleLike godoc
// @Summary      Toggle like
// @Description  Likes the post if the caller has not liked it yet, otherwise removes the like.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      int  true  "Post ID"
// @Success      200  {object}  ToggleLikeResponse
// @Failure      400  {object}  ErrorResponse "Invalid Post Id"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Post not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /posts/{postId}/likes/toggle [post]
func (h *Handler) ToggleLike(c *gin.Context, caller *auth.Caller) error {
	postID, err := idParam(c, "postId", msgInvalidPostID)
	if err != nil {
		return err
	}

	state, err := h.Posts.ToggleLike(c.Request.Context(), postID, caller.ID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgPostNotFound)
		}
		return apperr.Internal("", err)
	}

	c.JSON(http.StatusOK, ToggleLikeResponse{Liked: state.Liked, LikesCount: state.LikesCount})
	return nil
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path  int              true  "Post ID"
// @Param        input   body  AddCommentInput  true  "Comment"
// @Success      201  {object}  models.Comment
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Post not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /posts/{postId}/addcomment [post]
func (h *Handler) AddComment(c *gin.Context, caller *auth.Caller) error {
	postID, err := idParam(c, "postId", msgInvalidPostID)
	if err != nil {
		return err
	}

	var input AddCommentInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Content) == "" {
		return apperr.BadRequest("Comment content is required")
	}

	comment := models.Comment{
		PostID:   postID,
		UserID:   caller.ID(),
		Content:  input.Content,
		ParentID: input.ParentID,
	}
	if err := h.Posts.AddComment(c.Request.Context(), &comment); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return apperr.NotFound(msgPostNotFound)
		case errors.Is(err, repository.ErrInvalidParent):
			return apperr.BadRequest("Invalid parent comment")
		}
		return apperr.Internal("", err)
	}

	c.JSON(http.StatusCreated, comment)
	return nil
}

// ListComments godoc
// @Summary      List comments
// @Description  Lists the top-level comments of a post, oldest first.
// @Tags         posts
// @Produce      json
// @Param        postId  path  int  true  "Post ID"
// @Success      200  {array}   CommentResponse
// @Failure      400  {object}  ErrorResponse "Invalid Post Id"
// @Failure      500  {object}  ErrorResponse
// @Router       /posts/{postId}/comments [get]
func (h *Handler) ListComments(c *gin.Context) error {
	postID, err := idParam(c, "postId", msgInvalidPostID)
	if err != nil {
		return err
	}

	comments, err := h.Posts.ListComments(c.Request.Context(), postID)
	if err != nil {
		return apperr.Internal("", err)
	}

	response := make([]CommentResponse, 0, len(comments))
	for _, cm := range comments {
		response = append(response, CommentResponse{
			ID:        cm.ID,
			PostID:    cm.PostID,
			Content:   cm.Content,
			CreatedAt: cm.CreatedAt,
			ParentID:  cm.ParentID,
			User:      CommentUser{Username: cm.Username},
		})
	}

	c.JSON(http.StatusOK, response)
	return nil
}
