package repository

import (
	"context"
	"enddit/backend/internal/models"
	"enddit/backend/internal/slug"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxSlugAttempts bounds the probe-insert loop when concurrent posts race
// for the same slug.
const maxSlugAttempts = 5

// PostSummary is a post row joined with its owner and like metadata.
type PostSummary struct {
	ID                 uint
	Title              string
	Content            string
	CreatedAt          time.Time
	Slug               string
	Image              *string
	UserID             uuid.UUID
	Username           *string
	LikesCount         int64
	LikedByCurrentUser bool
}

// CommentView is a comment row joined with the commenter's username.
type CommentView struct {
	ID        uint
	PostID    uint
	Content   string
	CreatedAt time.Time
	ParentID  *uint
	Username  *string
}

// LikeState is the result of a like toggle.
type LikeState struct {
	Liked      bool
	LikesCount int64
}

type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// List returns posts newest-first with like counts aggregated in SQL, plus
// the total number of posts.
func (s *PostStore) List(ctx context.Context, viewerID uuid.UUID, page Page) ([]PostSummary, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count posts")
	}

	likeCounts := db.Model(&models.Like{}).
		Select("post_id, COUNT(*) AS likes_count").
		Group("post_id")

	query := db.Table("posts").
		Select(`posts.id, posts.title, posts.content, posts.created_at, posts.slug, posts.image, posts.user_id,
			users.username,
			COALESCE(lc.likes_count, 0) AS likes_count,
			EXISTS (SELECT 1 FROM likes l WHERE l.post_id = posts.id AND l.user_id = ?) AS liked_by_current_user`, viewerID).
		Joins("LEFT JOIN users ON users.id = posts.user_id").
		Joins("LEFT JOIN (?) AS lc ON lc.post_id = posts.id", likeCounts).
		Order("posts.created_at DESC, posts.id DESC")

	var posts []PostSummary
	if err := page.apply(query).Scan(&posts).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list posts")
	}
	return posts, total, nil
}

// Create inserts post under the first free slug derived from its title.
// A concurrent insert that takes the same slug makes the unique index
// reject ours, and the probe runs again.
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	db := s.db.WithContext(ctx)
	base := slug.Make(post.Title)

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		var taken []string
		err := db.Model(&models.Post{}).
			Where("slug = ? OR slug LIKE ?", base, base+"-%").
			Pluck("slug", &taken).Error
		if err != nil {
			return errors.Wrap(err, "probe slugs")
		}

		post.ID = 0
		post.Slug = slug.NextFree(base, taken)

		err = db.Create(post).Error
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			if isForeignKeyViolation(err) {
				return errors.Wrap(ErrNotFound, "create post: unknown user")
			}
			return errors.Wrap(err, "create post")
		}
	}

	return errors.Wrapf(ErrConflict, "no free slug for %q after %d attempts", base, maxSlugAttempts)
}

// ToggleLike flips the caller's like on a post. The post row is locked for
// the duration of the transaction, so concurrent toggles on the same post
// are applied one after another.
func (s *PostStore) ToggleLike(ctx context.Context, postID uint, userID uuid.UUID) (LikeState, error) {
	var state LikeState

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&post, postID).Error; err != nil {
			return notFoundOr(err, "lock post")
		}

		deleted := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if deleted.Error != nil {
			return errors.Wrap(deleted.Error, "delete like")
		}

		if deleted.RowsAffected == 0 {
			like := models.Like{PostID: postID, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return errors.Wrap(err, "insert like")
			}
			state.Liked = true
		}

		if err := tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&state.LikesCount).Error; err != nil {
			return errors.Wrap(err, "count likes")
		}
		return nil
	})

	return state, err
}

// AddComment inserts a comment on an existing post. A parent, when given,
// must be a comment on the same post.
func (s *PostStore) AddComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, comment.PostID).Error; err != nil {
			return notFoundOr(err, "find post")
		}

		if comment.ParentID != nil {
			var count int64
			err := tx.Model(&models.Comment{}).
				Where("id = ? AND post_id = ?", *comment.ParentID, comment.PostID).
				Count(&count).Error
			if err != nil {
				return errors.Wrap(err, "find parent comment")
			}
			if count == 0 {
				return ErrInvalidParent
			}
		}

		if err := tx.Create(comment).Error; err != nil {
			if isForeignKeyViolation(err) {
				return errors.Wrap(ErrNotFound, "create comment")
			}
			return errors.Wrap(err, "create comment")
		}
		return nil
	})
}

// ListComments returns the top-level comments of a post, oldest first.
func (s *PostStore) ListComments(ctx context.Context, postID uint) ([]CommentView, error) {
	var comments []CommentView
	err := s.db.WithContext(ctx).Table("comments").
		Select("comments.id, comments.post_id, comments.content, comments.created_at, comments.parent_id, users.username").
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ? AND comments.parent_id IS NULL", postID).
		Order("comments.created_at ASC, comments.id ASC").
		Scan(&comments).Error
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	return comments, nil
}
