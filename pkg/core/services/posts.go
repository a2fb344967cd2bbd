package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/db"
)

// PostStore defines the database operations needed for announcement posts
type PostStore interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPost(ctx context.Context, postID string) (*model.Post, error)
	InsertPost(ctx context.Context, post model.Post) error
	UpdatePostContent(ctx context.Context, postID, title, content string) error
	AppendReply(ctx context.Context, postID string, reply model.Reply) error
	DeletePost(ctx context.Context, postID string) error
	ListUsersWithEmail(ctx context.Context) ([]db.ProfileWithEmail, error)
}

// PostView is a post joined with its author's display name
type PostView struct {
	Post       model.Post
	AuthorName string
}

// ListPosts returns every announcement, newest first, joined with author
// names. Posts whose author no longer exists show an empty name.
func ListPosts(
	ctx context.Context,
	store PostStore,
	logger *zap.Logger,
) ([]PostView, error) {
	posts, err := store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	users, err := store.ListUsersWithEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch authors: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = strings.TrimSpace(u.FirstName + " " + u.LastName)
	}

	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, PostView{
			Post:       post,
			AuthorName: names[post.UserID],
		})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Post.CreatedAt.After(views[j].Post.CreatedAt)
	})

	logger.Debug("Post list built", zap.Int("count", len(views)))
	return views, nil
}

// CreatePost publishes a new announcement. The caller gates access to leaders
// and admins.
func CreatePost(
	ctx context.Context,
	store PostStore,
	logger *zap.Logger,
	authorID, title, content string,
) (*model.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("title and content are required: %w", ErrValidation)
	}

	post := model.Post{
		ID:          uuid.New().String(),
		UserID:      authorID,
		Title:       title,
		Description: content,
		Replies:     []model.Reply{},
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.InsertPost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}
	logger.Info("Created post",
		zap.String("post_id", post.ID),
		zap.String("user_id", authorID))
	return &post, nil
}

// UpdatePost edits an announcement's title and content. Replies are never
// touched by edits. The caller gates access to leaders and admins.
func UpdatePost(
	ctx context.Context,
	store PostStore,
	logger *zap.Logger,
	postID, title, content string,
) error {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return fmt.Errorf("title and content are required: %w", ErrValidation)
	}

	post, err := store.GetPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to fetch post %s: %w", postID, err)
	}
	if post == nil {
		return fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}

	if err := store.UpdatePostContent(ctx, postID, title, content); err != nil {
		return fmt.Errorf("failed to update post %s: %w", postID, err)
	}
	logger.Info("Updated post", zap.String("post_id", postID))
	return nil
}

// AddReply appends a reply to a post's reply log. The log is append only:
// the store performs the append atomically so concurrent replies never
// overwrite each other.
func AddReply(
	ctx context.Context,
	store PostStore,
	logger *zap.Logger,
	postID string,
	author *model.Profile,
	content string,
) (*model.Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("reply content is required: %w", ErrValidation)
	}

	post, err := store.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch post %s: %w", postID, err)
	}
	if post == nil {
		return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}

	reply := model.Reply{
		Content:   content,
		UserID:    author.ID,
		UserName:  author.FullName(),
		CreatedAt: time.Now().UTC(),
	}
	if err := store.AppendReply(ctx, postID, reply); err != nil {
		return nil, fmt.Errorf("failed to append reply to post %s: %w", postID, err)
	}
	logger.Info("Added reply",
		zap.String("post_id", postID),
		zap.String("user_id", author.ID))
	return &reply, nil
}

// DeletePost removes an announcement along with its replies. The caller
// gates access to leaders and admins.
func DeletePost(
	ctx context.Context,
	store PostStore,
	logger *zap.Logger,
	postID string,
) error {
	post, err := store.GetPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to fetch post %s: %w", postID, err)
	}
	if post == nil {
		return fmt.Errorf("post %s: %w", postID, ErrNotFound)
	}
	if err := store.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", postID, err)
	}
	logger.Info("Deleted post", zap.String("post_id", postID))
	return nil
}
