package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
)

// ListPosts returns every post with its reply log
func (d *DB) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, COALESCE(user_id::text, ''), title, description, replies, created_at
		FROM communications
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

func scanPost(row pgx.Row) (*model.Post, error) {
	var p model.Post
	var replies []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &replies, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(replies, &p.Replies); err != nil {
		return nil, fmt.Errorf("failed to decode replies for post %s: %w", p.ID, err)
	}
	return &p, nil
}

// GetPost returns one post by ID, or nil when absent
func (d *DB) GetPost(ctx context.Context, id string) (*model.Post, error) {
	post, err := scanPost(d.pool.QueryRow(ctx, `
		SELECT id, COALESCE(user_id::text, ''), title, description, replies, created_at
		FROM communications WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post: %w", err)
	}
	return post, nil
}

// InsertPost inserts a post with an empty reply log
func (d *DB) InsertPost(ctx context.Context, post model.Post) error {
	replies, err := json.Marshal(post.Replies)
	if err != nil {
		return fmt.Errorf("failed to encode replies: %w", err)
	}
	var userID *string
	if post.UserID != "" {
		userID = &post.UserID
	}
	_, err = d.pool.Exec(ctx, `
		INSERT INTO communications (id, user_id, title, description, replies, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, post.ID, userID, post.Title, post.Description, replies, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// UpdatePostContent edits a post's title and description, leaving the reply
// log untouched.
func (d *DB) UpdatePostContent(ctx context.Context, id, title, description string) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE communications SET title = $2, description = $3 WHERE id = $1
	`, id, title, description)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// AppendReply appends one reply to a post's log. The append happens inside
// the database so two concurrent replies both land.
func (d *DB) AppendReply(ctx context.Context, postID string, reply model.Reply) error {
	encoded, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}
	_, err = d.pool.Exec(ctx, `
		UPDATE communications
		SET replies = replies || $2::jsonb
		WHERE id = $1
	`, postID, encoded)
	if err != nil {
		return fmt.Errorf("failed to append reply: %w", err)
	}
	return nil
}

// DeletePost removes a post and its reply log
func (d *DB) DeletePost(ctx context.Context, id string) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM communications WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
