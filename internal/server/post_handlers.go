package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/core/services"
)

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type replyResponse struct {
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

type postResponse struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	AuthorID   string          `json:"author_id"`
	AuthorName string          `json:"author_name"`
	Replies    []replyResponse `json:"replies"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toPostResponse(p model.Post, authorName string) postResponse {
	replies := make([]replyResponse, 0, len(p.Replies))
	for _, r := range p.Replies {
		replies = append(replies, replyResponse(r))
	}
	return postResponse{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Description,
		AuthorID:   p.UserID,
		AuthorName: authorName,
		Replies:    replies,
		CreatedAt:  p.CreatedAt,
	}
}

func (s *Server) handleListPosts(c *fiber.Ctx) error {
	views, err := services.ListPosts(c.Context(), s.store, s.logger)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	resp := make([]postResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, toPostResponse(v.Post, v.AuthorName))
	}
	return c.JSON(resp)
}

func (s *Server) handleCreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}

	author := s.profileFrom(c)
	post, err := services.CreatePost(c.Context(), s.store, s.logger, author.ID, req.Title, req.Content)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPostResponse(*post, author.FullName()))
}

func (s *Server) handleUpdatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}

	if err := services.UpdatePost(c.Context(), s.store, s.logger, c.Params("id"), req.Title, req.Content); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleDeletePost(c *fiber.Ctx) error {
	if err := services.DeletePost(c.Context(), s.store, s.logger, c.Params("id")); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type replyRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleAddReply(c *fiber.Ctx) error {
	var req replyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}

	author := s.profileFrom(c)
	reply, err := services.AddReply(c.Context(), s.store, s.logger, c.Params("id"), author, req.Content)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(replyResponse(*reply))
}
