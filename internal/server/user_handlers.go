package server

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/core/services"
	"github.com/bibnhs/chapter-portal/pkg/db"
)

type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Grade     *int   `json:"grade"`
	Role      string `json:"role"`
	Approved  bool   `json:"approved"`
}

func toUserResponse(u db.ProfileWithEmail) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Grade:     u.Grade,
		Role:      string(u.Role),
		Approved:  u.Approved,
	}
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	filter := services.UserFilter(c.Query("filter", string(services.FilterAll)))
	users, err := services.ListUsers(c.Context(), s.store, s.logger, filter, c.Query("search"))
	if err != nil {
		return s.respondServiceError(c, err)
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	return c.JSON(resp)
}

type userIDsRequest struct {
	UserIDs []string `json:"user_ids"`
}

func (s *Server) handleApproveUsers(c *fiber.Ctx) error {
	var req userIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}

	actorID, _ := c.Locals(localsUserID).(string)
	if err := services.ApproveUsers(c.Context(), s.store, s.logger, actorID, req.UserIDs); err != nil {
		return s.respondServiceError(c, err)
	}

	s.notifyApproved(c, req.UserIDs)
	return c.SendStatus(fiber.StatusNoContent)
}

// notifyApproved emails newly approved members when a mailer is configured.
// Notification failures are logged, never surfaced; approval already
// happened.
func (s *Server) notifyApproved(c *fiber.Ctx, userIDs []string) {
	if s.mailer == nil {
		return
	}

	users, err := s.store.ListUsersWithEmail(c.Context())
	if err != nil {
		s.logger.Warn("Skipping approval notifications", zap.Error(err))
		return
	}
	byID := make(map[string]db.ProfileWithEmail, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, id := range userIDs {
		user, ok := byID[id]
		if !ok {
			continue
		}
		if err := s.mailer.SendApprovalNotification(user.Email, user.FirstName); err != nil {
			s.logger.Warn("Failed to send approval notification",
				zap.String("user_id", id), zap.Error(err))
		}
	}
}

func (s *Server) handleUnapproveUsers(c *fiber.Ctx) error {
	var req userIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}

	actorID, _ := c.Locals(localsUserID).(string)
	if err := services.UnapproveUsers(c.Context(), s.store, s.logger, actorID, req.UserIDs); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) handleChangeRole(c *fiber.Ctx) error {
	var req changeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}

	actorID, _ := c.Locals(localsUserID).(string)
	if err := services.ChangeRole(c.Context(), s.store, s.logger, actorID,
		c.Params("id"), model.Role(req.Role)); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleRemoveUsers(c *fiber.Ctx) error {
	var req userIDsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}

	actorID, _ := c.Locals(localsUserID).(string)
	if err := services.RemoveUsers(c.Context(), s.store, s.logger, actorID, req.UserIDs); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
