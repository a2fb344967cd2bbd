package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bibnhs/chapter-portal/pkg/core/services"
)

type updateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Grade     *int   `json:"grade"`
}

func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}

	actor := s.profileFrom(c)
	if err := services.UpdateProfile(c.Context(), s.store, s.logger, actor,
		req.FirstName, req.LastName, req.Grade); err != nil {
		return s.respondServiceError(c, err)
	}

	updated, err := s.store.GetProfile(c.Context(), actor.ID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(toProfileResponse(updated))
}

type updatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

func (s *Server) handleUpdatePassword(c *fiber.Ctx) error {
	var req updatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}

	userID, _ := c.Locals(localsUserID).(string)
	if err := services.UpdatePassword(c.Context(), s.store, s.hasher, s.logger,
		userID, req.NewPassword); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
