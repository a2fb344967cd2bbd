package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/core/services"
)

type signUpRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Grade           int    `json:"grade"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Grade     *int   `json:"grade"`
	Role      string `json:"role"`
	Approved  bool   `json:"approved"`
}

func toProfileResponse(p *model.Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Grade:     p.Grade,
		Role:      string(p.Role),
		Approved:  p.Approved,
	}
}

type sessionResponse struct {
	Token   string          `json:"token"`
	Email   string          `json:"email"`
	Profile profileResponse `json:"profile"`
}

func (s *Server) handleSignUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}

	account, profile, err := services.SignUp(c.Context(), s.store, s.hasher, s.logger, services.SignUpInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Grade:           req.Grade,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	// New accounts sign in immediately but land on the pending screen until
	// approved. The token carries the stored email, which sign-up normalizes.
	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(sessionResponse{
		Token:   token,
		Email:   account.Email,
		Profile: toProfileResponse(profile),
	})
}

func (s *Server) handleSignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}

	account, profile, err := services.SignIn(c.Context(), s.store, s.hasher, s.logger, req.Email, req.Password)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.JSON(sessionResponse{
		Token:   token,
		Email:   account.Email,
		Profile: toProfileResponse(profile),
	})
}

// handleMe returns the caller's current profile; the pending screen polls
// this to notice approval.
func (s *Server) handleMe(c *fiber.Ctx) error {
	profile := s.profileFrom(c)
	return c.JSON(toProfileResponse(profile))
}

func (s *Server) handleDeleteAccount(c *fiber.Ctx) error {
	userID, _ := c.Locals(localsUserID).(string)
	if err := services.DeleteAccount(c.Context(), s.store, s.logger, userID); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
