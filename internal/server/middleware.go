package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bibnhs/chapter-portal/pkg/core/access"
	"github.com/bibnhs/chapter-portal/pkg/core/model"
)

const (
	localsUserID  = "userID"
	localsEmail   = "email"
	localsProfile = "profile"
)

// requireSession verifies the bearer token and loads the caller's profile
// fresh on every request, so approval or role changes bite immediately.
func (s *Server) requireSession(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(errorEnvelope{Error: "missing bearer token"})
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorEnvelope{Error: "invalid session"})
	}

	profile, err := s.store.GetProfile(c.Context(), claims.UserID)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if profile == nil {
		// Account deleted underneath a live token
		return c.Status(fiber.StatusUnauthorized).JSON(errorEnvelope{Error: "account no longer exists"})
	}

	c.Locals(localsUserID, claims.UserID)
	c.Locals(localsEmail, claims.Email)
	c.Locals(localsProfile, profile)
	return c.Next()
}

func (s *Server) profileFrom(c *fiber.Ctx) *model.Profile {
	profile, _ := c.Locals(localsProfile).(*model.Profile)
	return profile
}

// requireApproved rejects unapproved accounts with 403
func (s *Server) requireApproved(c *fiber.Ctx) error {
	profile := s.profileFrom(c)
	if profile == nil || !profile.Approved {
		return c.Status(fiber.StatusForbidden).JSON(errorEnvelope{Error: "account pending approval"})
	}
	return c.Next()
}

func (s *Server) requireRoles(c *fiber.Ctx, roles ...model.Role) error {
	profile := s.profileFrom(c)
	if profile != nil {
		for _, role := range roles {
			if profile.Role == role {
				return c.Next()
			}
		}
	}
	return c.Status(fiber.StatusForbidden).JSON(errorEnvelope{Error: "insufficient role"})
}

// requireLeadership admits leaders and admins
func (s *Server) requireLeadership(c *fiber.Ctx) error {
	return s.requireRoles(c, model.RoleLeader, model.RoleAdmin)
}

// requireRoute gates a view endpoint on the navigation machine's decision
// for the matching route, so the API and the client agree on who sees what.
func (s *Server) requireRoute(route access.Route) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile := s.profileFrom(c)
		var role model.Role
		if profile != nil {
			role = profile.Role
		}

		switch access.Resolve(access.StateFor(true, profile), role, route) {
		case access.Allow:
			return c.Next()
		case access.RedirectLogin:
			return c.Status(fiber.StatusUnauthorized).JSON(errorEnvelope{Error: "invalid session"})
		case access.RedirectPending:
			return c.Status(fiber.StatusForbidden).JSON(errorEnvelope{Error: "account pending approval"})
		default:
			return c.Status(fiber.StatusForbidden).JSON(errorEnvelope{Error: "insufficient role"})
		}
	}
}
