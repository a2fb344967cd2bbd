// Package server exposes the portal over HTTP: a JSON API for auth,
// profiles, service hours, events, posts, and administration, plus a
// server-sent-events feed of table changes.
package server

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/internal/config"
	"github.com/bibnhs/chapter-portal/pkg/core/access"
	"github.com/bibnhs/chapter-portal/pkg/auth"
	"github.com/bibnhs/chapter-portal/pkg/clients/mailclient"
	"github.com/bibnhs/chapter-portal/pkg/core/services"
	"github.com/bibnhs/chapter-portal/pkg/db"
	"github.com/bibnhs/chapter-portal/pkg/postgres"
)

// Mailer is the optional notification sender, nil when mail is unconfigured
type Mailer interface {
	SendApprovalNotification(to, firstName string) error
}

// Server wires the HTTP surface to the stores and auth machinery
type Server struct {
	app    *fiber.App
	store  db.Database
	feed   *postgres.ChangeFeed
	tokens *auth.TokenManager
	hasher services.PasswordHasher
	mailer Mailer
	logger *zap.Logger
}

// New builds the server and registers every route
func New(
	cfg *config.Config,
	store db.Database,
	feed *postgres.ChangeFeed,
	tokens *auth.TokenManager,
	hasher services.PasswordHasher,
	mailer *mailclient.Client,
	logger *zap.Logger,
) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:      "chapter-portal",
			ErrorHandler: errorHandler,
		}),
		store:  store,
		feed:   feed,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
	}
	if mailer != nil {
		s.mailer = mailer
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", s.handleSignUp)
	authGroup.Post("/signin", s.handleSignIn)

	// Session required but approval not: the pending screen polls /me
	session := api.Group("", s.requireSession)
	session.Get("/auth/me", s.handleMe)
	session.Delete("/auth/account", s.handleDeleteAccount)

	// Everything below needs an approved profile
	approved := session.Group("", s.requireApproved)
	approved.Put("/profile", s.handleUpdateProfile)
	approved.Put("/profile/password", s.handleUpdatePassword)

	approved.Get("/entries", s.handleListEntries)
	approved.Post("/entries", s.handleSaveEntry)
	approved.Put("/entries/:id", s.handleSaveEntry)
	approved.Delete("/entries/:id", s.handleDeleteEntry)

	approved.Get("/events", s.handleListEvents)
	approved.Post("/events", s.requireLeadership, s.handleCreateEvent)
	approved.Put("/events/:id", s.requireLeadership, s.handleUpdateEvent)
	approved.Delete("/events/:id", s.requireLeadership, s.handleDeleteEvent)

	approved.Get("/posts", s.handleListPosts)
	approved.Post("/posts", s.requireLeadership, s.handleCreatePost)
	approved.Put("/posts/:id", s.requireLeadership, s.handleUpdatePost)
	approved.Delete("/posts/:id", s.requireLeadership, s.handleDeletePost)
	approved.Post("/posts/:id/replies", s.handleAddReply)

	approved.Get("/catalogue", s.requireRoute(access.RouteCatalogue), s.handleCatalogue)

	approved.Get("/signatures", s.requireRoute(access.RouteSignatures), s.handleListSignatures)
	approved.Delete("/signatures/:id", s.requireRoute(access.RouteSignatures), s.handleDeleteSignature)

	users := approved.Group("/users", s.requireRoute(access.RouteUsers))
	users.Get("", s.handleListUsers)
	users.Post("/approve", s.handleApproveUsers)
	users.Post("/unapprove", s.handleUnapproveUsers)
	users.Put("/:id/role", s.handleChangeRole)
	users.Post("/remove", s.handleRemoveUsers)

	approved.Get("/feed/:table", s.handleFeed)
}

// Listen blocks serving HTTP on addr until Shutdown
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// errorEnvelope is the uniform JSON error body
type errorEnvelope struct {
	Error string `json:"error"`
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(errorEnvelope{Error: err.Error()})
}

// respondServiceError maps service-layer sentinel errors onto HTTP statuses
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(errorEnvelope{Error: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorEnvelope{Error: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(errorEnvelope{Error: err.Error()})
	}
	s.logger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(errorEnvelope{Error: "internal error"})
}
