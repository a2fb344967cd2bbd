package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/core/services"
)

type eventRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"` // YYYY-MM-DD
}

type eventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	CreatedBy   string `json:"created_by"`
}

func toEventResponse(e model.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Category:    string(e.Category),
		Description: e.Description,
		EventDate:   e.EventDate.Format(dateLayout),
		CreatedBy:   e.CreatedBy,
	}
}

func (r eventRequest) toInput() (services.EventInput, error) {
	input := services.EventInput{
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
	}
	if r.EventDate != "" {
		parsed, err := time.Parse(dateLayout, r.EventDate)
		if err != nil {
			return input, err
		}
		input.EventDate = &parsed
	}
	return input, nil
}

func (s *Server) handleListEvents(c *fiber.Ctx) error {
	events, err := services.ListEvents(c.Context(), s.store, s.logger)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, toEventResponse(e))
	}
	return c.JSON(resp)
}

func (s *Server) handleCreateEvent(c *fiber.Ctx) error {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}
	input, err := req.toInput()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid date, expected YYYY-MM-DD"})
	}

	userID, _ := c.Locals(localsUserID).(string)
	event, err := services.CreateEvent(c.Context(), s.store, s.logger, userID, input)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEventResponse(*event))
}

func (s *Server) handleUpdateEvent(c *fiber.Ctx) error {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}
	input, err := req.toInput()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid date, expected YYYY-MM-DD"})
	}

	event, err := services.UpdateEvent(c.Context(), s.store, s.logger, c.Params("id"), input)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(toEventResponse(*event))
}

func (s *Server) handleDeleteEvent(c *fiber.Ctx) error {
	if err := services.DeleteEvent(c.Context(), s.store, s.logger, c.Params("id")); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
