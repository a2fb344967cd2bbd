package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/core/services"
)

type entryRequest struct {
	Hours          *float64 `json:"hours"`
	Category       string   `json:"category"`
	Trimester      *int     `json:"trimester"`
	Date           *string  `json:"date"` // YYYY-MM-DD
	Description    string   `json:"description"`
	SupervisorName string   `json:"supervisor_name"`
	Signature      string   `json:"signature"`
	Complete       bool     `json:"complete"`
}

type entryResponse struct {
	ID             string   `json:"id"`
	Hours          *float64 `json:"hours"`
	Category       string   `json:"category"`
	Trimester      *int     `json:"trimester"`
	Date           *string  `json:"date"`
	Description    string   `json:"description"`
	SupervisorName string   `json:"supervisor_name"`
	Signature      string   `json:"signature"`
	Status         string   `json:"status"`
}

const dateLayout = "2006-01-02"

func toEntryResponse(e model.ServiceEntry) entryResponse {
	resp := entryResponse{
		ID:             e.ID,
		Hours:          e.Hours,
		Category:       string(e.Category),
		Trimester:      e.Trimester,
		Description:    e.Description,
		SupervisorName: e.SupervisorName,
		Signature:      e.Signature,
		Status:         string(e.Status),
	}
	if e.Date != nil {
		d := e.Date.Format(dateLayout)
		resp.Date = &d
	}
	return resp
}

func (r entryRequest) toInput() (services.EntryInput, error) {
	input := services.EntryInput{
		Hours:          r.Hours,
		Category:       r.Category,
		Trimester:      r.Trimester,
		Description:    r.Description,
		SupervisorName: r.SupervisorName,
		Signature:      r.Signature,
	}
	if r.Date != nil && *r.Date != "" {
		parsed, err := time.Parse(dateLayout, *r.Date)
		if err != nil {
			return input, err
		}
		input.Date = &parsed
	}
	return input, nil
}

func (s *Server) handleListEntries(c *fiber.Ctx) error {
	userID, _ := c.Locals(localsUserID).(string)
	result, err := services.ListEntries(c.Context(), s.store, s.logger, userID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	inProgress := make([]entryResponse, 0, len(result.InProgress))
	for _, e := range result.InProgress {
		inProgress = append(inProgress, toEntryResponse(e))
	}
	completed := make([]entryResponse, 0, len(result.Completed))
	for _, e := range result.Completed {
		completed = append(completed, toEntryResponse(e))
	}

	return c.JSON(fiber.Map{
		"in_progress": inProgress,
		"completed":   completed,
		"summary": fiber.Map{
			"in_school":  result.Summary.InSchool,
			"out_school": result.Summary.OutSchool,
			"red_hook":   result.Summary.RedHook,
			"total":      result.Summary.Total,
		},
	})
}

func (s *Server) handleSaveEntry(c *fiber.Ctx) error {
	var req entryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid request body"})
	}
	input, err := req.toInput()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid date, expected YYYY-MM-DD"})
	}

	userID, _ := c.Locals(localsUserID).(string)
	entryID := c.Params("id") // empty on POST

	entry, err := services.SaveEntry(c.Context(), s.store, s.logger, userID, entryID, input, req.Complete)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	status := fiber.StatusOK
	if entryID == "" {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(toEntryResponse(*entry))
}

func (s *Server) handleDeleteEntry(c *fiber.Ctx) error {
	userID, _ := c.Locals(localsUserID).(string)
	if err := services.DeleteEntry(c.Context(), s.store, s.logger, userID, c.Params("id")); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
