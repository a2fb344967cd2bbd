package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bibnhs/chapter-portal/pkg/core/services"
)

type signedEntryResponse struct {
	Entry        entryResponse `json:"entry"`
	StudentID    string        `json:"student_id"`
	StudentName  string        `json:"student_name"`
	StudentGrade *int          `json:"student_grade"`
}

func (s *Server) handleListSignatures(c *fiber.Ctx) error {
	results, err := services.ListSignatures(c.Context(), s.store, s.logger, services.SignatureQuery{
		Search:    c.Query("search"),
		Trimester: c.QueryInt("trimester"),
		Category:  c.Query("category"),
		Grade:     c.QueryInt("grade"),
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	resp := make([]signedEntryResponse, 0, len(results))
	for _, r := range results {
		resp = append(resp, signedEntryResponse{
			Entry:        toEntryResponse(r.Entry),
			StudentID:    r.Student.ID,
			StudentName:  r.Student.FirstName + " " + r.Student.LastName,
			StudentGrade: r.Student.Grade,
		})
	}
	return c.JSON(resp)
}

func (s *Server) handleDeleteSignature(c *fiber.Ctx) error {
	if err := services.DeleteReviewedEntry(c.Context(), s.store, s.logger, c.Params("id")); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
