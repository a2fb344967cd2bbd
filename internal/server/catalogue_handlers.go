package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bibnhs/chapter-portal/pkg/core/hours"
	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/core/roster"
	"github.com/bibnhs/chapter-portal/pkg/core/services"
)

type catalogueRowResponse struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Grade     int      `json:"grade"`
	Role      string   `json:"role"`
	InSchool  float64  `json:"in_school"`
	OutSchool float64  `json:"out_school"`
	RedHook   float64  `json:"red_hook"`
	Overall   float64  `json:"overall"`
	Colors    colorSet `json:"colors"`
}

type colorSet struct {
	InSchool  string `json:"in_school"`
	OutSchool string `json:"out_school"`
	RedHook   string `json:"red_hook"`
	Overall   string `json:"overall"`
}

// parseIntList parses "1,2,3" style query values
func parseIntList(raw string) []int {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

// handleCatalogue serves the roster-wide hours table. Query parameters:
// trimesters (csv, default derived from today's date), grades (csv, default
// all), search, min_hours, sort, desc.
func (s *Server) handleCatalogue(c *fiber.Ctx) error {
	trimesters := parseIntList(c.Query("trimesters"))
	if len(trimesters) == 0 {
		trimesters = hours.DefaultTrimesters(time.Now())
	}

	grades := parseIntList(c.Query("grades"))
	if c.Query("grades") == "" {
		for g := model.MinGrade; g <= model.MaxGrade; g++ {
			grades = append(grades, g)
		}
	}

	var minHours *float64
	if raw := c.Query("min_hours"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid min_hours"})
		}
		minHours = &v
	}

	sortBy := roster.SortKey(c.Query("sort", string(roster.SortByName)))
	if !sortBy.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{Error: "invalid sort key"})
	}

	result, err := services.MemberCatalogue(c.Context(), s.store, s.logger, services.CatalogueQuery{
		Trimesters: trimesters,
		Roster: roster.Query{
			Search:     c.Query("search"),
			Grades:     grades,
			MinHours:   minHours,
			SortBy:     sortBy,
			Descending: c.QueryBool("desc"),
		},
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	rows := make([]catalogueRowResponse, 0, len(result.Rows))
	for _, row := range result.Rows {
		rows = append(rows, catalogueRowResponse{
			ID:        row.ID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     row.Email,
			Grade:     row.Grade,
			Role:      row.Role,
			InSchool:  row.Selected.InSchool,
			OutSchool: row.Selected.OutSchool,
			RedHook:   row.Selected.RedHook,
			Overall:   row.Selected.Overall(),
			Colors: colorSet{
				InSchool:  hours.CategoryColor(row.Class.InSchool),
				OutSchool: hours.CategoryColor(row.Class.OutSchool),
				RedHook:   hours.CategoryColor(row.Class.RedHook),
				Overall:   hours.OverallColor(row.Class.Overall),
			},
		})
	}

	return c.JSON(fiber.Map{
		"rows":       rows,
		"trimesters": result.Trimesters,
		"totals": fiber.Map{
			"in_school":  result.Totals.InSchool,
			"out_school": result.Totals.OutSchool,
			"red_hook":   result.Totals.RedHook,
			"overall":    result.Totals.Overall,
		},
	})
}
