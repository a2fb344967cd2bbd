package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/pkg/core/hours"
	"github.com/bibnhs/chapter-portal/pkg/core/model"
	"github.com/bibnhs/chapter-portal/pkg/core/roster"
	"github.com/bibnhs/chapter-portal/pkg/db"
)

// CatalogueStore defines the database operations needed for the member
// catalogue: the privileged member roster plus every completed entry.
type CatalogueStore interface {
	ListMembersWithEmail(ctx context.Context) ([]db.ProfileWithEmail, error)
	ListCompletedEntries(ctx context.Context) ([]model.ServiceEntry, error)
}

// CatalogueQuery selects the trimester window and the roster filters
type CatalogueQuery struct {
	Trimesters []int
	Roster     roster.Query
}

// CatalogueRow is one rendered roster line: the row plus its classification
// within the selected trimester window.
type CatalogueRow struct {
	roster.Row
	Class hours.Classification
}

// CatalogueResult is the filtered, ordered catalogue with column totals
type CatalogueResult struct {
	Rows       []CatalogueRow
	Totals     roster.Totals
	Trimesters []int
}

// MemberCatalogue builds the roster-wide hours view: it joins the privileged
// member roster with aggregated completed hours, applies the filter/sort
// engine, and classifies each row for the selected trimester window. The
// caller gates access to leaders and admins.
func MemberCatalogue(
	ctx context.Context,
	store CatalogueStore,
	logger *zap.Logger,
	query CatalogueQuery,
) (*CatalogueResult, error) {
	logger.Debug("Fetching member roster")
	members, err := store.ListMembersWithEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	logger.Debug("Found members", zap.Int("count", len(members)))

	logger.Debug("Fetching completed entries")
	entries, err := store.ListCompletedEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completed entries: %w", err)
	}
	logger.Debug("Found completed entries", zap.Int("count", len(entries)))

	byMember := hours.Aggregate(entries)

	rows := make([]roster.Row, 0, len(members))
	for _, m := range members {
		var mh hours.MemberHours
		if agg, ok := byMember[m.ID]; ok {
			mh = *agg
		}
		grade := 0
		if m.Grade != nil {
			grade = *m.Grade
		}
		rows = append(rows, roster.Row{
			ID:        m.ID,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Email:     m.Email,
			Grade:     grade,
			Role:      string(m.Role),
			Hours:     mh,
			Selected:  mh.Selected(query.Trimesters),
		})
	}

	visible, totals := roster.Apply(rows, query.Roster)

	k := len(query.Trimesters)
	if k < 1 {
		k = 1
	}
	result := &CatalogueResult{
		Rows:       make([]CatalogueRow, 0, len(visible)),
		Totals:     totals,
		Trimesters: query.Trimesters,
	}
	for _, row := range visible {
		result.Rows = append(result.Rows, CatalogueRow{
			Row:   row,
			Class: hours.Classify(row.Selected, k),
		})
	}

	logger.Debug("Catalogue built",
		zap.Int("visible", len(result.Rows)),
		zap.Int("trimesters", len(query.Trimesters)))
	return result, nil
}
