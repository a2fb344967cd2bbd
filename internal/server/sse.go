package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/bibnhs/chapter-portal/pkg/postgres"
)

const heartbeatInterval = 30 * time.Second

// handleFeed streams table changes as server-sent events. The path table
// may be one of the feed tables or "all". Clients refetch on every event;
// the stream itself carries no row data.
func (s *Server) handleFeed(c *fiber.Ctx) error {
	table := c.Params("table")
	if table != "all" && !validFeedTable(table) {
		return c.Status(fiber.StatusNotFound).JSON(errorEnvelope{Error: "unknown feed table"})
	}
	if table == "all" {
		table = ""
	}

	changes, cancel := s.feed.Subscribe(table)
	logger := s.logger.With(zap.String("table", table))

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case change := <-changes:
				payload, err := json.Marshal(change)
				if err != nil {
					logger.Error("Failed to encode change", zap.Error(err))
					continue
				}
				if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", payload); err != nil {
					return
				}
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
					return
				}
			}

			// A failed flush is the only reliable disconnect signal
			if err := w.Flush(); err != nil {
				logger.Debug("Feed subscriber disconnected")
				return
			}
		}
	}))

	return nil
}

func validFeedTable(table string) bool {
	for _, t := range postgres.FeedTables() {
		if t == table {
			return true
		}
	}
	return false
}
