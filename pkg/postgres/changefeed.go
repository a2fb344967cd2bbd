package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Change is one table-change notification. The payload deliberately carries
// no row data; subscribers refetch whatever they render.
type Change struct {
	Table string `json:"table"`
	Op    string `json:"op"`
}

// feedChannels are the notification channels the triggers publish on
var feedChannels = []string{
	"profiles_changes",
	"events_changes",
	"communications_changes",
	"service_hours_changes",
}

// FeedTables lists the tables a client may subscribe to
func FeedTables() []string {
	tables := make([]string, len(feedChannels))
	for i, ch := range feedChannels {
		tables[i] = changeTable(ch)
	}
	return tables
}

func changeTable(channel string) string {
	return channel[:len(channel)-len("_changes")]
}

// ChangeFeed listens on the table-change notification channels and fans each
// change out to every subscriber. Slow subscribers drop changes rather than
// blocking the feed; a dropped change only costs a refetch that the next
// change would trigger anyway.
type ChangeFeed struct {
	db     *DB
	logger *zap.Logger

	mu   sync.Mutex
	subs map[chan Change]string // subscriber -> table filter ("" = all)
}

// NewChangeFeed creates a feed over the given database
func NewChangeFeed(db *DB, logger *zap.Logger) *ChangeFeed {
	return &ChangeFeed{
		db:     db,
		logger: logger,
		subs:   map[chan Change]string{},
	}
}

// Run holds a dedicated connection listening for notifications until ctx is
// cancelled. It returns the first fatal error; callers decide whether to
// reconnect.
func (f *ChangeFeed) Run(ctx context.Context) error {
	conn, err := f.db.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer conn.Release()

	for _, channel := range feedChannels {
		if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
			return fmt.Errorf("failed to listen on %s: %w", channel, err)
		}
	}
	f.logger.Info("Change feed listening", zap.Strings("channels", feedChannels))

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed waiting for notification: %w", err)
		}

		// The payload repeats the table name; the channel stays
		// authoritative if the two ever disagree.
		var change Change
		if err := json.Unmarshal([]byte(notification.Payload), &change); err != nil {
			f.logger.Warn("Unparseable change payload",
				zap.String("channel", notification.Channel))
		}
		change.Table = changeTable(notification.Channel)

		f.publish(change)
	}
}

func (f *ChangeFeed) publish(change Change) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sub, table := range f.subs {
		if table != "" && table != change.Table {
			continue
		}
		select {
		case sub <- change:
		default:
			f.logger.Debug("Dropped change for slow subscriber",
				zap.String("table", change.Table))
		}
	}
}

// Subscribe registers a subscriber for one table, or every table when table
// is empty. The returned cancel function must be called to release the
// subscription.
func (f *ChangeFeed) Subscribe(table string) (<-chan Change, func()) {
	ch := make(chan Change, 16)
	f.mu.Lock()
	f.subs[ch] = table
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		delete(f.subs, ch)
		f.mu.Unlock()
	}
	return ch, cancel
}
