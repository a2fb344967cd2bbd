package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFeedTables(t *testing.T) {
	assert.Equal(t, []string{"profiles", "events", "communications", "service_hours"}, FeedTables())
}

func TestChangeFeed_PublishFansOutToAllSubscribers(t *testing.T) {
	feed := NewChangeFeed(nil, zap.NewNop())

	a, cancelA := feed.Subscribe("")
	defer cancelA()
	b, cancelB := feed.Subscribe("")
	defer cancelB()

	feed.publish(Change{Table: "events", Op: "INSERT"})

	for _, sub := range []<-chan Change{a, b} {
		select {
		case change := <-sub:
			assert.Equal(t, Change{Table: "events", Op: "INSERT"}, change)
		default:
			t.Fatal("expected a buffered change")
		}
	}
}

func TestChangeFeed_TableFilter(t *testing.T) {
	feed := NewChangeFeed(nil, zap.NewNop())

	events, cancel := feed.Subscribe("events")
	defer cancel()

	feed.publish(Change{Table: "profiles", Op: "UPDATE"})
	feed.publish(Change{Table: "events", Op: "DELETE"})

	select {
	case change := <-events:
		assert.Equal(t, "events", change.Table)
		assert.Equal(t, "DELETE", change.Op)
	default:
		t.Fatal("expected the events change")
	}
	assert.Empty(t, events)
}

func TestChangeFeed_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	feed := NewChangeFeed(nil, zap.NewNop())

	sub, cancel := feed.Subscribe("")
	defer cancel()

	// Overfill the subscriber buffer; publish must never block
	for i := 0; i < 32; i++ {
		feed.publish(Change{Table: "events", Op: "INSERT"})
	}
	assert.Len(t, sub, 16)
}

func TestChangeFeed_CancelStopsDelivery(t *testing.T) {
	feed := NewChangeFeed(nil, zap.NewNop())

	sub, cancel := feed.Subscribe("")
	cancel()

	feed.publish(Change{Table: "events", Op: "INSERT"})

	require.Empty(t, sub)
}
