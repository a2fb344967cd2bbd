// Package mailclient sends account-lifecycle notification emails through the
// Gmail API. The mailer is optional: when no sender is configured the portal
// runs without it and approval simply happens silently.
package mailclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Client wraps the Gmail API for sending notifications
type Client struct {
	service      *gmail.Service
	userID       string
	sender       string
	sendMutex    sync.Mutex
	lastSendTime time.Time
}

// NewClient creates a Gmail client sending as the given address. userID is
// the Gmail API user ("me" for the authorized account).
func NewClient(ctx context.Context, tokenSource oauth2.TokenSource, userID, sender string) (*Client, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Client{
		service: service,
		userID:  userID,
		sender:  sender,
	}, nil
}
