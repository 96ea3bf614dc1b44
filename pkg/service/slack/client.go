package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// client implements Service interface
type client struct {
	api       *slack.Client
	channelID string
}

// New creates a new Slack notifier posting to the given channel
func New(token, channelID string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	return &client{
		api:       slack.New(token),
		channelID: channelID,
	}, nil
}

func (c *client) PostDetectionSummary(ctx context.Context, summary *DetectionSummary) error {
	blocks, fallback := buildDetectionMessage(summary)

	_, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post detection summary", goerr.V("channel_id", c.channelID))
	}

	return nil
}

func (c *client) PostResolution(ctx context.Context, notice *ResolutionNotice) error {
	blocks, fallback := buildResolutionMessage(notice)

	_, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallback, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post resolution notice", goerr.V("channel_id", c.channelID))
	}

	return nil
}
