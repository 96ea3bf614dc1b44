package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/DaoSolary/Desaparecidos/pkg/service/slack"
)

type Slack struct {
	botToken  string
	channelID string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for posting notifications)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("DESAPARECIDOS_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel that receives duplicate detection notifications",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("DESAPARECIDOS_SLACK_CHANNEL_ID"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured checks if Slack notification configuration is complete
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// BotToken returns the Slack bot token
func (x *Slack) BotToken() string {
	return x.botToken
}

// ChannelID returns the Slack channel ID
func (x *Slack) ChannelID() string {
	return x.channelID
}

// Configure creates the Slack notifier. It returns nil without error
// when neither flag is set, which disables notifications.
func (x *Slack) Configure() (slack.Service, error) {
	if x.botToken == "" && x.channelID == "" {
		return nil, nil
	}
	if x.botToken == "" || x.channelID == "" {
		return nil, goerr.New("Slack notifications require both --slack-bot-token and --slack-channel-id")
	}

	return slack.New(x.botToken, x.channelID)
}
