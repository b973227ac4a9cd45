// Package discord implements the notification sink on top of discordgo.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/gamedaybot/gameday/internal/notify"
)

// Sink sends channel messages through a Discord bot session.
// Nil-safe: when not configured, NewSink returns nil and callers skip the
// notification worker entirely.
type Sink struct {
	session *discordgo.Session
	logger  *slog.Logger
}

// NewSink creates a Discord sink from a bot token. Returns nil if token is
// empty (notifications disabled).
func NewSink(token string, logger *slog.Logger) (*Sink, error) {
	if token == "" {
		return nil, nil
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	return &Sink{session: session, logger: logger}, nil
}

// Open connects the gateway session. The gateway keeps the channel cache
// warm so most sends resolve without a REST round trip.
func (s *Sink) Open() error {
	if err := s.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	s.logger.Info("Discord session connected", "user", s.session.State.User.Username)
	return nil
}

// Close shuts down the gateway session.
func (s *Sink) Close() error {
	return s.session.Close()
}

// Send resolves the destination channel and posts the message. A channel
// that cannot be resolved or accessed yields notify.ErrChannelUnavailable
// so the caller leaves the event unnotified and retries on a later pass.
func (s *Sink) Send(ctx context.Context, channelID, content string) error {
	if _, err := s.session.Channel(channelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("%w: channel %s: %v", notify.ErrChannelUnavailable, channelID, err)
	}

	if _, err := s.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send to channel %s: %w", channelID, err)
	}
	return nil
}
