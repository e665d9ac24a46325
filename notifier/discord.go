package notifier

import (
	"context"
	"fmt"
	"strings"

	"petbroker/events"
	"petbroker/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// DiscordNotifier announces resolved trades to a Discord channel. It is an
// optional observer; the ledger does not depend on it and a delivery failure
// is only logged.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscordNotifier opens a Discord session and subscribes to trade
// resolution events on the bus
func NewDiscordNotifier(token, channelID string, bus *events.Bus) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord connection: %w", err)
	}

	n := &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}

	bus.Subscribe(events.EventTypeTradeResolved, n.handleTradeResolved)

	log.WithField("channelID", channelID).Info("Discord trade announcements enabled")
	return n, nil
}

// Close closes the Discord session
func (n *DiscordNotifier) Close() error {
	return n.session.Close()
}

func (n *DiscordNotifier) handleTradeResolved(ctx context.Context, event events.Event) {
	resolved, ok := event.(events.TradeResolvedEvent)
	if !ok {
		return
	}

	message := formatTradeMessage(resolved)
	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"requestId": resolved.RequestID,
			"channelID": n.channelID,
		}).Warn("Failed to send trade announcement")
	}
}

func formatTradeMessage(e events.TradeResolvedEvent) string {
	verb := "deposited"
	if e.TradeType == models.TradeTypeWithdraw {
		verb = "withdrew"
	}

	if e.Status == models.TradeStatusFailed {
		return fmt.Sprintf("❌ Trade failed: %s's %s request via %s", e.Username, e.TradeType, e.Bot)
	}

	pets := "pets"
	if len(e.PetNames) > 0 {
		pets = strings.Join(e.PetNames, ", ")
	}
	return fmt.Sprintf("✅ %s %s %s via %s", e.Username, verb, pets, e.Bot)
}
