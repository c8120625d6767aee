package notifier

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// NewDiscordBot opens a bot session from a bot token.
func NewDiscordBot(botToken, channelID string) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return NewDiscordNotifier(session, channelID), nil
}

func (n *DiscordNotifier) NotifyBooking(ctx context.Context, event BookingEvent) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, FormatBookingMessage(event), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}

	return nil
}

func FormatBookingMessage(event BookingEvent) string {
	switch event.Action {
	case ActionUpdated:
		return fmt.Sprintf("🔁 **Booking Update**\n**Booking:** #%d\n**User:** %d\n**Room:** %d → %d",
			event.BookingID, event.UserID, event.PrevRoomID, event.RoomID)
	default:
		return fmt.Sprintf("🏨 **New Booking**\n**Booking:** #%d\n**User:** %d\n**Room:** %d",
			event.BookingID, event.UserID, event.RoomID)
	}
}
