package notifysvc

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"github.com/trezcool/cptracker/core"
)

// maxMessageLen is the longest message Discord accepts.
const maxMessageLen = 2000

type channelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts messages to a Discord channel through a bot account.
type DiscordNotifier struct {
	session   channelSender
	channelID string
}

func NewDiscordNotifier(conf core.DiscordConfig) (*DiscordNotifier, error) {
	if conf.Token == "" || conf.ChannelID == "" {
		return nil, errors.New("discord token and channel id are required")
	}
	dg, err := discordgo.New("Bot " + conf.Token)
	if err != nil {
		return nil, errors.Wrap(err, "creating discord session")
	}
	return &DiscordNotifier{session: dg, channelID: conf.ChannelID}, nil
}

func (n *DiscordNotifier) Notify(ctx context.Context, msg string) error {
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen-3] + "..."
	}
	if _, err := n.session.ChannelMessageSend(n.channelID, msg, discordgo.WithContext(ctx)); err != nil {
		return errors.Wrap(err, "sending discord message")
	}
	return nil
}
