package notifysvc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/cptracker/core"
)

type fakeSender struct {
	channelID string
	content   string
	err       error
}

func (f *fakeSender) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channelID = channelID
	f.content = content
	return &discordgo.Message{ChannelID: channelID, Content: content}, f.err
}

func TestNewDiscordNotifier(t *testing.T) {
	_, err := NewDiscordNotifier(core.DiscordConfig{})
	assert.Error(t, err)

	n, err := NewDiscordNotifier(core.DiscordConfig{Token: "tok", ChannelID: "42"})
	require.NoError(t, err)
	assert.Equal(t, "42", n.channelID)
}

func TestDiscordNotifier_Notify(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		sendErr error
		want    string
		wantErr bool
	}{
		{name: "short message", msg: "Sync succeeded", want: "Sync succeeded"},
		{name: "long message truncated", msg: strings.Repeat("a", maxMessageLen+10), want: strings.Repeat("a", maxMessageLen-3) + "..."},
		{name: "send failure", msg: "boom", sendErr: errors.New("403 Forbidden"), want: "boom", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{err: tt.sendErr}
			n := &DiscordNotifier{session: sender, channelID: "chan"}

			err := n.Notify(context.Background(), tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, "chan", sender.channelID)
			assert.Equal(t, tt.want, sender.content)
			assert.LessOrEqual(t, len(sender.content), maxMessageLen)
		})
	}
}
