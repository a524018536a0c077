package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfreeman451/meshbot/pkg/models"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		in, token, rest string
	}{
		{"!ping", "!ping", ""},
		{"  !ping   hello there ", "!ping", "hello there"},
		{"!admin\treset packets", "!admin", "reset packets"},
		{"", "", ""},
	}

	for _, tt := range tests {
		token, rest := SplitMessage(tt.in)
		assert.Equal(t, tt.token, token, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
	}
}

func TestDescribeMessage(t *testing.T) {
	base, subs, args := DescribeMessage("!admin reset packets now", "reset", "packets", "help")
	assert.Equal(t, "!admin", base)
	assert.Equal(t, []string{"reset", "packets"}, subs)
	assert.Equal(t, "now", args)

	base, subs, args = DescribeMessage("!ping hello world")
	assert.Equal(t, "!ping", base)
	assert.Empty(t, subs)
	assert.Equal(t, "hello world", args)
}

func TestReplyTarget(t *testing.T) {
	me := models.NodeID("!0000beef")

	direct := &models.Packet{From: "!00000001", To: me, Channel: 2}
	assert.Equal(t, models.DirectTarget("!00000001"), ReplyTarget(direct, me))

	public := &models.Packet{From: "!00000001", To: models.BroadcastID, Channel: 2}
	assert.Equal(t, models.ChannelTarget(2), ReplyTarget(public, me))
}
