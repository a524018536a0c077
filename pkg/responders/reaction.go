package responders

import (
	"context"
	"log"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
)

// ReactionResponder reacts with a random emoji to messages from users who
// enabled respond_to_testing.
type ReactionResponder struct {
	deps  *Deps
	emoji []string
}

var _ dispatch.Responder = (*ReactionResponder)(nil)

func NewReactionResponder(deps *Deps, emoji []string) *ReactionResponder {
	return &ReactionResponder{deps: deps, emoji: emoji}
}

func (*ReactionResponder) Name() string {
	return "MessageReactionResponder"
}

// HandlePacket reports true only when a reaction was sent.
func (r *ReactionResponder) HandlePacket(_ context.Context, pkt *models.Packet) (bool, error) {
	if len(r.emoji) == 0 {
		return false, nil
	}

	p, err := r.deps.Prefs.Get(pkt.From)
	if err != nil {
		return false, err
	}

	if !p.RespondToTesting {
		return false, nil
	}

	emoji := r.emoji[r.deps.Intn(len(r.emoji))]

	log.Printf("Reacting to message %d from %s with %s", pkt.ID, pkt.From, emoji)

	r.deps.Sender.SendReaction(emoji, pkt.ID, models.ChannelTarget(pkt.Channel))

	return true, nil
}
