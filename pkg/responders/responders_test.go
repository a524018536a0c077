package responders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mfreeman451/meshbot/pkg/dispatch"
	"github.com/mfreeman451/meshbot/pkg/models"
	"github.com/mfreeman451/meshbot/pkg/prefs"
)

const sender models.NodeID = "!00000001"

func TestMatch(t *testing.T) {
	reg := NewDefaultRegistry(&Deps{})

	tests := []struct {
		text string
		want bool
	}{
		{"test", true},
		{"Testing 1 2 3", true},
		{"  TEST", true},
		{"tested", false},
		{"this is a test", false},
		{"hello", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r, ok := reg.Match(tt.text)
			assert.Equal(t, tt.want, ok)

			if tt.want {
				assert.Equal(t, "MessageReactionResponder", r.Name())
			}
		})
	}
}

func TestRegisterRejectsBadPatterns(t *testing.T) {
	reg := NewRegistry(&Deps{})

	err := reg.Register(nil, func(d *Deps) dispatch.Responder { return NewReactionResponder(d, nil) })
	require.ErrorIs(t, err, errNoPatterns)

	err = reg.Register([]string{"(unclosed"}, func(d *Deps) dispatch.Responder { return NewReactionResponder(d, nil) })
	require.ErrorIs(t, err, errInvalidPattern)

	_, ok := reg.Match("(unclosed")
	assert.False(t, ok)
}

func TestFirstRegisteredWins(t *testing.T) {
	ctrl := gomock.NewController(t)

	first := dispatch.NewMockResponder(ctrl)
	second := dispatch.NewMockResponder(ctrl)

	reg := NewRegistry(&Deps{})
	require.NoError(t, reg.Register([]string{"^hi"}, func(*Deps) dispatch.Responder { return first }))
	require.NoError(t, reg.Register([]string{"^hi there"}, func(*Deps) dispatch.Responder { return second }))

	r, ok := reg.Match("hi there")
	require.True(t, ok)
	assert.Same(t, first, r)
}

func TestReactionForEnrolledSender(t *testing.T) {
	ctrl := gomock.NewController(t)
	out := dispatch.NewMockSender(ctrl)
	store := prefs.NewMemory()

	require.NoError(t, store.Put(&prefs.UserPrefs{UserID: sender, RespondToTesting: true}))

	r := NewReactionResponder(&Deps{
		Sender: out,
		Prefs:  store,
		Intn:   func(int) int { return 2 },
	}, DefaultReactions)

	out.EXPECT().SendReaction("🎉", uint32(42), models.ChannelTarget(1))

	handled, err := r.HandlePacket(context.Background(), &models.Packet{
		ID: 42, From: sender, To: models.BroadcastID, Channel: 1, Text: "testing",
	})
	require.NoError(t, err)
	assert.True(t, handled)
}

func TestNoReactionWhenNotEnrolled(t *testing.T) {
	ctrl := gomock.NewController(t)
	out := dispatch.NewMockSender(ctrl)

	r := NewReactionResponder(&Deps{Sender: out, Prefs: prefs.NewMemory(), Intn: func(int) int { return 0 }},
		DefaultReactions)

	handled, err := r.HandlePacket(context.Background(), &models.Packet{ID: 1, From: sender, Text: "test"})
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestPrefsErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := prefs.NewMockStore(ctrl)

	store.EXPECT().Get(sender).Return(nil, errors.New("locked"))

	r := NewReactionResponder(&Deps{Sender: dispatch.NewMockSender(ctrl), Prefs: store}, DefaultReactions)

	handled, err := r.HandlePacket(context.Background(), &models.Packet{From: sender, Text: "test"})
	require.Error(t, err)
	assert.False(t, handled)
}
