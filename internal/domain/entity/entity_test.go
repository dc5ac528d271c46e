package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateRating(t *testing.T) {
	feedbacks := []Feedback{
		{ToUserID: "2", Rating: 5},
		{ToUserID: "2", Rating: 3},
		{ToUserID: "3", Rating: 1},
		{ToUserID: "2", Rating: 4},
	}

	rating, total := AggregateRating(feedbacks, "2")
	assert.Equal(t, 4.0, rating)
	assert.Equal(t, 3, total)

	rating, total = AggregateRating(feedbacks, "9")
	assert.Equal(t, DefaultRating, rating)
	assert.Equal(t, 0, total)
}

func TestAggregateRatingRoundsToOneDecimal(t *testing.T) {
	feedbacks := []Feedback{
		{ToUserID: "2", Rating: 5},
		{ToUserID: "2", Rating: 4},
		{ToUserID: "2", Rating: 4},
	}

	rating, _ := AggregateRating(feedbacks, "2")
	assert.Equal(t, 4.3, rating)
}

func TestSwapTransitions(t *testing.T) {
	tests := []struct {
		name  string
		from  SwapStatus
		to    SwapStatus
		actor SwapActor
		want  bool
	}{
		{"recipient accepts", SwapPending, SwapAccepted, ActorRecipient, true},
		{"recipient rejects", SwapPending, SwapRejected, ActorRecipient, true},
		{"proposer cannot accept", SwapPending, SwapAccepted, ActorProposer, false},
		{"proposer cancels", SwapPending, SwapCancelled, ActorProposer, true},
		{"recipient cannot cancel", SwapPending, SwapCancelled, ActorRecipient, false},
		{"proposer completes", SwapAccepted, SwapCompleted, ActorProposer, true},
		{"recipient completes", SwapAccepted, SwapCompleted, ActorRecipient, true},
		{"pending cannot complete", SwapPending, SwapCompleted, ActorProposer, false},
		{"rejected is terminal", SwapRejected, SwapAccepted, ActorRecipient, false},
		{"cancelled is terminal", SwapCancelled, SwapPending, ActorProposer, false},
		{"completed is final", SwapCompleted, SwapAccepted, ActorRecipient, false},
		{"outsider", SwapPending, SwapAccepted, ActorNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActorMayTransition(tt.from, tt.to, tt.actor))
		})
	}

	assert.False(t, CanTransition(SwapPending, SwapCompleted))
	assert.True(t, CanTransition(SwapAccepted, SwapCompleted))
}

func TestSwapDeleteOnlyWhenTerminal(t *testing.T) {
	for status, want := range map[SwapStatus]bool{
		SwapPending:   false,
		SwapAccepted:  false,
		SwapCompleted: false,
		SwapRejected:  true,
		SwapCancelled: true,
	} {
		swap := SwapRequest{Status: status}
		assert.Equal(t, want, swap.CanDelete(), string(status))
	}
}

func TestSwapParties(t *testing.T) {
	swap := SwapRequest{FromUserID: "a", ToUserID: "b"}

	assert.Equal(t, ActorProposer, swap.ActorFor("a"))
	assert.Equal(t, ActorRecipient, swap.ActorFor("b"))
	assert.Equal(t, ActorNone, swap.ActorFor("c"))
	assert.Equal(t, "b", swap.OtherParty("a"))
	assert.Equal(t, "a", swap.OtherParty("b"))
	assert.True(t, swap.Involves("b"))
	assert.False(t, swap.Involves("c"))
}

func TestPreview(t *testing.T) {
	short := "see you saturday"
	assert.Equal(t, short, Preview(short))

	exact := strings.Repeat("x", 50)
	assert.Equal(t, exact, Preview(exact))

	long := strings.Repeat("é", 60)
	got := Preview(long)
	assert.Equal(t, strings.Repeat("é", 50)+"...", got)
}

func TestPlatformMessageTargets(t *testing.T) {
	everyone := PlatformMessage{}
	assert.True(t, everyone.IsFor("4"))

	some := PlatformMessage{TargetUsers: []string{"2", "3"}}
	assert.True(t, some.IsFor("2"))
	assert.False(t, some.IsFor("4"))

	nobody := PlatformMessage{TargetUsers: []string{}}
	assert.False(t, nobody.IsFor("2"))
}

func TestNotificationKeys(t *testing.T) {
	assert.Equal(t, "swap_accepted_s1", SwapAcceptedKey("s1"))
	assert.Equal(t, "swap_request_s1", SwapRequestKey("s1"))
	assert.Equal(t, "swap_completed_s1", SwapCompletedKey("s1"))
	assert.Equal(t, "message_s1_m9", MessageKey("s1", "m9"))
	assert.Equal(t, "platform_p1", PlatformKey("p1"))

	list := []Notification{{ID: "a", Read: true}, {ID: "b"}, {ID: "c"}}
	assert.True(t, ContainsNotification(list, "b"))
	assert.False(t, ContainsNotification(list, "z"))
	assert.Equal(t, 2, UnreadCount(list))
}
