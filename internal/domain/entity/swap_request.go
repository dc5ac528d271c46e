package entity

import "time"

type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapCompleted SwapStatus = "completed"
	SwapCancelled SwapStatus = "cancelled"
)

// SwapActor says which side of a swap request is acting on it.
type SwapActor int

const (
	ActorNone SwapActor = iota
	ActorProposer
	ActorRecipient
)

// SwapRequest is an offer by FromUserID to teach FromSkill in exchange for learning ToSkill from ToUserID.
type SwapRequest struct {
	ID         string     `json:"id"`
	FromUserID string     `json:"fromUserId"`
	ToUserID   string     `json:"toUserId"`
	FromSkill  string     `json:"fromSkill"`
	ToSkill    string     `json:"toSkill"`
	Message    string     `json:"message"`
	Status     SwapStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (s *SwapRequest) Involves(userID string) bool {
	return s.FromUserID == userID || s.ToUserID == userID
}

// OtherParty returns the participant that is not userID.
func (s *SwapRequest) OtherParty(userID string) string {
	if s.FromUserID == userID {
		return s.ToUserID
	}
	return s.FromUserID
}

func (s *SwapRequest) ActorFor(userID string) SwapActor {
	switch userID {
	case s.FromUserID:
		return ActorProposer
	case s.ToUserID:
		return ActorRecipient
	default:
		return ActorNone
	}
}

func (s SwapStatus) IsTerminal() bool {
	return s == SwapRejected || s == SwapCancelled
}

func (s SwapStatus) Valid() bool {
	switch s {
	case SwapPending, SwapAccepted, SwapRejected, SwapCompleted, SwapCancelled:
		return true
	}
	return false
}

// swapTransitions lists, per source status, the targets and the actors allowed to move there.
var swapTransitions = map[SwapStatus]map[SwapStatus][]SwapActor{
	SwapPending: {
		SwapAccepted:  {ActorRecipient},
		SwapRejected:  {ActorRecipient},
		SwapCancelled: {ActorProposer},
	},
	SwapAccepted: {
		SwapCompleted: {ActorProposer, ActorRecipient},
	},
}

// CanTransition reports whether the lifecycle has an edge from -> to at all.
func CanTransition(from, to SwapStatus) bool {
	_, ok := swapTransitions[from][to]
	return ok
}

// ActorMayTransition reports whether actor is allowed to take the from -> to edge.
func ActorMayTransition(from, to SwapStatus, actor SwapActor) bool {
	for _, a := range swapTransitions[from][to] {
		if a == actor {
			return true
		}
	}
	return false
}

// CanDelete holds only for terminal requests.
func (s *SwapRequest) CanDelete() bool {
	return s.Status.IsTerminal()
}
