package bridge

import (
	"fmt"
	"time"
)

// Suit ordering is the bidding rank used to compare bids, lowest first.
// This is unrelated to card rank during play.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
	NoTrump
)

func (s Suit) Valid() bool {
	return s >= Clubs && s <= NoTrump
}

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	case Hearts:
		return "hearts"
	case Spades:
		return "spades"
	case NoTrump:
		return "notrump"
	default:
		return fmt.Sprintf("suit(%d)", int(s))
	}
}

func ParseSuit(v string) (Suit, error) {
	switch v {
	case "clubs":
		return Clubs, nil
	case "diamonds":
		return Diamonds, nil
	case "hearts":
		return Hearts, nil
	case "spades":
		return Spades, nil
	case "notrump":
		return NoTrump, nil
	default:
		return 0, fmt.Errorf("unknown suit: %q", v)
	}
}

// TrickPoints is the below-the-line value of winning `count` odd tricks in
// this suit: 20 per trick for minors, 30 for majors, and 40 for the first
// notrump trick then 30 after. With over set, every trick is worth the
// overtrick rate (30 in notrump).
func (s Suit) TrickPoints(count int, over bool) int {
	if count <= 0 || count > 7 {
		return 0
	}
	switch s {
	case Clubs, Diamonds:
		return count * 20
	case Hearts, Spades:
		return count * 30
	case NoTrump:
		if over {
			return count * 30
		}
		return 40 + 30*(count-1)
	default:
		return 0
	}
}

// CallKind tags a single utterance in the auction. KindPending is a
// UI-only placeholder for "whose turn" displays and is never recorded.
type CallKind int

const (
	KindPending CallKind = iota
	KindPass
	KindBid
	KindDouble
	KindRedouble
)

func (k CallKind) String() string {
	switch k {
	case KindPending:
		return "pending"
	case KindPass:
		return "pass"
	case KindBid:
		return "bid"
	case KindDouble:
		return "double"
	case KindRedouble:
		return "redouble"
	default:
		return fmt.Sprintf("call(%d)", int(k))
	}
}

// Call is one recorded utterance. Level and Suit are meaningful only for
// KindBid. ID and At are audit data stamped when the call is accepted.
type Call struct {
	ID       string
	At       time.Time
	Position Position
	Kind     CallKind
	Level    int
	Suit     Suit
}

func Pass(pos Position) Call {
	return Call{Position: pos, Kind: KindPass}
}

func BidCall(pos Position, level int, suit Suit) Call {
	return Call{Position: pos, Kind: KindBid, Level: level, Suit: suit}
}

func DoubleCall(pos Position) Call {
	return Call{Position: pos, Kind: KindDouble}
}

func RedoubleCall(pos Position) Call {
	return Call{Position: pos, Kind: KindRedouble}
}

func (c Call) IsPass() bool {
	return c.Kind == KindPass
}

func (c Call) IsBid() bool {
	return c.Kind == KindBid
}

// FollowsSuit reports whether both calls are bids naming the same suit.
func (c Call) FollowsSuit(other Call) bool {
	return c.IsBid() && other.IsBid() && c.Suit == other.Suit
}

// Outranks applies the bid-comparison rule: a higher level always wins,
// at equal level the higher-ranked suit wins.
func (c Call) Outranks(other Call) bool {
	if !c.IsBid() || !other.IsBid() {
		return false
	}
	return c.Level > other.Level || (c.Level == other.Level && c.Suit > other.Suit)
}

func lastBid(calls []Call) (Call, bool) {
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].IsBid() {
			return calls[i], true
		}
	}
	return Call{}, false
}

func lastNonPass(calls []Call) (Call, bool) {
	for i := len(calls) - 1; i >= 0; i-- {
		if !calls[i].IsPass() {
			return calls[i], true
		}
	}
	return Call{}, false
}

func allPasses(calls []Call) bool {
	for _, c := range calls {
		if !c.IsPass() {
			return false
		}
	}
	return true
}
