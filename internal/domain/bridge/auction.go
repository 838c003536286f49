package bridge

import (
	"errors"
	"time"
)

var (
	ErrPendingCall     = errors.New("pending call cannot be recorded")
	ErrInvalidBid      = errors.New("bid does not outrank the standing bid")
	ErrInvalidDouble   = errors.New("no opposing bid to double")
	ErrInvalidRedouble = errors.New("no opposing double to redouble")
	ErrBiddingClosed   = errors.New("bidding is closed")
	ErrCannotRemove    = errors.New("no call to remove")
)

// Auction records the call sequence for one deal. The zero value is not
// usable; construct with NewAuction. Mutators act for the current bidder
// and either fully apply or fully reject, so the sequence is always a
// legal bridge auction.
type Auction struct {
	dealer Position
	bidder Position
	calls  []Call

	// now is swappable for deterministic call timestamps in tests.
	now func() time.Time
}

func NewAuction(dealer Position) *Auction {
	return &Auction{
		dealer: dealer,
		bidder: dealer,
		now:    time.Now,
	}
}

// RestoreAuction rebuilds an auction from persisted calls. The current
// bidder is derived from the last call rather than trusted from storage.
func RestoreAuction(dealer Position, calls []Call) *Auction {
	a := NewAuction(dealer)
	a.calls = append(a.calls, calls...)
	if n := len(a.calls); n > 0 {
		a.bidder = a.calls[n-1].Position.Next()
	}
	return a
}

func (a *Auction) Dealer() Position { return a.dealer }

func (a *Auction) CurrentBidder() Position { return a.bidder }

// Calls returns a copy of the recorded sequence.
func (a *Auction) Calls() []Call {
	out := make([]Call, len(a.calls))
	copy(out, a.calls)
	return out
}

func (a *Auction) Len() int { return len(a.calls) }

// Closed is recomputed from the trailing four calls on every access.
// Four passes end a passed-out deal; a non-pass followed by exactly
// three passes fixes the contract.
func (a *Auction) Closed() bool {
	return closedCalls(a.calls)
}

func closedCalls(calls []Call) bool {
	n := len(calls)
	if n < 4 {
		return false
	}
	suffix := calls[n-4:]
	if allPasses(suffix) {
		return true
	}
	return !suffix[0].IsPass() && allPasses(suffix[1:])
}

// IsPassHand reports whether every recorded call is a pass.
func (a *Auction) IsPassHand() bool {
	return allPasses(a.calls)
}

func (a *Auction) LastBid() (Call, bool) {
	return lastBid(a.calls)
}

// Declarer is the member of the winning side who first named the
// contract's suit, which is not necessarily whoever made the final bid.
func (a *Auction) Declarer() (Position, bool) {
	winning, ok := lastBid(a.calls)
	if !ok {
		return 0, false
	}
	for _, c := range a.calls {
		if c.Position.Team() == winning.Position.Team() && c.FollowsSuit(winning) {
			return c.Position, true
		}
	}
	return winning.Position, true
}

func (a *Auction) Level() (int, bool) {
	bid, ok := lastBid(a.calls)
	if !ok {
		return 0, false
	}
	return bid.Level, true
}

func (a *Auction) Suit() (Suit, bool) {
	bid, ok := lastBid(a.calls)
	if !ok {
		return 0, false
	}
	return bid.Suit, true
}

func (a *Auction) Doubled() bool {
	last, ok := lastNonPass(a.calls)
	return ok && last.Kind == KindDouble
}

func (a *Auction) Redoubled() bool {
	last, ok := lastNonPass(a.calls)
	return ok && last.Kind == KindRedouble
}

// CanDouble mirrors the append-time legality check so a UI can enable
// or disable the control without attempting the call.
func (a *Auction) CanDouble(by Position) bool {
	if a.Closed() {
		return false
	}
	last, ok := lastNonPass(a.calls)
	return ok && last.IsBid() && last.Position.Team() != by.Team()
}

func (a *Auction) CanRedouble(by Position) bool {
	if a.Closed() {
		return false
	}
	if len(a.calls) == 0 {
		return false
	}
	last := a.calls[len(a.calls)-1]
	return last.Kind == KindDouble && last.Position.Team() != by.Team()
}

func (a *Auction) CanRemoveLast() bool {
	return len(a.calls) > 0
}

func (a *Auction) Pass() error {
	return a.Add(Pass(a.bidder))
}

func (a *Auction) Bid(level int, suit Suit) error {
	return a.Add(BidCall(a.bidder, level, suit))
}

func (a *Auction) Double() error {
	return a.Add(DoubleCall(a.bidder))
}

func (a *Auction) Redouble() error {
	return a.Add(RedoubleCall(a.bidder))
}

// Close passes out the remaining seats until the auction is closed.
func (a *Auction) Close() error {
	for !a.Closed() {
		if err := a.Pass(); err != nil {
			return err
		}
	}
	return nil
}

// UndoLast removes the most recent call and rewinds the turn to the seat
// that made it. Removing a closing pass reopens the auction.
func (a *Auction) UndoLast() error {
	n := len(a.calls)
	if n == 0 {
		return ErrCannotRemove
	}
	removed := a.calls[n-1]
	a.calls = a.calls[:n-1]
	a.bidder = removed.Position
	return nil
}

// Add validates and records a call. The caller may target a seat later
// than the implicit next bidder; implicit passes are backfilled for every
// skipped seat so the canonical sequence keeps one entry per turn. The
// sequence is only mutated when the explicit call is accepted.
func (a *Auction) Add(call Call) error {
	if a.Closed() {
		return ErrBiddingClosed
	}
	if !call.Position.Valid() {
		return ErrPendingCall
	}

	// Validate against the sequence as it would look with the implicit
	// passes in place: a skipped seat's pass can itself close the auction
	// or separate a redouble from the double it answers.
	extended := a.calls
	lastCaller := a.dealer.Previous()
	if n := len(a.calls); n > 0 {
		lastCaller = a.calls[n-1].Position
	}
	for cur := lastCaller.Next(); cur != call.Position; cur = cur.Next() {
		extended = append(extended[:len(extended):len(extended)], Pass(cur))
	}
	if closedCalls(extended) {
		return ErrBiddingClosed
	}
	if err := validateCall(extended, call); err != nil {
		return err
	}

	for _, implicit := range extended[len(a.calls):] {
		a.calls = append(a.calls, a.stamp(implicit))
	}
	a.calls = append(a.calls, a.stamp(call))
	a.bidder = call.Position.Next()
	return nil
}

func validateCall(calls []Call, call Call) error {
	switch call.Kind {
	case KindPending:
		return ErrPendingCall
	case KindPass:
		return nil
	case KindBid:
		if call.Level <= 0 || call.Level > 7 || !call.Suit.Valid() {
			return ErrInvalidBid
		}
		if standing, ok := lastBid(calls); ok && !call.Outranks(standing) {
			return ErrInvalidBid
		}
		return nil
	case KindDouble:
		last, ok := lastNonPass(calls)
		if !ok || !last.IsBid() || last.Position.Team() == call.Position.Team() {
			return ErrInvalidDouble
		}
		return nil
	case KindRedouble:
		if len(calls) == 0 {
			return ErrInvalidRedouble
		}
		last := calls[len(calls)-1]
		if last.Kind != KindDouble || last.Position.Team() == call.Position.Team() {
			return ErrInvalidRedouble
		}
		return nil
	default:
		return ErrPendingCall
	}
}

func (a *Auction) stamp(call Call) Call {
	if call.At.IsZero() {
		call.At = a.now().UTC()
	}
	return call
}
