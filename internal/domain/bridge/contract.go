package bridge

import (
	"errors"
	"time"
)

var ErrNoContract = errors.New("auction produced no contract")

// HonorsSide says which side held the honor cards, if either did.
// Honors score regardless of whether the contract made.
type HonorsSide int

const (
	HonorsNone HonorsSide = iota
	HonorsDeclarer
	HonorsDefender
)

// Honors is the honor-card bonus claim entered after play. Value is 100
// for four trump honors, 150 for all five (or four aces at notrump).
type Honors struct {
	Side  HonorsSide
	Value int
}

// Contract is the finalized outcome of one deal: the winning bid frozen
// out of a closed auction plus the post-play inputs. It is immutable; an
// edit produces a replacement carrying the same ID.
type Contract struct {
	ID          string
	Auction     *Auction
	Level       int
	Suit        Suit
	Declarer    Position
	Doubled     bool
	Redoubled   bool
	Honors      Honors
	TricksTaken int
	Vulnerable  bool
	Date        time.Time
}

// NewContract derives a contract from a closed auction. A passed-out or
// still-open auction has no determinable bid and yields ErrNoContract;
// callers record those deals as pass results instead.
func NewContract(id string, auction *Auction, honors Honors, tricksTaken int, vulnerable bool) (*Contract, error) {
	if auction == nil || !auction.Closed() {
		return nil, ErrNoContract
	}
	level, ok := auction.Level()
	if !ok {
		return nil, ErrNoContract
	}
	suit, _ := auction.Suit()
	declarer, _ := auction.Declarer()

	return &Contract{
		ID:          id,
		Auction:     auction,
		Level:       level,
		Suit:        suit,
		Declarer:    declarer,
		Doubled:     auction.Doubled(),
		Redoubled:   auction.Redoubled(),
		Honors:      honors,
		TricksTaken: tricksTaken,
		Vulnerable:  vulnerable,
		Date:        time.Now().UTC(),
	}, nil
}

// Result is the margin against the contract: positive overtricks, zero
// made exactly, negative undertricks.
func (c *Contract) Result() int {
	return c.TricksTaken - 6 - c.Level
}

// WithVulnerable returns a copy with the vulnerability flag rewritten.
// Used by the ledger when editing earlier history changes which side was
// vulnerable for this deal.
func (c *Contract) WithVulnerable(vulnerable bool) *Contract {
	dup := *c
	dup.Vulnerable = vulnerable
	return &dup
}
