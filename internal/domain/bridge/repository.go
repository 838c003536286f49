package bridge

import "context"

// Repository describes rubber persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]*Rubber, error)
	GetByID(ctx context.Context, rubberID string) (*Rubber, bool, error)
	Save(ctx context.Context, rubber *Rubber) error
	Delete(ctx context.Context, rubberID string) error
}

// Clone deep-copies the auction so a stored rubber cannot be mutated
// through a handle the caller kept.
func (a *Auction) Clone() *Auction {
	if a == nil {
		return nil
	}
	return RestoreAuction(a.dealer, a.calls)
}

func (c *Contract) Clone() *Contract {
	if c == nil {
		return nil
	}
	dup := *c
	dup.Auction = c.Auction.Clone()
	return &dup
}

func (r AuctionResult) Clone() AuctionResult {
	dup := r
	dup.Auction = r.Auction.Clone()
	dup.Contract = r.Contract.Clone()
	if dup.Kind == ResultContract && dup.Contract != nil {
		dup.Contract.Auction = dup.Auction
	}
	return dup
}

func (r *Rubber) Clone() *Rubber {
	if r == nil {
		return nil
	}
	dup := *r
	dup.Players = append([]Player(nil), r.Players...)
	dup.History = make([]AuctionResult, len(r.History))
	for i, entry := range r.History {
		dup.History[i] = entry.Clone()
	}
	return &dup
}
