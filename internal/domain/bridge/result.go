package bridge

import "fmt"

// ResultKind tags one completed deal in a rubber's history.
type ResultKind int

const (
	ResultMissDeal ResultKind = iota
	ResultPass
	ResultContract
)

func (k ResultKind) String() string {
	switch k {
	case ResultMissDeal:
		return "missDeal"
	case ResultPass:
		return "pass"
	case ResultContract:
		return "contract"
	default:
		return fmt.Sprintf("result(%d)", int(k))
	}
}

// AuctionResult is one history entry: a deal thrown in before the auction
// (missDeal, only the dealer is known), a passed-out deal (the auction is
// kept for the record), or a played contract.
type AuctionResult struct {
	Kind     ResultKind
	dealer   Position
	Auction  *Auction
	Contract *Contract
}

func MissDealResult(dealer Position) AuctionResult {
	return AuctionResult{Kind: ResultMissDeal, dealer: dealer}
}

func PassResult(auction *Auction) AuctionResult {
	return AuctionResult{Kind: ResultPass, Auction: auction}
}

func ContractResult(auction *Auction, contract *Contract) AuctionResult {
	return AuctionResult{Kind: ResultContract, Auction: auction, Contract: contract}
}

func (r AuctionResult) Dealer() Position {
	if r.Auction != nil {
		return r.Auction.Dealer()
	}
	return r.dealer
}

// Scores are the ledger lines this deal contributes: nothing for a
// miss-deal or pass-out.
func (r AuctionResult) Scores() []Score {
	if r.Kind != ResultContract || r.Contract == nil {
		return nil
	}
	return r.Contract.Scores()
}
