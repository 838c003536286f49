package postgres

import (
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/cardroom/scorepad/internal/domain/bridge"
)

// The JSONB wire layout for a rubber's seating and history. Contract
// facts that derive from the auction (level, suit, declarer, doubling)
// are not stored; they are recomputed from the calls on load, so the
// stored form can never disagree with the auction it carries.

type playerRecord struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

type callRecord struct {
	ID       string    `json:"id,omitempty"`
	At       time.Time `json:"at"`
	Position string    `json:"position"`
	Kind     string    `json:"kind"`
	Level    int       `json:"level,omitempty"`
	Suit     string    `json:"suit,omitempty"`
}

type honorsRecord struct {
	Side  string `json:"side"`
	Value int    `json:"value"`
}

type contractRecord struct {
	ID          string        `json:"id"`
	TricksTaken int           `json:"tricks_taken"`
	Vulnerable  bool          `json:"vulnerable"`
	Date        time.Time     `json:"date"`
	Honors      *honorsRecord `json:"honors,omitempty"`
}

type historyEntryRecord struct {
	Kind     string          `json:"kind"`
	Dealer   string          `json:"dealer"`
	Calls    []callRecord    `json:"calls,omitempty"`
	Contract *contractRecord `json:"contract,omitempty"`
}

func encodePlayers(players []bridge.Player) ([]byte, error) {
	records := make([]playerRecord, 0, len(players))
	for _, p := range players {
		records = append(records, playerRecord{Name: p.Name, Position: p.Position.String()})
	}
	return sonic.Marshal(records)
}

func decodePlayers(raw []byte) ([]bridge.Player, error) {
	var records []playerRecord
	if err := sonic.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("unmarshal players: %w", err)
	}

	players := make([]bridge.Player, 0, len(records))
	for _, rec := range records {
		position, err := bridge.ParsePosition(rec.Position)
		if err != nil {
			return nil, err
		}
		players = append(players, bridge.Player{Name: rec.Name, Position: position})
	}
	return players, nil
}

func encodeHistory(history []bridge.AuctionResult) ([]byte, error) {
	records := make([]historyEntryRecord, 0, len(history))
	for _, entry := range history {
		rec := historyEntryRecord{
			Kind:   entry.Kind.String(),
			Dealer: entry.Dealer().String(),
		}
		if entry.Auction != nil {
			for _, call := range entry.Auction.Calls() {
				rec.Calls = append(rec.Calls, encodeCall(call))
			}
		}
		if entry.Contract != nil {
			rec.Contract = encodeContract(entry.Contract)
		}
		records = append(records, rec)
	}
	return sonic.Marshal(records)
}

func decodeHistory(raw []byte) ([]bridge.AuctionResult, error) {
	var records []historyEntryRecord
	if err := sonic.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}

	history := make([]bridge.AuctionResult, 0, len(records))
	for i, rec := range records {
		entry, err := decodeHistoryEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("history entry %d: %w", i, err)
		}
		history = append(history, entry)
	}
	return history, nil
}

func decodeHistoryEntry(rec historyEntryRecord) (bridge.AuctionResult, error) {
	dealer, err := bridge.ParsePosition(rec.Dealer)
	if err != nil {
		return bridge.AuctionResult{}, err
	}

	switch rec.Kind {
	case bridge.ResultMissDeal.String():
		return bridge.MissDealResult(dealer), nil
	case bridge.ResultPass.String():
		auction, err := decodeAuction(dealer, rec.Calls)
		if err != nil {
			return bridge.AuctionResult{}, err
		}
		return bridge.PassResult(auction), nil
	case bridge.ResultContract.String():
		if rec.Contract == nil {
			return bridge.AuctionResult{}, fmt.Errorf("contract entry without contract body")
		}
		auction, err := decodeAuction(dealer, rec.Calls)
		if err != nil {
			return bridge.AuctionResult{}, err
		}
		contract, err := decodeContract(rec.Contract, auction)
		if err != nil {
			return bridge.AuctionResult{}, err
		}
		return bridge.ContractResult(auction, contract), nil
	default:
		return bridge.AuctionResult{}, fmt.Errorf("unknown result kind %q", rec.Kind)
	}
}

func decodeAuction(dealer bridge.Position, records []callRecord) (*bridge.Auction, error) {
	calls := make([]bridge.Call, 0, len(records))
	for _, rec := range records {
		call, err := decodeCall(rec)
		if err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return bridge.RestoreAuction(dealer, calls), nil
}

func encodeCall(call bridge.Call) callRecord {
	rec := callRecord{
		ID:       call.ID,
		At:       call.At,
		Position: call.Position.String(),
		Kind:     call.Kind.String(),
	}
	if call.IsBid() {
		rec.Level = call.Level
		rec.Suit = call.Suit.String()
	}
	return rec
}

func decodeCall(rec callRecord) (bridge.Call, error) {
	position, err := bridge.ParsePosition(rec.Position)
	if err != nil {
		return bridge.Call{}, err
	}

	var call bridge.Call
	switch rec.Kind {
	case bridge.KindPass.String():
		call = bridge.Pass(position)
	case bridge.KindBid.String():
		suit, err := bridge.ParseSuit(rec.Suit)
		if err != nil {
			return bridge.Call{}, err
		}
		call = bridge.BidCall(position, rec.Level, suit)
	case bridge.KindDouble.String():
		call = bridge.DoubleCall(position)
	case bridge.KindRedouble.String():
		call = bridge.RedoubleCall(position)
	default:
		return bridge.Call{}, fmt.Errorf("unknown call kind %q", rec.Kind)
	}
	call.ID = rec.ID
	call.At = rec.At
	return call, nil
}

func encodeContract(contract *bridge.Contract) *contractRecord {
	rec := &contractRecord{
		ID:          contract.ID,
		TricksTaken: contract.TricksTaken,
		Vulnerable:  contract.Vulnerable,
		Date:        contract.Date,
	}
	if contract.Honors.Side != bridge.HonorsNone {
		side := "declarer"
		if contract.Honors.Side == bridge.HonorsDefender {
			side = "defender"
		}
		rec.Honors = &honorsRecord{Side: side, Value: contract.Honors.Value}
	}
	return rec
}

func decodeContract(rec *contractRecord, auction *bridge.Auction) (*bridge.Contract, error) {
	var honors bridge.Honors
	if rec.Honors != nil {
		switch rec.Honors.Side {
		case "declarer":
			honors = bridge.Honors{Side: bridge.HonorsDeclarer, Value: rec.Honors.Value}
		case "defender":
			honors = bridge.Honors{Side: bridge.HonorsDefender, Value: rec.Honors.Value}
		default:
			return nil, fmt.Errorf("unknown honors side %q", rec.Honors.Side)
		}
	}

	contract, err := bridge.NewContract(rec.ID, auction, honors, rec.TricksTaken, rec.Vulnerable)
	if err != nil {
		return nil, err
	}
	contract.Date = rec.Date
	return contract, nil
}
