package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cardroom/scorepad/internal/domain/bridge"
	idgen "github.com/cardroom/scorepad/internal/platform/id"
)

type CallInput struct {
	Kind     string
	Position string
	Level    int
	Suit     string
}

type FinishDealInput struct {
	RubberID    string
	TricksTaken int
	HonorsSide  string
	HonorsValue int
}

type CallView struct {
	Position string    `json:"position"`
	Kind     string    `json:"kind"`
	Level    int       `json:"level,omitempty"`
	Suit     string    `json:"suit,omitempty"`
	At       time.Time `json:"at"`
}

// ContractPreview is the standing bid as it would finalize if three
// passes followed.
type ContractPreview struct {
	Level     int    `json:"level"`
	Suit      string `json:"suit"`
	Declarer  string `json:"declarer"`
	Doubled   bool   `json:"doubled"`
	Redoubled bool   `json:"redoubled"`
}

type AuctionView struct {
	RubberID      string           `json:"rubber_id"`
	Dealer        string           `json:"dealer"`
	CurrentBidder string           `json:"current_bidder"`
	Closed        bool             `json:"closed"`
	PassHand      bool             `json:"pass_hand"`
	Calls         []CallView       `json:"calls"`
	Contract      *ContractPreview `json:"contract,omitempty"`
	CanDouble     bool             `json:"can_double"`
	CanRedouble   bool             `json:"can_redouble"`
	CanUndo       bool             `json:"can_undo"`
}

// auctionSession is the live auction for one rubber. Its mutex is the
// single-writer guard: every mutation of the call sequence goes through
// it, so two clients can never interleave half-validated calls.
type auctionSession struct {
	mu        sync.Mutex
	rubberID  string
	auction   *bridge.Auction
	startedAt time.Time
}

// AuctionService runs at most one live deal per rubber. Sessions are
// held in memory; the rubber ledger only ever sees finished deals.
type AuctionService struct {
	rubberRepo bridge.Repository
	idGen      idgen.Generator
	notifier   ChangeNotifier

	mu       sync.Mutex
	sessions map[string]*auctionSession
}

func NewAuctionService(rubberRepo bridge.Repository, idGen idgen.Generator, notifier ChangeNotifier) *AuctionService {
	return &AuctionService{
		rubberRepo: rubberRepo,
		idGen:      idGen,
		notifier:   notifier,
		sessions:   make(map[string]*auctionSession),
	}
}

// StartDeal opens a live auction for the rubber's next deal, dealt by
// whoever the rotation says is next.
func (s *AuctionService) StartDeal(ctx context.Context, rubberID string) (AuctionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.StartDeal")
	defer span.End()

	rubber, err := s.loadRubber(ctx, rubberID)
	if err != nil {
		return AuctionView{}, err
	}
	if rubber.IsFinished() {
		return AuctionView{}, fmt.Errorf("%w: rubber=%s", bridge.ErrRubberFinished, rubber.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[rubber.ID]; exists {
		return AuctionView{}, fmt.Errorf("%w: rubber=%s", ErrDealInProgress, rubber.ID)
	}

	session := &auctionSession{
		rubberID:  rubber.ID,
		auction:   bridge.NewAuction(rubber.CurrentDealer()),
		startedAt: time.Now().UTC(),
	}
	s.sessions[rubber.ID] = session
	return viewAuction(rubber.ID, session.auction), nil
}

// View returns the current state of the live auction.
func (s *AuctionService) View(ctx context.Context, rubberID string) (AuctionView, error) {
	_, span := startUsecaseSpan(ctx, "usecase.AuctionService.View")
	defer span.End()

	session, err := s.session(rubberID)
	if err != nil {
		return AuctionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return viewAuction(session.rubberID, session.auction), nil
}

// SubmitCall validates and records one call. A call may name a seat later
// than the implicit next bidder; skipped seats are backfilled as passes.
// With no position given, the call acts for the current bidder.
func (s *AuctionService) SubmitCall(ctx context.Context, rubberID string, input CallInput) (AuctionView, error) {
	_, span := startUsecaseSpan(ctx, "usecase.AuctionService.SubmitCall")
	defer span.End()

	session, err := s.session(rubberID)
	if err != nil {
		return AuctionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	call, err := buildCall(session.auction, input)
	if err != nil {
		return AuctionView{}, err
	}
	if err := session.auction.Add(call); err != nil {
		return AuctionView{}, err
	}
	return viewAuction(session.rubberID, session.auction), nil
}

// CloseOut passes the remaining seats so the auction closes as it stands.
func (s *AuctionService) CloseOut(ctx context.Context, rubberID string) (AuctionView, error) {
	_, span := startUsecaseSpan(ctx, "usecase.AuctionService.CloseOut")
	defer span.End()

	session, err := s.session(rubberID)
	if err != nil {
		return AuctionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if err := session.auction.Close(); err != nil {
		return AuctionView{}, err
	}
	return viewAuction(session.rubberID, session.auction), nil
}

// Undo removes the most recent call, reopening the auction if the call
// was a closing pass.
func (s *AuctionService) Undo(ctx context.Context, rubberID string) (AuctionView, error) {
	_, span := startUsecaseSpan(ctx, "usecase.AuctionService.Undo")
	defer span.End()

	session, err := s.session(rubberID)
	if err != nil {
		return AuctionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if err := session.auction.UndoLast(); err != nil {
		return AuctionView{}, err
	}
	return viewAuction(session.rubberID, session.auction), nil
}

// AbandonDeal discards the live auction without recording anything.
func (s *AuctionService) AbandonDeal(ctx context.Context, rubberID string) error {
	_, span := startUsecaseSpan(ctx, "usecase.AuctionService.AbandonDeal")
	defer span.End()

	rubberID = strings.TrimSpace(rubberID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[rubberID]; !exists {
		return fmt.Errorf("%w: rubber=%s", ErrNoActiveDeal, rubberID)
	}
	delete(s.sessions, rubberID)
	return nil
}

// FinishDeal converts the closed auction into a history entry: a pass
// result for a passed-out deal, otherwise a contract stamped with the
// declaring side's vulnerability at this point in the rubber.
func (s *AuctionService) FinishDeal(ctx context.Context, input FinishDealInput) (*bridge.Rubber, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.FinishDeal")
	defer span.End()

	session, err := s.session(input.RubberID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if !session.auction.Closed() {
		return nil, fmt.Errorf("%w: auction is still open", ErrInvalidInput)
	}

	rubber, err := s.loadRubber(ctx, session.rubberID)
	if err != nil {
		return nil, err
	}

	var result bridge.AuctionResult
	if session.auction.IsPassHand() {
		result = bridge.PassResult(session.auction)
	} else {
		honors, err := parseHonors(input.HonorsSide, input.HonorsValue)
		if err != nil {
			return nil, err
		}
		if input.TricksTaken < 0 || input.TricksTaken > 13 {
			return nil, fmt.Errorf("%w: tricks taken must be between 0 and 13", ErrInvalidInput)
		}
		contractID, err := s.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate contract id: %w", err)
		}
		declarer, _ := session.auction.Declarer()
		contract, err := bridge.NewContract(contractID, session.auction, honors, input.TricksTaken, rubber.IsVulnerable(declarer.Team()))
		if err != nil {
			return nil, err
		}
		result = bridge.ContractResult(session.auction, contract)
	}

	if err := rubber.AddResult(result); err != nil {
		return nil, err
	}
	if err := s.rubberRepo.Save(ctx, rubber); err != nil {
		return nil, fmt.Errorf("save rubber: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, session.rubberID)
	s.mu.Unlock()

	notifyChange(ctx, s.notifier, rubber.ID, ChangeResultRecorded)
	return rubber, nil
}

func (s *AuctionService) session(rubberID string) (*auctionSession, error) {
	rubberID = strings.TrimSpace(rubberID)
	if rubberID == "" {
		return nil, fmt.Errorf("%w: rubber id is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, exists := s.sessions[rubberID]
	if !exists {
		return nil, fmt.Errorf("%w: rubber=%s", ErrNoActiveDeal, rubberID)
	}
	return session, nil
}

func (s *AuctionService) loadRubber(ctx context.Context, rubberID string) (*bridge.Rubber, error) {
	rubberID = strings.TrimSpace(rubberID)
	if rubberID == "" {
		return nil, fmt.Errorf("%w: rubber id is required", ErrInvalidInput)
	}

	rubber, exists, err := s.rubberRepo.GetByID(ctx, rubberID)
	if err != nil {
		return nil, fmt.Errorf("get rubber: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: rubber=%s", ErrNotFound, rubberID)
	}
	return rubber, nil
}

func buildCall(auction *bridge.Auction, input CallInput) (bridge.Call, error) {
	position := auction.CurrentBidder()
	if seat := strings.TrimSpace(input.Position); seat != "" {
		parsed, err := bridge.ParsePosition(seat)
		if err != nil {
			return bridge.Call{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		position = parsed
	}

	switch strings.TrimSpace(input.Kind) {
	case "pass":
		return bridge.Pass(position), nil
	case "bid":
		suit, err := bridge.ParseSuit(strings.TrimSpace(input.Suit))
		if err != nil {
			return bridge.Call{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return bridge.BidCall(position, input.Level, suit), nil
	case "double":
		return bridge.DoubleCall(position), nil
	case "redouble":
		return bridge.RedoubleCall(position), nil
	default:
		return bridge.Call{}, fmt.Errorf("%w: unknown call kind %q", ErrInvalidInput, input.Kind)
	}
}

func viewAuction(rubberID string, auction *bridge.Auction) AuctionView {
	view := AuctionView{
		RubberID:      rubberID,
		Dealer:        auction.Dealer().String(),
		CurrentBidder: auction.CurrentBidder().String(),
		Closed:        auction.Closed(),
		PassHand:      auction.IsPassHand(),
		CanDouble:     auction.CanDouble(auction.CurrentBidder()),
		CanRedouble:   auction.CanRedouble(auction.CurrentBidder()),
		CanUndo:       auction.CanRemoveLast(),
	}
	for _, call := range auction.Calls() {
		cv := CallView{
			Position: call.Position.String(),
			Kind:     call.Kind.String(),
			At:       call.At,
		}
		if call.IsBid() {
			cv.Level = call.Level
			cv.Suit = call.Suit.String()
		}
		view.Calls = append(view.Calls, cv)
	}
	if level, ok := auction.Level(); ok {
		suit, _ := auction.Suit()
		declarer, _ := auction.Declarer()
		view.Contract = &ContractPreview{
			Level:     level,
			Suit:      suit.String(),
			Declarer:  declarer.String(),
			Doubled:   auction.Doubled(),
			Redoubled: auction.Redoubled(),
		}
	}
	return view
}
