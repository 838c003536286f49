package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/cardroom/scorepad/internal/domain/bridge"
	idgen "github.com/cardroom/scorepad/internal/platform/id"
)

type SeatInput struct {
	Name     string
	Position string
}

type CreateRubberInput struct {
	Players        []SeatInput
	StartingDealer string
}

type ReplaceContractInput struct {
	RubberID    string
	ContractID  string
	TricksTaken int
	HonorsSide  string
	HonorsValue int
}

// RubberSummary is the list-view projection of one rubber: identity,
// seating, and the running totals, without the full history.
type RubberSummary struct {
	ID           string    `json:"id"`
	DateCreated  time.Time `json:"date_created"`
	LastModified time.Time `json:"last_modified"`
	Players      []string  `json:"players"`
	Deals        int       `json:"deals"`
	Finished     bool      `json:"finished"`
	WeTotal      int       `json:"we_total"`
	TheyTotal    int       `json:"they_total"`
}

// TeamLine is one side of the scoresheet, split above and below the line
// the way a paper pad is.
type TeamLine struct {
	Team       string `json:"team"`
	Above      int    `json:"above"`
	Below      int    `json:"below"`
	Total      int    `json:"total"`
	Vulnerable bool   `json:"vulnerable"`
}

// GameLine is one derived game segment with each side's points inside it.
type GameLine struct {
	Kind   string `json:"kind"`
	Winner string `json:"winner,omitempty"`
	We     int    `json:"we"`
	They   int    `json:"they"`
}

type Scoreboard struct {
	RubberID string     `json:"rubber_id"`
	Dealer   string     `json:"dealer"`
	Finished bool       `json:"finished"`
	Games    []GameLine `json:"games"`
	We       TeamLine   `json:"we"`
	They     TeamLine   `json:"they"`
}

type RubberService struct {
	rubberRepo bridge.Repository
	idGen      idgen.Generator
	notifier   ChangeNotifier
}

func NewRubberService(rubberRepo bridge.Repository, idGen idgen.Generator, notifier ChangeNotifier) *RubberService {
	return &RubberService{
		rubberRepo: rubberRepo,
		idGen:      idGen,
		notifier:   notifier,
	}
}

func (s *RubberService) CreateRubber(ctx context.Context, input CreateRubberInput) (*bridge.Rubber, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RubberService.CreateRubber")
	defer span.End()

	dealerName := strings.TrimSpace(input.StartingDealer)
	if dealerName == "" {
		return nil, fmt.Errorf("%w: starting dealer is required", ErrInvalidInput)
	}
	dealer, err := bridge.ParsePosition(dealerName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	players, err := parseSeats(input.Players)
	if err != nil {
		return nil, err
	}

	rubberID, err := s.idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate rubber id: %w", err)
	}

	rubber := bridge.NewRubber(rubberID, players, dealer)
	if err := s.rubberRepo.Save(ctx, rubber); err != nil {
		return nil, fmt.Errorf("save rubber: %w", err)
	}

	notifyChange(ctx, s.notifier, rubber.ID, ChangeRubberCreated)
	return rubber, nil
}

func (s *RubberService) ListRubbers(ctx context.Context) ([]*bridge.Rubber, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RubberService.ListRubbers")
	defer span.End()

	rubbers, err := s.rubberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rubbers: %w", err)
	}
	return rubbers, nil
}

// ListSummaries projects every stored rubber into its list view. Each
// summary rescans that rubber's history for totals, so they are computed
// in parallel.
func (s *RubberService) ListSummaries(ctx context.Context) ([]RubberSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RubberService.ListSummaries")
	defer span.End()

	rubbers, err := s.rubberRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rubbers: %w", err)
	}

	summaries := iter.Map(rubbers, func(r **bridge.Rubber) RubberSummary {
		return summarizeRubber(*r)
	})
	return summaries, nil
}

func (s *RubberService) GetRubber(ctx context.Context, rubberID string) (*bridge.Rubber, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RubberService.GetRubber")
	defer span.End()

	return s.loadRubber(ctx, rubberID)
}

func (s *RubberService) DeleteRubber(ctx context.Context, rubberID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RubberService.DeleteRubber")
	defer span.End()

	rubberID = strings.TrimSpace(rubberID)
	if rubberID == "" {
		return fmt.Errorf("%w: rubber id is required", ErrInvalidInput)
	}

	_, exists, err := s.rubberRepo.GetByID(ctx, rubberID)
	if err != nil {
		return fmt.Errorf("get rubber: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: rubber=%s", ErrNotFound, rubberID)
	}

	if err := s.rubberRepo.Delete(ctx, rubberID); err != nil {
		return fmt.Errorf("delete rubber: %w", err)
	}

	notifyChange(ctx, s.notifier, rubberID, ChangeRubberDeleted)
	return nil
}

// RecordMissDeal enters a thrown-in deal for the rubber's current dealer.
// The deal scores nothing but still rotates the dealer.
func (s *RubberService) RecordMissDeal(ctx context.Context, rubberID string) (*bridge.Rubber, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RubberService.RecordMissDeal")
	defer span.End()

	rubber, err := s.loadRubber(ctx, rubberID)
	if err != nil {
		return nil, err
	}

	if err := rubber.AddResult(bridge.MissDealResult(rubber.CurrentDealer())); err != nil {
		return nil, err
	}
	if err := s.rubberRepo.Save(ctx, rubber); err != nil {
		return nil, fmt.Errorf("save rubber: %w", err)
	}

	notifyChange(ctx, s.notifier, rubber.ID, ChangeResultRecorded)
	return rubber, nil
}

// ReplaceContract edits a played deal in place: the auction and contract
// identity are kept, the post-play inputs are replaced, and the ledger
// re-derives vulnerability for every deal after the edit.
func (s *RubberService) ReplaceContract(ctx context.Context, input ReplaceContractInput) (*bridge.Rubber, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RubberService.ReplaceContract")
	defer span.End()

	input.ContractID = strings.TrimSpace(input.ContractID)
	if input.ContractID == "" {
		return nil, fmt.Errorf("%w: contract id is required", ErrInvalidInput)
	}
	honors, err := parseHonors(input.HonorsSide, input.HonorsValue)
	if err != nil {
		return nil, err
	}

	rubber, err := s.loadRubber(ctx, input.RubberID)
	if err != nil {
		return nil, err
	}

	previous := findContract(rubber, input.ContractID)
	if previous == nil {
		return nil, fmt.Errorf("%w: contract=%s", ErrNotFound, input.ContractID)
	}
	if input.TricksTaken < 0 || input.TricksTaken > 13 {
		return nil, fmt.Errorf("%w: tricks taken must be between 0 and 13", ErrInvalidInput)
	}

	replacement, err := bridge.NewContract(previous.ID, previous.Auction.Clone(), honors, input.TricksTaken, previous.Vulnerable)
	if err != nil {
		return nil, err
	}
	// An edit rewrites the outcome, not when the deal was played.
	replacement.Date = previous.Date
	if err := rubber.ReplaceContract(replacement); err != nil {
		return nil, err
	}
	if err := s.rubberRepo.Save(ctx, rubber); err != nil {
		return nil, fmt.Errorf("save rubber: %w", err)
	}

	notifyChange(ctx, s.notifier, rubber.ID, ChangeContractReplaced)
	return rubber, nil
}

// Scoreboard renders the rubber as a traditional scoresheet view.
func (s *RubberService) Scoreboard(ctx context.Context, rubberID string) (Scoreboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RubberService.Scoreboard")
	defer span.End()

	rubber, err := s.loadRubber(ctx, rubberID)
	if err != nil {
		return Scoreboard{}, err
	}

	board := Scoreboard{
		RubberID: rubber.ID,
		Dealer:   rubber.CurrentDealer().String(),
		Finished: rubber.IsFinished(),
		We:       teamLine(rubber, bridge.TeamWe),
		They:     teamLine(rubber, bridge.TeamThey),
	}
	for _, game := range rubber.Games() {
		line := GameLine{
			Kind: game.Kind.String(),
			We:   bridge.PointsFor(rubber.ScoresForGame(game), bridge.TeamWe).Total(),
			They: bridge.PointsFor(rubber.ScoresForGame(game), bridge.TeamThey).Total(),
		}
		if game.Closed() {
			line.Winner = game.Winner.String()
		}
		board.Games = append(board.Games, line)
	}
	return board, nil
}

func (s *RubberService) loadRubber(ctx context.Context, rubberID string) (*bridge.Rubber, error) {
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

func parseSeats(seats []SeatInput) ([]bridge.Player, error) {
	if len(seats) != 4 {
		return nil, fmt.Errorf("%w: exactly four players are required", ErrInvalidInput)
	}

	players := make([]bridge.Player, 0, len(seats))
	taken := make(map[bridge.Position]struct{}, len(seats))
	for _, seat := range seats {
		name := strings.TrimSpace(seat.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
		}
		position, err := bridge.ParsePosition(strings.TrimSpace(seat.Position))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, dup := taken[position]; dup {
			return nil, fmt.Errorf("%w: position %s is seated twice", ErrInvalidInput, position)
		}
		taken[position] = struct{}{}
		players = append(players, bridge.Player{Name: name, Position: position})
	}
	return players, nil
}

func parseHonors(side string, value int) (bridge.Honors, error) {
	side = strings.TrimSpace(side)
	switch side {
	case "", "none":
		return bridge.Honors{}, nil
	case "declarer", "defender":
		if value != 100 && value != 150 {
			return bridge.Honors{}, fmt.Errorf("%w: honors value must be 100 or 150", ErrInvalidInput)
		}
		honorsSide := bridge.HonorsDeclarer
		if side == "defender" {
			honorsSide = bridge.HonorsDefender
		}
		return bridge.Honors{Side: honorsSide, Value: value}, nil
	default:
		return bridge.Honors{}, fmt.Errorf("%w: unknown honors side %q", ErrInvalidInput, side)
	}
}

func findContract(rubber *bridge.Rubber, contractID string) *bridge.Contract {
	for _, entry := range rubber.History {
		if entry.Kind == bridge.ResultContract && entry.Contract != nil && entry.Contract.ID == contractID {
			return entry.Contract
		}
	}
	return nil
}

func summarizeRubber(rubber *bridge.Rubber) RubberSummary {
	names := make([]string, 0, len(rubber.Players))
	for _, p := range rubber.Players {
		names = append(names, p.Name)
	}
	return RubberSummary{
		ID:           rubber.ID,
		DateCreated:  rubber.DateCreated,
		LastModified: rubber.LastModified,
		Players:      names,
		Deals:        len(rubber.History),
		Finished:     rubber.IsFinished(),
		WeTotal:      rubber.Points(bridge.TeamWe).Total(),
		TheyTotal:    rubber.Points(bridge.TeamThey).Total(),
	}
}

func teamLine(rubber *bridge.Rubber, team bridge.Team) TeamLine {
	points := rubber.Points(team)
	return TeamLine{
		Team:       team.String(),
		Above:      points.Above,
		Below:      points.Below,
		Total:      points.Total(),
		Vulnerable: rubber.IsVulnerable(team),
	}
}
