package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cardroom/scorepad/internal/domain/bridge"
	"github.com/cardroom/scorepad/internal/infrastructure/repository/memory"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type sequenceIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return string(rune('a'+g.next-1)) + "-id", nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (n *recordingNotifier) RubberChanged(_ context.Context, event ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) kinds() []ChangeKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]ChangeKind, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Kind)
	}
	return out
}

func standardSeats() []SeatInput {
	return []SeatInput{
		{Name: "Ada", Position: "north"},
		{Name: "Ben", Position: "east"},
		{Name: "Cleo", Position: "south"},
		{Name: "Dev", Position: "west"},
	}
}

func TestRubberService_CreateRubber(t *testing.T) {
	repo := memory.NewRubberRepository()
	notifier := &recordingNotifier{}
	service := NewRubberService(repo, staticIDGenerator{id: "rubber-001"}, notifier)

	rubber, err := service.CreateRubber(t.Context(), CreateRubberInput{
		Players:        standardSeats(),
		StartingDealer: "north",
	})
	if err != nil {
		t.Fatalf("create rubber: %v", err)
	}
	if rubber.ID != "rubber-001" {
		t.Fatalf("expected rubber id rubber-001, got %s", rubber.ID)
	}
	if rubber.StartingDealer != bridge.North {
		t.Fatalf("expected north as starting dealer, got %s", rubber.StartingDealer)
	}

	stored, exists, err := repo.GetByID(t.Context(), "rubber-001")
	if err != nil || !exists {
		t.Fatalf("expected stored rubber, exists=%v err=%v", exists, err)
	}
	if name, _ := stored.PlayerAt(bridge.South); name != "Cleo" {
		t.Fatalf("expected Cleo at south, got %s", name)
	}
	if got := notifier.kinds(); len(got) != 1 || got[0] != ChangeRubberCreated {
		t.Fatalf("expected one rubber_created event, got %v", got)
	}
}

func TestRubberService_CreateRubber_Validation(t *testing.T) {
	service := NewRubberService(memory.NewRubberRepository(), staticIDGenerator{id: "r"}, nil)

	cases := []struct {
		name  string
		input CreateRubberInput
	}{
		{
			name:  "missing dealer",
			input: CreateRubberInput{Players: standardSeats()},
		},
		{
			name:  "unknown dealer",
			input: CreateRubberInput{Players: standardSeats(), StartingDealer: "middle"},
		},
		{
			name: "too few players",
			input: CreateRubberInput{
				Players:        standardSeats()[:3],
				StartingDealer: "north",
			},
		},
		{
			name: "duplicate seat",
			input: CreateRubberInput{
				Players: []SeatInput{
					{Name: "Ada", Position: "north"},
					{Name: "Ben", Position: "north"},
					{Name: "Cleo", Position: "south"},
					{Name: "Dev", Position: "west"},
				},
				StartingDealer: "north",
			},
		},
		{
			name: "blank name",
			input: CreateRubberInput{
				Players: []SeatInput{
					{Name: " ", Position: "north"},
					{Name: "Ben", Position: "east"},
					{Name: "Cleo", Position: "south"},
					{Name: "Dev", Position: "west"},
				},
				StartingDealer: "north",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.CreateRubber(t.Context(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRubberService_RecordMissDeal_RotatesDealer(t *testing.T) {
	repo := memory.NewRubberRepository()
	service := NewRubberService(repo, staticIDGenerator{id: "rubber-001"}, nil)

	if _, err := service.CreateRubber(t.Context(), CreateRubberInput{
		Players:        standardSeats(),
		StartingDealer: "north",
	}); err != nil {
		t.Fatalf("create rubber: %v", err)
	}

	rubber, err := service.RecordMissDeal(t.Context(), "rubber-001")
	if err != nil {
		t.Fatalf("record miss deal: %v", err)
	}
	if len(rubber.History) != 1 {
		t.Fatalf("expected one history entry, got %d", len(rubber.History))
	}
	if rubber.CurrentDealer() != bridge.East {
		t.Fatalf("expected dealer to rotate to east, got %s", rubber.CurrentDealer())
	}

	stored, _, err := repo.GetByID(t.Context(), "rubber-001")
	if err != nil {
		t.Fatalf("get rubber: %v", err)
	}
	if len(stored.History) != 1 {
		t.Fatalf("expected miss deal to be persisted, got %d entries", len(stored.History))
	}
}

func TestRubberService_ListSummaries(t *testing.T) {
	repo := memory.NewRubberRepository()
	idGen := &sequenceIDGenerator{}
	service := NewRubberService(repo, idGen, nil)

	for range 3 {
		if _, err := service.CreateRubber(t.Context(), CreateRubberInput{
			Players:        standardSeats(),
			StartingDealer: "west",
		}); err != nil {
			t.Fatalf("create rubber: %v", err)
		}
	}

	summaries, err := service.ListSummaries(t.Context())
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}
	for _, summary := range summaries {
		if summary.Finished {
			t.Fatalf("fresh rubber %s reported finished", summary.ID)
		}
		if len(summary.Players) != 4 {
			t.Fatalf("expected 4 player names, got %v", summary.Players)
		}
		if summary.WeTotal != 0 || summary.TheyTotal != 0 {
			t.Fatalf("expected zero totals, got we=%d they=%d", summary.WeTotal, summary.TheyTotal)
		}
	}
}

func TestRubberService_DeleteRubber(t *testing.T) {
	repo := memory.NewRubberRepository()
	notifier := &recordingNotifier{}
	service := NewRubberService(repo, staticIDGenerator{id: "rubber-001"}, notifier)

	if _, err := service.CreateRubber(t.Context(), CreateRubberInput{
		Players:        standardSeats(),
		StartingDealer: "north",
	}); err != nil {
		t.Fatalf("create rubber: %v", err)
	}

	if err := service.DeleteRubber(t.Context(), "rubber-001"); err != nil {
		t.Fatalf("delete rubber: %v", err)
	}
	if _, exists, _ := repo.GetByID(t.Context(), "rubber-001"); exists {
		t.Fatal("expected rubber to be gone")
	}
	if err := service.DeleteRubber(t.Context(), "rubber-001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRubberService_ReplaceContract_AdjustsLaterVulnerability(t *testing.T) {
	repo := memory.NewRubberRepository()
	service := NewRubberService(repo, staticIDGenerator{id: "rubber-001"}, nil)

	rubber, err := service.CreateRubber(t.Context(), CreateRubberInput{
		Players:        standardSeats(),
		StartingDealer: "north",
	})
	if err != nil {
		t.Fatalf("create rubber: %v", err)
	}

	// Deal 1 closes a game for we, deal 2 is then played vulnerable.
	playDeal(t, rubber, "game-maker", bridge.North, 4, bridge.Hearts, 10)
	playDeal(t, rubber, "follow-up", bridge.South, 2, bridge.Spades, 8)
	if err := repo.Save(t.Context(), rubber); err != nil {
		t.Fatalf("save rubber: %v", err)
	}
	if !rubber.History[1].Contract.Vulnerable {
		t.Fatal("expected second deal to start vulnerable")
	}

	// Editing the first deal down one trick undoes the game, so the
	// second deal can no longer have been played vulnerable.
	updated, err := service.ReplaceContract(t.Context(), ReplaceContractInput{
		RubberID:    "rubber-001",
		ContractID:  "game-maker",
		TricksTaken: 9,
	})
	if err != nil {
		t.Fatalf("replace contract: %v", err)
	}
	if updated.History[0].Contract.Result() != -1 {
		t.Fatalf("expected edited deal to be down one, got %d", updated.History[0].Contract.Result())
	}
	if updated.History[1].Contract.Vulnerable {
		t.Fatal("expected second deal vulnerability to be cleared")
	}
	if updated.History[1].Contract.ID != "follow-up" {
		t.Fatalf("expected later contract identity to survive, got %s", updated.History[1].Contract.ID)
	}
}

func TestRubberService_ReplaceContract_UnknownContract(t *testing.T) {
	service := NewRubberService(memory.NewRubberRepository(), staticIDGenerator{id: "rubber-001"}, nil)

	if _, err := service.CreateRubber(t.Context(), CreateRubberInput{
		Players:        standardSeats(),
		StartingDealer: "north",
	}); err != nil {
		t.Fatalf("create rubber: %v", err)
	}

	_, err := service.ReplaceContract(t.Context(), ReplaceContractInput{
		RubberID:    "rubber-001",
		ContractID:  "nope",
		TricksTaken: 9,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRubberService_Scoreboard(t *testing.T) {
	repo := memory.NewRubberRepository()
	service := NewRubberService(repo, staticIDGenerator{id: "rubber-001"}, nil)

	rubber, err := service.CreateRubber(t.Context(), CreateRubberInput{
		Players:        standardSeats(),
		StartingDealer: "north",
	})
	if err != nil {
		t.Fatalf("create rubber: %v", err)
	}

	playDeal(t, rubber, "c1", bridge.North, 4, bridge.Spades, 10)
	if err := repo.Save(t.Context(), rubber); err != nil {
		t.Fatalf("save rubber: %v", err)
	}

	board, err := service.Scoreboard(t.Context(), "rubber-001")
	if err != nil {
		t.Fatalf("scoreboard: %v", err)
	}
	if board.Dealer != "east" {
		t.Fatalf("expected east to deal next, got %s", board.Dealer)
	}
	if !board.We.Vulnerable || board.They.Vulnerable {
		t.Fatalf("expected only we vulnerable, got we=%v they=%v", board.We.Vulnerable, board.They.Vulnerable)
	}
	if board.We.Below != 120 {
		t.Fatalf("expected 120 below the line for we, got %d", board.We.Below)
	}
	if len(board.Games) != 1 || board.Games[0].Kind != "complete" || board.Games[0].Winner != "we" {
		t.Fatalf("unexpected games view: %+v", board.Games)
	}
}

// playDeal appends a played contract with the vulnerability the rubber
// currently reports, the way a finished live deal would be recorded.
func playDeal(t *testing.T, rubber *bridge.Rubber, contractID string, declarer bridge.Position, level int, suit bridge.Suit, tricks int) {
	t.Helper()

	auction := bridge.NewAuction(declarer)
	if err := auction.Bid(level, suit); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if err := auction.Close(); err != nil {
		t.Fatalf("close auction: %v", err)
	}

	contract, err := bridge.NewContract(contractID, auction, bridge.Honors{}, tricks, rubber.IsVulnerable(declarer.Team()))
	if err != nil {
		t.Fatalf("new contract: %v", err)
	}
	if err := rubber.AddResult(bridge.ContractResult(auction, contract)); err != nil {
		t.Fatalf("add result: %v", err)
	}
}
