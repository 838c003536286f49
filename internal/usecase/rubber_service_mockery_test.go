package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/cardroom/scorepad/internal/domain/bridge"
	bridgemock "github.com/cardroom/scorepad/internal/mocks/domain/bridge"
)

func TestRubberService_ListSummaries_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := bridgemock.NewRepository(t)
	service := NewRubberService(repo, staticIDGenerator{id: "unused"}, nil)

	stored := []*bridge.Rubber{
		bridge.NewRubber("rubber-1", []bridge.Player{
			{Name: "Ada", Position: bridge.North},
			{Name: "Ben", Position: bridge.East},
			{Name: "Cleo", Position: bridge.South},
			{Name: "Dev", Position: bridge.West},
		}, bridge.North),
	}

	repo.
		On("List", mock.MatchedBy(func(v context.Context) bool { return v != nil })).
		Return(stored, nil).
		Once()

	summaries, err := service.ListSummaries(ctx)
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}
	if summaries[0].ID != "rubber-1" {
		t.Fatalf("unexpected summary id: %s", summaries[0].ID)
	}
}

func TestRubberService_GetRubber_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := bridgemock.NewRepository(t)
	service := NewRubberService(repo, staticIDGenerator{id: "unused"}, nil)

	repo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "missing").
		Return((*bridge.Rubber)(nil), false, nil).
		Once()

	_, err := service.GetRubber(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRubberService_DeleteRubber_RepositoryFailureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := bridgemock.NewRepository(t)
	service := NewRubberService(repo, staticIDGenerator{id: "unused"}, nil)

	boom := errors.New("connection reset")
	repo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "rubber-1").
		Return((*bridge.Rubber)(nil), false, boom).
		Once()

	err := service.DeleteRubber(ctx, "rubber-1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}
