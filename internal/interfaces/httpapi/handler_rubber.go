package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/cardroom/scorepad/internal/domain/bridge"
	"github.com/cardroom/scorepad/internal/usecase"
)

func (h *Handler) CreateRubber(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRubber")
	defer span.End()

	var req createRubberRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	seats := make([]usecase.SeatInput, 0, len(req.Players))
	for _, seat := range req.Players {
		seats = append(seats, usecase.SeatInput{Name: seat.Name, Position: seat.Position})
	}

	rubber, err := h.rubberService.CreateRubber(ctx, usecase.CreateRubberInput{
		Players:        seats,
		StartingDealer: req.StartingDealer,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create rubber failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rubberToDTO(ctx, rubber))
}

func (h *Handler) ListRubbers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRubbers")
	defer span.End()

	summaries, err := h.rubberService.ListSummaries(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list rubbers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summaries)
}

func (h *Handler) GetRubber(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRubber")
	defer span.End()

	rubberID := r.PathValue("rubberID")
	rubber, err := h.rubberService.GetRubber(ctx, rubberID)
	if err != nil {
		h.logger.WarnContext(ctx, "get rubber failed", "rubber_id", rubberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rubberToDTO(ctx, rubber))
}

func (h *Handler) DeleteRubber(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteRubber")
	defer span.End()

	rubberID := r.PathValue("rubberID")
	if err := h.rubberService.DeleteRubber(ctx, rubberID); err != nil {
		h.logger.WarnContext(ctx, "delete rubber failed", "rubber_id", rubberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, nil)
}

func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreboard")
	defer span.End()

	rubberID := r.PathValue("rubberID")
	board, err := h.rubberService.Scoreboard(ctx, rubberID)
	if err != nil {
		h.logger.WarnContext(ctx, "get scoreboard failed", "rubber_id", rubberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, board)
}

func (h *Handler) RecordMissDeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMissDeal")
	defer span.End()

	rubberID := r.PathValue("rubberID")
	rubber, err := h.rubberService.RecordMissDeal(ctx, rubberID)
	if err != nil {
		h.logger.WarnContext(ctx, "record miss deal failed", "rubber_id", rubberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rubberToDTO(ctx, rubber))
}

func (h *Handler) ReplaceContract(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceContract")
	defer span.End()

	rubberID := r.PathValue("rubberID")
	contractID := r.PathValue("contractID")

	var req replaceContractRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rubber, err := h.rubberService.ReplaceContract(ctx, usecase.ReplaceContractInput{
		RubberID:    rubberID,
		ContractID:  contractID,
		TricksTaken: req.TricksTaken,
		HonorsSide:  req.HonorsSide,
		HonorsValue: req.HonorsValue,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "replace contract failed", "rubber_id", rubberID, "contract_id", contractID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rubberToDTO(ctx, rubber))
}

type createRubberRequest struct {
	Players        []seatRequest `json:"players" validate:"required,len=4,dive"`
	StartingDealer string        `json:"starting_dealer" validate:"required,oneof=north east south west"`
}

type seatRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Position string `json:"position" validate:"required,oneof=north east south west"`
}

type replaceContractRequest struct {
	TricksTaken int    `json:"tricks_taken" validate:"min=0,max=13"`
	HonorsSide  string `json:"honors_side" validate:"omitempty,oneof=none declarer defender"`
	HonorsValue int    `json:"honors_value" validate:"omitempty,oneof=100 150"`
}

type seatDTO struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

type rubberDTO struct {
	ID             string            `json:"id"`
	DateCreated    string            `json:"date_created"`
	LastModified   string            `json:"last_modified"`
	Players        []seatDTO         `json:"players"`
	StartingDealer string            `json:"starting_dealer"`
	CurrentDealer  string            `json:"current_dealer"`
	Finished       bool              `json:"finished"`
	History        []historyEntryDTO `json:"history"`
}

type historyEntryDTO struct {
	Kind     string       `json:"kind"`
	Dealer   string       `json:"dealer"`
	Calls    []callDTO    `json:"calls,omitempty"`
	Contract *contractDTO `json:"contract,omitempty"`
	Scores   []scoreDTO   `json:"scores,omitempty"`
}

type callDTO struct {
	Position string `json:"position"`
	Kind     string `json:"kind"`
	Level    int    `json:"level,omitempty"`
	Suit     string `json:"suit,omitempty"`
	At       string `json:"at"`
}

type contractDTO struct {
	ID          string     `json:"id"`
	Level       int        `json:"level"`
	Suit        string     `json:"suit"`
	Declarer    string     `json:"declarer"`
	Doubled     bool       `json:"doubled"`
	Redoubled   bool       `json:"redoubled"`
	TricksTaken int        `json:"tricks_taken"`
	Result      int        `json:"result"`
	Vulnerable  bool       `json:"vulnerable"`
	Honors      *honorsDTO `json:"honors,omitempty"`
	Date        string     `json:"date"`
}

type honorsDTO struct {
	Side  string `json:"side"`
	Value int    `json:"value"`
}

type scoreDTO struct {
	Kind         string `json:"kind"`
	Value        int    `json:"value"`
	Team         string `json:"team"`
	UnderTheLine bool   `json:"under_the_line"`
}

func rubberToDTO(ctx context.Context, rubber *bridge.Rubber) rubberDTO {
	ctx, span := startSpan(ctx, "httpapi.rubberToDTO")
	defer span.End()

	players := make([]seatDTO, 0, len(rubber.Players))
	for _, p := range rubber.Players {
		players = append(players, seatDTO{Name: p.Name, Position: p.Position.String()})
	}

	history := make([]historyEntryDTO, 0, len(rubber.History))
	for _, entry := range rubber.History {
		history = append(history, historyEntryToDTO(ctx, entry))
	}

	return rubberDTO{
		ID:             rubber.ID,
		DateCreated:    rubber.DateCreated.UTC().Format(time.RFC3339),
		LastModified:   rubber.LastModified.UTC().Format(time.RFC3339),
		Players:        players,
		StartingDealer: rubber.StartingDealer.String(),
		CurrentDealer:  rubber.CurrentDealer().String(),
		Finished:       rubber.IsFinished(),
		History:        history,
	}
}

func historyEntryToDTO(ctx context.Context, entry bridge.AuctionResult) historyEntryDTO {
	_, span := startSpan(ctx, "httpapi.historyEntryToDTO")
	defer span.End()

	dto := historyEntryDTO{
		Kind:   entry.Kind.String(),
		Dealer: entry.Dealer().String(),
	}
	if entry.Auction != nil {
		for _, call := range entry.Auction.Calls() {
			dto.Calls = append(dto.Calls, callToDTO(call))
		}
	}
	if entry.Contract != nil {
		dto.Contract = contractToDTO(entry.Contract)
	}
	for _, score := range entry.Scores() {
		dto.Scores = append(dto.Scores, scoreDTO{
			Kind:         score.Kind.String(),
			Value:        score.Value,
			Team:         score.Team.String(),
			UnderTheLine: score.UnderTheLine(),
		})
	}
	return dto
}

func callToDTO(call bridge.Call) callDTO {
	dto := callDTO{
		Position: call.Position.String(),
		Kind:     call.Kind.String(),
		At:       call.At.UTC().Format(time.RFC3339),
	}
	if call.IsBid() {
		dto.Level = call.Level
		dto.Suit = call.Suit.String()
	}
	return dto
}

func contractToDTO(contract *bridge.Contract) *contractDTO {
	dto := &contractDTO{
		ID:          contract.ID,
		Level:       contract.Level,
		Suit:        contract.Suit.String(),
		Declarer:    contract.Declarer.String(),
		Doubled:     contract.Doubled,
		Redoubled:   contract.Redoubled,
		TricksTaken: contract.TricksTaken,
		Result:      contract.Result(),
		Vulnerable:  contract.Vulnerable,
		Date:        contract.Date.UTC().Format(time.RFC3339),
	}
	if contract.Honors.Side != bridge.HonorsNone {
		side := "declarer"
		if contract.Honors.Side == bridge.HonorsDefender {
			side = "defender"
		}
		dto.Honors = &honorsDTO{Side: side, Value: contract.Honors.Value}
	}
	return dto
}
