package httpapi

import (
	"net/http"

	"github.com/cardroom/scorepad/internal/usecase"
)

func (h *Handler) StartDeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartDeal")
	defer span.End()

	rubberID := r.PathValue("rubberID")
	view, err := h.auctionService.StartDeal(ctx, rubberID)
	if err != nil {
		h.logger.WarnContext(ctx, "start deal failed", "rubber_id", rubberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, view)
}

func (h *Handler) GetCurrentDeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentDeal")
	defer span.End()

	rubberID := r.PathValue("rubberID")
	view, err := h.auctionService.View(ctx, rubberID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) AbandonDeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AbandonDeal")
	defer span.End()

	rubberID := r.PathValue("rubberID")
	if err := h.auctionService.AbandonDeal(ctx, rubberID); err != nil {
		h.logger.WarnContext(ctx, "abandon deal failed", "rubber_id", rubberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, nil)
}

func (h *Handler) SubmitCall(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitCall")
	defer span.End()

	rubberID := r.PathValue("rubberID")

	var req submitCallRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.auctionService.SubmitCall(ctx, rubberID, usecase.CallInput{
		Kind:     req.Kind,
		Position: req.Position,
		Level:    req.Level,
		Suit:     req.Suit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit call failed", "rubber_id", rubberID, "kind", req.Kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) CloseOutDeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseOutDeal")
	defer span.End()

	rubberID := r.PathValue("rubberID")
	view, err := h.auctionService.CloseOut(ctx, rubberID)
	if err != nil {
		h.logger.WarnContext(ctx, "close out deal failed", "rubber_id", rubberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) UndoCall(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndoCall")
	defer span.End()

	rubberID := r.PathValue("rubberID")
	view, err := h.auctionService.Undo(ctx, rubberID)
	if err != nil {
		h.logger.WarnContext(ctx, "undo call failed", "rubber_id", rubberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) FinishDeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishDeal")
	defer span.End()

	rubberID := r.PathValue("rubberID")

	var req finishDealRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rubber, err := h.auctionService.FinishDeal(ctx, usecase.FinishDealInput{
		RubberID:    rubberID,
		TricksTaken: req.TricksTaken,
		HonorsSide:  req.HonorsSide,
		HonorsValue: req.HonorsValue,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "finish deal failed", "rubber_id", rubberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rubberToDTO(ctx, rubber))
}

type submitCallRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=pass bid double redouble"`
	Position string `json:"position" validate:"omitempty,oneof=north east south west"`
	Level    int    `json:"level" validate:"omitempty,min=1,max=7"`
	Suit     string `json:"suit" validate:"omitempty,oneof=clubs diamonds hearts spades notrump"`
}

type finishDealRequest struct {
	TricksTaken int    `json:"tricks_taken" validate:"min=0,max=13"`
	HonorsSide  string `json:"honors_side" validate:"omitempty,oneof=none declarer defender"`
	HonorsValue int    `json:"honors_value" validate:"omitempty,oneof=100 150"`
}
