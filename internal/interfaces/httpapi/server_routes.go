package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerRubberRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rubbers", handler.ListRubbers)
	mux.HandleFunc("POST /v1/rubbers", handler.CreateRubber)
	mux.HandleFunc("GET /v1/rubbers/{rubberID}", handler.GetRubber)
	mux.HandleFunc("DELETE /v1/rubbers/{rubberID}", handler.DeleteRubber)
	mux.HandleFunc("GET /v1/rubbers/{rubberID}/scoreboard", handler.GetScoreboard)
	mux.HandleFunc("POST /v1/rubbers/{rubberID}/miss-deals", handler.RecordMissDeal)
	mux.HandleFunc("PUT /v1/rubbers/{rubberID}/contracts/{contractID}", handler.ReplaceContract)
}

func registerAuctionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/rubbers/{rubberID}/deals", handler.StartDeal)
	mux.HandleFunc("GET /v1/rubbers/{rubberID}/deals/current", handler.GetCurrentDeal)
	mux.HandleFunc("DELETE /v1/rubbers/{rubberID}/deals/current", handler.AbandonDeal)
	mux.HandleFunc("POST /v1/rubbers/{rubberID}/deals/current/calls", handler.SubmitCall)
	mux.HandleFunc("POST /v1/rubbers/{rubberID}/deals/current/close", handler.CloseOutDeal)
	mux.HandleFunc("POST /v1/rubbers/{rubberID}/deals/current/undo", handler.UndoCall)
	mux.HandleFunc("POST /v1/rubbers/{rubberID}/deals/current/finish", handler.FinishDeal)
}
