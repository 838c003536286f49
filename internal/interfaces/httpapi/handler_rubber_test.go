package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/cardroom/scorepad/internal/infrastructure/repository/memory"
	"github.com/cardroom/scorepad/internal/platform/id"
	"github.com/cardroom/scorepad/internal/platform/logging"
	"github.com/cardroom/scorepad/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	repo := memory.NewRubberRepository()
	idGen := id.NewRandomGenerator()
	rubberService := usecase.NewRubberService(repo, idGen, nil)
	auctionService := usecase.NewAuctionService(repo, idGen, nil)
	handler := NewHandler(rubberService, auctionService, logging.NewNop())

	return NewRouter(handler, logging.NewNop(), []string{"*"})
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal %s %s response: %v", method, path, err)
		}
	}
	return rec.Code, envelope
}

func dataOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()

	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", envelope)
	}
	return data
}

const createRubberBody = `{
	"players": [
		{"name": "Ada", "position": "north"},
		{"name": "Ben", "position": "east"},
		{"name": "Cleo", "position": "south"},
		{"name": "Dev", "position": "west"}
	],
	"starting_dealer": "north"
}`

func TestRubberLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	status, envelope := doJSON(t, router, http.MethodPost, "/v1/rubbers", createRubberBody)
	if status != http.StatusCreated {
		t.Fatalf("create rubber: expected 201, got %d (%v)", status, envelope)
	}
	rubber := dataOf(t, envelope)
	rubberID, _ := rubber["id"].(string)
	if rubberID == "" {
		t.Fatal("expected rubber id in create response")
	}
	if got, _ := rubber["current_dealer"].(string); got != "north" {
		t.Fatalf("expected north to deal first, got %q", got)
	}

	base := "/v1/rubbers/" + rubberID

	status, envelope = doJSON(t, router, http.MethodPost, base+"/deals", "")
	if status != http.StatusCreated {
		t.Fatalf("start deal: expected 201, got %d (%v)", status, envelope)
	}

	// A second start while a deal is live conflicts.
	status, _ = doJSON(t, router, http.MethodPost, base+"/deals", "")
	if status != http.StatusConflict {
		t.Fatalf("duplicate start deal: expected 409, got %d", status)
	}

	status, envelope = doJSON(t, router, http.MethodPost, base+"/deals/current/calls", `{"kind": "bid", "level": 4, "suit": "hearts"}`)
	if status != http.StatusOK {
		t.Fatalf("bid: expected 200, got %d (%v)", status, envelope)
	}
	status, envelope = doJSON(t, router, http.MethodPost, base+"/deals/current/calls", `{"kind": "bid", "level": 1, "suit": "clubs"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("underbid: expected 400, got %d (%v)", status, envelope)
	}

	status, envelope = doJSON(t, router, http.MethodPost, base+"/deals/current/close", "")
	if status != http.StatusOK {
		t.Fatalf("close: expected 200, got %d (%v)", status, envelope)
	}
	view := dataOf(t, envelope)
	if closed, _ := view["closed"].(bool); !closed {
		t.Fatal("expected auction to be closed")
	}

	status, envelope = doJSON(t, router, http.MethodPost, base+"/deals/current/finish", `{"tricks_taken": 11}`)
	if status != http.StatusOK {
		t.Fatalf("finish: expected 200, got %d (%v)", status, envelope)
	}
	finished := dataOf(t, envelope)
	history, _ := finished["history"].([]any)
	if len(history) != 1 {
		t.Fatalf("expected one history entry, got %d", len(history))
	}

	status, envelope = doJSON(t, router, http.MethodGet, base+"/scoreboard", "")
	if status != http.StatusOK {
		t.Fatalf("scoreboard: expected 200, got %d (%v)", status, envelope)
	}
	board := dataOf(t, envelope)
	we, _ := board["we"].(map[string]any)
	if below, _ := we["below"].(float64); below != 120 {
		t.Fatalf("expected 120 below the line, got %v", we["below"])
	}
	if above, _ := we["above"].(float64); above != 30 {
		t.Fatalf("expected 30 above the line for the overtrick, got %v", we["above"])
	}
	if vulnerable, _ := we["vulnerable"].(bool); !vulnerable {
		t.Fatal("expected we to be vulnerable after winning a game")
	}
}

func TestReplaceContractOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	_, envelope := doJSON(t, router, http.MethodPost, "/v1/rubbers", createRubberBody)
	rubberID, _ := dataOf(t, envelope)["id"].(string)
	base := "/v1/rubbers/" + rubberID

	doJSON(t, router, http.MethodPost, base+"/deals", "")
	doJSON(t, router, http.MethodPost, base+"/deals/current/calls", `{"kind": "bid", "level": 3, "suit": "notrump"}`)
	doJSON(t, router, http.MethodPost, base+"/deals/current/close", "")
	status, envelope := doJSON(t, router, http.MethodPost, base+"/deals/current/finish", `{"tricks_taken": 9}`)
	if status != http.StatusOK {
		t.Fatalf("finish: expected 200, got %d (%v)", status, envelope)
	}

	history, _ := dataOf(t, envelope)["history"].([]any)
	entry, _ := history[0].(map[string]any)
	contract, _ := entry["contract"].(map[string]any)
	contractID, _ := contract["id"].(string)
	if contractID == "" {
		t.Fatal("expected contract id in finished deal")
	}

	status, envelope = doJSON(t, router, http.MethodPut, base+"/contracts/"+contractID, `{"tricks_taken": 8}`)
	if status != http.StatusOK {
		t.Fatalf("replace contract: expected 200, got %d (%v)", status, envelope)
	}
	history, _ = dataOf(t, envelope)["history"].([]any)
	entry, _ = history[0].(map[string]any)
	contract, _ = entry["contract"].(map[string]any)
	if result, _ := contract["result"].(float64); result != -1 {
		t.Fatalf("expected edited contract down one, got %v", contract["result"])
	}

	status, _ = doJSON(t, router, http.MethodPut, base+"/contracts/unknown", `{"tricks_taken": 8}`)
	if status != http.StatusNotFound {
		t.Fatalf("replace unknown contract: expected 404, got %d", status)
	}
}

func TestUnknownRubberOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doJSON(t, router, http.MethodGet, "/v1/rubbers/missing", "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown rubber, got %d", status)
	}
	status, _ = doJSON(t, router, http.MethodGet, "/v1/rubbers/missing/deals/current", "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing session, got %d", status)
	}
}
