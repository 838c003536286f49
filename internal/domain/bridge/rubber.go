package bridge

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRubberFinished = errors.New("rubber is finished")
	ErrResultNotFound = errors.New("result not found in rubber history")
)

// GameKind tags one derived segment of a rubber's history.
type GameKind int

const (
	// GameNone is an open segment with nothing below the line yet.
	GameNone GameKind = iota
	// GamePartial is an open segment with below-the-line progress.
	GamePartial
	// GameComplete is a closed segment: one side reached 100 below the line.
	GameComplete
	// GameRubber is the closed segment whose win ended the rubber.
	GameRubber
)

// Game marks a range of history indices. Start..End are inclusive for
// the closed kinds; open segments run from Start to the end of history
// and End is meaningless. Winner is set for the closed kinds only.
// Games are derived from history on every read, never stored, so they
// can never drift from the ledger.
type Game struct {
	Kind   GameKind
	Winner Team
	Start  int
	End    int
}

func (g Game) Closed() bool {
	return g.Kind == GameComplete || g.Kind == GameRubber
}

func (k GameKind) String() string {
	switch k {
	case GameNone:
		return "none"
	case GamePartial:
		return "partial"
	case GameComplete:
		return "complete"
	case GameRubber:
		return "rubber"
	default:
		return fmt.Sprintf("game(%d)", int(k))
	}
}

// gamePoint is the below-the-line total that closes a game.
const gamePoint = 100

// Rubber is the ledger of one match: completed deals in order plus the
// table setup. It owns its history; the contracts' vulnerability flags
// are the only denormalized data inside it and are rewritten whenever
// earlier history is edited.
type Rubber struct {
	ID             string
	DateCreated    time.Time
	LastModified   time.Time
	Players        []Player
	StartingDealer Position
	History        []AuctionResult
}

func NewRubber(id string, players []Player, startingDealer Position) *Rubber {
	now := time.Now().UTC()
	return &Rubber{
		ID:             id,
		DateCreated:    now,
		LastModified:   now,
		Players:        append([]Player(nil), players...),
		StartingDealer: startingDealer,
	}
}

// PlayerAt returns the name seated at a position, if one was recorded.
func (r *Rubber) PlayerAt(position Position) (string, bool) {
	for _, p := range r.Players {
		if p.Position == position {
			return p.Name, true
		}
	}
	return "", false
}

// CurrentDealer rotates one seat per deal from the starting dealer,
// regardless of how each deal ended.
func (r *Rubber) CurrentDealer() Position {
	if len(r.History) == 0 {
		return r.StartingDealer
	}
	return r.History[len(r.History)-1].Dealer().Next()
}

// Games rescans the full history: running below-the-line totals close a
// segment when either side reaches the game point, and the first side to
// take two closed segments converts its winning segment into the rubber.
func (r *Rubber) Games() []Game {
	return deriveGames(r.History)
}

func deriveGames(history []AuctionResult) []Game {
	if len(history) == 0 {
		return nil
	}

	games := []Game{{Kind: GameNone, Start: 0}}
	var we, they int
	start := 0
	for index, entry := range history {
		var bid *Score
		for _, s := range entry.Scores() {
			if s.UnderTheLine() {
				bid = &s
				break
			}
		}
		if bid == nil {
			continue
		}
		if bid.Team == TeamWe {
			we += bid.Value
		} else {
			they += bid.Value
		}

		last := len(games) - 1
		if we >= gamePoint || they >= gamePoint {
			winner := TeamWe
			if they >= gamePoint {
				winner = TeamThey
			}
			games[last] = Game{Kind: GameComplete, Winner: winner, Start: start, End: index}
			we, they = 0, 0
			start = index + 1
			if start < len(history) {
				games = append(games, Game{Kind: GameNone, Start: start})
			}
		} else {
			games[last] = Game{Kind: GamePartial, Start: start}
		}
	}

	// A rubber, once achieved, stays achieved: mark the segment where one
	// side first accumulated two wins.
	var weWins, theyWins int
	for i, g := range games {
		if g.Kind != GameComplete {
			continue
		}
		if g.Winner == TeamWe {
			weWins++
		} else {
			theyWins++
		}
		if weWins == 2 || theyWins == 2 {
			games[i].Kind = GameRubber
			break
		}
	}

	return games
}

// IsFinished reports whether the rubber-ending game has been won.
func (r *Rubber) IsFinished() bool {
	games := r.Games()
	return len(games) > 0 && games[len(games)-1].Kind == GameRubber
}

// IsVulnerable reports whether a team has already won a game in the
// current rubber. Once the rubber is over no further deals are scored,
// so vulnerability is cleared.
func (r *Rubber) IsVulnerable(team Team) bool {
	games := r.Games()
	if len(games) > 0 && games[len(games)-1].Kind == GameRubber {
		return false
	}
	return vulnerableAmong(games, team)
}

func vulnerableAmong(games []Game, team Team) bool {
	for _, g := range games {
		if g.Kind == GameComplete && g.Winner == team {
			return true
		}
	}
	return false
}

// Scores concatenates every contract's ledger lines and, if the rubber
// is over, the rubber bonus: 700 for a straight two-game win, 500 when
// it took three games.
func (r *Rubber) Scores() []Score {
	games := r.Games()
	var scores []Score
	for _, entry := range r.History {
		scores = append(scores, entry.Scores()...)
	}
	if n := len(games); n > 0 && games[n-1].Kind == GameRubber {
		bonus := 500
		if n == 2 {
			bonus = 700
		}
		scores = append(scores, Score{Kind: ScoreRubber, Value: bonus, Team: games[n-1].Winner})
	}
	return scores
}

func (r *Rubber) ScoresFor(team Team) []Score {
	var out []Score
	for _, s := range r.Scores() {
		if s.Team == team {
			out = append(out, s)
		}
	}
	return out
}

// ScoresForGame returns the ledger lines of the deals inside one derived
// segment. Open segments run through the end of history.
func (r *Rubber) ScoresForGame(game Game) []Score {
	start, end := game.Start, game.End
	if !game.Closed() {
		end = len(r.History) - 1
	}
	if start < 0 || start >= len(r.History) || end >= len(r.History) {
		return nil
	}
	var out []Score
	for _, entry := range r.History[start : end+1] {
		out = append(out, entry.Scores()...)
	}
	return out
}

// Points folds the full score list into one team's totals.
func (r *Rubber) Points(team Team) Points {
	return PointsFor(r.Scores(), team)
}

// AddResult appends a completed deal. Contracts are expected to arrive
// with vulnerability already stamped from this rubber's current state.
func (r *Rubber) AddResult(result AuctionResult) error {
	if r.IsFinished() {
		return ErrRubberFinished
	}
	r.History = append(r.History, result)
	r.LastModified = time.Now().UTC()
	return nil
}

// ReplaceContract swaps a historical contract for a replacement carrying
// the same ID, then re-derives the vulnerability of that contract and of
// every later one from the history prefix before each. Editing an early
// deal can change which side was vulnerable for everything after it.
func (r *Rubber) ReplaceContract(replacement *Contract) error {
	if replacement == nil {
		return ErrResultNotFound
	}
	found := -1
	for i, entry := range r.History {
		if entry.Kind == ResultContract && entry.Contract != nil && entry.Contract.ID == replacement.ID {
			found = i
			break
		}
	}
	if found < 0 {
		return ErrResultNotFound
	}

	r.History[found] = ContractResult(replacement.Auction, replacement)
	r.adjustContracts(found)
	r.LastModified = time.Now().UTC()
	return nil
}

// adjustContracts rewrites the vulnerability of every contract from the
// given index on, computing each from the games derived over the history
// strictly before it. Entries whose flag already matches are untouched.
func (r *Rubber) adjustContracts(from int) {
	for i := from; i < len(r.History); i++ {
		entry := r.History[i]
		if entry.Kind != ResultContract || entry.Contract == nil {
			continue
		}
		games := deriveGames(r.History[:i])
		vulnerable := vulnerableAmong(games, entry.Contract.Declarer.Team())
		if entry.Contract.Vulnerable != vulnerable {
			r.History[i] = ContractResult(entry.Auction, entry.Contract.WithVulnerable(vulnerable))
		}
	}
}
