package bridge

import "fmt"

// ScoreKind tags one ledger line. ScoreBid is the only kind entered
// below the line; everything else is a bonus or penalty above it.
type ScoreKind int

const (
	ScoreBid ScoreKind = iota
	ScoreOver
	ScoreUnder
	ScoreSlam
	ScoreHonors
	ScoreRubber
)

func (k ScoreKind) String() string {
	switch k {
	case ScoreBid:
		return "bid"
	case ScoreOver:
		return "over"
	case ScoreUnder:
		return "under"
	case ScoreSlam:
		return "slam"
	case ScoreHonors:
		return "honors"
	case ScoreRubber:
		return "rubber"
	default:
		return fmt.Sprintf("score(%d)", int(k))
	}
}

// Score is one derived scoresheet line. Team is the side the points are
// entered for; Contract is nil only for the rubber bonus. Scores are
// never stored, always recomputed.
type Score struct {
	Kind     ScoreKind
	Value    int
	Team     Team
	Contract *Contract
}

func (s Score) UnderTheLine() bool {
	return s.Kind == ScoreBid
}

// Points are a team's scoresheet totals split at the line: below counts
// toward game, above is everything else.
type Points struct {
	Above int
	Below int
}

func (p Points) Add(other Points) Points {
	return Points{Above: p.Above + other.Above, Below: p.Below + other.Below}
}

func (p Points) Total() int {
	return p.Above + p.Below
}

func (p *Points) addScore(s Score) {
	if s.UnderTheLine() {
		p.Below += s.Value
	} else {
		p.Above += s.Value
	}
}

// OvertrickValue is the per-trick rate for tricks beyond the contract.
func (c *Contract) OvertrickValue() int {
	switch {
	case c.Redoubled:
		if c.Vulnerable {
			return 400
		}
		return 200
	case c.Doubled:
		if c.Vulnerable {
			return 200
		}
		return 100
	default:
		return c.Suit.TrickPoints(1, true)
	}
}

// Scores expands the contract into its scoresheet lines using the
// standard rubber-bridge table. Undertrick penalties go to the defending
// side; everything else goes to the declaring side except defender-held
// honors.
func (c *Contract) Scores() []Score {
	declarers := c.Declarer.Team()
	scores := make([]Score, 0, 3)

	result := c.Result()
	if result < 0 {
		down := -result
		first := 0
		each := 50
		if c.Vulnerable {
			each = 100
		}
		switch {
		case c.Redoubled:
			first, each = 200, 400
			if c.Vulnerable {
				first, each = 400, 600
			}
			down--
		case c.Doubled:
			first, each = 100, 200
			if c.Vulnerable {
				first, each = 200, 300
			}
			down--
		}
		total := first + down*each
		scores = append(scores, Score{Kind: ScoreUnder, Value: total, Team: declarers.Opponent(), Contract: c})
	} else {
		multiplier := 1
		if c.Redoubled {
			multiplier = 4
		} else if c.Doubled {
			multiplier = 2
		}
		scores = append(scores, Score{Kind: ScoreBid, Value: c.Suit.TrickPoints(c.Level, false) * multiplier, Team: declarers, Contract: c})

		if result > 0 {
			scores = append(scores, Score{Kind: ScoreOver, Value: result * c.OvertrickValue(), Team: declarers, Contract: c})
		}

		switch c.Level {
		case 6:
			bonus := 500
			if c.Vulnerable {
				bonus = 750
			}
			scores = append(scores, Score{Kind: ScoreSlam, Value: bonus, Team: declarers, Contract: c})
		case 7:
			bonus := 1000
			if c.Vulnerable {
				bonus = 1500
			}
			scores = append(scores, Score{Kind: ScoreSlam, Value: bonus, Team: declarers, Contract: c})
		}
	}

	switch c.Honors.Side {
	case HonorsDeclarer:
		scores = append(scores, Score{Kind: ScoreHonors, Value: c.Honors.Value, Team: declarers, Contract: c})
	case HonorsDefender:
		scores = append(scores, Score{Kind: ScoreHonors, Value: c.Honors.Value, Team: declarers.Opponent(), Contract: c})
	}

	return scores
}

// PointsFor folds a score list into one team's above/below totals.
func PointsFor(scores []Score, team Team) Points {
	var p Points
	for _, s := range scores {
		if s.Team == team {
			p.addScore(s)
		}
	}
	return p
}
