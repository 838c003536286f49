package bridge

import "fmt"

// Position is a seat at the table. Seating order is clockwise
// north, east, south, west and wraps around.
type Position int

const (
	North Position = iota
	East
	South
	West
)

var AllPositions = [4]Position{North, East, South, West}

func (p Position) Valid() bool {
	return p >= North && p <= West
}

func (p Position) Next() Position {
	return (p + 1) % 4
}

func (p Position) Previous() Position {
	return (p + 3) % 4
}

// Partner is the seat directly across the table.
func (p Position) Partner() Position {
	return (p + 2) % 4
}

func (p Position) Team() Team {
	switch p {
	case North, South:
		return TeamWe
	default:
		return TeamThey
	}
}

func (p Position) String() string {
	switch p {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return fmt.Sprintf("position(%d)", int(p))
	}
}

// ParsePosition maps the wire name back to a Position.
func ParsePosition(v string) (Position, error) {
	switch v {
	case "north":
		return North, nil
	case "east":
		return East, nil
	case "south":
		return South, nil
	case "west":
		return West, nil
	default:
		return 0, fmt.Errorf("unknown position: %q", v)
	}
}

// Team is a partnership: north+south score as "we", east+west as "they",
// matching a traditional scoresheet.
type Team int

const (
	TeamWe Team = iota
	TeamThey
)

func (t Team) Opponent() Team {
	if t == TeamWe {
		return TeamThey
	}
	return TeamWe
}

func (t Team) Positions() (Position, Position) {
	if t == TeamWe {
		return North, South
	}
	return East, West
}

func (t Team) String() string {
	if t == TeamWe {
		return "we"
	}
	return "they"
}

func ParseTeam(v string) (Team, error) {
	switch v {
	case "we":
		return TeamWe, nil
	case "they":
		return TeamThey, nil
	default:
		return 0, fmt.Errorf("unknown team: %q", v)
	}
}

// Player ties a display name to a seat for the duration of a rubber.
type Player struct {
	Name     string
	Position Position
}
