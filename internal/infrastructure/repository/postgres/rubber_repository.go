package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cardroom/scorepad/internal/domain/bridge"
)

type RubberRepository struct {
	db *sqlx.DB
}

func NewRubberRepository(db *sqlx.DB) *RubberRepository {
	return &RubberRepository{db: db}
}

func (r *RubberRepository) List(ctx context.Context) ([]*bridge.Rubber, error) {
	const query = `
		SELECT id, date_created, last_modified, players, starting_dealer, history
		FROM rubbers
		ORDER BY date_created, id`

	var rows []rubberTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select rubbers: %w", err)
	}

	out := make([]*bridge.Rubber, 0, len(rows))
	for _, row := range rows {
		rubber, err := rowToRubber(row)
		if err != nil {
			return nil, fmt.Errorf("decode rubber %s: %w", row.ID, err)
		}
		out = append(out, rubber)
	}

	return out, nil
}

func (r *RubberRepository) GetByID(ctx context.Context, rubberID string) (*bridge.Rubber, bool, error) {
	const query = `
		SELECT id, date_created, last_modified, players, starting_dealer, history
		FROM rubbers
		WHERE id = $1`

	var row rubberTableModel
	if err := r.db.GetContext(ctx, &row, query, rubberID); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get rubber by id: %w", err)
	}

	rubber, err := rowToRubber(row)
	if err != nil {
		return nil, false, fmt.Errorf("decode rubber %s: %w", row.ID, err)
	}

	return rubber, true, nil
}

func (r *RubberRepository) Save(ctx context.Context, rubber *bridge.Rubber) error {
	players, err := encodePlayers(rubber.Players)
	if err != nil {
		return fmt.Errorf("marshal players: %w", err)
	}
	history, err := encodeHistory(rubber.History)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	const query = `
		INSERT INTO rubbers (id, date_created, last_modified, players, starting_dealer, history)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			last_modified = EXCLUDED.last_modified,
			players = EXCLUDED.players,
			history = EXCLUDED.history`

	if _, err := r.db.ExecContext(ctx, query,
		rubber.ID,
		rubber.DateCreated,
		rubber.LastModified,
		players,
		rubber.StartingDealer.String(),
		history,
	); err != nil {
		return fmt.Errorf("upsert rubber: %w", err)
	}

	return nil
}

func (r *RubberRepository) Delete(ctx context.Context, rubberID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rubbers WHERE id = $1`, rubberID); err != nil {
		return fmt.Errorf("delete rubber: %w", err)
	}
	return nil
}

func rowToRubber(row rubberTableModel) (*bridge.Rubber, error) {
	players, err := decodePlayers(row.Players)
	if err != nil {
		return nil, err
	}
	dealer, err := bridge.ParsePosition(row.StartingDealer)
	if err != nil {
		return nil, err
	}
	history, err := decodeHistory(row.History)
	if err != nil {
		return nil, err
	}

	return &bridge.Rubber{
		ID:             row.ID,
		DateCreated:    row.DateCreated,
		LastModified:   row.LastModified,
		Players:        players,
		StartingDealer: dealer,
		History:        history,
	}, nil
}
