// Package postgres implements checkpoint.Store as a durable bun-backed store,
// one row per cell keyed by (game_id, x, y) plus a games row holding the
// to_visualize_set snapshot.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/kestrelbyte/minecore/internal/checkpoint"
	"github.com/kestrelbyte/minecore/internal/model"
)

// Open builds a *bun.DB from a Postgres DSN using the pgdriver connector.
func Open(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New(), bun.WithDiscardUnknownColumns())
}

type cellRow struct {
	bun.BaseModel `bun:"table:checkpoint_cells,alias:cc"`

	GameID string `bun:"game_id,pk"`
	X      int    `bun:"x,pk"`
	Y      int    `bun:"y,pk"`
	Data   []byte `bun:"data,type:jsonb,notnull"`
}

type gameRow struct {
	bun.BaseModel `bun:"table:checkpoint_games,alias:cg"`

	GameID      string `bun:"game_id,pk"`
	ToVisualize []byte `bun:"to_visualize,type:jsonb,notnull"`
}

type cellPayload struct {
	RawState      model.RawState      `json:"raw_state"`
	LogicalState  model.LogicalState  `json:"logical_state"`
	NumberValue   *int                `json:"number_value,omitempty"`
	SolverStatus  model.SolverStatus  `json:"solver_status"`
	ActiveFocus   model.ActiveFocus   `json:"active_focus"`
	FrontierFocus model.FrontierFocus `json:"frontier_focus"`
}

// Store persists one game's checkpoint state in Postgres via bun.
type Store struct {
	db     *bun.DB
	gameID string
}

// NewStore returns a Store scoped to gameID over the given bun connection.
func NewStore(db *bun.DB, gameID string) *Store {
	return &Store{db: db, gameID: gameID}
}

// CreateSchema issues the two CREATE TABLE IF NOT EXISTS statements this
// store needs. Callers with their own migration tooling can skip it.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().Model((*cellRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create checkpoint_cells table: %w", err)
	}
	if _, err := s.db.NewCreateTable().Model((*gameRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create checkpoint_games table: %w", err)
	}
	return nil
}

// Save replaces this game's checkpointed state in a single transaction:
// existing cell rows are deleted and the current cell set reinserted, and
// the games row holding to_visualize_set is upserted.
func (s *Store) Save(ctx context.Context, state checkpoint.State) error {
	toVisualize, err := json.Marshal(state.ToVisualize)
	if err != nil {
		return fmt.Errorf("failed to marshal to_visualize_set: %w", err)
	}

	rows := make([]*cellRow, len(state.Cells))
	for i, c := range state.Cells {
		data, err := json.Marshal(cellPayload{
			RawState:      c.RawState,
			LogicalState:  c.LogicalState,
			NumberValue:   c.NumberValue,
			SolverStatus:  c.SolverStatus,
			ActiveFocus:   c.ActiveFocus,
			FrontierFocus: c.FrontierFocus,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal cell %s: %w", c.Coord, err)
		}
		rows[i] = &cellRow{GameID: s.gameID, X: c.Coord.X, Y: c.Coord.Y, Data: data}
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*cellRow)(nil)).Where("game_id = ?", s.gameID).Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear previous checkpoint cells: %w", err)
		}

		if len(rows) > 0 {
			if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
				return fmt.Errorf("failed to insert checkpoint cells: %w", err)
			}
		}

		if _, err := tx.NewDelete().Model((*gameRow)(nil)).Where("game_id = ?", s.gameID).Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear previous checkpoint game row: %w", err)
		}

		game := &gameRow{GameID: s.gameID, ToVisualize: toVisualize}
		if _, err := tx.NewInsert().Model(game).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert checkpoint game row: %w", err)
		}

		return nil
	})
}

// Load reads this game's checkpointed state back. A game with no rows yet is
// reported as an empty State rather than an error.
func (s *Store) Load(ctx context.Context) (checkpoint.State, error) {
	var rows []cellRow
	if err := s.db.NewSelect().Model(&rows).Where("game_id = ?", s.gameID).Scan(ctx); err != nil {
		return checkpoint.State{}, fmt.Errorf("failed to load checkpoint cells: %w", err)
	}

	cells := make([]model.Cell, len(rows))
	for i, row := range rows {
		var payload cellPayload
		if err := json.Unmarshal(row.Data, &payload); err != nil {
			return checkpoint.State{}, fmt.Errorf("failed to unmarshal cell (%d,%d): %w", row.X, row.Y, err)
		}
		cells[i] = model.Cell{
			Coord:         model.Coord{X: row.X, Y: row.Y},
			RawState:      payload.RawState,
			LogicalState:  payload.LogicalState,
			NumberValue:   payload.NumberValue,
			SolverStatus:  payload.SolverStatus,
			ActiveFocus:   payload.ActiveFocus,
			FrontierFocus: payload.FrontierFocus,
		}
	}

	var game gameRow
	err := s.db.NewSelect().Model(&game).Where("game_id = ?", s.gameID).Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return checkpoint.State{}, fmt.Errorf("failed to load checkpoint game row: %w", err)
	}

	var toVisualize []model.Coord
	if len(game.ToVisualize) > 0 {
		if err := json.Unmarshal(game.ToVisualize, &toVisualize); err != nil {
			return checkpoint.State{}, fmt.Errorf("failed to unmarshal to_visualize_set: %w", err)
		}
	}

	return checkpoint.State{Cells: cells, ToVisualize: toVisualize}, nil
}
