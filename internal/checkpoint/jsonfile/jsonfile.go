// Package jsonfile implements checkpoint.Store as a single JSON file holding
// the cell map plus to_visualize_set.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kestrelbyte/minecore/internal/checkpoint"
	"github.com/kestrelbyte/minecore/internal/model"
)

// Store persists a checkpoint.State to a single JSON file on disk.
type Store struct {
	path string
}

// New returns a Store writing to path. The parent directory is created on
// first Save if missing.
func New(path string) *Store {
	return &Store{path: path}
}

type cellRecord struct {
	Coord         model.Coord         `json:"coord" yaml:"coord"`
	RawState      model.RawState      `json:"raw_state" yaml:"raw_state"`
	LogicalState  model.LogicalState  `json:"logical_state" yaml:"logical_state"`
	NumberValue   *int                `json:"number_value,omitempty" yaml:"number_value,omitempty"`
	SolverStatus  model.SolverStatus  `json:"solver_status" yaml:"solver_status"`
	ActiveFocus   model.ActiveFocus   `json:"active_focus" yaml:"active_focus"`
	FrontierFocus model.FrontierFocus `json:"frontier_focus" yaml:"frontier_focus"`
}

type document struct {
	Cells       []cellRecord  `json:"cells" yaml:"cells"`
	ToVisualize []model.Coord `json:"to_visualize_set,omitempty" yaml:"to_visualize_set,omitempty"`
}

func toRecord(c model.Cell) cellRecord {
	return cellRecord{
		Coord:         c.Coord,
		RawState:      c.RawState,
		LogicalState:  c.LogicalState,
		NumberValue:   c.NumberValue,
		SolverStatus:  c.SolverStatus,
		ActiveFocus:   c.ActiveFocus,
		FrontierFocus: c.FrontierFocus,
	}
}

func (r cellRecord) toCell() model.Cell {
	return model.Cell{
		Coord:         r.Coord,
		RawState:      r.RawState,
		LogicalState:  r.LogicalState,
		NumberValue:   r.NumberValue,
		SolverStatus:  r.SolverStatus,
		ActiveFocus:   r.ActiveFocus,
		FrontierFocus: r.FrontierFocus,
	}
}

// Save writes state to the store's path, overwriting any existing file. The
// write goes to a temp file in the same directory first and is renamed into
// place, so a crash mid-write never leaves a truncated checkpoint.
func (s *Store) Save(ctx context.Context, state checkpoint.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	doc := document{
		Cells:       make([]cellRecord, len(state.Cells)),
		ToVisualize: state.ToVisualize,
	}
	for i, c := range state.Cells {
		doc.Cells[i] = toRecord(c)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp checkpoint file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize checkpoint file: %w", err)
	}

	return nil
}

// Load reads state back from the store's path. A missing file is reported as
// an empty State rather than an error, matching a fresh game's checkpoint
// state.
func (s *Store) Load(ctx context.Context) (checkpoint.State, error) {
	if err := ctx.Err(); err != nil {
		return checkpoint.State{}, err
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return checkpoint.State{}, nil
	}
	if err != nil {
		return checkpoint.State{}, fmt.Errorf("failed to read checkpoint file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return checkpoint.State{}, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}

	cells := make([]model.Cell, len(doc.Cells))
	for i, r := range doc.Cells {
		cells[i] = r.toCell()
	}
	return checkpoint.State{Cells: cells, ToVisualize: doc.ToVisualize}, nil
}

// WriteHumanReadable writes state to path as YAML rather than JSON. This is
// purely a human-editable sibling of the checkpoint Save writes; Load never
// reads it back.
func WriteHumanReadable(path string, state checkpoint.State) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	doc := document{Cells: make([]cellRecord, len(state.Cells)), ToVisualize: state.ToVisualize}
	for i, c := range state.Cells {
		doc.Cells[i] = toRecord(c)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint as YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write YAML checkpoint: %w", err)
	}
	return nil
}
