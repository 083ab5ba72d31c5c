package gfstore

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrOutOfRange is returned when a travel-time query falls outside the
// tabulated depth/distance grid of a store.
var ErrOutOfRange = errors.New("gfstore: query outside tabulated grid")

// Store is the travel-time lookup contract the conditioning pipeline
// depends on. Stores are assumed already built; lookup failures are
// infrastructure errors and propagate to the caller.
type Store interface {
	// TravelTime returns the tabulated travel time in seconds for the
	// given phase at (source depth, surface distance), both in metres.
	TravelTime(phaseID string, depthM, distanceM float64) (float64, error)
}

// TTStore is a Store backed by a sqlite travel-time table on a regular
// (depth, distance) grid. Queries inside the grid are bilinearly
// interpolated between the four surrounding nodes.
type TTStore struct {
	db *sql.DB

	mu   sync.RWMutex
	axes map[string]*gridAxes // per-phase axis cache
}

type gridAxes struct {
	depths    []float64
	distances []float64
}

// Open opens or creates a travel-time store at path. Use ":memory:" for
// an ephemeral store.
func Open(path string) (*TTStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("gfstore: open %s: %w", path, err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS travel_times (
			phase      TEXT   NOT NULL,
			depth_m    DOUBLE NOT NULL,
			distance_m DOUBLE NOT NULL,
			ttime_s    DOUBLE NOT NULL,
			PRIMARY KEY (phase, depth_m, distance_m)
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("gfstore: create schema: %w", err)
	}
	return &TTStore{db: db, axes: make(map[string]*gridAxes)}, nil
}

// Close releases the underlying database handle.
func (s *TTStore) Close() error {
	return s.db.Close()
}

// Insert adds one grid node. Used by store-building tools and tests; the
// pipeline itself only reads.
func (s *TTStore) Insert(phaseID string, depthM, distanceM, ttimeS float64) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO travel_times (phase, depth_m, distance_m, ttime_s)
		VALUES (?, ?, ?, ?)`,
		phaseID, depthM, distanceM, ttimeS)
	if err != nil {
		return fmt.Errorf("gfstore: insert node: %w", err)
	}
	s.mu.Lock()
	delete(s.axes, phaseID)
	s.mu.Unlock()
	return nil
}

// TravelTime implements Store with bilinear interpolation on the grid.
func (s *TTStore) TravelTime(phaseID string, depthM, distanceM float64) (float64, error) {
	axes, err := s.phaseAxes(phaseID)
	if err != nil {
		return 0, err
	}

	z0, z1, fz, err := bracket(axes.depths, depthM)
	if err != nil {
		return 0, fmt.Errorf("%w: depth %g for phase %s", err, depthM, phaseID)
	}
	x0, x1, fx, err := bracket(axes.distances, distanceM)
	if err != nil {
		return 0, fmt.Errorf("%w: distance %g for phase %s", err, distanceM, phaseID)
	}

	t00, err := s.node(phaseID, z0, x0)
	if err != nil {
		return 0, err
	}
	t01, err := s.node(phaseID, z0, x1)
	if err != nil {
		return 0, err
	}
	t10, err := s.node(phaseID, z1, x0)
	if err != nil {
		return 0, err
	}
	t11, err := s.node(phaseID, z1, x1)
	if err != nil {
		return 0, err
	}

	top := t00 + fx*(t01-t00)
	bot := t10 + fx*(t11-t10)
	return top + fz*(bot-top), nil
}

// phaseAxes returns the sorted grid axes for a phase, loading and caching
// them on first use.
func (s *TTStore) phaseAxes(phaseID string) (*gridAxes, error) {
	s.mu.RLock()
	axes, ok := s.axes[phaseID]
	s.mu.RUnlock()
	if ok {
		return axes, nil
	}

	depths, err := s.axisValues(phaseID, "depth_m")
	if err != nil {
		return nil, err
	}
	distances, err := s.axisValues(phaseID, "distance_m")
	if err != nil {
		return nil, err
	}
	if len(depths) == 0 || len(distances) == 0 {
		return nil, fmt.Errorf("gfstore: no travel-time table for phase %q", phaseID)
	}

	axes = &gridAxes{depths: depths, distances: distances}
	s.mu.Lock()
	s.axes[phaseID] = axes
	s.mu.Unlock()
	return axes, nil
}

func (s *TTStore) axisValues(phaseID, column string) ([]float64, error) {
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT DISTINCT %s FROM travel_times WHERE phase = ? ORDER BY %s`, column, column),
		phaseID)
	if err != nil {
		return nil, fmt.Errorf("gfstore: load %s axis: %w", column, err)
	}
	defer rows.Close()

	var vals []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, rows.Err()
}

func (s *TTStore) node(phaseID string, depthM, distanceM float64) (float64, error) {
	var t float64
	err := s.db.QueryRow(`
		SELECT ttime_s FROM travel_times
		WHERE phase = ? AND depth_m = ? AND distance_m = ?`,
		phaseID, depthM, distanceM).Scan(&t)
	if err != nil {
		return 0, fmt.Errorf("gfstore: node (%s, %g, %g): %w", phaseID, depthM, distanceM, err)
	}
	return t, nil
}

// bracket finds the axis values surrounding v and the interpolation
// fraction between them. Values on a node return that node twice with
// fraction zero.
func bracket(axis []float64, v float64) (lo, hi, frac float64, err error) {
	if v < axis[0] || v > axis[len(axis)-1] {
		return 0, 0, 0, ErrOutOfRange
	}
	i := sort.SearchFloat64s(axis, v)
	if i < len(axis) && axis[i] == v {
		return v, v, 0, nil
	}
	lo, hi = axis[i-1], axis[i]
	return lo, hi, (v - lo) / (hi - lo), nil
}
