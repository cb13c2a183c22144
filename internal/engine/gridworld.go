package engine

import (
	"fmt"
	"math/rand"
)

// Action indices used by Gridworld.
const (
	ActionUp = iota
	ActionRight
	ActionDown
	ActionLeft
)

type tileKind int

const (
	tileEmpty tileKind = iota
	tileWall
	tileSlip
)

type tile struct {
	kind     tileKind
	slipProb float64
}

type cell struct {
	row int
	col int
}

// Gridworld is a rows x cols board exposed through the flat Environment
// contract: state index = row*cols + col, four movement actions. Moving into
// a wall or off the board leaves the agent in place, which the trainer
// observes as a self-transition. The episode ends when the agent reaches the
// goal cell.
type Gridworld struct {
	rows, cols  int
	startRow    int
	startCol    int
	goalRow     int
	goalCol     int
	goalReward  float64
	stepPenalty float64
	currRow     int
	currCol     int
	tiles       map[cell]tile
	rng         *rand.Rand
}

// NewGridworld builds a board with the start at the bottom-left corner and
// the goal at the top-right, matching the conventional layout. rows and cols
// are clamped to at least 1.
func NewGridworld(rows, cols int, goalReward, stepPenalty float64) *Gridworld {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	if stepPenalty < 0 {
		stepPenalty = 0
	}
	return &Gridworld{
		rows:        rows,
		cols:        cols,
		startRow:    rows - 1,
		startCol:    0,
		goalRow:     0,
		goalCol:     cols - 1,
		goalReward:  goalReward,
		stepPenalty: stepPenalty,
		currRow:     rows - 1,
		currCol:     0,
		tiles:       make(map[cell]tile),
	}
}

// State maps a board position to its flat state index.
func (g *Gridworld) State(row, col int) int {
	return row*g.cols + col
}

func (g *Gridworld) NumStates() int { return g.rows * g.cols }

func (g *Gridworld) NumActions() int { return 4 }

func (g *Gridworld) Rows() int { return g.rows }

func (g *Gridworld) Cols() int { return g.cols }

// SetWall marks a cell impassable. Out-of-range coordinates are ignored.
func (g *Gridworld) SetWall(row, col int) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.tiles[cell{row: row, col: col}] = tile{kind: tileWall}
}

// SetSlipTile makes the given cell override the chosen action with a uniform
// random one with the given probability, clamped to [0,1]. Slips require a
// random source set via SetRandomSource.
func (g *Gridworld) SetSlipTile(row, col int, probability float64) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	if probability < 0 {
		probability = 0
	}
	if probability > 1 {
		probability = 1
	}
	g.tiles[cell{row: row, col: col}] = tile{kind: tileSlip, slipProb: probability}
}

func (g *Gridworld) SetRandomSource(r *rand.Rand) {
	g.rng = r
}

// IsWall reports whether the cell at (row, col) is impassable.
func (g *Gridworld) IsWall(row, col int) bool {
	return g.tileAt(row, col).kind == tileWall
}

// IsGoal reports whether (row, col) is the goal cell.
func (g *Gridworld) IsGoal(row, col int) bool {
	return row == g.goalRow && col == g.goalCol
}

func (g *Gridworld) Reset() (int, error) {
	g.currRow = g.startRow
	g.currCol = g.startCol
	return g.State(g.currRow, g.currCol), nil
}

func (g *Gridworld) Step(action int) (int, float64, bool, error) {
	if action < 0 || action >= 4 {
		return 0, 0, false, fmt.Errorf("action %d out of range [0, 4)", action)
	}
	actual := g.resolveAction(action)
	row, col := g.nextPosition(actual)
	if g.tileAt(row, col).kind == tileWall {
		row, col = g.currRow, g.currCol
	}
	g.currRow = row
	g.currCol = col
	reward := -g.stepPenalty
	if g.IsGoal(row, col) {
		reward += g.goalReward
		return g.State(row, col), reward, true, nil
	}
	return g.State(row, col), reward, false, nil
}

func (g *Gridworld) nextPosition(action int) (int, int) {
	row, col := g.currRow, g.currCol
	switch action {
	case ActionUp:
		row--
	case ActionRight:
		col++
	case ActionDown:
		row++
	case ActionLeft:
		col--
	}
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	if col < 0 {
		col = 0
	}
	if col >= g.cols {
		col = g.cols - 1
	}
	return row, col
}

func (g *Gridworld) resolveAction(action int) int {
	t := g.tileAt(g.currRow, g.currCol)
	if t.kind != tileSlip || g.rng == nil || t.slipProb <= 0 {
		return action
	}
	if t.slipProb >= 1 || g.rng.Float64() < t.slipProb {
		return g.rng.Intn(4)
	}
	return action
}

func (g *Gridworld) tileAt(row, col int) tile {
	if t, ok := g.tiles[cell{row: row, col: col}]; ok {
		return t
	}
	return tile{kind: tileEmpty}
}
