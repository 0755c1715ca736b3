// Package engine implements the chess AI search engine.
package engine

import (
	"encoding/json"
	"log"
	"time"

	"github.com/corvidchess/searchcore/internal/board"
	"github.com/corvidchess/searchcore/internal/storage"
)

// SearchInfo contains information about the current search, emitted once
// per completed iterative-deepening depth.
type SearchInfo struct {
	Depth    int
	Seldepth int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = no limit)
	Nodes    uint64        // Maximum nodes (0 = no limit)
	MoveTime time.Duration // Time for this move (0 = no limit)
	Infinite bool          // Search until stopped
}

// SearchResult contains the result of a completed search.
type SearchResult struct {
	Move  board.Move
	Score int
	PV    []board.Move
	Depth int
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // depth 3, 500ms
	Medium                   // depth 7, 1s
	Hard                     // Maximum strength, time-limited
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 3, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 7, MoveTime: 1 * time.Second},
	Hard:   {Depth: MaxPly, MoveTime: 3 * time.Second},
}

// Engine wires together the transposition table, move-ordering history, and
// a single-threaded Searcher into the driver the UCI front-end talks to.
type Engine struct {
	tt        *TranspositionTable
	pawnTable *PawnTable
	history   *History
	searcher  *Searcher

	difficulty Difficulty

	rootPosHashes []uint64

	store *storage.PersistentStore // nil if persistence is disabled

	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with the given transposition table size in MB.
func NewEngine(ttSizeMB int) *Engine {
	tt := NewTranspositionTable(ttSizeMB)
	history := NewHistory()
	pawnTable := NewPawnTable(4)

	log.Printf("[Engine] Transposition table: %d MB", ttSizeMB)

	return &Engine{
		tt:         tt,
		pawnTable:  pawnTable,
		history:    history,
		searcher:   NewSearcher(tt, history, pawnTable),
		difficulty: Medium,
	}
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// AttachStore wires in a persistent store for TT snapshot warm-starts. Not
// required for search correctness — the engine works identically without it.
func (e *Engine) AttachStore(store *storage.PersistentStore) {
	e.store = store
}

// SaveSnapshot serializes the transposition table and writes it through the
// attached store. A no-op if no store is attached.
func (e *Engine) SaveSnapshot() error {
	if e.store == nil {
		return nil
	}
	data, err := json.Marshal(e.tt.snapshot())
	if err != nil {
		return err
	}
	return e.store.SaveTTSnapshot(data)
}

// LoadSnapshot restores the transposition table from the attached store's
// last snapshot, if any. A no-op if no store is attached or none was saved.
func (e *Engine) LoadSnapshot() error {
	if e.store == nil {
		return nil
	}
	data, found, err := e.store.LoadTTSnapshot()
	if err != nil || !found {
		return err
	}
	var entries []TTEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	e.tt.restore(entries)
	return nil
}

// SetPositionHistory sets the position history for repetition detection.
// This should be called before Search() with hashes from the game's move history.
func (e *Engine) SetPositionHistory(hashes []uint64) {
	e.rootPosHashes = make([]uint64, len(hashes))
	copy(e.rootPosHashes, hashes)
}

// Search finds the best move for the given position using the engine's
// configured difficulty.
func (e *Engine) Search(pos *board.Position) board.Move {
	limits := DifficultySettings[e.difficulty]
	result := e.SearchWithLimits(pos, limits)
	return result.Move
}

// SearchWithLimits runs iterative deepening under limits and blocks until
// it completes or is stopped.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) SearchResult {
	return e.iterativeDeepening(pos, limits, true)
}

// Stop requests that the current search abort at the next node boundary.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Clear wipes the transposition table and the pawn hash table, resets the
// killer moves and halves the history scores, for the UCI `ucinewgame`
// command.
func (e *Engine) Clear() {
	e.tt.clear()
	e.history.Clear()
	e.pawnTable.Clear()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += e.Perft(pos, depth-1)
		pos.UnmakeMove(move, undo)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	return sign + itoa(pawns) + "." + itoa(centipawns)
}

// itoa avoids pulling in strconv for a single call site, matching the
// teacher's minimal-dependency style for this helper.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
