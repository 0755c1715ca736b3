package engine

import (
	"math"
	"sync/atomic"

	"github.com/corvidchess/searchcore/internal/board"
)

// Core score constants. MateScore and InfScore leave enough headroom below
// the int16 range used for TT storage that ply-adjusted mate scores never
// overflow it (see tt.go's adjustScoreToTT/adjustScoreFromTT).
const (
	InfScore     = 32001
	MateScore    = 32000
	DrawScore    = 0
	UnknownScore = 32002 // Never stored, never compared with <, >, <=, >=.

	MaxPly = 128
)

// Pruning and reduction constants, named and valued to match the original
// search this repo's pruning is grounded on.
const (
	deltaMargin = 400 // Quiescence per-move delta pruning margin.

	razorMargin = 130

	rfpDepth               = 5
	rfpDepthMultiplier     = 70
	rfpImprovingMultiplier = 80

	nullMoveDepth  = 3
	nullMoveBaseR  = 4
	nullMoveRScale = 5

	lmrDepth    = 4
	lmrBase     = 1.0
	lmrScale    = 1.75
	lmrMinI     = 3
	lmrPVNodeI  = 2

	lmpDepth = 4
	lmpMoves = 5

	aspirationDepth = 9
	aspirationDelta = 30
	aspirationBound = 3000
)

// searchState is one ply's slot in the fixed search-state stack: the move
// played to reach this ply (used by null-move's "don't null after null"
// guard) and its static eval (used by improving-node heuristics).
type searchState struct {
	move board.Move
	eval int
}

// Searcher runs a single-threaded negamax/PVS search from a root position.
// One Searcher is reused across a whole `go` command; Reset prepares it for
// a new one.
type Searcher struct {
	pos       *board.Position
	tt        *TranspositionTable
	history   *History
	pawnTable *PawnTable
	timeMgr   *TimeManager

	stack    [MaxPly + 8]searchState
	hashes   []uint64 // position-hash history for repetition detection
	nodes    uint64
	seldepth int

	stopFlag atomic.Bool
	limits   UCILimits
}

// NewSearcher creates a searcher sharing tt, history, and pawnTable with the
// rest of the engine (all persist across searches; Searcher does not own them).
func NewSearcher(tt *TranspositionTable, history *History, pawnTable *PawnTable) *Searcher {
	return &Searcher{
		tt:        tt,
		history:   history,
		pawnTable: pawnTable,
		timeMgr:   NewTimeManager(),
	}
}

// evaluate scores the current position, using the shared pawn hash table.
func (s *Searcher) evaluate() int {
	return EvaluateWithPawnTable(s.pos, s.pawnTable)
}

// Reset prepares the searcher for a new root search over pos.
func (s *Searcher) Reset(pos *board.Position, hashes []uint64, limits UCILimits) {
	s.pos = pos
	s.hashes = hashes
	s.limits = limits
	s.nodes = 0
	s.seldepth = 0
	s.stopFlag.Store(false)
}

// InitTime starts the searcher's time manager for a new root search.
func (s *Searcher) InitTime(limits UCILimits, us board.Color, gamePly int) {
	s.timeMgr.Init(limits, us, gamePly)
}

// Stop requests that the current search abort at the next node boundary.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Nodes returns the number of nodes visited by the current or most recent search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Seldepth returns the deepest ply reached (including quiescence) by the
// current or most recent search.
func (s *Searcher) Seldepth() int {
	return s.seldepth
}

// shouldStop polls the abort conditions the spec groups under shouldEnd():
// an explicit stop request, a node-count limit, or a time limit.
func (s *Searcher) shouldStop() bool {
	if s.stopFlag.Load() {
		return true
	}
	if s.limits.Nodes > 0 && s.nodes >= s.limits.Nodes {
		return true
	}
	if s.nodes&1023 == 0 && s.timeMgr.ShouldStop() {
		return true
	}
	return false
}

// isRepetition reports whether the current position's hash already occurred
// earlier within the halfmove clock's window — a single repeat is treated
// as a draw during search, matching the source this is grounded on, rather
// than waiting for a third occurrence.
func (s *Searcher) isRepetition() bool {
	n := len(s.hashes)
	if n < 3 {
		return false
	}
	current := s.hashes[n-1]
	limit := s.pos.HalfMoveClock
	if limit > n-1 {
		limit = n - 1
	}
	for i := 2; i <= limit; i += 2 {
		if s.hashes[n-1-i] == current {
			return true
		}
	}
	return false
}

func (s *Searcher) pushHash() {
	s.hashes = append(s.hashes, s.pos.Hash)
}

func (s *Searcher) popHash() {
	s.hashes = s.hashes[:len(s.hashes)-1]
}

// search is the negamax/PVS core. It returns UnknownScore if the search was
// aborted mid-tree; callers must propagate that upward without storing it
// or comparing it against alpha/beta.
func (s *Searcher) search(depth, ply int, alpha, beta int) int {
	if s.shouldStop() {
		return UnknownScore
	}

	pvNode := beta-alpha > 1

	if ply > 0 {
		if s.pos.HalfMoveClock >= 4 && s.isRepetition() {
			return DrawScore
		}
		if s.pos.IsInsufficientMaterial() {
			return DrawScore
		}
	}

	if _, score, usable := s.tt.probe(s.pos.Hash, depth, ply, alpha, beta); usable {
		return score
	}

	if depth <= 0 {
		return s.quiesce(alpha, beta, ply)
	}

	inCheck := s.pos.InCheck()
	moves := s.pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return DrawScore
	}

	staticEval := s.evaluate()
	if ply < MaxPly {
		s.stack[ply].eval = staticEval
	}

	improving := ply >= 2 && staticEval > s.stack[ply-2].eval

	// Razoring: hopeless position at the search horizon drops straight to
	// quiescence instead of spending a full ply on it.
	if depth == 1 && !pvNode && !inCheck && staticEval+razorMargin < alpha {
		return s.quiesce(alpha, beta, ply)
	}

	// Reverse futility pruning: if the static eval already clears beta by
	// a depth-scaled margin, assume a real move would too. A node whose
	// eval rose since our last move gets a smaller margin (trust the eval
	// more); one whose eval fell needs a larger cushion before pruning.
	rfpMargin := rfpDepthMultiplier * depth
	if !improving {
		rfpMargin += rfpImprovingMultiplier
	}
	if depth <= rfpDepth && !inCheck &&
		staticEval-rfpMargin >= beta &&
		abs(beta) < MateScore-100 {
		return beta
	}

	// Null-move pruning: skip our own move and see if the opponent is
	// still worse off than beta, guarded against zugzwang by requiring
	// non-pawn material and not following another null move.
	if !pvNode && ply > 0 && depth >= nullMoveDepth && !inCheck && staticEval >= beta &&
		s.stack[ply-1].move != board.NoMove &&
		s.pos.HasNonPawnMaterial() {
		s.stack[ply].move = board.NoMove
		undo := s.pos.MakeNullMove()
		r := nullMoveBaseR + depth/nullMoveRScale
		reducedDepth := depth - r
		if reducedDepth < 0 {
			reducedDepth = 0
		}
		score := -s.search(reducedDepth, ply+1, -beta, -beta+1)
		s.pos.UnmakeNullMove(undo)

		if s.shouldStop() {
			return UnknownScore
		}
		if score >= beta {
			if abs(score) > MateScore-100 {
				return beta
			}
			return score
		}
	}

	hashMove := s.tt.hashMoveOnly(s.pos.Hash)
	picker := NewMovePicker(s.pos, moves, ply, hashMove, s.history, false)

	var bestMove board.Move
	bound := BoundUpper
	moveIndex := 0
	origAlpha := alpha

	for {
		m := picker.Next()
		if m == board.NoMove {
			break
		}

		isCapture := m.IsCapture(s.pos)
		isQuiet := !isCapture && !m.IsPromotion()

		// Late move pruning: once deep enough into the quiet-move list at
		// shallow depth, stop trying more of them.
		if isQuiet && depth <= lmpDepth && moveIndex >= lmpMoves && !pvNode && !inCheck {
			moveIndex++
			continue
		}

		s.stack[ply].move = m
		undo := s.pos.MakeMove(m)
		s.nodes++
		s.pushHash()

		givesCheck := s.pos.InCheck()

		var score int
		newDepth := depth - 1

		if moveIndex == 0 {
			score = -s.search(newDepth, ply+1, -beta, -alpha)
		} else {
			reduction := 0
			minIndex := lmrMinI
			if pvNode {
				minIndex = lmrPVNodeI
			}
			isKiller := ply < MaxPly && (m == s.history.killers[ply][0] || m == s.history.killers[ply][1])
			if depth >= lmrDepth && isQuiet && moveIndex >= minIndex && !inCheck && !givesCheck && !isKiller {
				reduction = int(lmrBase + math.Log(float64(depth))*math.Log(float64(moveIndex))/lmrScale)
				if reduction < 0 {
					reduction = 0
				}
				if newDepth-reduction < 1 {
					reduction = newDepth - 1
				}
			}

			score = -s.search(newDepth-reduction, ply+1, -alpha-1, -alpha)
			if score > alpha && (reduction > 0 || score < beta) {
				score = -s.search(newDepth, ply+1, -beta, -alpha)
			}
		}

		s.popHash()
		s.pos.UnmakeMove(m, undo)

		moveIndex++

		if s.shouldStop() {
			return UnknownScore
		}

		if score >= beta {
			if isQuiet {
				s.history.UpdateKillers(m, ply)
				s.history.UpdateHistory(s.pos.SideToMove, m, depth, true)
			}
			s.tt.store(s.pos.Hash, depth, ply, beta, BoundLower, m)
			return beta
		}

		if score > alpha {
			alpha = score
			bestMove = m
			bound = BoundExact
		} else if isQuiet {
			s.history.UpdateHistory(s.pos.SideToMove, m, depth, false)
		}
	}

	if bestMove == board.NoMove {
		bestMove = hashMove
	}
	if alpha == origAlpha {
		bound = BoundUpper
	}
	s.tt.store(s.pos.Hash, depth, ply, alpha, bound, bestMove)

	return alpha
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
