package engine

import (
	"github.com/corvidchess/searchcore/internal/board"
)

// mvvLva scores victim-attacker pairs for ordering captures of equal SEE
// sign: higher victim value first, then cheaper attacker first.
// Index: [victimType][attackerType].
var mvvLva = [6][6]int{
	/* P */ {15, 14, 14, 13, 12, 11},
	/* N */ {25, 24, 24, 23, 22, 21},
	/* B */ {35, 34, 34, 33, 32, 31},
	/* R */ {45, 44, 44, 43, 42, 41},
	/* Q */ {55, 54, 54, 53, 52, 51},
	/* K */ {0, 0, 0, 0, 0, 0},
}

// pickerPhase enumerates the move picker's production phases in order.
type pickerPhase int

const (
	phaseHashMove pickerPhase = iota
	phaseSplit
	phaseGoodCaptures
	phaseKiller1
	phaseKiller2
	phaseQuiets
	phaseBadCaptures
	phaseDone
)

// scoredMove pairs a move with its ordering key within the current phase.
type scoredMove struct {
	move  board.Move
	score int
}

// MovePicker lazily produces moves for one search node in phased order:
// hash move, winning/equal captures (MVV-LVA then SEE), killer 1, killer 2,
// remaining quiet moves by history, then losing captures by SEE descending.
// Quiescence search sets capturesOnly so only the hash move (if a capture)
// and the capture phases run.
type MovePicker struct {
	pos          *board.Position
	ply          int
	hashMove     board.Move
	killer1      board.Move
	killer2      board.Move
	capturesOnly bool
	orderer      *History

	phase pickerPhase

	moves *board.MoveList
	good  []scoredMove
	bad   []scoredMove
	quiet []scoredMove
	idx   int
}

// NewMovePicker creates a move picker for the given node. moves is the
// move list to pick from, generated once by the caller and shared with
// this picker: the full legal move list for a main-search node (the
// caller already needs it to detect checkmate/stalemate before
// constructing a picker), or the captures-only list for a quiescence node
// with capturesOnly set.
func NewMovePicker(pos *board.Position, moves *board.MoveList, ply int, hashMove board.Move, h *History, capturesOnly bool) *MovePicker {
	mp := &MovePicker{
		pos:          pos,
		moves:        moves,
		ply:          ply,
		hashMove:     hashMove,
		capturesOnly: capturesOnly,
		orderer:      h,
		phase:        phaseHashMove,
	}
	if !capturesOnly && ply < MaxPly {
		mp.killer1 = h.killers[ply][0]
		mp.killer2 = h.killers[ply][1]
	}
	return mp
}

// Next returns the next move to try, or NoMove when the picker is
// exhausted. Moves are never returned twice.
func (mp *MovePicker) Next() board.Move {
	for {
		switch mp.phase {
		case phaseHashMove:
			mp.phase = phaseSplit
			if mp.hashMove != board.NoMove && mp.contains(mp.hashMove) {
				return mp.hashMove
			}

		case phaseSplit:
			mp.good, mp.bad, mp.quiet = mp.splitMoves()
			mp.idx = 0
			mp.phase = phaseGoodCaptures

		case phaseGoodCaptures:
			if mp.idx < len(mp.good) {
				m := mp.pickBest(mp.good, mp.idx)
				mp.idx++
				if m == mp.hashMove {
					continue
				}
				return m
			}
			mp.idx = 0
			if mp.capturesOnly {
				mp.phase = phaseBadCaptures
			} else {
				mp.phase = phaseKiller1
			}

		case phaseKiller1:
			mp.phase = phaseKiller2
			if mp.killer1 != board.NoMove && mp.killer1 != mp.hashMove &&
				!mp.killer1.IsCapture(mp.pos) && mp.contains(mp.killer1) {
				return mp.killer1
			}

		case phaseKiller2:
			mp.idx = 0
			mp.phase = phaseQuiets
			if mp.killer2 != board.NoMove && mp.killer2 != mp.hashMove &&
				!mp.killer2.IsCapture(mp.pos) && mp.contains(mp.killer2) {
				return mp.killer2
			}

		case phaseQuiets:
			if mp.idx < len(mp.quiet) {
				m := mp.pickBest(mp.quiet, mp.idx)
				mp.idx++
				if m == mp.hashMove {
					continue
				}
				return m
			}
			mp.idx = 0
			mp.phase = phaseBadCaptures

		case phaseBadCaptures:
			if mp.idx < len(mp.bad) {
				m := mp.pickBest(mp.bad, mp.idx)
				mp.idx++
				if m == mp.hashMove {
					continue
				}
				return m
			}
			mp.phase = phaseDone

		case phaseDone:
			return board.NoMove
		}
	}
}

// contains reports whether m is one of this node's legal moves, since a
// cached hash/killer move may no longer apply to the current position.
func (mp *MovePicker) contains(m board.Move) bool {
	for i := 0; i < mp.moves.Len(); i++ {
		if mp.moves.Get(i) == m {
			return true
		}
	}
	return false
}

// splitMoves scores every capture by MVV-LVA (tie broken by raw SEE) and
// partitions the legal move list into winning-or-equal captures (SEE >= 0),
// losing captures (SEE < 0), and quiet moves scored by history. Quiet moves
// equal to either killer are left out of the quiet list, since the killer
// phases offer them; the hash move stays in its list and is skipped when
// reached, since it was already offered first.
func (mp *MovePicker) splitMoves() (good, bad, quiet []scoredMove) {
	for i := 0; i < mp.moves.Len(); i++ {
		m := mp.moves.Get(i)

		if !m.IsCapture(mp.pos) {
			if m == mp.killer1 || m == mp.killer2 {
				continue
			}
			quiet = append(quiet, scoredMove{m, mp.orderer.history[mp.pos.SideToMove][m.From()][m.To()]})
			continue
		}

		gain := see(mp.pos, m)

		attacker := mp.pos.PieceAt(m.From())
		var victim board.PieceType
		if m.IsEnPassant() {
			victim = board.Pawn
		} else if p := mp.pos.PieceAt(m.To()); p != board.NoPiece {
			victim = p.Type()
		}

		key := mvvLva[victim][attacker.Type()]*1000 + gain
		sm := scoredMove{m, key}
		if gain >= 0 {
			good = append(good, sm)
		} else {
			bad = append(bad, sm)
		}
	}
	return good, bad, quiet
}

// pickBest performs one step of a lazy selection sort: find the
// highest-scoring remaining move starting at idx, swap it into place, and
// return it. Only as much sorting happens as the caller actually consumes.
func (mp *MovePicker) pickBest(list []scoredMove, idx int) board.Move {
	best := idx
	for j := idx + 1; j < len(list); j++ {
		if list[j].score > list[best].score {
			best = j
		}
	}
	list[idx], list[best] = list[best], list[idx]
	return list[idx].move
}

// History holds the killer-move table and the history heuristic shared
// across one search (reset between searches via Clear). The history table is
// indexed [side-to-move][from][to]: a from/to pair reached while playing
// White means nothing about the same squares played by Black, so the two
// colors keep independent counters.
type History struct {
	killers [MaxPly][2]board.Move
	history [2][64][64]int
}

// NewHistory creates an empty history/killer table.
func NewHistory() *History {
	return &History{}
}

// Clear resets killers and ages (halves) history scores for a new search.
func (h *History) Clear() {
	for i := range h.killers {
		h.killers[i][0] = board.NoMove
		h.killers[i][1] = board.NoMove
	}
	for side := range h.history {
		for i := range h.history[side] {
			for j := range h.history[side][i] {
				h.history[side][i][j] /= 2
			}
		}
	}
}

// UpdateKillers records a quiet move that caused a beta cutoff at ply.
func (h *History) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly || h.killers[ply][0] == m {
		return
	}
	h.killers[ply][1] = h.killers[ply][0]
	h.killers[ply][0] = m
}

// historyMax is the saturation point at which all history scores are
// halved, preventing unbounded growth over a long search.
const historyMax = 400000

// UpdateHistory rewards (or penalizes) a quiet move by depth^2, the
// standard history-heuristic bonus, saturating at historyMax. side is the
// color that played m, keeping White's and Black's counters independent.
func (h *History) UpdateHistory(side board.Color, m board.Move, depth int, good bool) {
	from, to := m.From(), m.To()
	bonus := depth * depth

	if good {
		h.history[side][from][to] += bonus
		if h.history[side][from][to] > historyMax {
			for s := range h.history {
				for i := range h.history[s] {
					for j := range h.history[s][i] {
						h.history[s][i][j] /= 2
					}
				}
			}
		}
	} else {
		h.history[side][from][to] -= bonus
		if h.history[side][from][to] < -historyMax {
			h.history[side][from][to] = -historyMax
		}
	}
}
