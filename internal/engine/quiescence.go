package engine

import (
	"github.com/corvidchess/searchcore/internal/board"
)

// quiesce resolves the position at ply to a "quiet" state by searching only
// captures (and promotions), so the main search never evaluates a position
// in the middle of a capture sequence. Stand-pat lets a side decline every
// further capture once it's already ahead of beta.
func (s *Searcher) quiesce(alpha, beta, ply int) int {
	if s.shouldStop() {
		return UnknownScore
	}
	if ply > s.seldepth {
		s.seldepth = ply
	}

	standPat := s.evaluate()
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	if ply >= MaxPly {
		return alpha
	}

	// Whole-node big-delta cut: even winning a queen can't bring standPat
	// up to alpha, so no capture here is worth trying.
	if standPat+QueenValue < alpha {
		return alpha
	}

	moves := s.pos.GenerateCaptures()
	picker := NewMovePicker(s.pos, moves, ply, board.NoMove, s.history, true)

	for {
		m := picker.Next()
		if m == board.NoMove {
			break
		}

		// Delta pruning: even the best case for this capture (plus a
		// queen promotion bonus) can't raise alpha, so skip making it.
		gain := capturedValue(s.pos, m)
		if m.IsPromotion() {
			gain += pieceValues[m.Promotion()] - PawnValue
		}
		if standPat+gain+deltaMargin < alpha {
			continue
		}

		undo := s.pos.MakeMove(m)
		s.nodes++
		score := -s.quiesce(-beta, -alpha, ply+1)
		s.pos.UnmakeMove(m, undo)

		if s.shouldStop() {
			return UnknownScore
		}

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// capturedValue returns the material value of whatever m captures, without
// running a full SEE — used for quiescence's per-move delta pruning.
func capturedValue(pos *board.Position, m board.Move) int {
	if m.IsEnPassant() {
		return PawnValue
	}
	victim := pos.PieceAt(m.To())
	if victim == board.NoPiece {
		return 0
	}
	return pieceValues[victim.Type()]
}
