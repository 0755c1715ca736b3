package engine

import (
	"github.com/corvidchess/searchcore/internal/board"
)

// iterativeDeepening drives the root search: it calls search() at
// successively deeper depths, widening an aspiration window around each
// iteration's score, until a limit is hit or the search is stopped. uci
// controls whether completed iterations are reported through e.OnInfo.
func (e *Engine) iterativeDeepening(pos *board.Position, limits SearchLimits, uci bool) SearchResult {
	uciLimits := UCILimits{
		MoveTime: limits.MoveTime,
		Depth:    limits.Depth,
		Nodes:    limits.Nodes,
		Infinite: limits.Infinite,
	}
	return e.search(pos, uciLimits, uci)
}

// SearchWithUCILimits runs a search that accepts the full time-control
// vocabulary (wtime/btime/winc/binc/movestogo) rather than the simplified
// SearchLimits the difficulty presets use. The UCI front-end's `go` handler
// does not call it: it turns the clock into a fixed MoveTime and calls
// SearchWithLimits.
func (e *Engine) SearchWithUCILimits(pos *board.Position, limits UCILimits) SearchResult {
	return e.search(pos, limits, true)
}

func (e *Engine) search(pos *board.Position, limits UCILimits, uci bool) SearchResult {
	s := e.searcher
	s.InitTime(limits, pos.SideToMove, len(e.rootPosHashes))

	hashes := append([]uint64{}, e.rootPosHashes...)
	s.Reset(pos, hashes, limits)
	e.history.Clear()

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxPly {
		maxDepth = MaxPly
	}

	var best SearchResult
	var stability int
	var lastBestMove board.Move

	alpha, beta := -InfScore, InfScore

	for depth := 1; depth <= maxDepth; depth++ {
		var score int
		var delta int

		if depth >= aspirationDepth && best.Move != board.NoMove {
			delta = aspirationDelta
			alpha = clampScore(best.Score - delta)
			beta = clampScore(best.Score + delta)
		} else {
			alpha, beta = -InfScore, InfScore
		}

		for {
			score = s.search(depth, 0, alpha, beta)
			if score == UnknownScore {
				break
			}

			if score <= alpha {
				beta = (alpha + beta) / 2
				alpha = clampScore(alpha - delta)
				delta *= 2
			} else if score >= beta {
				beta = clampScore(beta + delta)
				delta *= 2
			} else {
				break
			}

			if abs(score) >= aspirationBound {
				alpha, beta = -InfScore, InfScore
			}
		}

		if score == UnknownScore {
			break
		}

		hashMove := e.tt.hashMoveOnly(pos.Hash)
		pv := e.reconstructPV(pos, hashMove)
		if len(pv) == 0 {
			break
		}

		if pv[0] == lastBestMove {
			stability++
		} else {
			stability = 0
		}
		lastBestMove = pv[0]

		best = SearchResult{
			Move:  pv[0],
			Score: score,
			PV:    pv,
			Depth: depth,
		}

		if uci && e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Seldepth: s.Seldepth(),
				Score:    score,
				Nodes:    s.Nodes(),
				Time:     s.timeMgr.Elapsed(),
				PV:       pv,
				HashFull: e.tt.hashFull(),
			})
		}

		if stability >= 4 {
			s.timeMgr.AdjustForStability(stability)
		} else if stability == 0 && depth > 1 {
			s.timeMgr.AdjustForInstability(1)
		}

		if !limits.Infinite && s.timeMgr.PastOptimum() {
			break
		}
		if s.shouldStop() {
			break
		}
	}

	e.tt.bumpAge()
	return best
}

// clampScore keeps an aspiration window bound from overflowing past the
// mate-score range.
func clampScore(score int) int {
	if score > InfScore {
		return InfScore
	}
	if score < -InfScore {
		return -InfScore
	}
	return score
}

// reconstructPV walks the transposition table's hash-move chain from the
// root, stopping at a repeated position, a missing entry, or MaxPly —
// the table itself doesn't store a PV, so this is how one is recovered
// after the fact.
func (e *Engine) reconstructPV(pos *board.Position, rootMove board.Move) []board.Move {
	if rootMove == board.NoMove {
		return nil
	}

	pv := make([]board.Move, 0, 16)
	seen := make(map[uint64]bool)

	workPos := *pos
	work := &workPos
	move := rootMove
	for len(pv) < MaxPly {
		if move == board.NoMove || seen[work.Hash] {
			break
		}
		seen[work.Hash] = true

		legal := work.GenerateLegalMoves()
		found := false
		for i := 0; i < legal.Len(); i++ {
			if legal.Get(i) == move {
				found = true
				break
			}
		}
		if !found {
			break
		}

		work.MakeMove(move)
		pv = append(pv, move)

		move = e.tt.hashMoveOnly(work.Hash)
	}

	return pv
}

// ScoreToUCI converts an internal score to UCI's "cp <n>" / "mate <n>" form.
func ScoreToUCI(score int) (kind string, value int) {
	if score > MateScore-64 {
		return "mate", (MateScore - score + 1) / 2
	}
	if score < -MateScore+64 {
		return "mate", -((MateScore + score + 1) / 2)
	}
	return "cp", score
}
