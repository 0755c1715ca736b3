package engine

import (
	"testing"
	"time"

	"github.com/corvidchess/searchcore/internal/board"
)

func newTestSearcher(pos *board.Position) *Searcher {
	s := NewSearcher(NewTranspositionTable(1), NewHistory(), NewPawnTable(1))
	s.Reset(pos, []uint64{pos.Hash}, UCILimits{Depth: 1})
	s.timeMgr.Init(UCILimits{MoveTime: 2 * time.Second}, pos.SideToMove, 0)
	return s
}

func TestQuiescenceStableOnQuietPosition(t *testing.T) {
	pos := board.NewPosition()
	s := newTestSearcher(pos)

	score := s.quiesce(-InfScore, InfScore, 0)
	standPat := s.evaluate()

	if score != standPat {
		t.Errorf("quiescence on a position with no captures should return the stand-pat eval %d, got %d", standPat, score)
	}
}

func TestQuiescenceResolvesHangingCapture(t *testing.T) {
	// White to move, can win a hanging knight with a pawn; quiescence
	// should find that capture and return a score reflecting it.
	pos, err := board.ParseFEN("4k3/8/8/3n4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	s := newTestSearcher(pos)

	standPat := s.evaluate()
	score := s.quiesce(-InfScore, InfScore, 0)

	if score <= standPat {
		t.Errorf("expected quiescence to find the winning capture and improve on stand-pat %d, got %d", standPat, score)
	}
}

func TestQuiescenceFailHard(t *testing.T) {
	pos, err := board.ParseFEN("r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}
	s := newTestSearcher(pos)

	alpha, beta := 0, 1
	score := s.quiesce(alpha, beta, 0)

	if score < alpha || score > beta {
		t.Errorf("fail-hard violated in quiescence: score %d outside [%d, %d]", score, alpha, beta)
	}
}
