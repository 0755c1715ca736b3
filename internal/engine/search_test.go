package engine

import (
	"testing"
	"time"

	"github.com/corvidchess/searchcore/internal/board"
)

func TestSearchFindsBackRankMateInOne(t *testing.T) {
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	eng := NewEngine(4)
	result := eng.iterativeDeepening(pos, SearchLimits{Depth: 4}, false)

	if result.Score <= MateScore-100 {
		t.Fatalf("expected a mate score, got %d", result.Score)
	}
	if result.Move.From() != board.D1 || result.Move.To() != board.D8 {
		t.Errorf("expected Rd1-d8#, got %s", result.Move.String())
	}
}

func TestSearchFindsStalemateDraw(t *testing.T) {
	pos, err := board.ParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	if pos.GenerateLegalMoves().Len() != 0 {
		t.Fatal("expected position to have no legal moves (stalemate)")
	}

	s := NewSearcher(NewTranspositionTable(1), NewHistory(), NewPawnTable(1))
	s.Reset(pos, []uint64{pos.Hash}, UCILimits{Depth: 4})
	s.timeMgr.Init(UCILimits{Infinite: true}, pos.SideToMove, 0)

	score := s.search(1, 0, -InfScore, InfScore)
	if score != DrawScore {
		t.Errorf("expected draw score %d for stalemate, got %d", DrawScore, score)
	}
}

// TestSearchFailHard checks the fail-hard convention: a search windowed to
// [alpha, alpha+1] never returns a value outside [alpha, alpha+1].
func TestSearchFailHard(t *testing.T) {
	pos := board.NewPosition()
	s := NewSearcher(NewTranspositionTable(4), NewHistory(), NewPawnTable(1))
	s.Reset(pos, []uint64{pos.Hash}, UCILimits{Depth: 5})
	s.timeMgr.Init(UCILimits{MoveTime: 2 * time.Second}, pos.SideToMove, 0)

	alpha := 0
	beta := 1
	score := s.search(5, 0, alpha, beta)

	if score < alpha || score > beta {
		t.Errorf("fail-hard violated: score %d outside [%d, %d]", score, alpha, beta)
	}
}

func TestRepetitionDetectedAsDraw(t *testing.T) {
	pos := board.NewPosition()
	s := NewSearcher(NewTranspositionTable(4), NewHistory(), NewPawnTable(1))

	hashes := []uint64{pos.Hash}

	// Shuffle knights back and forth to repeat the starting position twice.
	moves := []board.Move{
		board.NewMove(board.G1, board.F3),
		board.NewMove(board.G8, board.F6),
		board.NewMove(board.F3, board.G1),
		board.NewMove(board.F6, board.G8),
		board.NewMove(board.G1, board.F3),
		board.NewMove(board.G8, board.F6),
		board.NewMove(board.F3, board.G1),
		board.NewMove(board.F6, board.G8),
	}
	for _, m := range moves {
		pos.MakeMove(m)
		hashes = append(hashes, pos.Hash)
	}

	s.pos = pos
	s.hashes = hashes

	if !s.isRepetition() {
		t.Error("expected the repeated starting position to be detected as a repetition")
	}
}

func TestNullMoveGuardAtRootDoesNotAbortSearch(t *testing.T) {
	// A search started at the root, where null-move pruning is never tried,
	// must complete. Neither side has non-pawn material here, so null-move
	// pruning is not tried at any ply of this search either.
	pos, err := board.ParseFEN("8/8/4k3/8/8/4K3/4P3/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	s := NewSearcher(NewTranspositionTable(1), NewHistory(), NewPawnTable(1))
	s.Reset(pos, []uint64{pos.Hash}, UCILimits{Depth: 3})
	s.timeMgr.Init(UCILimits{MoveTime: time.Second}, pos.SideToMove, 0)
	s.stack[0].move = board.NoMove

	// At ply 0 there's no previous move, so null-move pruning must not fire;
	// the condition requires ply > 0 before it reads s.stack[ply-1].
	score := s.search(4, 0, -InfScore, InfScore)
	if score == UnknownScore {
		t.Fatal("search aborted unexpectedly")
	}
}
