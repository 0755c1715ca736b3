package engine

import (
	"testing"
	"time"

	"github.com/corvidchess/searchcore/internal/board"
)

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16)
	eng.SetDifficulty(Easy)

	move := eng.Search(pos)
	if move == board.NoMove {
		t.Error("Search returned NoMove for starting position")
	}
	t.Logf("Best move: %s", move.String())
}

func TestSearchMultiplePositions(t *testing.T) {
	eng := NewEngine(16)

	positions := []string{
		board.StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3", // Italian Game
		"8/8/8/4k3/8/4K3/4P3/8 w - - 0 1",                                   // KP endgame
	}

	for i, fen := range positions {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("Failed to parse position %d: %v", i, err)
		}

		limits := SearchLimits{Depth: 5, MoveTime: 300 * time.Millisecond}

		result := eng.iterativeDeepening(pos, limits, false)
		if result.Move == board.NoMove {
			if !pos.InCheck() || pos.GenerateLegalMoves().Len() > 0 {
				t.Errorf("Position %d: search returned NoMove", i)
			}
		} else {
			t.Logf("Position %d: best move = %s (score %d)", i, result.Move.String(), result.Score)
		}
	}
}

func TestSearchWithLimitsSequentialReuse(t *testing.T) {
	eng := NewEngine(16)

	for i := 0; i < 5; i++ {
		pos := board.NewPosition()
		limits := SearchLimits{Depth: 6, MoveTime: 200 * time.Millisecond}

		result := eng.iterativeDeepening(pos, limits, false)
		if result.Move == board.NoMove {
			t.Fatalf("iteration %d: search returned NoMove for starting position", i)
		}
	}
}

func TestPawnHashTable(t *testing.T) {
	pt := NewPawnTable(1)

	pos := board.NewPosition()

	_, _, found := pt.Probe(pos.PawnKey)
	if found {
		t.Error("Expected cache miss on first probe")
	}

	pt.Store(pos.PawnKey, -15, -20)

	mg, eg, found := pt.Probe(pos.PawnKey)
	if !found {
		t.Error("Expected cache hit after store")
	}
	if mg != -15 || eg != -20 {
		t.Errorf("Wrong values: got mg=%d, eg=%d, want -15, -20", mg, eg)
	}

	oldKey := pos.PawnKey
	move := board.NewMove(board.E2, board.E4)
	undo := pos.MakeMove(move)
	if pos.PawnKey == oldKey {
		t.Error("PawnKey should change when a pawn moves")
	}

	pos.UnmakeMove(move, undo)
	if pos.PawnKey != oldKey {
		t.Error("PawnKey should be restored on unmake")
	}
}

func TestEngineClearResetsTables(t *testing.T) {
	eng := NewEngine(16)
	pos := board.NewPosition()

	eng.SearchWithLimits(pos, SearchLimits{Depth: 6, MoveTime: 200 * time.Millisecond})
	if eng.tt.hits == 0 && eng.tt.probes == 0 {
		t.Fatal("expected the search to have probed the transposition table")
	}

	eng.Clear()
	if eng.tt.hits != 0 || eng.tt.probes != 0 {
		t.Error("Clear should reset transposition table statistics")
	}
}

func TestPerft(t *testing.T) {
	eng := NewEngine(1)
	pos := board.NewPosition()

	cases := []struct {
		depth int
		nodes uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, c := range cases {
		got := eng.Perft(pos, c.depth)
		if got != c.nodes {
			t.Errorf("perft(%d) = %d, want %d", c.depth, got, c.nodes)
		}
	}
}
