package engine

import (
	"testing"

	"github.com/corvidchess/searchcore/internal/board"
)

func TestTTStoreProbeRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)

	hash := uint64(0xdeadbeefcafef00d)
	move := board.NewMove(board.E2, board.E4)

	tt.store(hash, 6, 0, 150, BoundExact, move)

	got, score, usable := tt.probe(hash, 6, 0, -InfScore, InfScore)
	if !usable {
		t.Fatal("expected a stored EXACT entry at equal depth to be usable")
	}
	if got != move {
		t.Errorf("expected hash move %s, got %s", move.String(), got.String())
	}
	if score != 150 {
		t.Errorf("expected score 150, got %d", score)
	}
}

func TestTTBoundSanity(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(12345)
	move := board.NewMove(board.D2, board.D4)

	tt.store(hash, 6, 0, 100, BoundLower, move)

	// A lower bound of 100 is not usable against a window whose beta is
	// below 100, since the real score could be anywhere >= 100.
	if _, _, usable := tt.probe(hash, 6, 0, -InfScore, 50); usable {
		t.Error("lower bound of 100 should not be usable against beta=50")
	}
	// It is usable once beta <= the stored lower bound.
	if _, score, usable := tt.probe(hash, 6, 0, -InfScore, 100); !usable || score != 100 {
		t.Errorf("expected usable lower bound cutoff, got usable=%v score=%d", usable, score)
	}
}

func TestTTShallowerEntryNotUsable(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(999)
	move := board.NewMove(board.G1, board.F3)

	tt.store(hash, 3, 0, 20, BoundExact, move)

	if _, _, usable := tt.probe(hash, 8, 0, -InfScore, InfScore); usable {
		t.Error("an entry searched to depth 3 should not satisfy a depth-8 probe")
	}
}

func TestTTMateScorePlyAdjustment(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(555)
	move := board.NewMove(board.H1, board.H8)

	// A mate score of MateScore-2, as the search reports it, stored at ply 3.
	mateScoreAtPly := MateScore - 2
	tt.store(hash, 10, 3, mateScoreAtPly, BoundExact, move)

	// Probed again from the same ply, the score should come back unchanged.
	_, score, usable := tt.probe(hash, 10, 3, -InfScore, InfScore)
	if !usable {
		t.Fatal("expected exact entry to be usable")
	}
	if score != mateScoreAtPly {
		t.Errorf("expected ply-relative score %d, got %d", mateScoreAtPly, score)
	}

	// Probed from a shallower ply (the same position reached by a shorter
	// path), the mate should look two plies closer.
	_, score2, usable2 := tt.probe(hash, 10, 1, -InfScore, InfScore)
	if !usable2 {
		t.Fatal("expected exact entry to be usable from a different ply")
	}
	if score2 <= mateScoreAtPly {
		t.Errorf("expected mate distance to shrink when probed from a shallower ply, got %d (was %d)", score2, mateScoreAtPly)
	}
}

func TestTTReplacementPolicyPrefersDeeper(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(42)
	shallow := board.NewMove(board.A2, board.A3)
	deep := board.NewMove(board.A2, board.A4)

	tt.store(hash, 8, 0, 10, BoundExact, deep)
	tt.store(hash, 2, 0, 10, BoundExact, shallow) // same generation, shallower: must not evict

	if got := tt.hashMoveOnly(hash); got != deep {
		t.Errorf("shallower same-generation store should not replace a deeper entry, got %s", got.String())
	}
}

func TestTTClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.store(1, 4, 0, 0, BoundExact, board.NewMove(board.E2, board.E4))

	tt.clear()

	if got := tt.hashMoveOnly(1); got != board.NoMove {
		t.Error("expected cleared table to have no entry")
	}
}

func TestTTSnapshotRestore(t *testing.T) {
	tt := NewTranspositionTable(1)
	move := board.NewMove(board.B1, board.C3)
	tt.store(777, 5, 0, 30, BoundExact, move)

	snap := tt.snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 snapshotted entry, got %d", len(snap))
	}

	restored := NewTranspositionTable(1)
	restored.restore(snap)

	if got := restored.hashMoveOnly(777); got != move {
		t.Errorf("expected restored hash move %s, got %s", move.String(), got.String())
	}
}
