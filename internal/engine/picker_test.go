package engine

import (
	"testing"

	"github.com/corvidchess/searchcore/internal/board"
)

func TestMovePickerReturnsHashMoveFirst(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()

	hashMove := board.NewMove(board.E2, board.E4)
	h := NewHistory()

	mp := NewMovePicker(pos, moves, 0, hashMove, h, false)
	if first := mp.Next(); first != hashMove {
		t.Errorf("expected hash move %s first, got %s", hashMove.String(), first.String())
	}
}

func TestMovePickerNeverRepeatsAMove(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()
	h := NewHistory()

	mp := NewMovePicker(pos, moves, 0, board.NewMove(board.E2, board.E4), h, false)

	seen := make(map[board.Move]bool)
	count := 0
	for {
		m := mp.Next()
		if m == board.NoMove {
			break
		}
		if seen[m] {
			t.Fatalf("move %s returned more than once", m.String())
		}
		seen[m] = true
		count++
	}

	if count != moves.Len() {
		t.Errorf("expected picker to produce all %d legal moves, got %d", moves.Len(), count)
	}
}

func TestMovePickerGoodCapturesBeforeQuiets(t *testing.T) {
	// White to move, can win a hanging knight with a pawn.
	pos, err := board.ParseFEN("4k3/8/8/3n4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	moves := pos.GenerateLegalMoves()
	h := NewHistory()
	mp := NewMovePicker(pos, moves, 0, board.NoMove, h, false)

	first := mp.Next()
	if !first.IsCapture(pos) {
		t.Errorf("expected the winning capture to be ordered first, got quiet move %s", first.String())
	}
	if first.From() != board.E4 || first.To() != board.D5 {
		t.Errorf("expected exd5 first, got %s", first.String())
	}
}

func TestMovePickerKillersOrderedBeforeQuiets(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()
	h := NewHistory()

	killer := board.NewMove(board.G1, board.F3)
	h.UpdateKillers(killer, 0)

	mp := NewMovePicker(pos, moves, 0, board.NoMove, h, false)

	var order []board.Move
	for {
		m := mp.Next()
		if m == board.NoMove {
			break
		}
		order = append(order, m)
	}

	killerPos := -1
	for i, m := range order {
		if m == killer {
			killerPos = i
			break
		}
	}
	if killerPos == -1 {
		t.Fatal("killer move was not produced")
	}
	if killerPos != 0 {
		t.Errorf("expected the killer move to be ordered ahead of every quiet move, got position %d of %d", killerPos, len(order))
	}
}

func TestMovePickerCapturesOnlySkipsQuiets(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/3n4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	captures := pos.GenerateCaptures()
	h := NewHistory()
	mp := NewMovePicker(pos, captures, 0, board.NoMove, h, true)

	for {
		m := mp.Next()
		if m == board.NoMove {
			break
		}
		if !m.IsCapture(pos) {
			t.Errorf("captures-only picker produced a quiet move: %s", m.String())
		}
	}
}
