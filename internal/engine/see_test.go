package engine

import (
	"testing"

	"github.com/corvidchess/searchcore/internal/board"
)

func TestSEEWinningCaptureIsPositive(t *testing.T) {
	// White pawn on e4 can take a hanging black knight on d5.
	pos, err := board.ParseFEN("4k3/8/8/3n4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	moves := pos.GenerateCaptures()
	var capture board.Move
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() == board.E4 && m.To() == board.D5 {
			capture = m
			break
		}
	}
	if capture == board.NoMove {
		t.Fatal("expected to find the exd5 capture")
	}

	gain := see(pos, capture)
	if gain <= 0 {
		t.Errorf("expected a winning SEE for pawn takes undefended knight, got %d", gain)
	}
}

func TestSEELosingCaptureIsNegative(t *testing.T) {
	// White queen on d5 can take a pawn on d6, but a black pawn on e7
	// recaptures for a losing trade.
	pos, err := board.ParseFEN("4k3/4p3/3p4/3Q4/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	moves := pos.GenerateCaptures()
	var capture board.Move
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() == board.D5 && m.To() == board.D6 {
			capture = m
			break
		}
	}
	if capture == board.NoMove {
		t.Fatal("expected to find the Qxd6 capture")
	}

	gain := see(pos, capture)
	if gain >= 0 {
		t.Errorf("expected a losing SEE for queen takes pawn defended by a pawn, got %d", gain)
	}
}

func TestSEEEqualTradeIsZero(t *testing.T) {
	// Pawn takes pawn, recaptured by another pawn: a dead-even trade.
	pos, err := board.ParseFEN("4k3/8/2p5/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN failed: %v", err)
	}

	moves := pos.GenerateCaptures()
	var capture board.Move
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() == board.E4 && m.To() == board.D5 {
			capture = m
			break
		}
	}
	if capture == board.NoMove {
		t.Fatal("expected to find the exd5 capture")
	}

	if gain := see(pos, capture); gain != 0 {
		t.Errorf("expected a dead-even pawn trade to SEE to 0, got %d", gain)
	}
}
