package engine

import (
	"github.com/corvidchess/searchcore/internal/board"
)

// see estimates the material result of a capture sequence on m's target
// square, from the perspective of the side making m. It simulates the
// full exchange (least-valuable-attacker recaptures alternating sides)
// rather than looking only at the first capture.
func see(pos *board.Position, m board.Move) int {
	from := m.From()
	to := m.To()

	attacker := pos.PieceAt(from)
	if attacker == board.NoPiece {
		return 0
	}

	var capturedValue int
	if m.IsEnPassant() {
		capturedValue = PawnValue
	} else {
		victim := pos.PieceAt(to)
		if victim == board.NoPiece {
			return 0 // not a capture
		}
		capturedValue = pieceValues[victim.Type()]
	}

	if m.IsPromotion() {
		capturedValue += pieceValues[m.Promotion()] - PawnValue
	}

	return seeSwap(pos, to, from, attacker, capturedValue)
}

// seeSwap runs the iterative gain-array swap algorithm: it walks the chain
// of least-valuable attackers on target, recording the material gain at
// each ply of the exchange, then negamaxes the gain stack in reverse to
// get the final signed result (a recapture only happens if it doesn't
// make the position worse for the side to move).
func seeSwap(pos *board.Position, target, excludeFrom board.Square, firstAttacker board.Piece, initialGain int) int {
	var gain [32]int
	d := 0
	gain[d] = initialGain

	occupied := pos.AllOccupied &^ board.SquareBB(excludeFrom)
	attackerValue := pieceValues[firstAttacker.Type()]
	side := firstAttacker.Color().Other()

	for {
		d++
		gain[d] = attackerValue - gain[d-1]
		if max(-gain[d-1], gain[d]) < 0 {
			break
		}

		attackerSq, attackerPiece := leastValuableAttacker(pos, target, side, occupied)
		if attackerSq == board.NoSquare {
			break
		}

		occupied &^= board.SquareBB(attackerSq)
		attackerValue = pieceValues[attackerPiece.Type()]
		side = side.Other()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}

	return gain[0]
}

// leastValuableAttacker finds the cheapest piece of side attacking target,
// given an occupancy snapshot (so already-removed attackers don't count
// and x-ray attackers behind them do, once uncovered). Returns NoSquare if
// side has no attacker left.
func leastValuableAttacker(pos *board.Position, target board.Square, side board.Color, occupied board.Bitboard) (board.Square, board.Piece) {
	pawns := pos.Pieces[side][board.Pawn]
	if attackers := pawns & board.PawnAttacks(target, side.Other()) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Pawn, side)
	}

	knights := pos.Pieces[side][board.Knight]
	if attackers := knights & board.KnightAttacks(target) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Knight, side)
	}

	bishopAttacks := board.BishopAttacks(target, occupied)
	if attackers := pos.Pieces[side][board.Bishop] & bishopAttacks & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Bishop, side)
	}

	rookAttacks := board.RookAttacks(target, occupied)
	if attackers := pos.Pieces[side][board.Rook] & rookAttacks & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Rook, side)
	}

	if attackers := pos.Pieces[side][board.Queen] & (bishopAttacks | rookAttacks) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.Queen, side)
	}

	if attackers := pos.Pieces[side][board.King] & board.KingAttacks(target) & occupied; attackers != 0 {
		return attackers.LSB(), board.NewPiece(board.King, side)
	}

	return board.NoSquare, board.NoPiece
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
