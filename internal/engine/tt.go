package engine

import (
	"github.com/corvidchess/searchcore/internal/board"
)

// Bound indicates which side of the search window a stored score is exact
// or bounded against.
type Bound uint8

const (
	BoundExact Bound = iota // Score is exact (a PV node was fully resolved)
	BoundLower              // Score failed high; real value is >= Score
	BoundUpper              // Score failed low; real value is <= Score
)

// ttEntrySize is the approximate in-memory size of one TTEntry, used to
// size the table from a megabyte budget.
const ttEntrySize = 16

// TTEntry is one slot of the transposition table.
type TTEntry struct {
	Key      uint32     // Upper 32 bits of the Zobrist hash, for verification
	BestMove board.Move // Best move found at this position (or NoMove)
	Score    int16      // Score, ply-relative to the TT's storage convention
	Depth    int8       // Depth this entry was searched to
	Bound    Bound      // Kind of bound Score represents
	Age      uint8      // Search generation, bumped once per completed `go`
}

// occupied reports whether this slot holds a real entry.
func (e *TTEntry) occupied() bool {
	return e.Depth > 0 || e.BestMove != board.NoMove
}

// TranspositionTable is a fixed-size, power-of-2 hash table mapping Zobrist
// keys to search results. The search counts mate distances from the root;
// store and probe convert mate scores (adjustScoreToTT/adjustScoreFromTT) so
// that the table itself holds distances counted from the stored position.
type TranspositionTable struct {
	entries []TTEntry
	mask    uint64
	age     uint8

	probes uint64
	hits   uint64
}

// NewTranspositionTable allocates a table sized to fit within sizeMB
// megabytes, rounded down to a power of two number of entries.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	numEntries := (uint64(sizeMB) * 1024 * 1024) / ttEntrySize
	numEntries = roundDownToPowerOf2(numEntries)
	if numEntries == 0 {
		numEntries = 1
	}

	return &TranspositionTable{
		entries: make([]TTEntry, numEntries),
		mask:    numEntries - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func (tt *TranspositionTable) index(hash uint64) uint64 {
	return hash & tt.mask
}

// probe looks up hash and returns the move to try first (NoMove if none),
// the stored score, and whether the stored depth/bound lets the caller use
// that score directly against the given alpha/beta window without
// recursing. The returned score (when usable) is already converted back to
// the search's root-relative form for the current ply via adjustScoreFromTT.
func (tt *TranspositionTable) probe(hash uint64, depth, ply, alpha, beta int) (hashMove board.Move, score int, usable bool) {
	tt.probes++

	entry := tt.entries[tt.index(hash)]
	if entry.Key != uint32(hash>>32) || !entry.occupied() {
		return board.NoMove, 0, false
	}

	tt.hits++
	hashMove = entry.BestMove

	if int(entry.Depth) < depth {
		return hashMove, 0, false
	}

	s := adjustScoreFromTT(int(entry.Score), ply)
	switch entry.Bound {
	case BoundExact:
		return hashMove, s, true
	case BoundLower:
		if s >= beta {
			return hashMove, s, true
		}
	case BoundUpper:
		if s <= alpha {
			return hashMove, s, true
		}
	}

	return hashMove, 0, false
}

// hashMoveOnly returns just the move recorded for hash, without requiring a
// usable bound. Used by the move picker and by PV reconstruction.
func (tt *TranspositionTable) hashMoveOnly(hash uint64) board.Move {
	entry := tt.entries[tt.index(hash)]
	if entry.Key != uint32(hash>>32) || !entry.occupied() {
		return board.NoMove
	}
	return entry.BestMove
}

// store saves a search result for the node at ply. score is in the search's
// root-relative form; adjustScoreToTT converts a mate score to be relative
// to this node before it is written.
//
// Replacement policy: always replace an empty slot or a slot from an older
// search generation; within the same generation, replace only if the new
// entry is at least as deep as the one stored (a shallower same-generation
// result is never allowed to evict a deeper one).
func (tt *TranspositionTable) store(hash uint64, depth, ply, score int, bound Bound, bestMove board.Move) {
	entry := &tt.entries[tt.index(hash)]

	replace := !entry.occupied() || entry.Age != tt.age || depth >= int(entry.Depth)
	if !replace {
		return
	}

	entry.Key = uint32(hash >> 32)
	if bestMove != board.NoMove {
		entry.BestMove = bestMove
	}
	entry.Score = int16(adjustScoreToTT(score, ply))
	entry.Depth = int8(depth)
	entry.Bound = bound
	entry.Age = tt.age
}

// bumpAge starts a new search generation, called once per completed `go`
// command so that stale entries from prior searches are preferentially
// replaced.
func (tt *TranspositionTable) bumpAge() {
	tt.age++
}

// clear wipes the table and resets statistics.
func (tt *TranspositionTable) clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// hashFull returns the permille of the table occupied by the current
// search generation, sampled over the first 1000 entries (or all entries,
// if the table is smaller).
func (tt *TranspositionTable) hashFull() int {
	sampleSize := 1000
	if uint64(sampleSize) > uint64(len(tt.entries)) {
		sampleSize = len(tt.entries)
	}
	if sampleSize == 0 {
		return 0
	}

	used := 0
	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].occupied() && tt.entries[i].Age == tt.age {
			used++
		}
	}
	return (used * 1000) / sampleSize
}

// hitRate returns the cumulative probe hit rate as a percentage.
func (tt *TranspositionTable) hitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// snapshot returns every occupied entry's key/value pair for persistence.
// The hash stored alongside each entry is reconstructed only from its
// upper 32 verification bits, so snapshots are keyed by that partial key;
// this is sufficient to warm-start a table of the same or smaller size.
func (tt *TranspositionTable) snapshot() []TTEntry {
	out := make([]TTEntry, 0, len(tt.entries)/4)
	for _, e := range tt.entries {
		if e.occupied() {
			out = append(out, e)
		}
	}
	return out
}

// restore loads entries produced by snapshot back into the table,
// distributing each by its verification key modulo the table size.
func (tt *TranspositionTable) restore(entries []TTEntry) {
	for _, e := range entries {
		idx := uint64(e.Key) & tt.mask
		tt.entries[idx] = e
	}
}

// adjustScoreFromTT converts a mate score read from the table, counted from
// the stored position, back into the search's form counted from the root,
// for a node probed at ply.
func adjustScoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// adjustScoreToTT converts a search mate score, counted from the root, into
// the form stored in the table, counted from the node at ply, so that the
// same mate found through different paths compares equal regardless of the
// ply it was found at.
func adjustScoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
