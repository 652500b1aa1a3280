package hashing

import (
	"encoding/binary"
	"fmt"
	"testing"
)

// leafFor derives a deterministic leaf from an index.
func leafFor(i int, size uint64) MerkleNode {
	return MerkleNode{
		Hash: DataHash([]byte(fmt.Sprintf("leaf %d", i))),
		Size: size,
	}
}

func TestBuildTree(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		if BuildTree(nil) != (Hash{}) {
			t.Error("empty tree must yield the zero hash")
		}
	})

	t.Run("SingleLeafIdentity", func(t *testing.T) {
		leaf := leafFor(0, 100)
		if BuildTree([]MerkleNode{leaf}) != leaf.Hash {
			t.Error("single-leaf tree must return the leaf hash unchanged")
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		leaves := make([]MerkleNode, 100)
		for i := range leaves {
			leaves[i] = leafFor(i, uint64(1000+i))
		}
		if BuildTree(leaves) != BuildTree(leaves) {
			t.Error("identical leaves must yield identical roots")
		}
	})

	t.Run("LeafSensitivity", func(t *testing.T) {
		leaves := make([]MerkleNode, 32)
		for i := range leaves {
			leaves[i] = leafFor(i, 100)
		}
		base := BuildTree(leaves)

		mutated := make([]MerkleNode, len(leaves))
		copy(mutated, leaves)
		mutated[17] = leafFor(1717, 100)
		if BuildTree(mutated) == base {
			t.Error("changing one leaf must change the root")
		}

		resized := make([]MerkleNode, len(leaves))
		copy(resized, leaves)
		resized[17].Size++
		if BuildTree(resized) == base {
			t.Error("changing one leaf size must change the root")
		}
	})

	t.Run("OrderSensitivity", func(t *testing.T) {
		a := []MerkleNode{leafFor(1, 10), leafFor(2, 20), leafFor(3, 30)}
		b := []MerkleNode{leafFor(2, 20), leafFor(1, 10), leafFor(3, 30)}
		if BuildTree(a) == BuildTree(b) {
			t.Error("reordering leaves must change the root")
		}
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		leaves := make([]MerkleNode, 20)
		for i := range leaves {
			leaves[i] = leafFor(i, 100)
		}
		snapshot := make([]MerkleNode, len(leaves))
		copy(snapshot, leaves)

		BuildTree(leaves)
		for i := range leaves {
			if leaves[i] != snapshot[i] {
				t.Fatalf("leaf %d mutated by BuildTree", i)
			}
		}
	})
}

func TestGroupEnd(t *testing.T) {
	// Craft hashes whose trailing u64 controls the cut decision.
	withTail := func(tail uint64) MerkleNode {
		var h Hash
		binary.LittleEndian.PutUint64(h[24:], tail)
		return MerkleNode{Hash: h, Size: 1}
	}

	t.Run("TriggerClosesGroup", func(t *testing.T) {
		// Second node triggers (tail divisible by the mean branch factor).
		level := []MerkleNode{withTail(1), withTail(4), withTail(3), withTail(5)}
		if end := groupEnd(level, 0); end != 2 {
			t.Errorf("groupEnd = %d, want 2", end)
		}
	})

	t.Run("NoTriggerTakesMaxGroup", func(t *testing.T) {
		level := make([]MerkleNode, 20)
		for i := range level {
			level[i] = withTail(uint64(2*i + 1)) // all odd, never divisible by 4
		}
		if end := groupEnd(level, 0); end != maxGroup {
			t.Errorf("groupEnd = %d, want %d", end, maxGroup)
		}
	})

	t.Run("ShortTailTakesRemainder", func(t *testing.T) {
		level := []MerkleNode{withTail(1), withTail(3), withTail(5)}
		if end := groupEnd(level, 1); end != 3 {
			t.Errorf("groupEnd = %d, want 3", end)
		}
	})
}
