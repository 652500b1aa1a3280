package hashing

import (
	"encoding/binary"
	"strconv"
)

// MerkleNode is one node of the aggregation tree. Leaves carry chunk data
// hashes and chunk lengths; internal nodes carry the merged hash of a group
// of children and the sum of their sizes.
type MerkleNode struct {
	Hash Hash
	Size uint64
}

// Mean branching factor of the tree. Group boundaries are content-defined
// (driven by the child hashes), so the shape of the tree is a function of
// the leaves alone.
const meanBranch = 4

// minGroup/maxGroup bound the number of children merged into one node.
const (
	minGroup = 2
	maxGroup = 2*meanBranch + 1
)

// BuildTree aggregates ordered leaves into a single root hash.
//
// An empty input yields the zero hash. A single leaf passes through
// unchanged. Otherwise the list is repeatedly collapsed: each pass walks
// left to right, cutting variable-width groups of [minGroup, maxGroup]
// children and replacing each group with its merged node, until one node
// remains.
func BuildTree(leaves []MerkleNode) Hash {
	switch len(leaves) {
	case 0:
		return Hash{}
	case 1:
		return leaves[0].Hash
	}

	level := make([]MerkleNode, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		level = collapse(level)
	}
	return level[0].Hash
}

// collapse performs one aggregation pass over the current level.
func collapse(level []MerkleNode) []MerkleNode {
	next := make([]MerkleNode, 0, len(level)/minGroup+1)

	for i := 0; i < len(level); {
		end := groupEnd(level, i)
		if end-i < minGroup {
			// A trailing node with no sibling is promoted unchanged.
			next = append(next, level[i])
		} else {
			next = append(next, mergeGroup(level[i:end]))
		}
		i = end
	}
	return next
}

// groupEnd returns the exclusive end of the group starting at i. The cut is
// content-defined: scanning candidate ends, the group closes on the first
// child whose hash tail, read as a little-endian u64, is divisible by the
// mean branching factor. If no child triggers within maxGroup, the group
// takes maxGroup children (or whatever remains).
func groupEnd(level []MerkleNode, i int) int {
	limit := i + maxGroup
	if limit > len(level) {
		limit = len(level)
	}
	for end := i + minGroup; end <= limit; end++ {
		tail := binary.LittleEndian.Uint64(level[end-1].Hash[24:])
		if tail%meanBranch == 0 {
			return end
		}
	}
	return limit
}

// mergeGroup hashes a group of children into their parent node. The hashed
// buffer is one text line per child: the API-hex of its hash, " : ", and
// its decimal size.
func mergeGroup(children []MerkleNode) MerkleNode {
	buf := make([]byte, 0, len(children)*(HexLen+24))
	var size uint64
	for _, c := range children {
		buf = append(buf, c.Hash.Hex()...)
		buf = append(buf, " : "...)
		buf = strconv.AppendUint(buf, c.Size, 10)
		buf = append(buf, '\n')
		size += c.Size
	}
	return MerkleNode{Hash: InternalNodeHash(buf), Size: size}
}
