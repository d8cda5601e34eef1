package merkletree

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iden3/go-iden3-crypto/keccak256"
	mtscommon "github.com/lambdaclass/merkle-tree-service/common"
	"golang.org/x/crypto/sha3"
)

var (
	// ErrInvalidDataLength is returned when the leaf sequence is empty or
	// its length is not a power of two
	ErrInvalidDataLength = errors.New("data length must be a power of two greater than zero")
	// ErrInvalidProofInput is returned when the requested leaf value is not
	// part of the tree
	ErrInvalidProofInput = errors.New("leaf is not part of the tree")
)

// Proof is an inclusion proof for a single leaf: the original value, its
// position in the leaf level and the sibling hashes needed to recompute the
// path up to the root, ordered from the leaf level upwards.
type Proof struct {
	Data     int32         `json:"data"`
	Index    uint32        `json:"index"`
	Siblings []common.Hash `json:"siblings"`
}

// LeafHash hashes a single leaf value
func LeafHash(value int32) common.Hash {
	return common.BytesToHash(keccak256.Hash(mtscommon.Int32ToBytes(value)))
}

func hashPair(left, right common.Hash) common.Hash {
	var hash common.Hash
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(left[:])
	hasher.Write(right[:])
	copy(hash[:], hasher.Sum(nil))
	return hash
}

// BuildFlatTree builds a complete binary Merkle tree over data and returns it
// as a flat sequence: the leaf hashes first, then each upper level in order,
// ending with the root. The returned sequence has length 2*len(data) - 1.
// No hashing happens unless len(data) is a positive power of two.
func BuildFlatTree(data []int32) ([]common.Hash, error) {
	n := len(data)
	if n == 0 || n&(n-1) != 0 {
		return nil, ErrInvalidDataLength
	}

	nodes := make([]common.Hash, 0, 2*n-1)
	for _, value := range data {
		nodes = append(nodes, LeafHash(value))
	}
	for size := n; size > 1; size /= 2 {
		// first index of the level being paired
		offset := len(nodes) - size
		for i := 0; i < size; i += 2 {
			nodes = append(nodes, hashPair(nodes[offset+i], nodes[offset+i+1]))
		}
	}
	return nodes, nil
}

// LeafCount returns the amount of leaves of a flat tree
func LeafCount(nodes []common.Hash) int {
	return (len(nodes) + 1) / 2
}

// Root returns the root of a flat tree (its last element)
func Root(nodes []common.Hash) common.Hash {
	return nodes[len(nodes)-1]
}

// GenerateProof builds the inclusion proof for leafValue against the given
// flat tree. The leaf is located by hash with a linear scan over the leaf
// level; if the same value appears more than once the first occurrence wins.
func GenerateProof(nodes []common.Hash, leafValue int32) (Proof, error) {
	leafCount := LeafCount(nodes)
	target := LeafHash(leafValue)
	index := -1
	for i := 0; i < leafCount; i++ {
		if nodes[i] == target {
			index = i
			break
		}
	}
	if index == -1 {
		return Proof{}, ErrInvalidProofInput
	}

	proof := Proof{
		Data:  leafValue,
		Index: uint32(index),
	}
	offset := 0
	for size, i := leafCount, index; size > 1; size, i = size/2, i/2 {
		if i%2 == 0 {
			proof.Siblings = append(proof.Siblings, nodes[offset+i+1])
		} else {
			proof.Siblings = append(proof.Siblings, nodes[offset+i-1])
		}
		offset += size
	}
	return proof, nil
}

// VerifyProof recomputes the path committed on the proof and compares the
// result against root. A malformed proof yields false, never an error.
func VerifyProof(root common.Hash, proof Proof) bool {
	curr := LeafHash(proof.Data)
	index := proof.Index
	for _, sibling := range proof.Siblings {
		if index%2 == 0 {
			curr = hashPair(curr, sibling)
		} else {
			curr = hashPair(sibling, curr)
		}
		index /= 2
	}
	return curr == root
}
