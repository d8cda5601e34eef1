package merkletree

import (
	"encoding/binary"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

// reference hashing done with the raw primitive, independent from the
// implementation under test
func refHash(chunks ...[]byte) common.Hash {
	var hash common.Hash
	hasher := sha3.NewLegacyKeccak256()
	for _, chunk := range chunks {
		hasher.Write(chunk)
	}
	copy(hash[:], hasher.Sum(nil))
	return hash
}

func refLeaf(value int32) common.Hash {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(value))
	return refHash(buf)
}

func TestBuildFlatTreeVector(t *testing.T) {
	h1 := refLeaf(1)
	h2 := refLeaf(2)
	h3 := refLeaf(3)
	h4 := refLeaf(4)
	h12 := refHash(h1[:], h2[:])
	h34 := refHash(h3[:], h4[:])
	h1234 := refHash(h12[:], h34[:])

	nodes, err := BuildFlatTree([]int32{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, []common.Hash{h1, h2, h3, h4, h12, h34, h1234}, nodes)
	require.Equal(t, h1234, Root(nodes))
	require.Equal(t, 4, LeafCount(nodes))
}

func TestBuildFlatTreeShape(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 16, 32} {
		data := make([]int32, n)
		for i := range data {
			data[i] = int32(i - n/2)
		}
		nodes, err := BuildFlatTree(data)
		require.NoError(t, err)
		require.Len(t, nodes, 2*n-1)

		// fold the leaf level pairwise with the reference hash
		level := make([]common.Hash, n)
		for i, v := range data {
			level[i] = refLeaf(v)
		}
		for len(level) > 1 {
			next := make([]common.Hash, 0, len(level)/2)
			for i := 0; i < len(level); i += 2 {
				h := refHash(level[i][:], level[i+1][:])
				next = append(next, h)
			}
			level = next
		}
		require.Equal(t, level[0], Root(nodes), "leaf count %d", n)
	}
}

func TestBuildFlatTreeInvalidLength(t *testing.T) {
	for _, n := range []int{0, 3, 5, 6, 7, 12} {
		_, err := BuildFlatTree(make([]int32, n))
		require.ErrorIs(t, err, ErrInvalidDataLength, "length %d", n)
	}
}

func TestProofRoundTrip(t *testing.T) {
	for _, data := range [][]int32{
		{42},
		{1, 2},
		{1, 2, 3, 4},
		{-8, -7, -6, -5, -4, -3, -2, -1},
	} {
		nodes, err := BuildFlatTree(data)
		require.NoError(t, err)
		root := Root(nodes)

		for _, value := range data {
			proof, err := GenerateProof(nodes, value)
			require.NoError(t, err)
			require.Equal(t, value, proof.Data)
			require.True(t, VerifyProof(root, proof))
			// verification reads only, repeating it changes nothing
			require.True(t, VerifyProof(root, proof))
		}
	}
}

func TestProofSingleLeaf(t *testing.T) {
	nodes, err := BuildFlatTree([]int32{42})
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	proof, err := GenerateProof(nodes, 42)
	require.NoError(t, err)
	require.Empty(t, proof.Siblings)
	require.True(t, VerifyProof(Root(nodes), proof))
}

func TestTamperedProof(t *testing.T) {
	nodes, err := BuildFlatTree([]int32{1, 2, 3, 4})
	require.NoError(t, err)
	root := Root(nodes)

	proof, err := GenerateProof(nodes, 1)
	require.NoError(t, err)
	require.Len(t, proof.Siblings, 2)

	for i := range proof.Siblings {
		tampered := Proof{
			Data:     proof.Data,
			Index:    proof.Index,
			Siblings: append([]common.Hash{}, proof.Siblings...),
		}
		tampered.Siblings[i] = common.HexToHash("0xdeadbeef")
		require.False(t, VerifyProof(root, tampered), "sibling %d", i)
	}

	// wrong value and wrong index are rejected as well
	require.False(t, VerifyProof(root, Proof{Data: 5, Index: proof.Index, Siblings: proof.Siblings}))
	require.False(t, VerifyProof(root, Proof{Data: proof.Data, Index: proof.Index + 1, Siblings: proof.Siblings}))

	// structurally malformed proofs yield false, not a crash
	require.False(t, VerifyProof(root, Proof{Data: proof.Data, Index: proof.Index}))
	require.False(t, VerifyProof(root, Proof{Data: proof.Data, Index: proof.Index, Siblings: proof.Siblings[:1]}))
}

func TestUnknownLeaf(t *testing.T) {
	nodes, err := BuildFlatTree([]int32{1, 2, 3, 4})
	require.NoError(t, err)

	_, err = GenerateProof(nodes, 6)
	require.ErrorIs(t, err, ErrInvalidProofInput)
}

func TestDuplicateLeavesFirstMatch(t *testing.T) {
	nodes, err := BuildFlatTree([]int32{7, 7, 5, 5})
	require.NoError(t, err)

	proof, err := GenerateProof(nodes, 7)
	require.NoError(t, err)
	require.Equal(t, uint32(0), proof.Index)
	require.True(t, VerifyProof(Root(nodes), proof))

	proof, err = GenerateProof(nodes, 5)
	require.NoError(t, err)
	require.Equal(t, uint32(2), proof.Index)
	require.True(t, VerifyProof(Root(nodes), proof))
}

func TestDeterministicConstruction(t *testing.T) {
	data := []int32{10, 20, 30, 40, 50, 60, 70, 80}
	first, err := BuildFlatTree(data)
	require.NoError(t, err)
	second, err := BuildFlatTree(data)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
