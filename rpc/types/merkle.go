package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// Proof is the wire representation of an inclusion proof: the original leaf
// value, its index on the leaf level and the sibling hashes from the leaf
// level up to the root.
type Proof struct {
	Data     int32         `json:"data"`
	Index    uint32        `json:"index"`
	Siblings []common.Hash `json:"siblings"`
}

// TreeRoot is the wire representation of the root of a persisted tree
type TreeRoot struct {
	Owner string      `json:"owner"`
	Root  common.Hash `json:"root"`
}
