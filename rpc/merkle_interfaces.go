package rpc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lambdaclass/merkle-tree-service/merkletree"
)

// TreeServicer is the interface the endpoints need from the tree service
type TreeServicer interface {
	CreateNewTree(ctx context.Context, owner string, data []int32) ([]common.Hash, error)
	GenerateProof(ctx context.Context, owner string, leafValue int32) (merkletree.Proof, error)
	Verify(ctx context.Context, owner string, proof merkletree.Proof) (bool, error)
	GetRoot(ctx context.Context, owner string) (common.Hash, error)
}
