package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/0xPolygon/cdk-rpc/rpc"
	"github.com/lambdaclass/merkle-tree-service/log"
	"github.com/lambdaclass/merkle-tree-service/merkletree"
	"github.com/lambdaclass/merkle-tree-service/rpc/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	// MERKLE is the namespace of the merkle tree service
	MERKLE    = "merkle"
	meterName = "github.com/lambdaclass/merkle-tree-service/rpc"
)

// MerkleEndpoints contains implementations for the "merkle" RPC endpoints
type MerkleEndpoints struct {
	logger       *log.Logger
	meter        metric.Meter
	readTimeout  time.Duration
	writeTimeout time.Duration
	trees        TreeServicer
}

// NewMerkleEndpoints returns MerkleEndpoints
func NewMerkleEndpoints(
	logger *log.Logger,
	writeTimeout time.Duration,
	readTimeout time.Duration,
	trees TreeServicer,
) *MerkleEndpoints {
	meter := otel.Meter(meterName)
	return &MerkleEndpoints{
		logger:       logger,
		meter:        meter,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		trees:        trees,
	}
}

// CreateNewTree builds and persists a Merkle tree over data as the active
// tree of owner and returns the full flat hash sequence, levels concatenated
// leaves first, so the caller can check the construction independently.
func (m *MerkleEndpoints) CreateNewTree(owner string, data []int32) (interface{}, rpc.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.writeTimeout)
	defer cancel()

	c, merr := m.meter.Int64Counter("create_new_tree")
	if merr != nil {
		m.logger.Warnf("failed to create create_new_tree counter: %s", merr)
	}
	c.Add(ctx, 1)

	nodes, err := m.trees.CreateNewTree(ctx, owner, data)
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf(
			"failed to create tree for owner %s, error: %s", owner, err),
		)
	}
	return nodes, nil
}

// GenerateProof returns the inclusion proof of leafValue on the active tree of
// owner
func (m *MerkleEndpoints) GenerateProof(owner string, leafValue int32) (interface{}, rpc.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.readTimeout)
	defer cancel()

	c, merr := m.meter.Int64Counter("generate_proof")
	if merr != nil {
		m.logger.Warnf("failed to create generate_proof counter: %s", merr)
	}
	c.Add(ctx, 1)

	proof, err := m.trees.GenerateProof(ctx, owner, leafValue)
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf(
			"failed to generate proof for owner %s and leaf %d, error: %s", owner, leafValue, err),
		)
	}
	return types.Proof{
		Data:     proof.Data,
		Index:    proof.Index,
		Siblings: proof.Siblings,
	}, nil
}

// Verify checks proof against the root of the active tree of owner
func (m *MerkleEndpoints) Verify(owner string, proof types.Proof) (interface{}, rpc.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.readTimeout)
	defer cancel()

	c, merr := m.meter.Int64Counter("verify")
	if merr != nil {
		m.logger.Warnf("failed to create verify counter: %s", merr)
	}
	c.Add(ctx, 1)

	ok, err := m.trees.Verify(ctx, owner, merkletree.Proof{
		Data:     proof.Data,
		Index:    proof.Index,
		Siblings: proof.Siblings,
	})
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf(
			"failed to verify proof for owner %s, error: %s", owner, err),
		)
	}
	return ok, nil
}

// Root returns the root of the active tree of owner
func (m *MerkleEndpoints) Root(owner string) (interface{}, rpc.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.readTimeout)
	defer cancel()

	c, merr := m.meter.Int64Counter("root")
	if merr != nil {
		m.logger.Warnf("failed to create root counter: %s", merr)
	}
	c.Add(ctx, 1)

	root, err := m.trees.GetRoot(ctx, owner)
	if err != nil {
		return nil, rpc.NewRPCError(rpc.DefaultErrorCode, fmt.Sprintf(
			"failed to get root for owner %s, error: %s", owner, err),
		)
	}
	return types.TreeRoot{Owner: owner, Root: root}, nil
}
