package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/0xPolygon/cdk-rpc/rpc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/lambdaclass/merkle-tree-service/rpc/types"
)

// MerkleClientInterface is the interface that defines the client side
// implementation of the "merkle" endpoints
type MerkleClientInterface interface {
	CreateNewTree(owner string, data []int32) ([]common.Hash, error)
	GenerateProof(owner string, leafValue int32) (*types.Proof, error)
	Verify(owner string, proof types.Proof) (bool, error)
	Root(owner string) (*types.TreeRoot, error)
}

// CreateNewTree builds and persists a Merkle tree over data as the active
// tree of owner. The returned flat hash sequence allows verifying the
// construction locally.
func (c *Client) CreateNewTree(owner string, data []int32) ([]common.Hash, error) {
	response, err := rpc.JSONRPCCall(c.url, "merkle_createNewTree", owner, data)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, fmt.Errorf("%v %v", response.Error.Code, response.Error.Message)
	}
	var result []common.Hash
	return result, json.Unmarshal(response.Result, &result)
}

// GenerateProof returns the inclusion proof of leafValue on the active tree
// of owner
func (c *Client) GenerateProof(owner string, leafValue int32) (*types.Proof, error) {
	response, err := rpc.JSONRPCCall(c.url, "merkle_generateProof", owner, leafValue)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, fmt.Errorf("%v %v", response.Error.Code, response.Error.Message)
	}
	var result types.Proof
	return &result, json.Unmarshal(response.Result, &result)
}

// Verify checks proof against the root of the active tree of owner
func (c *Client) Verify(owner string, proof types.Proof) (bool, error) {
	response, err := rpc.JSONRPCCall(c.url, "merkle_verify", owner, proof)
	if err != nil {
		return false, err
	}
	if response.Error != nil {
		return false, fmt.Errorf("%v %v", response.Error.Code, response.Error.Message)
	}
	var result bool
	return result, json.Unmarshal(response.Result, &result)
}

// Root returns the root of the active tree of owner
func (c *Client) Root(owner string) (*types.TreeRoot, error) {
	response, err := rpc.JSONRPCCall(c.url, "merkle_root", owner)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, fmt.Errorf("%v %v", response.Error.Code, response.Error.Message)
	}
	var result types.TreeRoot
	return &result, json.Unmarshal(response.Result, &result)
}
