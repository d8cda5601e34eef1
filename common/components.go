package common

const (
	// RPC name to identify the rpc component
	RPC = "rpc"
	// TREE_SERVICE name to identify the merkle tree service component
	TREE_SERVICE = "tree-service" //nolint:stylecheck
)
