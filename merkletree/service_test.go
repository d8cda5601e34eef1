package merkletree

import (
	"context"
	"path"
	"testing"
	"time"

	"github.com/lambdaclass/merkle-tree-service/db"
	"github.com/lambdaclass/merkle-tree-service/log"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *TreeService {
	t.Helper()
	dbPath := path.Join(t.TempDir(), "merkletree.sqlite")
	sut, err := NewTreeService(Config{DBPath: dbPath}, log.WithFields("module", "merkletree-test"))
	require.NoError(t, err)
	return sut
}

func TestServiceCreateAndProve(t *testing.T) {
	ctx := context.Background()
	sut := newTestService(t)

	nodes, err := sut.CreateNewTree(ctx, "alice", []int32{1, 2, 3, 4})
	require.NoError(t, err)
	require.Len(t, nodes, 7)

	root, err := sut.GetRoot(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, Root(nodes), root)

	for _, value := range []int32{1, 2, 3, 4} {
		proof, err := sut.GenerateProof(ctx, "alice", value)
		require.NoError(t, err)
		ok, err := sut.Verify(ctx, "alice", proof)
		require.NoError(t, err)
		require.True(t, ok)
	}

	_, err = sut.GenerateProof(ctx, "alice", 6)
	require.ErrorIs(t, err, ErrInvalidProofInput)
}

func TestServiceInvalidLengthWritesNothing(t *testing.T) {
	ctx := context.Background()
	sut := newTestService(t)

	_, err := sut.CreateNewTree(ctx, "alice", []int32{1, 2, 3, 4, 5})
	require.ErrorIs(t, err, ErrInvalidDataLength)
	_, err = sut.CreateNewTree(ctx, "alice", nil)
	require.ErrorIs(t, err, ErrInvalidDataLength)

	_, err = sut.GetRoot(ctx, "alice")
	require.ErrorIs(t, err, db.ErrNotFound)
	orphans, err := sut.OrphanCount(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(0), orphans)
}

func TestServiceRebuildOrphansPreviousTree(t *testing.T) {
	ctx := context.Background()
	sut := newTestService(t)

	first, err := sut.CreateNewTree(ctx, "alice", []int32{1, 2, 3, 4})
	require.NoError(t, err)
	proofOnFirst, err := sut.GenerateProof(ctx, "alice", 1)
	require.NoError(t, err)

	second, err := sut.CreateNewTree(ctx, "alice", []int32{5, 6, 7, 8})
	require.NoError(t, err)
	require.NotEqual(t, Root(first), Root(second))

	// the registry now points at the new tree
	root, err := sut.GetRoot(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, Root(second), root)

	// a proof against the replaced tree no longer verifies
	ok, err := sut.Verify(ctx, "alice", proofOnFirst)
	require.NoError(t, err)
	require.False(t, ok)

	// the replaced tree is unlinked, not deleted
	orphans, err := sut.OrphanCount(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), orphans)
}

func TestServiceOwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	sut := newTestService(t)

	_, err := sut.CreateNewTree(ctx, "alice", []int32{1, 2, 3, 4})
	require.NoError(t, err)
	_, err = sut.CreateNewTree(ctx, "bob", []int32{5, 6, 7, 8})
	require.NoError(t, err)

	proof, err := sut.GenerateProof(ctx, "alice", 1)
	require.NoError(t, err)
	ok, err := sut.Verify(ctx, "bob", proof)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = sut.GenerateProof(ctx, "bob", 1)
	require.ErrorIs(t, err, ErrInvalidProofInput)
}

func TestServiceVerifyWithoutTree(t *testing.T) {
	ctx := context.Background()
	sut := newTestService(t)

	ok, err := sut.Verify(ctx, "nobody", Proof{Data: 1})
	require.NoError(t, err)
	require.False(t, ok)

	_, err = sut.GenerateProof(ctx, "nobody", 1)
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestServiceRootNotifications(t *testing.T) {
	ctx := context.Background()
	sut := newTestService(t)

	sub := sut.Subscribe("test")
	require.Same(t, sub, sut.Subscribe("test"))

	nodes, err := sut.CreateNewTree(ctx, "alice", []int32{1, 2, 3, 4})
	require.NoError(t, err)

	select {
	case root := <-sub.NewRoot:
		require.Equal(t, Root(nodes), root)
	case <-time.After(time.Second):
		t.Fatal("no root notification received")
	}

	// a rejected build commits nothing and notifies nothing
	_, err = sut.CreateNewTree(ctx, "alice", []int32{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidDataLength)
	select {
	case root := <-sub.NewRoot:
		t.Fatalf("unexpected root notification: %s", root)
	default:
	}
}
