package merkletree

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lambdaclass/merkle-tree-service/db"
	"github.com/lambdaclass/merkle-tree-service/log"
	"github.com/lambdaclass/merkle-tree-service/merkletree/migrations"
	"github.com/russross/meddler"
)

const newRootChanBuffer = 32

// Config holds the configuration of the tree service
type Config struct {
	// DBPath path of the DB
	DBPath string `mapstructure:"DBPath"`
}

// Subscription delivers the root of every tree built after subscribing.
// Delivery is best effort: a subscriber that stops consuming misses roots.
type Subscription struct {
	NewRoot chan common.Hash
}

// TreeService persists one Merkle tree per owner and answers proof and
// verification requests against the persisted trees
type TreeService struct {
	db     *sql.DB
	logger *log.Logger

	mu            sync.RWMutex
	subscriptions map[string]*Subscription
}

type treeRow struct {
	ID        int64         `meddler:"id,pk"`
	LeafCount uint32        `meddler:"leaf_count"`
	Nodes     []common.Hash `meddler:"nodes,hashes"`
}

// NewTreeService runs the migrations and opens the service DB
func NewTreeService(cfg Config, logger *log.Logger) (*TreeService, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0700); err != nil { //nolint:mnd
		return nil, err
	}
	if err := migrations.RunMigrations(cfg.DBPath); err != nil {
		return nil, err
	}
	database, err := db.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return &TreeService{
		db:            database,
		logger:        logger,
		subscriptions: make(map[string]*Subscription),
	}, nil
}

// CreateNewTree builds a Merkle tree over data, persists it as the active
// tree of owner and returns the full flat hash sequence. A previously active
// tree of the same owner is unlinked but its row is kept (see OrphanCount).
// Nothing is written when the input length is rejected.
func (s *TreeService) CreateNewTree(ctx context.Context, owner string, data []int32) ([]common.Hash, error) {
	nodes, err := BuildFlatTree(data)
	if err != nil {
		return nil, err
	}

	tx, err := db.NewTx(ctx, s.db)
	if err != nil {
		return nil, err
	}
	shouldRollback := true
	defer func() {
		if shouldRollback {
			if errRllbck := tx.Rollback(); errRllbck != nil {
				s.logger.Errorf("error while rolling back tx %v", errRllbck)
			}
		}
	}()

	root := Root(nodes)
	tx.AddCommitCallback(func() {
		s.notifyNewRoot(owner, root)
	})

	row := &treeRow{
		LeafCount: uint32(len(data)),
		Nodes:     nodes,
	}
	if err := meddler.Insert(tx, "tree", row); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		`INSERT INTO tree_owner (owner, tree_id) VALUES ($1, $2)
		ON CONFLICT(owner) DO UPDATE SET tree_id = excluded.tree_id;`,
		owner, row.ID,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	shouldRollback = false

	s.logger.Infof("built tree %d for owner %s: %d leaves, root %s", row.ID, owner, row.LeafCount, root)
	return nodes, nil
}

// GenerateProof produces the inclusion proof of leafValue on the active tree
// of owner. Returns db.ErrNotFound if the owner never built a tree and
// ErrInvalidProofInput if the value is not one of its leaves.
func (s *TreeService) GenerateProof(ctx context.Context, owner string, leafValue int32) (Proof, error) {
	row, err := s.getActiveTree(ctx, owner)
	if err != nil {
		return Proof{}, err
	}
	return GenerateProof(row.Nodes, leafValue)
}

// Verify checks proof against the root of the active tree of owner. It only
// reads state: a forged or malformed proof, or an owner without a tree, give
// false rather than an error.
func (s *TreeService) Verify(ctx context.Context, owner string, proof Proof) (bool, error) {
	root, err := s.GetRoot(ctx, owner)
	if errors.Is(err, db.ErrNotFound) {
		// nothing to verify against, the zero root matches no leaf hash
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return VerifyProof(root, proof), nil
}

// GetRoot returns the root of the active tree of owner
func (s *TreeService) GetRoot(ctx context.Context, owner string) (common.Hash, error) {
	row, err := s.getActiveTree(ctx, owner)
	if err != nil {
		return common.Hash{}, err
	}
	return Root(row.Nodes), nil
}

// OrphanCount returns the amount of persisted trees that are no longer the
// active tree of any owner. Rebuilding repoints the owner without deleting
// the previous tree, so this number only grows.
func (s *TreeService) OrphanCount(ctx context.Context) (uint64, error) {
	var count uint64
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tree t
		WHERE NOT EXISTS (SELECT 1 FROM tree_owner o WHERE o.tree_id = t.id);`,
	)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *TreeService) getActiveTree(ctx context.Context, owner string) (*treeRow, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	return s.getActiveTreeWithTx(tx, owner)
}

func (s *TreeService) getActiveTreeWithTx(tx db.Querier, owner string) (*treeRow, error) {
	row := &treeRow{}
	err := meddler.QueryRow(tx, row,
		`SELECT t.* FROM tree t
		INNER JOIN tree_owner o ON o.tree_id = t.id
		WHERE o.owner = $1;`,
		owner,
	)
	if err != nil {
		return nil, db.ReturnErrNotFound(err)
	}
	return row, nil
}

// Subscribe returns a subscription that receives the root of every tree
// built from now on. Subscribing twice with the same id returns the same
// subscription.
func (s *TreeService) Subscribe(id string) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub, ok := s.subscriptions[id]; ok {
		return sub
	}
	sub := &Subscription{
		NewRoot: make(chan common.Hash, newRootChanBuffer),
	}
	s.subscriptions[id] = sub
	return sub
}

func (s *TreeService) notifyNewRoot(owner string, root common.Hash) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, sub := range s.subscriptions {
		select {
		case sub.NewRoot <- root:
		default:
			s.logger.Warnf("subscriber %s is not consuming root notifications, dropping root of %s", id, owner)
		}
	}
}
