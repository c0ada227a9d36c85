package registry

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/vocdoni/arbo"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"

	"github.com/kamiyo-ai/kamiyo-zk/crypto/fields"
	"github.com/kamiyo-ai/kamiyo-zk/log"
	"github.com/kamiyo-ai/kamiyo-zk/types"
)

const (
	treePrefix  = "rt_"
	indexPrefix = "ri_"
)

var (
	// ErrCommitmentNotFound is returned when a commitment is not a leaf of
	// the registry tree.
	ErrCommitmentNotFound = fmt.Errorf("commitment not found in the registry")
	// ErrCommitmentExists is returned by Add when the commitment is already
	// registered.
	ErrCommitmentExists = fmt.Errorf("commitment already registered")
	// ErrRegistryFull is returned by Add once the tree has no free leaves.
	ErrRegistryFull = fmt.Errorf("registry tree is full")
)

// keyLen is the byte length of leaf index keys for the configured depth.
const keyLen = (types.AgentTreeMaxLevels + 7) / 8

// Registry is the persistent, append-only merkle tree of agent identity
// commitments. Leaves are keyed by insertion index, so direction bits are
// the bits of the leaf position. It implements Provider.
type Registry struct {
	mu   sync.Mutex
	db   db.Database
	tree *arbo.Tree
	size int64
}

// New opens (or creates) the registry tree on the given database.
func New(database db.Database) (*Registry, error) {
	tree, err := arbo.NewTree(arbo.Config{
		Database:     prefixeddb.NewPrefixedDatabase(database, []byte(treePrefix)),
		MaxLevels:    types.AgentTreeMaxLevels,
		HashFunction: arbo.HashFunctionPoseidon,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open registry tree: %w", err)
	}
	size, err := tree.GetNLeafs()
	if err != nil {
		return nil, fmt.Errorf("cannot read registry size: %w", err)
	}
	return &Registry{
		db:   database,
		tree: tree,
		size: int64(size),
	}, nil
}

// Add appends an identity commitment to the registry and returns its leaf
// index. Out-of-field commitments are rejected before touching the tree.
func (r *Registry) Add(commitment *big.Int) (int64, error) {
	if err := fields.CheckScalar("commitment", commitment); err != nil {
		return 0, err
	}
	if commitment.Sign() == 0 {
		return 0, fmt.Errorf("%w: commitment must be a positive field element", types.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size >= 1<<types.AgentTreeMaxLevels {
		return 0, ErrRegistryFull
	}
	if _, err := r.indexOf(commitment); err == nil {
		return 0, ErrCommitmentExists
	}

	index := r.size
	key := arbo.BigIntToBytes(keyLen, big.NewInt(index))
	value := arbo.BigIntToBytes(types.SerializedFieldSize, commitment)
	// The tree leaf and the index entry commit in a single transaction, so a
	// failed write cannot leave the tree ahead of the index map.
	wtx := r.db.WriteTx()
	defer wtx.Discard()
	if err := r.tree.AddWithTx(prefixeddb.NewPrefixedWriteTx(wtx, []byte(treePrefix)), key, value); err != nil {
		return 0, fmt.Errorf("cannot add commitment to registry tree: %w", err)
	}
	indexTx := prefixeddb.NewPrefixedWriteTx(wtx, []byte(indexPrefix))
	if err := indexTx.Set(value, key); err != nil {
		return 0, fmt.Errorf("cannot store commitment index: %w", err)
	}
	if err := wtx.Commit(); err != nil {
		return 0, fmt.Errorf("cannot commit registry write: %w", err)
	}
	r.size++
	log.Debugw("commitment registered", "index", index, "size", r.size)
	return index, nil
}

// Size returns the number of registered commitments.
func (r *Registry) Size() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Root returns the current registry tree root as a field element.
func (r *Registry) Root() (*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	root, err := r.tree.Root()
	if err != nil {
		return nil, fmt.Errorf("cannot read registry root: %w", err)
	}
	return arbo.BytesToBigInt(root), nil
}

// GenProof returns the merkle membership proof for the given commitment. The
// sibling vector is padded with zeros to the configured depth and the
// direction bits are the bits of the leaf index, least significant first.
func (r *Registry) GenProof(leaf *big.Int) (*Proof, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, err := r.indexOf(leaf)
	if err != nil {
		return nil, err
	}
	key := arbo.BigIntToBytes(keyLen, big.NewInt(index))
	_, _, packedSiblings, existence, err := r.tree.GenProof(key)
	if err != nil {
		return nil, fmt.Errorf("cannot generate registry proof: %w", err)
	}
	if !existence {
		return nil, ErrCommitmentNotFound
	}
	rawSiblings, err := arbo.UnpackSiblings(arbo.HashFunctionPoseidon, packedSiblings)
	if err != nil {
		return nil, fmt.Errorf("cannot unpack registry proof siblings: %w", err)
	}

	siblings := make([]*big.Int, types.AgentTreeMaxLevels)
	indices := make([]uint8, types.AgentTreeMaxLevels)
	for level := 0; level < types.AgentTreeMaxLevels; level++ {
		if level < len(rawSiblings) {
			siblings[level] = arbo.BytesToBigInt(rawSiblings[level])
		} else {
			siblings[level] = big.NewInt(0)
		}
		indices[level] = uint8(index >> level & 1)
	}
	root, err := r.tree.Root()
	if err != nil {
		return nil, fmt.Errorf("cannot read registry root: %w", err)
	}
	return &Proof{
		Siblings: siblings,
		Indices:  indices,
		Root:     arbo.BytesToBigInt(root),
	}, nil
}

// CheckProof verifies the packed arbo proof of a commitment against the
// given root. Used by tests and by the API to sanity check proofs before
// returning them.
func (r *Registry) CheckProof(leaf *big.Int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, err := r.indexOf(leaf)
	if err != nil {
		return false, err
	}
	key := arbo.BigIntToBytes(keyLen, big.NewInt(index))
	_, value, packedSiblings, existence, err := r.tree.GenProof(key)
	if err != nil {
		return false, err
	}
	if !existence {
		return false, ErrCommitmentNotFound
	}
	root, err := r.tree.Root()
	if err != nil {
		return false, err
	}
	return arbo.CheckProof(arbo.HashFunctionPoseidon, key, value, root, packedSiblings)
}

// indexOf looks up the leaf index of a commitment. Callers must hold mu.
func (r *Registry) indexOf(commitment *big.Int) (int64, error) {
	reader := prefixeddb.NewPrefixedReader(r.db, []byte(indexPrefix))
	value, err := reader.Get(arbo.BigIntToBytes(types.SerializedFieldSize, commitment))
	if err != nil {
		return 0, ErrCommitmentNotFound
	}
	return arbo.BytesToBigInt(value).Int64(), nil
}
