package crypto

import (
	"crypto/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/canopy-network/cardano/lib"
	"github.com/dgraph-io/ristretto/v2"
	oasisEd25519 "github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"golang.org/x/sync/errgroup"
)

const batchShards = 8

// SignatureCache remembers (public key, message, signature) tuples that already verified
// A nil *SignatureCache is valid and caches nothing
type SignatureCache struct {
	c *ristretto.Cache[string, struct{}]
}

// NewSignatureCache() creates a cache bounded to roughly maxItems entries
func NewSignatureCache(maxItems int64) (*SignatureCache, error) {
	c, err := ristretto.NewCache[string, struct{}](&ristretto.Config[string, struct{}]{
		NumCounters: maxItems * 10, // 10x number of items
		MaxCost:     maxItems,      // cost 1 per item
		BufferItems: 64,            // recommended default
	})
	if err != nil {
		return nil, err
	}
	return &SignatureCache{c: c}, nil
}

// Contains() returns true if the tuple previously verified
func (s *SignatureCache) Contains(t *BatchTuple) bool {
	if s == nil {
		return false
	}
	_, found := s.c.Get(t.Key())
	return found
}

// Add() marks the tuple as verified
func (s *SignatureCache) Add(t *BatchTuple) {
	if s == nil {
		return
	}
	s.c.Set(t.Key(), struct{}{}, 1)
}

// Wait() blocks until buffered writes are applied
func (s *SignatureCache) Wait() {
	if s != nil {
		s.c.Wait()
	}
}

// Close() stops the cache goroutines
func (s *SignatureCache) Close() {
	if s != nil {
		s.c.Close()
	}
}

// BatchVerifier is an efficient, multi-threaded, batch verifier for ed25519 signatures
type BatchVerifier struct {
	shards [batchShards][]BatchTuple
	cache  *SignatureCache
	count  int
}

// BatchTuple is a convenient structure to validate the batch
type BatchTuple struct {
	PublicKey []byte
	Message   []byte
	Signature []byte
	index     int
}

// NewBatchVerifier() constructs a batch verifier; cache may be nil
func NewBatchVerifier(cache *SignatureCache) *BatchVerifier {
	return &BatchVerifier{cache: cache}
}

// Add() adds a tuple to the batch verifier, it's index is the number of prior calls to Add
func (b *BatchVerifier) Add(publicKey, message, signature []byte) {
	t := BatchTuple{PublicKey: publicKey, Message: message, Signature: signature, index: b.count}
	i := b.count % batchShards
	b.shards[i] = append(b.shards[i], t)
	b.count++
}

// Len() returns the number of tuples added
func (b *BatchVerifier) Len() int { return b.count }

// Verify() returns the sorted indices of bad signatures
func (b *BatchVerifier) Verify() []int {
	var mutex sync.Mutex
	var badIndices []int
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range b.shards {
		shard := b.shards[i]
		if len(shard) == 0 {
			continue
		}
		g.Go(func() error {
			if bad := b.verifyShard(shard); len(bad) > 0 {
				mutex.Lock()
				badIndices = append(badIndices, bad...)
				mutex.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	sort.Ints(badIndices)
	return badIndices
}

// VerifyAll() returns an error listing the bad indices, if any
func (b *BatchVerifier) VerifyAll() lib.ErrorI {
	if bad := b.Verify(); len(bad) != 0 {
		return lib.ErrBadWitnessSignature(bad)
	}
	return nil
}

// verifyShard() verifies a group of signatures and returns a list of bad signatures
func (b *BatchVerifier) verifyShard(tuples []BatchTuple) (badIndices []int) {
	verifier := oasisEd25519.NewBatchVerifier()
	var pending []*BatchTuple
	for i := range tuples {
		t := &tuples[i]
		if len(t.PublicKey) != PublicKeySize || len(t.Signature) != SignatureSize {
			badIndices = append(badIndices, t.index)
			continue
		}
		if b.cache.Contains(t) {
			continue
		}
		verifier.AddWithOptions(t.PublicKey, t.Message, t.Signature, verifyOptions)
		pending = append(pending, t)
	}
	if len(pending) == 0 {
		return
	}
	// on failure the per-entry results show exactly which signatures are bad
	_, valid := verifier.Verify(rand.Reader)
	for i, t := range pending {
		if valid[i] {
			b.cache.Add(t)
		} else {
			badIndices = append(badIndices, t.index)
		}
	}
	return
}

// Key() returns a unique string key for the cache
func (bt *BatchTuple) Key() string {
	b := make([]byte, 0, len(bt.PublicKey)+len(bt.Signature)+len(bt.Message))
	b = append(b, bt.PublicKey...)
	b = append(b, bt.Signature...)
	b = append(b, bt.Message...)
	return string(b)
}
