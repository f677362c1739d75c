package asset

import (
	"math/bits"
	"slices"

	"github.com/canopy-network/cardano/lib"
)

// MultiAsset maps policy ids to named quantities
// Builders (Set, Merge) are single owner: a MultiAsset must not be mutated concurrently
type MultiAsset struct {
	m map[PolicyID]map[AssetName]uint64
}

// NewMultiAsset() returns an empty map
func NewMultiAsset() *MultiAsset {
	return &MultiAsset{m: make(map[PolicyID]map[AssetName]uint64)}
}

// Set() overwrites a quantity; setting zero removes the entry
func (ma *MultiAsset) Set(policy PolicyID, name AssetName, quantity uint64) {
	if ma.m == nil {
		ma.m = make(map[PolicyID]map[AssetName]uint64)
	}
	if quantity == 0 {
		ma.remove(policy, name)
		return
	}
	assets, ok := ma.m[policy]
	if !ok {
		assets = make(map[AssetName]uint64)
		ma.m[policy] = assets
	}
	assets[name] = quantity
}

// Get() returns the quantity, 0 when absent
func (ma *MultiAsset) Get(policy PolicyID, name AssetName) uint64 {
	if ma == nil {
		return 0
	}
	return ma.m[policy][name]
}

// Add() returns a + b without modifying either
func Add(a, b *MultiAsset) (*MultiAsset, lib.ErrorI) {
	out := a.Clone()
	if err := out.Merge(b); err != nil {
		return nil, err
	}
	return out, nil
}

// Sub() returns a - b without modifying either; any negative result is an error
func Sub(a, b *MultiAsset) (*MultiAsset, lib.ErrorI) {
	out := a.Clone()
	for policy, assets := range b.entries() {
		for name, q := range assets {
			have := out.Get(policy, name)
			diff, borrow := bits.Sub64(have, q, 0)
			if borrow != 0 {
				return nil, lib.ErrQuantityUnderflow(policy.String(), name.String())
			}
			out.Set(policy, name, diff)
		}
	}
	return out, nil
}

// Add() is the method form of Add(ma, o)
func (ma *MultiAsset) Add(o *MultiAsset) (*MultiAsset, lib.ErrorI) { return Add(ma, o) }

// Sub() is the method form of Sub(ma, o)
func (ma *MultiAsset) Sub(o *MultiAsset) (*MultiAsset, lib.ErrorI) { return Sub(ma, o) }

// Merge() adds o into ma in place; on overflow ma is left unchanged
func (ma *MultiAsset) Merge(o *MultiAsset) lib.ErrorI {
	// check first so a failed merge doesn't leave a partial result
	for policy, assets := range o.entries() {
		for name, q := range assets {
			if _, carry := bits.Add64(ma.Get(policy, name), q, 0); carry != 0 {
				return lib.ErrQuantityOverflow(policy.String(), name.String())
			}
		}
	}
	for policy, assets := range o.entries() {
		for name, q := range assets {
			ma.Set(policy, name, ma.Get(policy, name)+q)
		}
	}
	return nil
}

// Clone() returns a deep copy
func (ma *MultiAsset) Clone() *MultiAsset {
	out := NewMultiAsset()
	for policy, assets := range ma.entries() {
		cp := make(map[AssetName]uint64, len(assets))
		for name, q := range assets {
			cp[name] = q
		}
		out.m[policy] = cp
	}
	return out
}

// Equals() compares contents, independent of insertion order
func (ma *MultiAsset) Equals(o *MultiAsset) bool {
	if ma.Len() != o.Len() {
		return false
	}
	for policy, assets := range ma.entries() {
		for name, q := range assets {
			if o.Get(policy, name) != q {
				return false
			}
		}
	}
	return true
}

// Len() is the number of (policy, name) entries
func (ma *MultiAsset) Len() (n int) {
	for _, assets := range ma.entries() {
		n += len(assets)
	}
	return
}

// IsEmpty() is true when no entries remain
func (ma *MultiAsset) IsEmpty() bool { return ma.Len() == 0 }

// Policies() returns the policy ids in canonical order
func (ma *MultiAsset) Policies() []PolicyID {
	out := make([]PolicyID, 0, len(ma.entries()))
	for policy := range ma.entries() {
		out = append(out, policy)
	}
	slices.SortFunc(out, PolicyID.Compare)
	return out
}

// AssetNames() returns the names under a policy in canonical order
func (ma *MultiAsset) AssetNames(policy PolicyID) []AssetName {
	assets := ma.entries()[policy]
	out := make([]AssetName, 0, len(assets))
	for name := range assets {
		out = append(out, name)
	}
	slices.SortFunc(out, AssetName.Compare)
	return out
}

// Assets() returns a copy of the quantities under one policy
func (ma *MultiAsset) Assets(policy PolicyID) map[AssetName]uint64 {
	out := make(map[AssetName]uint64)
	for name, q := range ma.entries()[policy] {
		out[name] = q
	}
	return out
}

func (ma *MultiAsset) entries() map[PolicyID]map[AssetName]uint64 {
	if ma == nil {
		return nil
	}
	return ma.m
}

func (ma *MultiAsset) remove(policy PolicyID, name AssetName) {
	assets, ok := ma.m[policy]
	if !ok {
		return
	}
	delete(assets, name)
	if len(assets) == 0 {
		delete(ma.m, policy)
	}
}
