package tx

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/canopy-network/cardano/lib"
	"github.com/canopy-network/cardano/lib/crypto"
)

/*
	Transaction metadata is a map of unsigned labels to metadatum trees. A metadatum is an integer in
	[-2^64, 2^64-1], a byte or text string of at most 64 bytes, a list or a map of metadatum to metadatum.
	Map keys may themselves be lists or maps so they're kept as ordered pairs and the map head is written
	here; everything else goes through the deterministic encoder.
*/

// MetadataMaxLength bounds the encoded size of a bytes or text metadatum
const MetadataMaxLength = 64

const (
	cborMajorUint   byte = 0 << 5
	cborMajorNegInt byte = 1 << 5
	cborMajorBytes  byte = 2 << 5
	cborMajorText   byte = 3 << 5
	cborMajorArray  byte = 4 << 5
	cborMajorMap    byte = 5 << 5
)

var (
	metadatumMaxInt = new(big.Int).SetUint64(1<<64 - 1)
	metadatumMinInt = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 64))
)

// MetadatumKind tags the variant held by a Metadatum
type MetadatumKind uint8

const (
	MetadatumInt MetadatumKind = iota
	MetadatumBytes
	MetadatumText
	MetadatumList
	MetadatumMap
)

func (k MetadatumKind) String() string {
	switch k {
	case MetadatumInt:
		return "int"
	case MetadatumBytes:
		return "bytes"
	case MetadatumText:
		return "text"
	case MetadatumList:
		return "list"
	case MetadatumMap:
		return "map"
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

// Metadatum is one node of a metadata tree; only the field matching Kind is meaningful
type Metadatum struct {
	Kind  MetadatumKind
	Int   *big.Int
	Bytes []byte
	Text  string
	List  []Metadatum
	Map   []MetadataPair
}

// MetadataPair is one entry of a map metadatum
type MetadataPair struct {
	Key   Metadatum
	Value Metadatum
}

// Metadata is the labeled metadata attached to a transaction
type Metadata map[uint64]Metadatum

func NewIntMetadatum(v int64) Metadatum { return Metadatum{Kind: MetadatumInt, Int: big.NewInt(v)} }

// NewBigIntMetadatum() accepts integers in [-2^64, 2^64-1]
func NewBigIntMetadatum(v *big.Int) (Metadatum, lib.ErrorI) {
	m := Metadatum{Kind: MetadatumInt, Int: new(big.Int).Set(v)}
	return m, m.Validate()
}

func NewBytesMetadatum(bz []byte) (Metadatum, lib.ErrorI) {
	m := Metadatum{Kind: MetadatumBytes, Bytes: bytes.Clone(bz)}
	return m, m.Validate()
}

func NewTextMetadatum(s string) (Metadatum, lib.ErrorI) {
	m := Metadatum{Kind: MetadatumText, Text: s}
	return m, m.Validate()
}

func NewListMetadatum(items ...Metadatum) Metadatum {
	return Metadatum{Kind: MetadatumList, List: slices.Clone(items)}
}

func NewMapMetadatum(pairs ...MetadataPair) Metadatum {
	return Metadatum{Kind: MetadatumMap, Map: slices.Clone(pairs)}
}

// Validate() checks sizes and ranges through the whole tree and rejects duplicate map keys
func (m Metadatum) Validate() lib.ErrorI {
	switch m.Kind {
	case MetadatumInt:
		if m.Int == nil {
			return lib.ErrInvalidMetadata(errors.New("missing integer"))
		}
		if m.Int.Cmp(metadatumMaxInt) > 0 || m.Int.Cmp(metadatumMinInt) < 0 {
			return lib.ErrInvalidMetadata(fmt.Errorf("integer %s out of range", m.Int))
		}
	case MetadatumBytes:
		if len(m.Bytes) > MetadataMaxLength {
			return lib.ErrInvalidMetadata(fmt.Errorf("bytes of length %d exceed %d", len(m.Bytes), MetadataMaxLength))
		}
	case MetadatumText:
		if len(m.Text) > MetadataMaxLength {
			return lib.ErrInvalidMetadata(fmt.Errorf("text of length %d exceeds %d", len(m.Text), MetadataMaxLength))
		}
	case MetadatumList:
		for _, item := range m.List {
			if err := item.Validate(); err != nil {
				return err
			}
		}
	case MetadatumMap:
		if _, err := m.encodePairs(); err != nil {
			return err
		}
	default:
		return lib.ErrInvalidMetadata(fmt.Errorf("unknown kind %s", m.Kind))
	}
	return nil
}

// Equals() compares two trees by their encoding, so map entry order doesn't matter
func (m Metadatum) Equals(o Metadatum) bool {
	a, err := lib.Marshal(m)
	if err != nil {
		return false
	}
	b, err := lib.Marshal(o)
	return err == nil && bytes.Equal(a, b)
}

// MarshalCBOR() implements cbor.Marshaler for Metadatum
func (m Metadatum) MarshalCBOR() ([]byte, error) {
	if m.Kind <= MetadatumText {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	var (
		bz  []byte
		err lib.ErrorI
	)
	switch m.Kind {
	case MetadatumInt:
		bz, err = lib.Marshal(m.Int)
	case MetadatumBytes:
		bz, err = lib.Marshal(append([]byte{}, m.Bytes...))
	case MetadatumText:
		bz, err = lib.Marshal(m.Text)
	case MetadatumList:
		bz, err = lib.Marshal(append([]Metadatum{}, m.List...))
	case MetadatumMap:
		bz, err = m.encodePairs()
	default:
		err = lib.ErrInvalidMetadata(fmt.Errorf("unknown kind %s", m.Kind))
	}
	if err != nil {
		return nil, err
	}
	return bz, nil
}

// encodePairs() writes the map with entries sorted by their encoded keys
func (m Metadatum) encodePairs() ([]byte, lib.ErrorI) {
	type entry struct{ key, value []byte }
	entries := make([]entry, 0, len(m.Map))
	for _, p := range m.Map {
		k, err := lib.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := lib.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{k, v})
	}
	slices.SortFunc(entries, func(a, b entry) int { return bytes.Compare(a.key, b.key) })
	out := lib.AppendCBORHead(nil, cborMajorMap, uint64(len(entries)))
	for i, e := range entries {
		if i > 0 && bytes.Equal(entries[i-1].key, e.key) {
			return nil, lib.ErrInvalidMetadata(fmt.Errorf("duplicate map key %x", e.key))
		}
		out = append(append(out, e.key...), e.value...)
	}
	return out, nil
}

// UnmarshalCBOR() implements cbor.Unmarshaler for Metadatum
func (m *Metadatum) UnmarshalCBOR(bz []byte) error {
	major, n, size, err := lib.ReadCBORHead(bz)
	if err != nil {
		return err
	}
	var got Metadatum
	switch major {
	case cborMajorUint, cborMajorNegInt:
		got = Metadatum{Kind: MetadatumInt, Int: new(big.Int)}
		err = lib.Unmarshal(bz, got.Int)
	case cborMajorBytes:
		got = Metadatum{Kind: MetadatumBytes, Bytes: []byte{}}
		err = lib.Unmarshal(bz, &got.Bytes)
	case cborMajorText:
		got = Metadatum{Kind: MetadatumText}
		err = lib.Unmarshal(bz, &got.Text)
	case cborMajorArray:
		got = Metadatum{Kind: MetadatumList, List: []Metadatum{}}
		err = lib.Unmarshal(bz, &got.List)
	case cborMajorMap:
		got = Metadatum{Kind: MetadatumMap}
		got.Map, err = decodePairs(bz[size:], n)
	default:
		return lib.ErrInvalidMetadata(fmt.Errorf("unsupported cbor major type %d", major>>5))
	}
	if err != nil {
		return err
	}
	if err = got.Validate(); err != nil {
		return err
	}
	*m = got
	return nil
}

// decodePairs() reads the n entries following a map head as a list of 2n alternating keys and values
func decodePairs(body []byte, n uint64) ([]MetadataPair, lib.ErrorI) {
	if n > uint64(len(body)) {
		return nil, lib.ErrInvalidMetadata(fmt.Errorf("map of %d entries in %d bytes", n, len(body)))
	}
	items := make([]Metadatum, 0, 2*n)
	if err := lib.Unmarshal(append(lib.AppendCBORHead(nil, cborMajorArray, 2*n), body...), &items); err != nil {
		return nil, err
	}
	pairs := make([]MetadataPair, n)
	for i := range pairs {
		pairs[i] = MetadataPair{Key: items[2*i], Value: items[2*i+1]}
	}
	return pairs, nil
}

// Bytes() returns the cbor encoding of the metadata, labels ascending
func (md Metadata) Bytes() ([]byte, lib.ErrorI) {
	if md == nil {
		md = Metadata{}
	}
	return lib.Marshal(map[uint64]Metadatum(md))
}

// NewMetadataFromBytes() decodes and validates metadata cbor
func NewMetadataFromBytes(bz []byte) (Metadata, lib.ErrorI) {
	md := make(Metadata)
	if err := lib.Unmarshal(bz, (*map[uint64]Metadatum)(&md)); err != nil {
		return nil, err
	}
	return md, nil
}

// Hash() is the blake2b-256 of the metadata encoding
func (md Metadata) Hash() (h Hash, err lib.ErrorI) {
	bz, err := md.Bytes()
	if err != nil {
		return h, err
	}
	hasher := crypto.Hasher()
	hasher.Write(bz)
	copy(h[:], hasher.Sum(nil))
	return h, nil
}
