package crypto

import (
	"strconv"
	"strings"

	"github.com/canopy-network/cardano/lib"
)

const (
	// HardenedOffset is the first hardened child index (2^31)
	HardenedOffset uint32 = 1 << 31

	PurposeCIP1852 uint32 = 1852 // shelley wallets
	PurposeBIP44   uint32 = 44   // byron icarus wallets
	CoinTypeADA    uint32 = 1815

	RoleExternal uint32 = 0 // receiving addresses
	RoleInternal uint32 = 1 // change addresses
	RoleStaking  uint32 = 2 // stake keys
)

// Harden() returns the hardened version of an index
func Harden(index uint32) uint32 { return index | HardenedOffset }

// IsHardened() returns true if the index is in the hardened range
func IsHardened(index uint32) bool { return index >= HardenedOffset }

// DerivationPath is a sequence of child indices starting at the master key
type DerivationPath []uint32

// AccountPath() returns m/1852'/1815'/account'
func AccountPath(account uint32) DerivationPath {
	return DerivationPath{Harden(PurposeCIP1852), Harden(CoinTypeADA), Harden(account)}
}

// ParseDerivationPath() parses "m/1852'/1815'/0'/0/0"
// Hardened components may be marked with ', h or H
func ParseDerivationPath(path string) (DerivationPath, lib.ErrorI) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, lib.ErrInvalidDerivationPath(path)
	}
	out := make(DerivationPath, 0, len(parts)-1)
	for _, p := range parts[1:] {
		hardened := false
		if n := len(p); n > 0 && (p[n-1] == '\'' || p[n-1] == 'h' || p[n-1] == 'H') {
			hardened, p = true, p[:n-1]
		}
		i, err := strconv.ParseUint(p, 10, 32)
		if err != nil || uint32(i) >= HardenedOffset {
			return nil, lib.ErrInvalidDerivationPath(path)
		}
		index := uint32(i)
		if hardened {
			index = Harden(index)
		}
		out = append(out, index)
	}
	return out, nil
}

// String() renders the path using the ' hardened marker
func (d DerivationPath) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, i := range d {
		b.WriteByte('/')
		if IsHardened(i) {
			b.WriteString(strconv.FormatUint(uint64(i-HardenedOffset), 10))
			b.WriteByte('\'')
		} else {
			b.WriteString(strconv.FormatUint(uint64(i), 10))
		}
	}
	return b.String()
}

// Child() returns a copy of the path with the index appended
func (d DerivationPath) Child(index uint32) DerivationPath {
	out := make(DerivationPath, len(d), len(d)+1)
	copy(out, d)
	return append(out, index)
}

// MarshalText() renders the path in json as its string form
func (d DerivationPath) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText() implements encoding.TextUnmarshaler for DerivationPath
func (d *DerivationPath) UnmarshalText(text []byte) error {
	path, err := ParseDerivationPath(string(text))
	if err != nil {
		return err
	}
	*d = path
	return nil
}
