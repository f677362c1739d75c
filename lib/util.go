package lib

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/Salvionied/cbor/v2"
)

var (
	// cborEncoder is the deterministic (RFC 8949 core) cbor encoding mode
	cborEncoder = mustEncMode(cbor.CoreDetEncOptions())
	// cborDecoder rejects duplicate map keys and indefinite lengths
	cborDecoder = mustDecMode(cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	})
)

// Marshal() serializes a value into deterministic cbor bytes
func Marshal(message any) ([]byte, ErrorI) {
	bz, err := cborEncoder.Marshal(message)
	if err != nil {
		return nil, ErrMarshal(err)
	}
	return bz, nil
}

// Unmarshal() deserializes cbor bytes into the pointer
func Unmarshal(data []byte, ptr any) ErrorI {
	if data == nil || ptr == nil {
		return nil
	}
	if err := cborDecoder.Unmarshal(data, ptr); err != nil {
		return ErrUnmarshal(err)
	}
	return nil
}

// MarshalJSON() serializes a message into a JSON byte slice
func MarshalJSON(message any) ([]byte, ErrorI) {
	bz, err := json.Marshal(message)
	if err != nil {
		return nil, ErrJSONMarshal(err)
	}
	return bz, nil
}

// MarshalJSONIndent() serializes a message into an indented JSON byte slice
func MarshalJSONIndent(message any) ([]byte, ErrorI) {
	bz, err := json.MarshalIndent(message, "", "  ")
	if err != nil {
		return nil, ErrJSONMarshal(err)
	}
	return bz, nil
}

// MarshalJSONIndentString() serializes a message into an indented JSON string
func MarshalJSONIndentString(message any) (string, ErrorI) {
	bz, err := MarshalJSONIndent(message)
	return string(bz), err
}

// UnmarshalJSON() deserializes a JSON byte slice into the specified object
func UnmarshalJSON(bz []byte, ptr any) ErrorI {
	if err := json.Unmarshal(bz, ptr); err != nil {
		return ErrJSONUnmarshal(err)
	}
	return nil
}

// NewJSONFromFile() reads a json object from file
func NewJSONFromFile(o any, dataDirPath, filePath string) ErrorI {
	bz, err := os.ReadFile(filepath.Join(dataDirPath, filePath))
	if err != nil {
		return ErrReadFile(err)
	}
	return UnmarshalJSON(bz, o)
}

// SaveJSONToFile() saves a json object to a file
func SaveJSONToFile(j any, dataDirPath, filePath string) (err ErrorI) {
	bz, err := MarshalJSONIndent(j)
	if err != nil {
		return
	}
	if e := os.WriteFile(filepath.Join(dataDirPath, filePath), bz, 0600); e != nil {
		return ErrWriteFile(e)
	}
	return
}

// BytesToString() converts a byte slice to a hexadecimal string
func BytesToString(b []byte) string {
	return hex.EncodeToString(b)
}

// StringToBytes() converts a hexadecimal string back into a byte slice
func StringToBytes(s string) ([]byte, ErrorI) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrStringToBytes(err)
	}
	return b, nil
}

// HexBytes represents a byte slice that can be marshaled and unmarshalled as hex strings
type HexBytes []byte

// String() returns the HexBytes as a hexadecimal string
func (x HexBytes) String() string { return BytesToString(x) }

// MarshalJSON() serializes the HexBytes to a JSON byte slice
func (x HexBytes) MarshalJSON() ([]byte, error) { return json.Marshal(BytesToString(x)) }

// UnmarshalJSON() deserializes a JSON byte slice into HexBytes
func (x *HexBytes) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return err
	}
	bz, e := StringToBytes(s)
	if e != nil {
		return e
	}
	*x = bz
	return
}

// CatchPanic() converts a panic in the calling function into an ErrorI, logging the stack
// usage: defer CatchPanic(l, &err)
func CatchPanic(l LoggerI, err *ErrorI) {
	if r := recover(); r != nil {
		if l != nil {
			l.Errorf("recovered from panic: %v\n%s", r, string(debug.Stack()))
		}
		if err != nil {
			*err = ErrPanic(r)
		}
	}
}

// AppendCBORHead() writes a cbor item head with the shortest argument encoding
func AppendCBORHead(out []byte, major byte, n uint64) []byte {
	switch {
	case n < 24:
		return append(out, major|byte(n))
	case n <= 0xFF:
		return append(out, major|24, byte(n))
	case n <= 0xFFFF:
		return append(out, major|25, byte(n>>8), byte(n))
	case n <= 0xFFFFFFFF:
		return append(out, major|26, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	default:
		return append(out, major|27, byte(n>>56), byte(n>>48), byte(n>>40), byte(n>>32),
			byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	}
}

// ReadCBORHead() parses the head of a definite length cbor item
// It returns the major type (in the top 3 bits), the argument and the size of the head
func ReadCBORHead(bz []byte) (major byte, n uint64, size int, err ErrorI) {
	if len(bz) == 0 {
		return 0, 0, 0, ErrUnmarshal(errors.New("empty cbor item"))
	}
	major, info := bz[0]&0xE0, bz[0]&0x1F
	switch {
	case info < 24:
		return major, uint64(info), 1, nil
	case info > 27:
		return 0, 0, 0, ErrUnmarshal(fmt.Errorf("unsupported cbor additional info %d", info))
	}
	size = 1 << (info - 24)
	if len(bz) < 1+size {
		return 0, 0, 0, ErrUnmarshal(errors.New("truncated cbor head"))
	}
	for _, b := range bz[1 : 1+size] {
		n = n<<8 | uint64(b)
	}
	return major, n, 1 + size, nil
}

func mustEncMode(o cbor.EncOptions) cbor.EncMode {
	em, err := o.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

func mustDecMode(o cbor.DecOptions) cbor.DecMode {
	dm, err := o.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}
