package lib

import (
	"fmt"
	"math"
)

type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // Error code
	EModule ErrorModule `json:"module"` // Error module
	Msg     string      `json:"msg"`    // Error message
}

func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	// Constructs a new Error instance
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

// Is() allows errors.Is to match two errors of the same module and code
func (p *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.ECode == p.ECode && t.EModule == p.EModule
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeJSONMarshal     ErrorCode = 1
	CodeJSONUnmarshal   ErrorCode = 2
	CodeUnmarshal       ErrorCode = 3
	CodeMarshal         ErrorCode = 4
	CodeStringToBytes   ErrorCode = 5
	CodeWriteFile       ErrorCode = 6
	CodeReadFile        ErrorCode = 7
	CodeInvalidArgument ErrorCode = 8

	// Crypto Module
	CryptoModule ErrorModule = "crypto"

	// Crypto Module Error Codes
	CodeInvalidLength          ErrorCode = 1
	CodeInvalidDerivation      ErrorCode = 2
	CodeInvalidSignature       ErrorCode = 3
	CodeInvalidSignatureLength ErrorCode = 4
	CodeInvalidPublicKeyLength ErrorCode = 5
	CodeInvalidPublicKey       ErrorCode = 6
	CodeInvalidScalar          ErrorCode = 7
	CodeInvalidMnemonic        ErrorCode = 8
	CodeInvalidEntropy         ErrorCode = 9
	CodeInvalidDerivationPath  ErrorCode = 10
	CodeBech32                 ErrorCode = 11
	CodeWrongBech32Prefix      ErrorCode = 12
	CodeKeyNotFound            ErrorCode = 13
	CodeInvalidPassword        ErrorCode = 14

	// Address Module
	AddressModule ErrorModule = "address"

	// Address Module Error Codes
	CodeInvalidAddressHeader ErrorCode = 1
	CodeInvalidAddressLength ErrorCode = 2
	CodeMalformedPointer     ErrorCode = 3
	CodeInvalidNetworkID     ErrorCode = 4
	CodeInvalidCredential    ErrorCode = 5
	CodeCredentialMismatch   ErrorCode = 6
	CodeInvalidByronAddress  ErrorCode = 7
	CodeByronChecksum        ErrorCode = 8
	CodeInvalidAddressString ErrorCode = 9
	CodeInvalidHashLength    ErrorCode = 10

	// Asset Module
	AssetModule ErrorModule = "asset"

	// Asset Module Error Codes
	CodeQuantityOverflow   ErrorCode = 1
	CodeQuantityUnderflow  ErrorCode = 2
	CodeInvalidAssetName   ErrorCode = 3
	CodeInvalidPolicyID    ErrorCode = 4
	CodeInvalidMultiAsset  ErrorCode = 5
	CodeCoinOverflow       ErrorCode = 6
	CodeCoinUnderflow      ErrorCode = 7
	CodeInvalidValue       ErrorCode = 8
	CodeZeroQuantityEntry  ErrorCode = 9
	CodeNonCanonicalAssets ErrorCode = 10

	// Network Module
	NetworkModule ErrorModule = "network"

	// Network Module Error Codes
	CodeUnknownNetwork ErrorCode = 1

	// Fee Module
	FeeModule ErrorModule = "fee"

	// Fee Module Error Codes
	CodeFeeOverflow ErrorCode = 1

	// Transaction Module
	TxModule ErrorModule = "tx"

	// Transaction Module Error Codes
	CodeInvalidTxHash       ErrorCode = 1
	CodeInvalidWitness      ErrorCode = 2
	CodeInvalidOutput       ErrorCode = 3
	CodeNotByronAddress     ErrorCode = 4
	CodeBadWitnessSignature ErrorCode = 5
	CodeInvalidMetadata     ErrorCode = 6

	// Wallet Module
	WalletModule ErrorModule = "wallet"

	// Wallet Module Error Codes
	CodeAccountNotInCache ErrorCode = 1
	CodeAddressNotInCache ErrorCode = 2
	CodeAddressUsage      ErrorCode = 3

	// Boundary Module
	BoundaryModule ErrorModule = "boundary"

	// Boundary Module Error Codes
	CodePanic           ErrorCode = 1
	CodeInvalidHandle   ErrorCode = 2
	CodeWrongHandleType ErrorCode = 3
)

// MAIN MODULE ERRORS BELOW

func ErrUnmarshal(err error) ErrorI {
	return NewError(CodeUnmarshal, MainModule, fmt.Sprintf("unmarshal() failed with err: %s", err.Error()))
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("json.unmarshal() failed with err: %s", err.Error()))
}

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("json.marshal() failed with err: %s", err.Error()))
}

func ErrMarshal(err error) ErrorI {
	return NewError(CodeMarshal, MainModule, fmt.Sprintf("marshal() failed with err: %s", err.Error()))
}

func ErrStringToBytes(err error) ErrorI {
	return NewError(CodeStringToBytes, MainModule, fmt.Sprintf("stringToBytes() failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, MainModule, fmt.Sprintf("os.WriteFile() failed with err: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, MainModule, fmt.Sprintf("os.ReadFile() failed with err: %s", err.Error()))
}

func ErrInvalidArgument() ErrorI {
	return NewError(CodeInvalidArgument, MainModule, "the argument is invalid")
}

// CRYPTO MODULE ERRORS BELOW

func ErrInvalidLength(what string, expected, got int) ErrorI {
	return NewError(CodeInvalidLength, CryptoModule, fmt.Sprintf("invalid %s length: expected %d, got %d", what, expected, got))
}

func ErrInvalidDerivation(index uint32) ErrorI {
	return NewError(CodeInvalidDerivation, CryptoModule, fmt.Sprintf("hardened index %d cannot be derived from a public key", index))
}

func ErrInvalidSignature() ErrorI {
	return NewError(CodeInvalidSignature, CryptoModule, "invalid signature")
}

func ErrInvalidSignatureLength(got int) ErrorI {
	return NewError(CodeInvalidSignatureLength, CryptoModule, fmt.Sprintf("signature must be 64 bytes, got %d", got))
}

func ErrInvalidPublicKeyLength(got int) ErrorI {
	return NewError(CodeInvalidPublicKeyLength, CryptoModule, fmt.Sprintf("public key must be 32 bytes, got %d", got))
}

func ErrInvalidPublicKey(err error) ErrorI {
	return NewError(CodeInvalidPublicKey, CryptoModule, fmt.Sprintf("public key is not a valid curve point: %s", err.Error()))
}

func ErrInvalidScalar(reason string) ErrorI {
	return NewError(CodeInvalidScalar, CryptoModule, "invalid extended scalar: "+reason)
}

func ErrInvalidMnemonic(err error) ErrorI {
	return NewError(CodeInvalidMnemonic, CryptoModule, fmt.Sprintf("invalid mnemonic: %s", err.Error()))
}

func ErrInvalidEntropy(size int) ErrorI {
	return NewError(CodeInvalidEntropy, CryptoModule, fmt.Sprintf("entropy of %d bytes is not in [16, 32] or not a multiple of 4", size))
}

func ErrInvalidDerivationPath(path string) ErrorI {
	return NewError(CodeInvalidDerivationPath, CryptoModule, fmt.Sprintf("invalid derivation path %q", path))
}

func ErrBech32(err error) ErrorI {
	return NewError(CodeBech32, CryptoModule, fmt.Sprintf("bech32 failed with err: %s", err.Error()))
}

func ErrWrongBech32Prefix(expected, got string) ErrorI {
	return NewError(CodeWrongBech32Prefix, CryptoModule, fmt.Sprintf("expected bech32 prefix %s, got %s", expected, got))
}

func ErrKeyNotFound(idOrNickname string) ErrorI {
	return NewError(CodeKeyNotFound, CryptoModule, fmt.Sprintf("key %q not found in keystore", idOrNickname))
}

func ErrInvalidPassword(err error) ErrorI {
	return NewError(CodeInvalidPassword, CryptoModule, fmt.Sprintf("unable to decrypt key: %s", err.Error()))
}

// ADDRESS MODULE ERRORS BELOW

func ErrInvalidAddressHeader(header byte) ErrorI {
	return NewError(CodeInvalidAddressHeader, AddressModule, fmt.Sprintf("unrecognized address header type %d", header>>4))
}

func ErrInvalidAddressLength(expected, got int) ErrorI {
	return NewError(CodeInvalidAddressLength, AddressModule, fmt.Sprintf("address length mismatch: expected %d, got %d", expected, got))
}

func ErrMalformedPointer(reason string) ErrorI {
	return NewError(CodeMalformedPointer, AddressModule, "malformed pointer: "+reason)
}

func ErrInvalidNetworkID(id uint8) ErrorI {
	return NewError(CodeInvalidNetworkID, AddressModule, fmt.Sprintf("network id %d does not fit in 4 bits", id))
}

func ErrInvalidCredential() ErrorI {
	return NewError(CodeInvalidCredential, AddressModule, "invalid credential")
}

func ErrCredentialMismatch(addrType fmt.Stringer) ErrorI {
	return NewError(CodeCredentialMismatch, AddressModule, fmt.Sprintf("credentials do not match address type %s", addrType))
}

func ErrInvalidByronAddress(err error) ErrorI {
	return NewError(CodeInvalidByronAddress, AddressModule, fmt.Sprintf("invalid byron address: %s", err.Error()))
}

func ErrByronChecksum(expected, got uint32) ErrorI {
	return NewError(CodeByronChecksum, AddressModule, fmt.Sprintf("byron checksum mismatch: expected %d, got %d", expected, got))
}

func ErrInvalidAddressString(s string) ErrorI {
	return NewError(CodeInvalidAddressString, AddressModule, fmt.Sprintf("unable to parse address %q", s))
}

func ErrInvalidHashLength(got int) ErrorI {
	return NewError(CodeInvalidHashLength, AddressModule, fmt.Sprintf("hash must be 28 bytes, got %d", got))
}

// ASSET MODULE ERRORS BELOW

func ErrQuantityOverflow(policy, asset string) ErrorI {
	return NewError(CodeQuantityOverflow, AssetModule, fmt.Sprintf("quantity overflow for %s.%s", policy, asset))
}

func ErrQuantityUnderflow(policy, asset string) ErrorI {
	return NewError(CodeQuantityUnderflow, AssetModule, fmt.Sprintf("quantity underflow for %s.%s", policy, asset))
}

func ErrInvalidAssetName(size int) ErrorI {
	return NewError(CodeInvalidAssetName, AssetModule, fmt.Sprintf("asset name of %d bytes exceeds 32 bytes", size))
}

func ErrInvalidPolicyID(size int) ErrorI {
	return NewError(CodeInvalidPolicyID, AssetModule, fmt.Sprintf("policy id must be 28 bytes, got %d", size))
}

func ErrInvalidMultiAsset(err error) ErrorI {
	return NewError(CodeInvalidMultiAsset, AssetModule, fmt.Sprintf("invalid multi asset: %s", err.Error()))
}

func ErrCoinOverflow() ErrorI {
	return NewError(CodeCoinOverflow, AssetModule, "coin overflow")
}

func ErrCoinUnderflow() ErrorI {
	return NewError(CodeCoinUnderflow, AssetModule, "coin underflow")
}

func ErrInvalidValue(err error) ErrorI {
	return NewError(CodeInvalidValue, AssetModule, fmt.Sprintf("invalid value: %s", err.Error()))
}

func ErrZeroQuantityEntry(policy, asset string) ErrorI {
	return NewError(CodeZeroQuantityEntry, AssetModule, fmt.Sprintf("zero quantity entry for %s.%s", policy, asset))
}

func ErrNonCanonicalAssets() ErrorI {
	return NewError(CodeNonCanonicalAssets, AssetModule, "multi asset bytes are not in canonical form")
}

// NETWORK MODULE ERRORS BELOW

func ErrUnknownNetwork(name string) ErrorI {
	return NewError(CodeUnknownNetwork, NetworkModule, fmt.Sprintf("unknown network %q", name))
}

// FEE MODULE ERRORS BELOW

func ErrFeeOverflow(size uint64) ErrorI {
	return NewError(CodeFeeOverflow, FeeModule, fmt.Sprintf("fee overflow for size %d", size))
}

// TX MODULE ERRORS BELOW

func ErrInvalidTxHash(size int) ErrorI {
	return NewError(CodeInvalidTxHash, TxModule, fmt.Sprintf("transaction hash must be 32 bytes, got %d", size))
}

func ErrInvalidWitness(err error) ErrorI {
	return NewError(CodeInvalidWitness, TxModule, fmt.Sprintf("invalid witness: %s", err.Error()))
}

func ErrInvalidOutput(err error) ErrorI {
	return NewError(CodeInvalidOutput, TxModule, fmt.Sprintf("invalid output: %s", err.Error()))
}

func ErrNotByronAddress() ErrorI {
	return NewError(CodeNotByronAddress, TxModule, "bootstrap witnesses require a byron address")
}

func ErrBadWitnessSignature(indices []int) ErrorI {
	return NewError(CodeBadWitnessSignature, TxModule, fmt.Sprintf("bad witness signatures at %v", indices))
}

func ErrInvalidMetadata(err error) ErrorI {
	return NewError(CodeInvalidMetadata, TxModule, fmt.Sprintf("invalid metadata: %s", err.Error()))
}

// WALLET MODULE ERRORS BELOW

func ErrAccountNotInCache(index uint32) ErrorI {
	return NewError(CodeAccountNotInCache, WalletModule, fmt.Sprintf("account %d not in cache", index))
}

func ErrAddressNotInCache(address string) ErrorI {
	return NewError(CodeAddressNotInCache, WalletModule, fmt.Sprintf("address %s not in cache", address))
}

func ErrAddressUsage(err error) ErrorI {
	return NewError(CodeAddressUsage, WalletModule, fmt.Sprintf("address usage lookup failed with err: %s", err.Error()))
}

// BOUNDARY MODULE ERRORS BELOW

func ErrPanic(r any) ErrorI {
	return NewError(CodePanic, BoundaryModule, fmt.Sprintf("internal fault: %v", r))
}

func ErrInvalidHandle(h uint64) ErrorI {
	return NewError(CodeInvalidHandle, BoundaryModule, fmt.Sprintf("handle %d is unknown or freed", h))
}

func ErrWrongHandleType(h uint64, expected string) ErrorI {
	return NewError(CodeWrongHandleType, BoundaryModule, fmt.Sprintf("handle %d does not hold a %s", h, expected))
}
