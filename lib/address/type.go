package address

import "fmt"

// AddressType is the high nibble of the header byte
type AddressType uint8

const (
	BaseKeyKey       AddressType = 0b0000 // key payment, key stake
	BaseScriptKey    AddressType = 0b0001 // script payment, key stake
	BaseKeyScript    AddressType = 0b0010 // key payment, script stake
	BaseScriptScript AddressType = 0b0011 // script payment, script stake
	PointerKey       AddressType = 0b0100
	PointerScript    AddressType = 0b0101
	EnterpriseKey    AddressType = 0b0110
	EnterpriseScript AddressType = 0b0111
	Byron            AddressType = 0b1000
	RewardKey        AddressType = 0b1110
	RewardScript     AddressType = 0b1111
)

const (
	headerSize = 1
	// MaxNetworkID is the largest id that fits the low nibble
	MaxNetworkID = 0x0F

	baseSize       = headerSize + 2*HashSize
	enterpriseSize = headerSize + HashSize
	rewardSize     = headerSize + HashSize
	// header, payment hash and three single byte varints
	minPointerSize = headerSize + HashSize + 3
)

// ParseAddressType() validates a type nibble; 9 through 13 are unassigned
func ParseAddressType(nibble uint8) (AddressType, bool) {
	switch t := AddressType(nibble); t {
	case BaseKeyKey, BaseScriptKey, BaseKeyScript, BaseScriptScript,
		PointerKey, PointerScript, EnterpriseKey, EnterpriseScript,
		Byron, RewardKey, RewardScript:
		return t, true
	default:
		return 0, false
	}
}

func (t AddressType) IsBase() bool       { return t <= BaseScriptScript }
func (t AddressType) IsPointer() bool    { return t == PointerKey || t == PointerScript }
func (t AddressType) IsEnterprise() bool { return t == EnterpriseKey || t == EnterpriseScript }
func (t AddressType) IsReward() bool     { return t == RewardKey || t == RewardScript }

// PaymentKind() is the credential kind required in the payment position (the stake position for reward addresses)
func (t AddressType) PaymentKind() CredentialKind { return CredentialKind(t & 0b0001) }

// StakeKind() is the credential kind required in the stake position of a base address
func (t AddressType) StakeKind() CredentialKind { return CredentialKind((t >> 1) & 0b0001) }

// header() packs the type and network nibbles
func (t AddressType) header(network uint8) byte { return byte(t)<<4 | network&MaxNetworkID }

func (t AddressType) String() string {
	switch t {
	case BaseKeyKey:
		return "base(key,key)"
	case BaseScriptKey:
		return "base(script,key)"
	case BaseKeyScript:
		return "base(key,script)"
	case BaseScriptScript:
		return "base(script,script)"
	case PointerKey:
		return "pointer(key)"
	case PointerScript:
		return "pointer(script)"
	case EnterpriseKey:
		return "enterprise(key)"
	case EnterpriseScript:
		return "enterprise(script)"
	case Byron:
		return "byron"
	case RewardKey:
		return "reward(key)"
	case RewardScript:
		return "reward(script)"
	default:
		return fmt.Sprintf("AddressType(%d)", uint8(t))
	}
}

// BaseType() picks the base address nibble for a credential pairing
func BaseType(payment, stake CredentialKind) AddressType {
	return AddressType(uint8(stake)<<1 | uint8(payment))
}

// PointerType() picks the pointer address nibble for a payment credential
func PointerType(payment CredentialKind) AddressType { return PointerKey | AddressType(payment) }

// EnterpriseType() picks the enterprise address nibble for a payment credential
func EnterpriseType(payment CredentialKind) AddressType { return EnterpriseKey | AddressType(payment) }

// RewardType() picks the reward address nibble for a stake credential
func RewardType(stake CredentialKind) AddressType { return RewardKey | AddressType(stake) }
