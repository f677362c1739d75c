package lib

import (
	"math"
	"math/bits"
)

// LinearFee is the fee formula: constant + coefficient * size in bytes
type LinearFee struct {
	Constant    uint64 `json:"constant"`
	Coefficient uint64 `json:"coefficient"`
}

func NewLinearFee(constant, coefficient uint64) LinearFee {
	return LinearFee{Constant: constant, Coefficient: coefficient}
}

// Fee() computes the fee for a transaction of `size` bytes, failing if the result does not fit 64 bits
func (f LinearFee) Fee(size uint64) (uint64, ErrorI) {
	hi, product := bits.Mul64(f.Coefficient, size)
	if hi != 0 {
		return 0, ErrFeeOverflow(size)
	}
	sum, carry := bits.Add64(f.Constant, product, 0)
	if carry != 0 {
		return 0, ErrFeeOverflow(size)
	}
	return sum, nil
}

// FeeForBytes() is Fee() over the length of a serialized transaction
func (f LinearFee) FeeForBytes(tx []byte) (uint64, ErrorI) { return f.Fee(uint64(len(tx))) }

// MaxSizeForFee() returns the largest size whose fee does not exceed budget
// ok is false when the budget doesn't cover the constant part
func (f LinearFee) MaxSizeForFee(budget uint64) (size uint64, ok bool) {
	if budget < f.Constant {
		return 0, false
	}
	if f.Coefficient == 0 {
		return math.MaxUint64, true
	}
	return (budget - f.Constant) / f.Coefficient, true
}
