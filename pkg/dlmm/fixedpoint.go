package dlmm

import (
	"fmt"
	"math/big"
)

// Rounding selects which way a fixed-point division rounds when the exact
// result isn't representable.
type Rounding uint8

const (
	RoundingDown Rounding = iota
	RoundingUp
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// SafeMulShrCast computes (a*b) >> shift, widening through a big.Int
// intermediate so the multiplication itself never overflows, then casts
// down to uint64. Rounding == RoundingUp adds one if any discarded low bit
// was set.
func SafeMulShrCast(a, b *big.Int, shift uint, rounding Rounding) (uint64, error) {
	if a.Sign() < 0 || b.Sign() < 0 {
		return 0, fmt.Errorf("%w: negative operand", ErrMathDomain)
	}

	product := new(big.Int).Mul(a, b)
	result := new(big.Int).Rsh(product, shift)

	if rounding == RoundingUp {
		mask := new(big.Int).Sub(new(big.Int).Lsh(bigOne, shift), bigOne)
		discarded := new(big.Int).And(product, mask)
		if discarded.Sign() != 0 {
			result.Add(result, bigOne)
		}
	}

	return castToUint64(result)
}

// SafeShlDivCast computes (a << shift) / b, rounding as requested.
func SafeShlDivCast(a, b *big.Int, shift uint, rounding Rounding) (uint64, error) {
	if a.Sign() < 0 || b.Sign() < 0 {
		return 0, fmt.Errorf("%w: negative operand", ErrMathDomain)
	}
	if b.Sign() == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrMathDomain)
	}

	numerator := new(big.Int).Lsh(a, shift)
	result, remainder := new(big.Int).QuoRem(numerator, b, new(big.Int))

	if rounding == RoundingUp && remainder.Sign() != 0 {
		result.Add(result, bigOne)
	}

	return castToUint64(result)
}

// SafeMulDivCast computes (a*b) / c, rounding as requested.
func SafeMulDivCast(a, b, c *big.Int, rounding Rounding) (uint64, error) {
	if a.Sign() < 0 || b.Sign() < 0 || c.Sign() < 0 {
		return 0, fmt.Errorf("%w: negative operand", ErrMathDomain)
	}
	if c.Sign() == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrMathDomain)
	}

	product := new(big.Int).Mul(a, b)
	result, remainder := new(big.Int).QuoRem(product, c, new(big.Int))

	if rounding == RoundingUp && remainder.Sign() != 0 {
		result.Add(result, bigOne)
	}

	return castToUint64(result)
}

func castToUint64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 || v.BitLen() > 64 {
		return 0, fmt.Errorf("%w: result does not fit in u64", ErrOverflow)
	}
	return v.Uint64(), nil
}

// checkedAddU64 and checkedSubU64 give the checked-arithmetic discipline
// spec.md §4.1 requires for all 64-bit state mutation: unsigned wraparound
// is never permitted, every site surfaces ErrOverflow instead.
func checkedAddU64(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, fmt.Errorf("%w: u64 addition", ErrOverflow)
	}
	return sum, nil
}

func checkedSubU64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, fmt.Errorf("%w: u64 subtraction", ErrOverflow)
	}
	return a - b, nil
}
