package dlmm

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"lukechampine.com/uint128"
)

// maxQ64 is u128::MAX, the value the reference implementation divides by
// to invert a Q64.64 value (an approximation of 2^128 that keeps the
// inversion bit-exact with the on-chain program, which works in fixed
// 128-bit width rather than unbounded precision).
var maxQ64 = func() *big.Int {
	v := new(big.Int).Lsh(bigOne, 128)
	return v.Sub(v, bigOne)
}()

// GetPriceFromID computes price(id) = (1 + bin_step/10_000)^id in Q64.64
// by exponentiation by squaring over the bits of |id|.
//
// The base (1 + bin_step/10_000) is always >= 1.0 for bin_step > 0, so
// squaring it directly would overflow 128 bits well inside the valid id
// range. The reference implementation avoids this by inverting whenever
// the base is >= 1.0 (squared_base = MAX/base), which keeps every
// squared intermediate <= 1.0 (<=2^64) for the rest of the loop, and
// inverting the final result back. Negative ids flip the same invert
// flag, so a negative id with base >= 1.0 cancels out to no inversion at
// all, exactly like the direct reciprocal this replaces.
// This must be deterministic and bit-exact across implementations: every
// intermediate Q64.64 multiplication rounds down.
func GetPriceFromID(id int32, binStep uint16) (uint128.Uint128, error) {
	base, err := onePlusBinStepQ64(binStep)
	if err != nil {
		return uint128.Uint128{}, err
	}

	exp := int64(id)
	invert := exp < 0
	if invert {
		exp = -exp
	}

	one := new(big.Int).Lsh(bigOne, ScaleOffset) // 1.0 in Q64.64
	if exp == 0 {
		return uint128FromBig(one)
	}
	if exp >= 0x80000 {
		return uint128.Uint128{}, fmt.Errorf("%w: bin id magnitude too large", ErrMathDomain)
	}

	squaredBase := new(big.Int).Set(base)
	if squaredBase.Cmp(one) >= 0 {
		squaredBase = new(big.Int).Quo(maxQ64, squaredBase)
		invert = !invert
	}

	result := new(big.Int).Set(one)
	if exp&0x1 != 0 {
		result.Set(squaredBase)
	}

	for exp >>= 1; exp != 0; exp >>= 1 {
		squaredBase = mulShrBig(squaredBase, squaredBase, ScaleOffset)
		if exp&0x1 != 0 {
			result = mulShrBig(result, squaredBase, ScaleOffset)
		}
	}

	if result.Sign() == 0 {
		return uint128.Uint128{}, fmt.Errorf("%w: price computation underflowed to zero", ErrMathDomain)
	}

	if invert {
		result = new(big.Int).Quo(maxQ64, result)
	}

	return uint128FromBig(result)
}

// onePlusBinStepQ64 returns (1 + bin_step/10_000) in Q64.64, rounded down.
func onePlusBinStepQ64(binStep uint16) (*big.Int, error) {
	numerator := new(big.Int).Lsh(big.NewInt(int64(BasisPointMax)+int64(binStep)), ScaleOffset)
	denominator := big.NewInt(BasisPointMax)
	return new(big.Int).Quo(numerator, denominator), nil
}

// mulShrBig computes (a*b) >> shift over unbounded big.Int, used for the
// 128-bit-wide intermediates of price exponentiation (unlike the
// safe*Cast primitives in fixedpoint.go, which narrow to uint64 for bin
// reserve accounting).
func mulShrBig(a, b *big.Int, shift uint) *big.Int {
	product := new(big.Int).Mul(a, b)
	return new(big.Int).Rsh(product, shift)
}

func uint128FromBig(v *big.Int) (uint128.Uint128, error) {
	if v.Sign() < 0 || v.BitLen() > 128 {
		return uint128.Uint128{}, fmt.Errorf("%w: value does not fit in u128", ErrOverflow)
	}
	var buf [16]byte
	v.FillBytes(buf[:])
	return uint128.Uint128{
		Hi: binary.BigEndian.Uint64(buf[0:8]),
		Lo: binary.BigEndian.Uint64(buf[8:16]),
	}, nil
}
