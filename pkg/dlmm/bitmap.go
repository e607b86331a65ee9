package dlmm

import (
	"fmt"
	"math/big"
)

// BitmapExtension is the caller-supplied navigator for bin-array indices
// outside the pool's internal [-BinArrayBitmapSize, BinArrayBitmapSize-1]
// range. Its own backing storage (a separate on-chain account) is outside
// this package's scope; only this search contract matters to quoting.
type BitmapExtension interface {
	// NextBinArrayIndexWithLiquidity mirrors the internal navigator's
	// contract, but over the extension's own index range. It errors when
	// start falls outside the range the extension covers.
	NextBinArrayIndexWithLiquidity(swapForY bool, start int32) (next int32, hasLiquidity bool, err error)
}

// BitmapRange returns the inclusive bounds of bin-array indices covered
// by the pool's internal bitmap.
func BitmapRange() (min, max int32) {
	return -BinArrayBitmapSize, BinArrayBitmapSize - 1
}

// IsOverflowDefaultBinArrayBitmap reports whether index falls outside the
// internal bitmap's range and must be resolved via a BitmapExtension.
func IsOverflowDefaultBinArrayBitmap(index int32) bool {
	min, max := BitmapRange()
	return index < min || index > max
}

// GetBinArrayOffset maps a signed bin-array index to its bit position in
// the internal bitmap (bit 0 is index -BinArrayBitmapSize).
func GetBinArrayOffset(index int32) int {
	return int(index + BinArrayBitmapSize)
}

// SetBinArrayBit marks index as populated in the pool's internal bitmap.
// This is account-construction bookkeeping, not a quoting operation — the
// quote driver only ever reads BinArrayBitmap, never writes it.
func SetBinArrayBit(bitmap *[16]uint64, index int32) error {
	if IsOverflowDefaultBinArrayBitmap(index) {
		return fmt.Errorf("%w: bin array index %d outside internal bitmap", ErrBinArrayNotFound, index)
	}
	offset := GetBinArrayOffset(index)
	bitmap[offset/64] |= 1 << uint(offset%64)
	return nil
}

// FromLimbs interprets 16 little-endian 64-bit limbs as a single 1024-bit
// unsigned integer, limb 0 holding the least-significant bits.
func FromLimbs(limbs [16]uint64) *big.Int {
	result := new(big.Int)
	for i := 15; i >= 0; i-- {
		result.Lsh(result, 64)
		result.Or(result, new(big.Int).SetUint64(limbs[i]))
	}
	return result
}

// NextBinArrayIndexWithLiquidityInternal searches the pool's internal
// bitmap for the next populated bin-array index in the trade direction:
// downward (toward -BinArrayBitmapSize) when swapForY, upward otherwise.
// It returns (sentinel, false) when no further bit is set, where sentinel
// is one past the bitmap boundary on the side searched — the convention
// that transfers the search to the opposite bitmap on the next call.
func NextBinArrayIndexWithLiquidityInternal(bitmap [16]uint64, swapForY bool, start int32) (int32, bool, error) {
	const totalBits = 1024
	bitmapInt := FromLimbs(bitmap)
	offset := GetBinArrayOffset(start)
	minIndex, maxIndex := BitmapRange()

	if offset < 0 || offset >= totalBits {
		return 0, false, fmt.Errorf("%w: start %d outside internal bitmap", ErrBinArrayNotFound, start)
	}

	if swapForY {
		bitmapRange := uint(totalBits - 1)
		shift := bitmapRange - uint(offset)
		shifted := new(big.Int).Lsh(bitmapInt, shift)
		shifted = maskToBits(shifted, totalBits)
		if isZeroWithin(shifted, totalBits) {
			return minIndex - 1, false, nil
		}
		msb := leadingZeros(shifted, totalBits)
		return start - int32(msb), true, nil
	}

	shifted := new(big.Int).Rsh(bitmapInt, uint(offset))
	if isZeroWithin(shifted, totalBits) {
		return maxIndex + 1, false, nil
	}
	lsb := trailingZeros(shifted, totalBits)
	return start + int32(lsb), true, nil
}

func maskToBits(v *big.Int, bits int) *big.Int {
	mask := new(big.Int).Sub(new(big.Int).Lsh(bigOne, uint(bits)), bigOne)
	return new(big.Int).And(v, mask)
}

func isZeroWithin(v *big.Int, bits int) bool {
	return maskToBits(v, bits).Sign() == 0
}

func leadingZeros(v *big.Int, bits int) int {
	count := 0
	for j := bits - 1; j >= 0; j-- {
		if v.Bit(j) == 0 {
			count++
		} else {
			break
		}
	}
	return count
}

func trailingZeros(v *big.Int, bits int) int {
	count := 0
	for j := 0; j < bits; j++ {
		if v.Bit(j) == 0 {
			count++
		} else {
			break
		}
	}
	return count
}

// GetBinArrayIndexesForSwap collects up to take bin-array indices in
// search order, starting from the pool's active bin and consulting ext
// whenever the internal bitmap's range is exhausted.
func GetBinArrayIndexesForSwap(pair *LbPair, ext BitmapExtension, swapForY bool, take int) ([]int32, error) {
	indexes := make([]int32, 0, take)

	cursor := BinIDToBinArrayIndex(pair.ActiveID)
	step := int32(1)
	if swapForY {
		step = -1
	}

	for len(indexes) < take {
		var (
			next         int32
			hasLiquidity bool
			err          error
		)

		if IsOverflowDefaultBinArrayBitmap(cursor) {
			if ext == nil {
				break
			}
			next, hasLiquidity, err = ext.NextBinArrayIndexWithLiquidity(swapForY, cursor)
			if err != nil {
				break
			}
		} else {
			next, hasLiquidity, err = NextBinArrayIndexWithLiquidityInternal(pair.BinArrayBitmap, swapForY, cursor)
			if err != nil {
				return nil, err
			}
		}

		if hasLiquidity {
			indexes = append(indexes, next)
			cursor = next + step
		} else {
			cursor = next
		}
	}

	return indexes, nil
}
