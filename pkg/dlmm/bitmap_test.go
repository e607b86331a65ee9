package dlmm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func bitmapWithBits(set ...int32) [16]uint64 {
	var limbs [16]uint64
	for _, bit := range set {
		offset := GetBinArrayOffset(bit)
		limbs[offset/64] |= 1 << uint(offset%64)
	}
	return limbs
}

func TestNextBinArrayIndexWithLiquidityInternalUpward(t *testing.T) {
	bitmap := bitmapWithBits(5, 10, 20)

	next, has, err := NextBinArrayIndexWithLiquidityInternal(bitmap, false, 0)
	require.NoError(t, err)
	require.True(t, has)
	require.Equal(t, int32(5), next)

	next, has, err = NextBinArrayIndexWithLiquidityInternal(bitmap, false, 6)
	require.NoError(t, err)
	require.True(t, has)
	require.Equal(t, int32(10), next)
}

func TestNextBinArrayIndexWithLiquidityInternalDownward(t *testing.T) {
	bitmap := bitmapWithBits(-20, -10, -5)

	next, has, err := NextBinArrayIndexWithLiquidityInternal(bitmap, true, 0)
	require.NoError(t, err)
	require.True(t, has)
	require.Equal(t, int32(-5), next)
}

func TestNextBinArrayIndexWithLiquidityInternalNoneFoundReturnsSentinel(t *testing.T) {
	var bitmap [16]uint64
	minIdx, maxIdx := BitmapRange()

	next, has, err := NextBinArrayIndexWithLiquidityInternal(bitmap, false, 0)
	require.NoError(t, err)
	require.False(t, has)
	require.Equal(t, maxIdx+1, next)

	next, has, err = NextBinArrayIndexWithLiquidityInternal(bitmap, true, 0)
	require.NoError(t, err)
	require.False(t, has)
	require.Equal(t, minIdx-1, next)
}

func TestIsOverflowDefaultBinArrayBitmap(t *testing.T) {
	min, max := BitmapRange()
	require.False(t, IsOverflowDefaultBinArrayBitmap(min))
	require.False(t, IsOverflowDefaultBinArrayBitmap(max))
	require.True(t, IsOverflowDefaultBinArrayBitmap(min-1))
	require.True(t, IsOverflowDefaultBinArrayBitmap(max+1))
}

func TestGetBinArrayIndexesForSwapCollectsInSearchOrder(t *testing.T) {
	pair := &LbPair{ActiveID: 0, BinArrayBitmap: bitmapWithBits(0, 1, 2)}

	indexes, err := GetBinArrayIndexesForSwap(pair, nil, false, 3)
	require.NoError(t, err)
	require.Equal(t, []int32{0, 1, 2}, indexes)
}

func TestGetBinArrayIndexesForSwapStopsWithoutExtension(t *testing.T) {
	pair := &LbPair{ActiveID: 0, BinArrayBitmap: bitmapWithBits(0)}

	indexes, err := GetBinArrayIndexesForSwap(pair, nil, false, 3)
	require.NoError(t, err)
	require.Equal(t, []int32{0}, indexes)
}
