package dlmm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func singleArrayPool(binStep uint16, activeID int32, reserveX, reserveY uint64) (*LbPair, BinArrayMap) {
	pair := &LbPair{
		Parameters: StaticParameters{
			BaseFactor:               8_000,
			FilterPeriod:             30,
			DecayPeriod:              600,
			ReductionFactor:          5_000,
			VariableFeeControl:       40_000,
			MaxVolatilityAccumulator: 350_000,
			ProtocolShare:            2_000,
		},
		ActiveID: activeID,
		BinStep:  binStep,
		Status:   PairStatusEnabled,
		PairType: PairTypePermissionless,
	}

	arrayIndex := BinIDToBinArrayIndex(activeID)
	lower, upper := BinArrayLowerUpperBinID(arrayIndex)
	binArray := &BinArray{Index: int64(arrayIndex)}
	for id := lower; id <= upper; id++ {
		binArray.Bins[id-lower] = Bin{AmountX: reserveX, AmountY: reserveY}
	}

	if err := SetBinArrayBit(&pair.BinArrayBitmap, arrayIndex); err != nil {
		panic(err) // fixture construction only; a bad test would fail loudly here
	}

	return pair, BinArrayMap{arrayIndex: binArray}
}

func TestQuoteExactInDrainsPartOfBin(t *testing.T) {
	pair, binArrays := singleArrayPool(10, 100, 1_000_000_000, 500_000)
	clock := Clock{UnixTimestamp: 1_000}

	result, err := QuoteExactIn(pair, 1_000_000, false, binArrays, nil, clock, nil, nil, 0, 3)
	require.NoError(t, err)
	require.Less(t, result.AmountOut, uint64(1_000_000_000)) // receive side is X
	require.Greater(t, result.Fee, uint64(0))
}

func TestQuoteExactInOutOfLiquidity(t *testing.T) {
	pair, binArrays := singleArrayPool(10, 100, 1_000, 1_000)
	clock := Clock{UnixTimestamp: 1_000}

	_, err := QuoteExactIn(pair, 1_000_000_000, false, binArrays, nil, clock, nil, nil, 0, 1)
	require.ErrorIs(t, err, ErrPoolOutOfLiquidity)
}

func TestQuoteExactOutOutOfLiquidity(t *testing.T) {
	pair, binArrays := singleArrayPool(10, 100, 1_000, 1_000)
	clock := Clock{UnixTimestamp: 1_000}

	_, err := QuoteExactOut(pair, 1_000_000_000, false, binArrays, nil, clock, nil, nil, 0, 1)
	require.ErrorIs(t, err, ErrPoolOutOfLiquidity)
}

func TestQuoteIsDeterministic(t *testing.T) {
	pair, binArrays := singleArrayPool(10, 100, 1_000_000_000, 1_000_000_000)
	clock := Clock{UnixTimestamp: 1_000}

	first, err := QuoteExactIn(pair, 5_000_000, false, binArrays, nil, clock, nil, nil, 0, 3)
	require.NoError(t, err)

	pair2, binArrays2 := singleArrayPool(10, 100, 1_000_000_000, 1_000_000_000)
	second, err := QuoteExactIn(pair2, 5_000_000, false, binArrays2, nil, clock, nil, nil, 0, 3)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestQuoteDisabledPairFails(t *testing.T) {
	pair, binArrays := singleArrayPool(10, 100, 1_000_000, 1_000_000)
	pair.Status = PairStatusDisabled
	clock := Clock{UnixTimestamp: 1_000}

	_, err := QuoteExactIn(pair, 1_000, false, binArrays, nil, clock, nil, nil, 0, 3)
	require.ErrorIs(t, err, ErrPairDisabled)
}

func TestQuoteRoundTripWithinOneUnitPerBin(t *testing.T) {
	pair, binArrays := singleArrayPool(10, 100, 10_000_000_000, 10_000_000_000)
	clock := Clock{UnixTimestamp: 1_000}

	amountIn := uint64(2_000_000)
	out, err := QuoteExactIn(pair, amountIn, false, binArrays, nil, clock, nil, nil, 0, 3)
	require.NoError(t, err)

	pairForOut, binArraysForOut := singleArrayPool(10, 100, 10_000_000_000, 10_000_000_000)
	back, err := QuoteExactOut(pairForOut, out.AmountOut, false, binArraysForOut, nil, clock, nil, nil, 0, 3)
	require.NoError(t, err)

	var diff int64
	if back.AmountIn > amountIn {
		diff = int64(back.AmountIn - amountIn)
	} else {
		diff = int64(amountIn - back.AmountIn)
	}
	require.LessOrEqual(t, diff, int64(2)) // at most one unit of rounding slack per bin crossed
}
