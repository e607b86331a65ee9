package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solroute-labs/dlmm-quote/pkg/dlmm"
)

func testSnapshot(label string, binStep uint16, activeID int32, reserveX, reserveY uint64) PoolSnapshot {
	pair := &dlmm.LbPair{
		Parameters: dlmm.StaticParameters{
			BaseFactor:               8_000,
			FilterPeriod:             30,
			DecayPeriod:              600,
			ReductionFactor:          5_000,
			VariableFeeControl:       0,
			MaxVolatilityAccumulator: 350_000,
			ProtocolShare:            2_000,
		},
		ActiveID: activeID,
		BinStep:  binStep,
		Status:   dlmm.PairStatusEnabled,
		PairType: dlmm.PairTypePermissionless,
	}

	arrayIndex := dlmm.BinIDToBinArrayIndex(activeID)
	lower, upper := dlmm.BinArrayLowerUpperBinID(arrayIndex)
	binArray := &dlmm.BinArray{Index: int64(arrayIndex)}
	for id := lower; id <= upper; id++ {
		idx, err := binArray.GetBinIndexInArray(id)
		if err != nil {
			continue
		}
		binArray.Bins[idx] = dlmm.Bin{AmountX: reserveX, AmountY: reserveY}
	}

	if err := dlmm.SetBinArrayBit(&pair.BinArrayBitmap, arrayIndex); err != nil {
		panic(err) // fixture construction only
	}

	return PoolSnapshot{
		Label:     label,
		Pool:      pair,
		BinArrays: dlmm.BinArrayMap{arrayIndex: binArray},
	}
}

func TestQuoteServiceQuoteExactIn(t *testing.T) {
	svc := NewQuoteService(1_000, 3, 0)
	snap := testSnapshot("pool-a", 10, 100, 1_000_000_000, 1_000_000_000)

	result, err := svc.QuoteExactIn(context.Background(), snap, 1_000_000, false, dlmm.Clock{UnixTimestamp: 1})
	require.NoError(t, err)
	require.Greater(t, result.AmountOut, uint64(0))
}

func TestQuoteServiceBestExactInPicksHighestAmountOut(t *testing.T) {
	svc := NewQuoteService(1_000, 3, 0)
	snapshots := []PoolSnapshot{
		testSnapshot("thin", 10, 100, 1_000, 1_000),
		testSnapshot("deep", 10, 100, 1_000_000_000, 1_000_000_000),
	}

	// Large enough that "thin" must walk into higher-priced bins while
	// "deep" fills the whole trade from its active bin.
	best, err := svc.BestExactIn(context.Background(), snapshots, 20_000, false, dlmm.Clock{UnixTimestamp: 1})
	require.NoError(t, err)
	require.Equal(t, "deep", best.Snapshot.Label)
}

func TestQuoteServiceBestExactInAllFail(t *testing.T) {
	svc := NewQuoteService(1_000, 1, 0)
	snapshots := []PoolSnapshot{
		testSnapshot("disabled-a", 10, 100, 1_000, 1_000),
		testSnapshot("disabled-b", 10, 100, 1_000, 1_000),
	}
	for i := range snapshots {
		snapshots[i].Pool.Status = dlmm.PairStatusDisabled
	}

	_, err := svc.BestExactIn(context.Background(), snapshots, 500, false, dlmm.Clock{UnixTimestamp: 1})
	require.ErrorIs(t, err, dlmm.ErrPairDisabled)
}
