package dlmm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestPair() *LbPair {
	return &LbPair{
		Parameters: StaticParameters{
			BaseFactor:               8_000,
			FilterPeriod:             30,
			DecayPeriod:              600,
			ReductionFactor:          5_000,
			VariableFeeControl:       0,
			MaxVolatilityAccumulator: 350_000,
			ProtocolShare:            2_000,
		},
		ActiveID: 100,
		BinStep:  10,
		Status:   PairStatusEnabled,
		PairType: PairTypePermissionless,
	}
}

func TestBinSwapConservation(t *testing.T) {
	pair := newTestPair()
	bin := &Bin{AmountX: 1_000_000, AmountY: 1_000_000}
	price, err := bin.GetOrStorePrice(pair.ActiveID, pair.BinStep)
	require.NoError(t, err)

	beforeX, beforeY := bin.AmountX, bin.AmountY

	result, err := bin.Swap(10_000, price, true, pair, 0)
	require.NoError(t, err)

	amountIntoBin := result.AmountInWithFees - result.Fee
	require.Equal(t, amountIntoBin, bin.AmountX-beforeX)
	require.Equal(t, result.AmountOut, beforeY-bin.AmountY)
	require.Equal(t, result.AmountInWithFees, amountIntoBin+result.Fee)
}

func TestBinSwapExhaustedCaseClampsToReserve(t *testing.T) {
	pair := newTestPair()
	bin := &Bin{AmountX: 1_000, AmountY: 1_000}
	price, err := bin.GetOrStorePrice(pair.ActiveID, pair.BinStep)
	require.NoError(t, err)

	result, err := bin.Swap(10_000_000, price, true, pair, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), bin.AmountY)
	require.LessOrEqual(t, result.AmountOut, uint64(1_000))
}

func TestBinIsEmpty(t *testing.T) {
	bin := &Bin{AmountX: 0, AmountY: 5}
	require.True(t, bin.IsEmpty(true))
	require.False(t, bin.IsEmpty(false))
}

func TestBinSwapHostFeeSplit(t *testing.T) {
	pair := newTestPair()
	bin := &Bin{AmountX: 1_000_000, AmountY: 1_000_000}
	price, err := bin.GetOrStorePrice(pair.ActiveID, pair.BinStep)
	require.NoError(t, err)

	result, err := bin.Swap(50_000, price, true, pair, 2_000) // 20% of protocol fee to host
	require.NoError(t, err)
	require.Equal(t, result.HostFee+result.ProtocolFeeAfterHostFee, protocolFeeFor(t, pair, result))
}

func protocolFeeFor(t *testing.T, pair *LbPair, result *SwapResult) uint64 {
	t.Helper()
	fee, err := pair.ComputeProtocolFee(result.Fee)
	require.NoError(t, err)
	return fee
}
