package dlmm

import (
	"fmt"

	"lukechampine.com/uint128"
)

// Bin is a single discrete price bucket holding reserves of X and Y at one
// fixed price. Price is monotone in bin id and, once stored non-zero, is
// immutable; AmountX and AmountY are never both non-zero after a fully
// completed swap pass through the bin (the active bin may hold both).
type Bin struct {
	AmountX uint64
	AmountY uint64
	// Price is the memoized Q64.64 price of this bin; zero means "not yet
	// computed".
	Price uint128.Uint128
	// LiquiditySupply is the total liquidity share of the bin. It is part
	// of the on-chain data model but is consulted only by withdraw math,
	// never by quoting.
	LiquiditySupply uint128.Uint128
}

// GetOrStorePrice memoizes and returns this bin's Q64.64 price, computing
// it from id/binStep only the first time it's asked for.
func (b *Bin) GetOrStorePrice(id int32, binStep uint16) (uint128.Uint128, error) {
	if b.Price.IsZero() {
		price, err := GetPriceFromID(id, binStep)
		if err != nil {
			return uint128.Uint128{}, fmt.Errorf("get price from id: %w", err)
		}
		b.Price = price
	}
	return b.Price, nil
}

// IsEmpty reports whether the reserve on the requested side is zero.
// isX selects which side to check: true checks AmountX, false AmountY.
func (b *Bin) IsEmpty(isX bool) bool {
	if isX {
		return b.AmountX == 0
	}
	return b.AmountY == 0
}

// GetMaxAmountOut returns the full reserve on the side the trade receives.
func (b *Bin) GetMaxAmountOut(swapForY bool) uint64 {
	if swapForY {
		return b.AmountY
	}
	return b.AmountX
}

// GetMaxAmountIn returns the gross (pre-fee) input that would fully drain
// the receive side, rounded up to protect the pool.
func (b *Bin) GetMaxAmountIn(price uint128.Uint128, swapForY bool) (uint64, error) {
	if swapForY {
		return SafeShlDivCast(u64ToBig(b.AmountY), price.Big(), ScaleOffset, RoundingUp)
	}
	return SafeMulShrCast(u64ToBig(b.AmountX), price.Big(), ScaleOffset, RoundingUp)
}

// GetAmountOut is the forward price conversion, rounded down.
func (b *Bin) GetAmountOut(amountIn uint64, price uint128.Uint128, swapForY bool) (uint64, error) {
	if swapForY {
		return SafeMulShrCast(price.Big(), u64ToBig(amountIn), ScaleOffset, RoundingDown)
	}
	return SafeShlDivCast(u64ToBig(amountIn), price.Big(), ScaleOffset, RoundingDown)
}

// GetAmountIn is the inverse price conversion, rounded up.
func (b *Bin) GetAmountIn(amountOut uint64, price uint128.Uint128, swapForY bool) (uint64, error) {
	if swapForY {
		return SafeShlDivCast(u64ToBig(amountOut), price.Big(), ScaleOffset, RoundingUp)
	}
	return SafeMulShrCast(u64ToBig(amountOut), price.Big(), ScaleOffset, RoundingUp)
}

// SwapResult carries the accounting for a single-bin swap.
type SwapResult struct {
	// AmountInWithFees is what the trader actually pays into this bin,
	// fee included.
	AmountInWithFees uint64
	// AmountOut is what the trader receives from this bin.
	AmountOut uint64
	// Fee is the total (protocol + LP) fee charged by this bin.
	Fee uint64
	// ProtocolFeeAfterHostFee is Fee's protocol-share portion, net of any
	// host fee routed to an integrating frontend.
	ProtocolFeeAfterHostFee uint64
	// HostFee is the portion of the protocol fee routed to the host.
	HostFee uint64
	// IsExactOutAmount is always false: Swap is the exact-in path. The
	// exact-out driver computes its accounting inline and does not build
	// a SwapResult.
	IsExactOutAmount bool
}

// Swap executes a single-bin trade: the bin either fills the trader's
// amountIn completely (partial-fill case) or is drained entirely (bin
// exhausted case) when amountIn exceeds what the bin can absorb. All
// reserve moves use checked arithmetic.
func (b *Bin) Swap(amountIn uint64, price uint128.Uint128, swapForY bool, pair *LbPair, hostFeeBps uint16) (*SwapResult, error) {
	maxOut := b.GetMaxAmountOut(swapForY)
	maxInGross, err := b.GetMaxAmountIn(price, swapForY)
	if err != nil {
		return nil, fmt.Errorf("get max amount in: %w", err)
	}

	maxFee, err := pair.ComputeFee(maxInGross)
	if err != nil {
		return nil, fmt.Errorf("compute max fee: %w", err)
	}

	maxInTotal, err := checkedAddU64(maxInGross, maxFee)
	if err != nil {
		return nil, err
	}

	var (
		amountInWithFees uint64
		amountOut        uint64
		fee              uint64
		protocolFee      uint64
	)

	if amountIn > maxInTotal {
		// Bin exhausted case: the trader fills this bin entirely.
		amountInWithFees = maxInTotal
		amountOut = maxOut
		fee = maxFee
		protocolFee, err = pair.ComputeProtocolFee(maxFee)
		if err != nil {
			return nil, fmt.Errorf("compute protocol fee: %w", err)
		}
	} else {
		// Partial fill case.
		fee, err = pair.ComputeFeeFromAmount(amountIn)
		if err != nil {
			return nil, fmt.Errorf("compute fee from amount: %w", err)
		}
		net, err := checkedSubU64(amountIn, fee)
		if err != nil {
			return nil, err
		}
		out, err := b.GetAmountOut(net, price, swapForY)
		if err != nil {
			return nil, fmt.Errorf("get amount out: %w", err)
		}
		// Rounding can produce out > maxOut by one unit; the clamp is
		// essential.
		amountOut = min(out, maxOut)
		amountInWithFees = amountIn

		protocolFee, err = pair.ComputeProtocolFee(fee)
		if err != nil {
			return nil, fmt.Errorf("compute protocol fee: %w", err)
		}
	}

	hostFee := uint64(0)
	if hostFeeBps > 0 {
		hostFee = protocolFee * uint64(hostFeeBps) / BasisPointMax
	}
	protocolFeeAfterHostFee, err := checkedSubU64(protocolFee, hostFee)
	if err != nil {
		return nil, err
	}

	amountIntoBin, err := checkedSubU64(amountInWithFees, fee)
	if err != nil {
		return nil, err
	}

	if swapForY {
		if b.AmountX, err = checkedAddU64(b.AmountX, amountIntoBin); err != nil {
			return nil, err
		}
		if b.AmountY, err = checkedSubU64(b.AmountY, amountOut); err != nil {
			return nil, fmt.Errorf("insufficient y amount: %w", err)
		}
	} else {
		if b.AmountY, err = checkedAddU64(b.AmountY, amountIntoBin); err != nil {
			return nil, err
		}
		if b.AmountX, err = checkedSubU64(b.AmountX, amountOut); err != nil {
			return nil, fmt.Errorf("insufficient x amount: %w", err)
		}
	}

	return &SwapResult{
		AmountInWithFees:        amountInWithFees,
		AmountOut:               amountOut,
		Fee:                     fee,
		ProtocolFeeAfterHostFee: protocolFeeAfterHostFee,
		HostFee:                 hostFee,
		IsExactOutAmount:        false,
	}, nil
}
