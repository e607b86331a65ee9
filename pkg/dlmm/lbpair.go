package dlmm

import (
	"fmt"
	"math/big"
)

// StaticParameters are the pool's immutable fee/activation configuration.
type StaticParameters struct {
	BaseFactor               uint16
	BaseFeePowerFactor       uint8
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	VariableFeeControl       uint32
	MaxVolatilityAccumulator uint32
	ProtocolShare            uint16
}

// VariableParameters are the pool's volatility-tracking state. These are
// the only fields a quote mutates, and only on its private clone.
type VariableParameters struct {
	LastUpdateTimestamp   int64
	IndexReference        int32
	VolatilityReference   uint32
	VolatilityAccumulator uint32
}

// LbPair is a snapshot of one pool's pricing-relevant state: its static
// configuration, its current volatility tracker state, and its active bin
// id. Quoting never mutates the caller's pair; QuoteExactIn/QuoteExactOut
// operate on a Clone.
type LbPair struct {
	Parameters  StaticParameters
	VParameters VariableParameters

	ActiveID int32
	BinStep  uint16

	Status          PairStatus
	PairType        PairType
	ActivationType  ActivationType
	ActivationPoint uint64

	// BinArrayBitmap is the pool's internal 1024-bit navigator bitmap, 16
	// little-endian 64-bit limbs; bit k corresponds to bin-array index
	// k - BinArrayBitmapSize.
	BinArrayBitmap [16]uint64
}

// Clone returns a deep copy safe for a quote to mutate independently of
// the original pair.
func (p *LbPair) Clone() *LbPair {
	clone := *p
	return &clone
}

// ValidateActivation checks whether trading against this pair is allowed
// right now, per clock. Time never enters the core by any other path.
func (p *LbPair) ValidateActivation(clock Clock) error {
	if p.Status != PairStatusEnabled {
		return ErrPairDisabled
	}
	if p.PairType == PairTypePermission {
		var point uint64
		switch p.ActivationType {
		case ActivationTypeSlot:
			point = clock.Slot
		case ActivationTypeTimestamp:
			point = uint64(clock.UnixTimestamp)
		default:
			return fmt.Errorf("%w: unknown activation type", ErrMathDomain)
		}
		if point < p.ActivationPoint {
			return ErrPairDisabled
		}
	}
	return nil
}

// UpdateReferences refreshes the volatility reference ahead of a quote.
// Called exactly once per quote, before any bin is consumed.
func (p *LbPair) UpdateReferences(now int64) {
	elapsed := now - p.VParameters.LastUpdateTimestamp
	if elapsed < int64(p.Parameters.FilterPeriod) {
		return
	}
	p.VParameters.IndexReference = p.ActiveID
	if elapsed < int64(p.Parameters.DecayPeriod) {
		p.VParameters.VolatilityReference = p.VParameters.VolatilityAccumulator * uint32(p.Parameters.ReductionFactor) / BasisPointMax
	} else {
		p.VParameters.VolatilityReference = 0
	}
}

// UpdateVolatilityAccumulator refreshes the volatility accumulator. Called
// once per bin traversed during a swap.
func (p *LbPair) UpdateVolatilityAccumulator() error {
	delta := int64(p.VParameters.IndexReference) - int64(p.ActiveID)
	if delta < 0 {
		delta = -delta
	}

	accumulator := uint64(p.VParameters.VolatilityReference) + uint64(delta)*BasisPointMax
	maxAccumulator := uint64(p.Parameters.MaxVolatilityAccumulator)
	if accumulator > maxAccumulator {
		accumulator = maxAccumulator
	}

	if accumulator > 0xFFFFFFFF {
		return fmt.Errorf("%w: volatility accumulator narrowing", ErrOverflow)
	}
	p.VParameters.VolatilityAccumulator = uint32(accumulator)
	return nil
}

// AdvanceActiveBin moves the active bin id one step in the trade
// direction, failing once the global bin id range is exhausted.
func (p *LbPair) AdvanceActiveBin(swapForY bool) error {
	next := p.ActiveID
	if swapForY {
		next--
	} else {
		next++
	}
	if next < MinBinID || next > MaxBinID {
		return fmt.Errorf("%w: bin id %d out of [%d, %d]", ErrInsufficientLiquidity, next, MinBinID, MaxBinID)
	}
	p.ActiveID = next
	return nil
}

// GetBaseFee is the static component of the total fee rate.
func (p *LbPair) GetBaseFee() *big.Int {
	result := new(big.Int).SetUint64(uint64(p.Parameters.BaseFactor))
	result.Mul(result, new(big.Int).SetUint64(uint64(p.BinStep)))
	result.Mul(result, big.NewInt(10))
	powerOf10 := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(p.Parameters.BaseFeePowerFactor)), nil)
	result.Mul(result, powerOf10)
	return result
}

// GetVariableFee is the volatility-driven component of the total fee rate.
func (p *LbPair) GetVariableFee() *big.Int {
	return ComputeVariableFee(p.VParameters.VolatilityAccumulator, p.BinStep, p.Parameters.VariableFeeControl)
}

// ComputeVariableFee implements ceil(variable_fee_control * (volatility_accumulator * bin_step)^2 / 10^11),
// whose ceil is bit-exact as (v + 99_999_999_999) / 10^11.
func ComputeVariableFee(volatilityAccumulator uint32, binStep uint16, variableFeeControl uint32) *big.Int {
	if variableFeeControl == 0 {
		return big.NewInt(0)
	}
	squareVfaBin := new(big.Int).Mul(
		new(big.Int).SetUint64(uint64(volatilityAccumulator)),
		new(big.Int).SetUint64(uint64(binStep)),
	)
	squareVfaBin.Mul(squareVfaBin, squareVfaBin)

	vFee := new(big.Int).Mul(new(big.Int).SetUint64(uint64(variableFeeControl)), squareVfaBin)
	vFee.Add(vFee, big.NewInt(99_999_999_999))
	vFee.Quo(vFee, big.NewInt(100_000_000_000))
	return vFee
}

// GetTotalFee caps the combined base+variable rate at MaxFeeRate.
func (p *LbPair) GetTotalFee() *big.Int {
	total := new(big.Int).Add(p.GetBaseFee(), p.GetVariableFee())
	maxRate := big.NewInt(MaxFeeRate)
	if total.Cmp(maxRate) > 0 {
		return maxRate
	}
	return total
}

// ComputeFee returns the ceiling fee charged on top of a pre-fee amount:
// ceil(amount * rate / (FEE_PRECISION - rate)).
func (p *LbPair) ComputeFee(amount uint64) (uint64, error) {
	rate := p.GetTotalFee()
	denominator := new(big.Int).Sub(big.NewInt(FeePrecision), rate)
	if denominator.Sign() <= 0 {
		return 0, fmt.Errorf("%w: fee rate exceeds precision", ErrMathDomain)
	}
	return SafeMulDivCast(u64ToBig(amount), rate, denominator, RoundingUp)
}

// ComputeFeeFromAmount returns the ceiling fee embedded in an amount that
// already includes fees: ceil(amount_with_fees * rate / FEE_PRECISION).
func (p *LbPair) ComputeFeeFromAmount(amountWithFees uint64) (uint64, error) {
	rate := p.GetTotalFee()
	return SafeMulDivCast(u64ToBig(amountWithFees), rate, big.NewInt(FeePrecision), RoundingUp)
}

// ComputeProtocolFee truncates the protocol's share out of a total fee.
func (p *LbPair) ComputeProtocolFee(fee uint64) (uint64, error) {
	return SafeMulDivCast(u64ToBig(fee), new(big.Int).SetUint64(uint64(p.Parameters.ProtocolShare)), big.NewInt(BasisPointMax), RoundingDown)
}
