package dlmm

// MintInfo is an opaque description of a token mint's optional
// SPL Token-2022-style transfer-fee extension. It is supplied by the
// caller; the quoting core never inspects account bytes or program
// addresses, only these two pure conversions.
type MintInfo interface {
	// TransferFeeAt reports the basis points and maximum fee of the tier
	// active at the given epoch. A mint with no transfer-fee extension
	// reports bps 0.
	TransferFeeAt(epoch uint64) (bps uint16, maximumFee uint64)
}

// TransferFeeExcludedAmount returns the amount that actually arrives at
// the receiving party after mint's transfer fee is deducted from amount.
func TransferFeeExcludedAmount(mint MintInfo, amount uint64, epoch uint64) (uint64, error) {
	if mint == nil {
		return amount, nil
	}
	bps, maxFee := mint.TransferFeeAt(epoch)
	if bps == 0 {
		return amount, nil
	}
	fee, err := SafeMulDivCast(u64ToBig(amount), u64ToBig(uint64(bps)), u64ToBig(BasisPointMax), RoundingUp)
	if err != nil {
		return 0, err
	}
	if fee > maxFee {
		fee = maxFee
	}
	return checkedSubU64(amount, fee)
}

// TransferFeeIncludedAmount returns the gross amount to send so that
// amount is received net of mint's transfer fee.
func TransferFeeIncludedAmount(mint MintInfo, amount uint64, epoch uint64) (uint64, error) {
	if mint == nil || amount == 0 {
		return amount, nil
	}
	bps, maxFee := mint.TransferFeeAt(epoch)
	if bps == 0 {
		return amount, nil
	}

	if uint64(bps) >= BasisPointMax {
		return checkedAddU64(amount, maxFee)
	}

	// Gross-up: gross - fee(gross) = amount, fee = ceil(gross*bps/10_000).
	// Solving for gross: gross = ceil(amount * 10_000 / (10_000 - bps)).
	gross, err := SafeMulDivCast(u64ToBig(amount), u64ToBig(BasisPointMax), u64ToBig(BasisPointMax-uint64(bps)), RoundingUp)
	if err != nil {
		return 0, err
	}

	fee, err := SafeMulDivCast(u64ToBig(gross), u64ToBig(uint64(bps)), u64ToBig(BasisPointMax), RoundingUp)
	if err != nil {
		return 0, err
	}
	if fee > maxFee {
		fee = maxFee
		return checkedAddU64(amount, fee)
	}
	return gross, nil
}
