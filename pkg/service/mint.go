package service

import "github.com/gagliardetto/solana-go"

// TransferFeeTier is one epoch-keyed transfer-fee configuration, mirroring
// the SPL Token-2022 TransferFeeConfig extension's "older" and "newer"
// fee slots: a fee config takes effect starting at StartEpoch.
type TransferFeeTier struct {
	StartEpoch             uint64
	TransferFeeBasisPoints uint16
	MaximumFee             uint64
}

// TransferFeeMint is a concrete dlmm.MintInfo backed by a Token-2022-style
// transfer-fee schedule. Account decoding is out of scope here — this is
// populated by whatever layer already fetched and parsed the mint.
type TransferFeeMint struct {
	Address solana.PublicKey
	Tiers   []TransferFeeTier // sorted ascending by StartEpoch
}

// TransferFeeAt implements dlmm.MintInfo: the configured tier is whichever
// has the greatest StartEpoch not exceeding epoch.
func (m *TransferFeeMint) TransferFeeAt(epoch uint64) (uint16, uint64) {
	var active *TransferFeeTier
	for i := range m.Tiers {
		tier := &m.Tiers[i]
		if tier.StartEpoch > epoch {
			break
		}
		active = tier
	}
	if active == nil {
		return 0, 0
	}
	return active.TransferFeeBasisPoints, active.MaximumFee
}
