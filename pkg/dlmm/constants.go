// Package dlmm implements the quoting core of a discretized constant-sum
// automated market maker: a sequence of discrete price bins, each holding
// reserves of two assets at a single fixed price, with a static+dynamic
// fee split driven by recent volatility.
package dlmm

// Fixed-point and fee-precision constants. These are wire values and must
// match the on-chain program bit for bit.
const (
	// ScaleOffset is the number of fractional bits in a Q64.64 price.
	ScaleOffset = 64

	// BasisPointMax is the denominator basis-point scale (100%).
	BasisPointMax = 10_000

	// FeePrecision is the denominator for fee rates.
	FeePrecision = 1_000_000_000

	// MaxFeeRate caps the combined base+variable fee rate (10%, in
	// FeePrecision units).
	MaxFeeRate = 100_000_000

	// BinArrayBitmapSize is the half-width of the pool's internal bitmap:
	// it covers bin-array indices in [-BinArrayBitmapSize, BinArrayBitmapSize-1].
	BinArrayBitmapSize = 512

	// BinsPerArray is the number of bins packed into one BinArray.
	BinsPerArray = 70

	// MinBinID and MaxBinID bound the signed bin id space.
	MinBinID = -443_636
	MaxBinID = 443_636
)

// PairStatus mirrors the on-chain pool activation status.
type PairStatus uint8

const (
	PairStatusDisabled PairStatus = iota
	PairStatusEnabled
)

// PairType distinguishes permissionless pools from permissioned ones that
// gate trading behind an activation point.
type PairType uint8

const (
	PairTypePermissionless PairType = iota
	PairTypePermission
)

// ActivationType selects whether a permissioned pool's activation point is
// expressed in slots or unix seconds.
type ActivationType uint8

const (
	ActivationTypeSlot ActivationType = iota
	ActivationTypeTimestamp
)
