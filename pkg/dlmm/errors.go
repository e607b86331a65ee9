package dlmm

import "errors"

// Error kinds a quote can terminate with. Every checked arithmetic site
// surfaces ErrOverflow rather than wrapping; there is no local recovery
// from any of these inside a quote.
var (
	ErrPairDisabled          = errors.New("pair is disabled")
	ErrOverflow              = errors.New("overflow")
	ErrPoolOutOfLiquidity    = errors.New("pool out of liquidity")
	ErrBinArrayNotFound      = errors.New("bin array not found")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrMathDomain            = errors.New("math domain error")
)
