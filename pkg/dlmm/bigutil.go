package dlmm

import "math/big"

func u64ToBig(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
