package dlmm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPriceFromIDMonotone(t *testing.T) {
	var binStep uint16 = 10
	prev, err := GetPriceFromID(-5, binStep)
	require.NoError(t, err)

	for id := int32(-4); id <= 5; id++ {
		cur, err := GetPriceFromID(id, binStep)
		require.NoError(t, err)
		require.Equal(t, 1, cur.Big().Cmp(prev.Big()), "price must strictly increase at id=%d", id)
		prev = cur
	}
}

func TestGetPriceFromIDZeroIsOne(t *testing.T) {
	price, err := GetPriceFromID(0, 25)
	require.NoError(t, err)
	one := new(big.Int).Lsh(bigOne, ScaleOffset)
	require.Equal(t, 0, price.Big().Cmp(one))
}

func TestGetPriceFromIDReciprocal(t *testing.T) {
	binStep := uint16(50)
	id := int32(37)

	positive, err := GetPriceFromID(id, binStep)
	require.NoError(t, err)
	negative, err := GetPriceFromID(-id, binStep)
	require.NoError(t, err)

	product := new(big.Int).Mul(positive.Big(), negative.Big())
	twoTo128 := new(big.Int).Lsh(bigOne, 128)

	// Within rounding: product should be close to 2^128, never wildly off.
	diff := new(big.Int).Sub(twoTo128, product)
	diff.Abs(diff)
	tolerance := new(big.Int).Rsh(twoTo128, 40) // generous rounding budget
	require.Equal(t, -1, diff.Cmp(tolerance))
}
