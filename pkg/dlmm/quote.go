package dlmm

import "fmt"

// BinArrayMap supplies every bin array a quote might traverse, keyed by
// bin-array index. Quoting fails BinArrayNotFound on a miss rather than
// attempting to fetch anything itself.
type BinArrayMap map[int32]*BinArray

// QuoteExactInResult is the outcome of QuoteExactIn.
type QuoteExactInResult struct {
	AmountOut uint64
	Fee       uint64
}

// QuoteExactOutResult is the outcome of QuoteExactOut.
type QuoteExactOutResult struct {
	AmountIn uint64
	Fee      uint64
}

// lookupActiveBinArray returns the first bin array with liquidity that the
// bitmap navigator finds, starting at the array holding pool.ActiveID and
// moving in the trade direction. It does not move pool.ActiveID, so the
// returned array covers the active bin only when the active bin's own
// array is marked in the bitmap.
func lookupActiveBinArray(pool *LbPair, ext BitmapExtension, swapForY bool, binArrays BinArrayMap) (*BinArray, error) {
	indexes, err := GetBinArrayIndexesForSwap(pool, ext, swapForY, 1)
	if err != nil {
		return nil, err
	}
	if len(indexes) == 0 {
		return nil, ErrPoolOutOfLiquidity
	}
	ba, ok := binArrays[indexes[0]]
	if !ok {
		return nil, fmt.Errorf("%w: bin array index %d", ErrBinArrayNotFound, indexes[0])
	}
	return ba, nil
}

// QuoteExactIn simulates spending exactly amountIn of the input mint and
// returns what the trade yields. The supplied pool is never mutated;
// quoting clones it internally. maxBinArrays bounds how many bin arrays
// the quote may visit per side, mirroring the on-chain compute budget;
// exceeding it without exhausting amountIn fails PoolOutOfLiquidity.
func QuoteExactIn(pool *LbPair, amountIn uint64, swapForY bool, binArrays BinArrayMap, ext BitmapExtension, clock Clock, mintIn, mintOut MintInfo, hostFeeBps uint16, maxBinArrays int) (*QuoteExactInResult, error) {
	if err := pool.ValidateActivation(clock); err != nil {
		return nil, err
	}

	sim := pool.Clone()
	sim.UpdateReferences(clock.UnixTimestamp)

	amountLeft, err := TransferFeeExcludedAmount(mintIn, amountIn, clock.Epoch)
	if err != nil {
		return nil, err
	}

	var totalOut, totalFee uint64
	visitedBinArrays := 0

	for amountLeft > 0 {
		if visitedBinArrays >= maxBinArrays {
			return nil, ErrPoolOutOfLiquidity
		}
		visitedBinArrays++

		activeBinArray, err := lookupActiveBinArray(sim, ext, swapForY, binArrays)
		if err != nil {
			return nil, err
		}

		for amountLeft > 0 && activeBinArray.IsBinIDWithinRange(sim.ActiveID) {
			if err := sim.UpdateVolatilityAccumulator(); err != nil {
				return nil, err
			}

			bin, err := activeBinArray.GetBinMut(sim.ActiveID)
			if err != nil {
				return nil, err
			}

			price, err := bin.GetOrStorePrice(sim.ActiveID, sim.BinStep)
			if err != nil {
				return nil, err
			}

			if !bin.IsEmpty(!swapForY) {
				result, err := bin.Swap(amountLeft, price, swapForY, sim, hostFeeBps)
				if err != nil {
					return nil, err
				}
				amountLeft, err = checkedSubU64(amountLeft, result.AmountInWithFees)
				if err != nil {
					return nil, err
				}
				totalOut, err = checkedAddU64(totalOut, result.AmountOut)
				if err != nil {
					return nil, err
				}
				totalFee, err = checkedAddU64(totalFee, result.Fee)
				if err != nil {
					return nil, err
				}
			}

			if amountLeft > 0 {
				if err := sim.AdvanceActiveBin(swapForY); err != nil {
					return nil, err
				}
			}
		}
	}

	amountOutFinal, err := TransferFeeExcludedAmount(mintOut, totalOut, clock.Epoch)
	if err != nil {
		return nil, err
	}

	return &QuoteExactInResult{AmountOut: amountOutFinal, Fee: totalFee}, nil
}

// QuoteExactOut simulates receiving exactly amountOut of the output mint
// and returns what the trade costs. maxBinArrays bounds how many bin
// arrays the quote may visit per side; see QuoteExactIn.
func QuoteExactOut(pool *LbPair, amountOut uint64, swapForY bool, binArrays BinArrayMap, ext BitmapExtension, clock Clock, mintIn, mintOut MintInfo, hostFeeBps uint16, maxBinArrays int) (*QuoteExactOutResult, error) {
	if err := pool.ValidateActivation(clock); err != nil {
		return nil, err
	}

	sim := pool.Clone()
	sim.UpdateReferences(clock.UnixTimestamp)

	amountOutTarget, err := TransferFeeIncludedAmount(mintOut, amountOut, clock.Epoch)
	if err != nil {
		return nil, err
	}

	var totalIn, totalFee uint64
	amountOutLeft := amountOutTarget
	visitedBinArrays := 0

	for amountOutLeft > 0 {
		if visitedBinArrays >= maxBinArrays {
			return nil, ErrPoolOutOfLiquidity
		}
		visitedBinArrays++

		activeBinArray, err := lookupActiveBinArray(sim, ext, swapForY, binArrays)
		if err != nil {
			return nil, err
		}

		for amountOutLeft > 0 && activeBinArray.IsBinIDWithinRange(sim.ActiveID) {
			if err := sim.UpdateVolatilityAccumulator(); err != nil {
				return nil, err
			}

			bin, err := activeBinArray.GetBinMut(sim.ActiveID)
			if err != nil {
				return nil, err
			}

			price, err := bin.GetOrStorePrice(sim.ActiveID, sim.BinStep)
			if err != nil {
				return nil, err
			}

			if !bin.IsEmpty(!swapForY) {
				maxOut := bin.GetMaxAmountOut(swapForY)

				if amountOutLeft >= maxOut {
					maxInGross, err := bin.GetMaxAmountIn(price, swapForY)
					if err != nil {
						return nil, err
					}
					maxFee, err := sim.ComputeFee(maxInGross)
					if err != nil {
						return nil, err
					}

					totalIn, err = checkedAddU64(totalIn, maxInGross)
					if err != nil {
						return nil, err
					}
					totalFee, err = checkedAddU64(totalFee, maxFee)
					if err != nil {
						return nil, err
					}
					amountOutLeft, err = checkedSubU64(amountOutLeft, maxOut)
					if err != nil {
						return nil, err
					}

					if err := applyBinReserveMove(bin, swapForY, maxInGross, maxOut); err != nil {
						return nil, err
					}
				} else {
					amountIn, err := bin.GetAmountIn(amountOutLeft, price, swapForY)
					if err != nil {
						return nil, err
					}
					fee, err := sim.ComputeFee(amountIn)
					if err != nil {
						return nil, err
					}

					totalIn, err = checkedAddU64(totalIn, amountIn)
					if err != nil {
						return nil, err
					}
					totalFee, err = checkedAddU64(totalFee, fee)
					if err != nil {
						return nil, err
					}

					if err := applyBinReserveMove(bin, swapForY, amountIn, amountOutLeft); err != nil {
						return nil, err
					}
					amountOutLeft = 0
				}
			}

			if amountOutLeft > 0 {
				if err := sim.AdvanceActiveBin(swapForY); err != nil {
					return nil, err
				}
			}
		}
	}

	totalIn, err = checkedAddU64(totalIn, totalFee)
	if err != nil {
		return nil, err
	}

	amountInFinal, err := TransferFeeIncludedAmount(mintIn, totalIn, clock.Epoch)
	if err != nil {
		return nil, err
	}

	return &QuoteExactOutResult{AmountIn: amountInFinal, Fee: totalFee}, nil
}

// applyBinReserveMove mirrors Bin.Swap's reserve bookkeeping for the
// exact-out driver, which computes amountIn/amountOut itself rather than
// going through Bin.Swap's fee-dependent branching.
func applyBinReserveMove(bin *Bin, swapForY bool, amountIntoBin, amountOut uint64) error {
	var err error
	if swapForY {
		if bin.AmountX, err = checkedAddU64(bin.AmountX, amountIntoBin); err != nil {
			return err
		}
		if bin.AmountY, err = checkedSubU64(bin.AmountY, amountOut); err != nil {
			return fmt.Errorf("insufficient y amount: %w", err)
		}
	} else {
		if bin.AmountY, err = checkedAddU64(bin.AmountY, amountIntoBin); err != nil {
			return err
		}
		if bin.AmountX, err = checkedSubU64(bin.AmountX, amountOut); err != nil {
			return fmt.Errorf("insufficient x amount: %w", err)
		}
	}
	return nil
}
