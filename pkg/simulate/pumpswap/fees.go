package pumpswap

// EstimateMarketCapLamports is the venue-specific market-cap proxy spec.md
// §4.4.1 names: 2 * quoteReserve. It is a plain function that pkg/engine
// calls directly; the proxy is the same for every pool and cannot be
// replaced at run time.
func EstimateMarketCapLamports(quoteReserve uint64) uint64 {
	return 2 * quoteReserve
}

// SelectFees resolves the {lp, protocol, coinCreator} triple a quote should
// use, per spec.md §4.4.1's fallback chain: tiered fee-config, then flat
// fee-config, then the account-wide GlobalConfig.
func SelectFees(estimatedMarketCap uint64, tiers []Tier, flat *Fees, global Fees) Fees {
	if best, ok := selectTier(estimatedMarketCap, tiers); ok {
		return best
	}
	if flat != nil {
		return *flat
	}
	return global
}

// Tier is one {thresholdLamports, fees} row of FeeConfig.feeTiers.
type Tier struct {
	ThresholdLamports uint64
	Fees              Fees
}

// selectTier picks the highest tier whose threshold is <= marketCap
// (lower-bound selection), per spec.md §4.4.1.
func selectTier(marketCap uint64, tiers []Tier) (Fees, bool) {
	var best *Tier
	for i := range tiers {
		t := &tiers[i]
		if t.ThresholdLamports > marketCap {
			continue
		}
		if best == nil || t.ThresholdLamports > best.ThresholdLamports {
			best = t
		}
	}
	if best == nil {
		return Fees{}, false
	}
	return best.Fees, true
}

// Diagnose reports both the 25bps and the alternate 24bps BUY fee-placement
// hypotheses side by side, per DESIGN.md's Open Question 3: the venue never
// documents which is correct, so a quote on the buy side can surface the
// residual for downstream reconciliation against observed vault deltas.
func Diagnose(in Input) (amountOut25Bps, amountOut24Bps uint64, residualAbs uint64) {
	r25 := Quote(in)

	alt := in
	alt.Fees.LpBps, alt.Fees.ProtocolBps = splitAt24(in.Fees.TradeFeeBps())
	r24 := Quote(alt)

	amountOut25Bps = r25.AmountOut
	amountOut24Bps = r24.AmountOut
	if amountOut25Bps >= amountOut24Bps {
		residualAbs = amountOut25Bps - amountOut24Bps
	} else {
		residualAbs = amountOut24Bps - amountOut25Bps
	}
	return amountOut25Bps, amountOut24Bps, residualAbs
}

// splitAt24 builds the 24bps-total alternate split: lp is half of
// tradeFeeBps*24/25 and protocol is the rest of 24 (12/12 for a 25bps
// total). The original lp/protocol ratio is not kept; only the 24bps sum
// enters Quote's trade math.
func splitAt24(tradeFeeBps uint64) (lpBps, protocolBps uint64) {
	if tradeFeeBps == 0 {
		return 0, 0
	}
	const altTotal = 24
	lpBps = tradeFeeBps * altTotal / 25 / 2
	protocolBps = altTotal - lpBps
	return lpBps, protocolBps
}
