package app

import "math"

// Standard processing-fee rate used for the user-facing estimate. Actual fees
// vary by card type, volume tier, and international status; the processor's
// dashboard is authoritative.
const (
	feePercentage   = 0.029
	feeFixedMinor   = 30
	feeEstimateNote = "Estimated based on standard rates. Actual fees vary by card type and volume. Check Stripe Dashboard for exact amounts."
)

// EstimateFee returns the estimated processing fee in minor units for a
// captured amount. This is the only place money touches floating point, and
// only for a display estimate.
func EstimateFee(amountMinor int64) int64 {
	return int64(math.Round(float64(amountMinor)*feePercentage + feeFixedMinor))
}
