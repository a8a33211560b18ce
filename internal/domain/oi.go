package domain

// OIData is one observation of open interest at the ATM strike.
type OIData struct {
	Timestamp string
	CallATM   float64
	PutATM    float64
}

// FuturesOI is one observation of index futures open interest across the
// current and next monthly contracts.
type FuturesOI struct {
	Timestamp    string
	CurrentMonth float64
	NextMonth    float64
}

// Combined returns the total futures OI across both months.
func (f FuturesOI) Combined() float64 {
	return f.CurrentMonth + f.NextMonth
}

// CallOIRising reports whether ATM call OI rose between the last two
// observations by more than minPct (strict). A zero previous OI treats
// any increase as rising. Fewer than two points is never rising.
func CallOIRising(oi []OIData, minPct float64) bool {
	if len(oi) < 2 {
		return false
	}
	prev, last := oi[len(oi)-2], oi[len(oi)-1]
	if prev.CallATM == 0 {
		return last.CallATM > prev.CallATM
	}
	pct := (last.CallATM - prev.CallATM) / prev.CallATM
	return pct > minPct
}

// PutOIRising is the put-side mirror of CallOIRising.
func PutOIRising(oi []OIData, minPct float64) bool {
	if len(oi) < 2 {
		return false
	}
	prev, last := oi[len(oi)-2], oi[len(oi)-1]
	if prev.PutATM == 0 {
		return last.PutATM > prev.PutATM
	}
	pct := (last.PutATM - prev.PutATM) / prev.PutATM
	return pct > minPct
}

// Defaults for FuturesOIChange.
const (
	DefaultFutMinDropPct    = 0.01 // 1%
	DefaultRecentRiseWindow = 5
	DefaultMinRecentRisePct = 0.01
)

// FuturesOIChange inspects combined futures OI (current + next month).
//
//   - isDropping: the latest combined OI fell by at least minDropPct
//     against the previous observation. A zero previous OI yields a drop
//     of 0, hence never dropping.
//   - hadRecentRise: any pairwise rise ≥ minRecentRisePct within the last
//     recentRiseWindow observations; pairs starting from a zero OI are
//     skipped.
//
// The two flags are independent. Fewer than two points yields
// (false, false).
func FuturesOIChange(fut []FuturesOI, minDropPct float64, recentRiseWindow int, minRecentRisePct float64) (isDropping, hadRecentRise bool) {
	if len(fut) < 2 {
		return false, false
	}

	prev, last := fut[len(fut)-2].Combined(), fut[len(fut)-1].Combined()
	dropPct := 0.0
	if prev > 0 {
		dropPct = (prev - last) / prev
	}
	isDropping = dropPct >= minDropPct

	window := fut
	if len(fut) >= recentRiseWindow {
		window = fut[len(fut)-recentRiseWindow:]
	}
	for i := 1; i < len(window); i++ {
		a, b := window[i-1].Combined(), window[i].Combined()
		if a == 0 {
			continue
		}
		if (b-a)/a >= minRecentRisePct {
			hadRecentRise = true
			break
		}
	}

	return isDropping, hadRecentRise
}
