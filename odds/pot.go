package odds

// PotOdds is the share of the final pot a call costs: toCall over pot plus
// toCall. A call is profitable when equity exceeds it. Nothing to call
// gives 0.
func PotOdds(pot, toCall float64) float64 {
	if toCall <= 0 {
		return 0
	}
	if pot < 0 {
		pot = 0
	}
	return toCall / (pot + toCall)
}
