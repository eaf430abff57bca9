package advisor

// handRange is a set of starting-hand keys as produced by hands.RangeKey.
type handRange map[string]bool

func newRange(parts ...[]string) handRange {
	r := handRange{}
	for _, keys := range parts {
		for _, k := range keys {
			r[k] = true
		}
	}
	return r
}

// Opening tiers, each containing the tighter ones.
var (
	premiumHands  = []string{"AA", "KK", "QQ", "JJ", "AKs", "AKo"}
	strongHands   = []string{"TT", "99", "AQs", "AQo", "AJs", "KQs"}
	playableHands = []string{
		"88", "77", "66",
		"ATs", "A9s", "A8s", "A5s", "A4s", "ATo",
		"KJs", "KTs", "QJs", "QTs", "JTs",
		"T9s", "98s", "87s",
	}
	wideHands = []string{
		"55", "44", "33", "22",
		"A7s", "A6s", "A3s", "A2s", "AJo",
		"KQo", "KJo", "KTo", "K9s", "K8s",
		"QJo", "QTo", "Q9s",
		"J9s", "JTo", "T8s",
		"97s", "86s", "76s", "65s", "54s",
	}
)

type tier int

const (
	noTier tier = iota - 1
	premium
	strong
	playable
	wide
)

var tiers = [...]handRange{
	premium:  newRange(premiumHands),
	strong:   newRange(premiumHands, strongHands),
	playable: newRange(premiumHands, strongHands, playableHands),
	wide:     newRange(premiumHands, strongHands, playableHands, wideHands),
}

// contains reports whether key is in the tier. noTier holds nothing.
func (t tier) contains(key string) bool {
	return t != noTier && tiers[t][key]
}

// tighter is the next tier down, stopping at premium.
func (t tier) tighter() tier {
	if t > premium {
		return t - 1
	}
	return t
}

// openingRanges gives the raise and flat-call tiers of an unopened pot.
var openingRanges = [...]struct{ raise, call tier }{
	UTG:  {strong, noTier},
	UTG1: {strong, noTier},
	MP:   {playable, noTier},
	HJ:   {playable, noTier},
	CO:   {wide, noTier},
	BTN:  {wide, noTier},
	SB:   {playable, strong},
	BB:   {strong, wide},
}

// Short-stack shoving charts by stack depth in big blinds.
var (
	push15 = []string{
		"AA", "KK", "QQ", "JJ", "TT", "99", "88", "77", "66", "55", "44", "33", "22",
		"AKs", "AQs", "AJs", "ATs", "A9s", "A8s", "A7s", "A6s", "A5s", "A4s", "A3s", "A2s",
		"AKo", "AQo", "AJo", "ATo", "A9o", "A8o", "A7o",
		"KQs", "KJs", "KTs", "K9s", "KQo", "KJo",
		"QJs", "QTs", "JTs",
	}
	push10 = []string{
		"A6o", "A5o", "A4o", "A3o", "A2o",
		"K8s", "K7s", "K6s", "KTo", "K9o",
		"Q9s", "Q8s", "QJo", "QTo",
		"J9s", "JTo", "T9s", "T8s",
		"98s", "87s", "76s",
	}
	push6 = []string{
		"K5s", "K4s", "K3s", "K2s", "K8o", "K7o", "K6o", "K5o",
		"Q7s", "Q6s", "Q5s", "Q9o", "Q8o",
		"J8s", "J7s", "J9o",
		"T7s", "T9o",
		"97s", "96s", "86s", "85s", "75s", "65s", "64s", "54s", "53s",
	}

	pushUpTo15BB = newRange(push15)
	pushUpTo10BB = newRange(push15, push10)
	pushUpTo6BB  = newRange(push15, push10, push6)

	// shoveOverRaise is what a short stack jams over an open.
	shoveOverRaise = newRange([]string{
		"AA", "KK", "QQ", "JJ", "TT", "99",
		"AKs", "AQs", "AJs", "ATs", "AKo", "AQo", "KQs",
	})
	// threeBetRange and callRaiseRange answer an open with a deep stack.
	threeBetRange  = newRange([]string{"AA", "KK", "QQ", "JJ", "AKs", "AQs", "AKo"})
	callRaiseRange = newRange([]string{
		"AA", "KK", "QQ", "JJ", "TT", "99", "88", "77",
		"AKs", "AQs", "AJs", "ATs", "A9s", "AKo", "AQo", "AJo",
		"KQs", "KJs", "QJs", "JTs",
	})
)

// pushRange picks the shoving chart for an effective stack.
func pushRange(effective float64) handRange {
	switch {
	case effective <= 6:
		return pushUpTo6BB
	case effective <= 10:
		return pushUpTo10BB
	}
	return pushUpTo15BB
}
