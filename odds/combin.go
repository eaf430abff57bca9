package odds

// binomial returns C(n, k), or 0 when k is out of range.
func binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	result := int64(1)
	for i := 1; i <= k; i++ {
		// exact at every step: the running product is C(n-k+i, i)
		result = result * int64(n-k+i) / int64(i)
	}
	return result
}

// combinations calls visit for every k-combination of the indices in
// [start, n), in lexicographic order, until visit returns false. The slice
// passed to visit is reused between calls.
func combinations(n, k, start int, visit func(idx []int) bool) {
	if k == 0 {
		visit(nil)
		return
	}
	if start+k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = start + i
	}
	for {
		if !visit(idx) {
			return
		}
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// HitProbability is the chance that at least one of outs unseen cards appears
// among the next cardsToCome cards dealt from unseen cards.
func HitProbability(outs, unseen, cardsToCome int) float64 {
	if outs <= 0 || unseen <= 0 || cardsToCome <= 0 {
		return 0
	}
	if cardsToCome > unseen {
		cardsToCome = unseen
	}
	miss := float64(binomial(unseen-outs, cardsToCome)) / float64(binomial(unseen, cardsToCome))
	return 1 - miss
}
