package analysis

import "sort"

// Origin identifies which sample an observation came from.
type Origin string

const (
	OriginBaseline  Origin = "baseline"
	OriginCandidate Origin = "candidate"
)

// RankedObservation is one value of the pooled sample with its mid-rank.
type RankedObservation struct {
	Value  float64
	Origin Origin
	Rank   float64
}

// Ranking holds the mid-ranks of a pooled two-sample dataset.
type Ranking struct {
	// Observations are in concatenation order: all baseline values
	// followed by all candidate values.
	Observations []RankedObservation

	// R1 is the sum of ranks belonging to baseline observations.
	R1 float64

	// N1 and N2 are the baseline and candidate sizes.
	N1, N2 int
}

// Ranks returns the ranks in concatenation order.
func (r *Ranking) Ranks() []float64 {
	ranks := make([]float64, len(r.Observations))
	for i, o := range r.Observations {
		ranks[i] = o.Rank
	}
	return ranks
}

// Rank pools baseline and candidate, sorts the pool by value and assigns
// 1-based mid-ranks. Every member of a tie block of length k starting at
// position s gets rank s + (k-1)/2.
//
// The cost is one O(n log n) sort plus a linear pass over the sorted pool.
func Rank(baseline, candidate Sample) *Ranking {
	n1, n2 := len(baseline), len(candidate)
	obs := make([]RankedObservation, 0, n1+n2)
	for _, v := range baseline {
		obs = append(obs, RankedObservation{Value: v, Origin: OriginBaseline})
	}
	for _, v := range candidate {
		obs = append(obs, RankedObservation{Value: v, Origin: OriginCandidate})
	}

	// Sort a permutation so ranks can be written back in input order.
	order := make([]int, len(obs))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return obs[order[a]].Value < obs[order[b]].Value
	})

	var r1 float64
	i := 0
	for i < len(order) {
		j := i
		for j < len(order) && obs[order[j]].Value == obs[order[i]].Value {
			j++
		}
		// Positions i+1 .. j (1-based) share the same rank.
		avgRank := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			o := &obs[order[k]]
			o.Rank = avgRank
			if o.Origin == OriginBaseline {
				r1 += avgRank
			}
		}
		i = j
	}

	return &Ranking{
		Observations: obs,
		R1:           r1,
		N1:           n1,
		N2:           n2,
	}
}
