package routing

import (
	"math"

	"github.com/lintang-b-s/dynroute/pkg"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
)

const (
	LABEL_SHORTEST_DISTANCE = "shortest_distance"
	LABEL_FASTEST           = "fastest"
	LABEL_LEAST_CONGESTED   = "least_congested"
	LABEL_RECOMMENDED       = "recommended"
)

// ScorerConfig holds the softmax temperature and the composite score constants.
type ScorerConfig struct {
	Temperature float64

	// congestion penalty tier weights, chosen by comparing a candidate congestion with the mean congestion
	BaseCongestionWeight     float64
	MildCongestionWeight     float64 // congestion > mean
	ModerateCongestionWeight float64 // congestion > 1.5 * mean
	SevereCongestionWeight   float64 // congestion > 2 * mean

	PathLengthPenalty  float64 // per node beyond the first two
	TimeProximityRatio float64
	TimeProximityBonus float64 // fraction of the minimum duration
	LowCongestionRatio float64
	LowCongestionBonus float64 // fraction of the mean congestion
}

func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		Temperature:              pkg.DEFAULT_SOFTMAX_TEMPERATURE,
		BaseCongestionWeight:     0.6,
		MildCongestionWeight:     1.2,
		ModerateCongestionWeight: 2.0,
		SevereCongestionWeight:   3.0,
		PathLengthPenalty:        0.3,
		TimeProximityRatio:       1.15,
		TimeProximityBonus:       0.15,
		LowCongestionRatio:       0.8,
		LowCongestionBonus:       0.2,
	}
}

type RouteScorer struct {
	cfg ScorerConfig
}

func NewRouteScorer(cfg ScorerConfig) *RouteScorer {
	return &RouteScorer{cfg: cfg}
}

func (rs *RouteScorer) GetConfig() ScorerConfig {
	return rs.cfg
}

// SoftmaxProbabilities. p_i = exp(-c_i/tau) / sum_j exp(-c_j/tau). tau <= 0 is clamped to a tiny positive value.
// utilities are shifted by their maximum before exponentiation, so large costs or tiny temperatures neither
// underflow to 0/0 nor overflow.
func SoftmaxProbabilities(costs []float64, tau float64) []float64 {
	if len(costs) == 0 {
		return []float64{}
	}
	if tau <= 0 {
		tau = pkg.MIN_SOFTMAX_TEMPERATURE
	}

	maxUtility := math.Inf(-1)
	for _, c := range costs {
		maxUtility = math.Max(maxUtility, -c/tau)
	}

	probs := make([]float64, len(costs))
	sum := 0.0
	for i, c := range costs {
		probs[i] = math.Exp(-c/tau - maxUtility)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// SampleIndex draws an index from the cumulative distribution of probs. r must be in [0, 1).
func SampleIndex(probs []float64, r float64) int {
	if len(probs) == 0 {
		return -1
	}
	cumsum := 0.0
	for i, p := range probs {
		cumsum += p
		if r < cumsum {
			return i
		}
	}
	// rounding left cumsum slightly below 1
	return len(probs) - 1
}

// AssignProbabilities sets the softmax probability of every candidate from its total weight.
func (rs *RouteScorer) AssignProbabilities(cands []da.PathCandidate) []float64 {
	costs := make([]float64, len(cands))
	for i, c := range cands {
		costs[i] = c.TotalWeight
	}
	probs := SoftmaxProbabilities(costs, rs.cfg.Temperature)
	for i := range cands {
		cands[i].Probability = probs[i]
	}
	return probs
}

// AssignCompositeScores sets Score on every candidate. lower is better.
func (rs *RouteScorer) AssignCompositeScores(cands []da.PathCandidate) {
	if len(cands) == 0 {
		return
	}

	maxCongestion := cands[0].Congestion
	minDuration := cands[0].Duration
	sumDuration, sumCongestion := 0.0, 0.0
	for _, c := range cands {
		maxCongestion = math.Max(maxCongestion, c.Congestion)
		minDuration = math.Min(minDuration, c.Duration)
		sumDuration += c.Duration
		sumCongestion += c.Congestion
	}
	avgDuration := sumDuration / float64(len(cands))
	avgCongestion := sumCongestion / float64(len(cands))

	for i := range cands {
		c := &cands[i]

		congestionPenalty := 0.0
		if maxCongestion > 0 {
			tierWeight := rs.cfg.BaseCongestionWeight
			switch {
			case c.Congestion > avgCongestion*2.0:
				tierWeight = rs.cfg.SevereCongestionWeight
			case c.Congestion > avgCongestion*1.5:
				tierWeight = rs.cfg.ModerateCongestionWeight
			case c.Congestion > avgCongestion:
				tierWeight = rs.cfg.MildCongestionWeight
			}
			ratio := c.Congestion / maxCongestion
			congestionPenalty = ratio * ratio * ratio * avgDuration * tierWeight
		}

		pathLengthPenalty := float64(len(c.Path)-2) * rs.cfg.PathLengthPenalty

		timeProximityBonus := 0.0
		if minDuration > 0 && c.Duration <= minDuration*rs.cfg.TimeProximityRatio {
			timeProximityBonus = -minDuration * rs.cfg.TimeProximityBonus
		}

		congestionBonus := 0.0
		if avgCongestion > 0 && c.Congestion < avgCongestion*rs.cfg.LowCongestionRatio {
			congestionBonus = -avgCongestion * rs.cfg.LowCongestionBonus
		}

		c.Score = c.Duration + congestionPenalty + pathLengthPenalty + timeProximityBonus + congestionBonus
	}
}

// SelectRecommended returns the index of the candidate with the lowest composite score, the earliest rank on ties.
func SelectRecommended(cands []da.PathCandidate) int {
	best := -1
	for i, c := range cands {
		if best == -1 || c.Score < cands[best].Score {
			best = i
		}
	}
	return best
}

// AssignLabels tags the shortest distance, fastest, least congested and most probable candidates.
// a later label replaces an earlier one on the same candidate.
func AssignLabels(cands []da.PathCandidate) {
	if len(cands) == 0 {
		return
	}
	pick := func(better func(a, b da.PathCandidate) bool) int {
		idx := 0
		for i := 1; i < len(cands); i++ {
			if better(cands[i], cands[idx]) {
				idx = i
			}
		}
		return idx
	}

	cands[pick(func(a, b da.PathCandidate) bool { return a.Distance < b.Distance })].Label = LABEL_SHORTEST_DISTANCE
	cands[pick(func(a, b da.PathCandidate) bool { return a.Duration < b.Duration })].Label = LABEL_FASTEST
	cands[pick(func(a, b da.PathCandidate) bool { return a.Congestion < b.Congestion })].Label = LABEL_LEAST_CONGESTED
	cands[pick(func(a, b da.PathCandidate) bool { return a.Probability > b.Probability })].Label = LABEL_RECOMMENDED
}

// Score runs softmax, labelling and composite scoring over cands in place and returns the index of the
// primary candidate, -1 if cands is empty.
func (rs *RouteScorer) Score(cands []da.PathCandidate) int {
	if len(cands) == 0 {
		return -1
	}
	rs.AssignProbabilities(cands)
	AssignLabels(cands)
	rs.AssignCompositeScores(cands)
	return SelectRecommended(cands)
}
