package costfunction

import (
	"github.com/lintang-b-s/dynroute/pkg"
	da "github.com/lintang-b-s/dynroute/pkg/datastructure"
)

// CongestionFunction. weight = alpha * free-flow travel time (s) + beta * congestion
type CongestionFunction struct {
	alpha         float64
	beta          float64
	defaultLength float64
	defaultSpeed  float64
}

func NewCongestionCostFunction(alpha, beta float64) *CongestionFunction {
	return NewCongestionCostFunctionWithDefaults(alpha, beta, pkg.DEFAULT_LENGTH_KM, pkg.DEFAULT_MAX_SPEED_KMH)
}

func NewCongestionCostFunctionWithDefaults(alpha, beta, defaultLength, defaultSpeed float64) *CongestionFunction {
	if defaultLength <= 0 {
		defaultLength = pkg.DEFAULT_LENGTH_KM
	}
	if defaultSpeed <= 0 {
		defaultSpeed = pkg.DEFAULT_MAX_SPEED_KMH
	}
	return &CongestionFunction{
		alpha:         alpha,
		beta:          beta,
		defaultLength: defaultLength,
		defaultSpeed:  defaultSpeed,
	}
}

func (cf *CongestionFunction) GetAlpha() float64 {
	return cf.alpha
}

func (cf *CongestionFunction) GetBeta() float64 {
	return cf.beta
}

// GetWeight. non-positive length/speed fall back to the defaults, negative congestion counts as 0.
// the result is never negative.
func (cf *CongestionFunction) GetWeight(e EdgeAttributes) float64 {
	length, speed, congestion := cf.normalize(e.GetLength(), e.GetMaxSpeed(), e.GetCongestion())

	w := cf.alpha*cf.GetTravelTime(length, speed) + cf.beta*congestion
	if w < 0 {
		return 0
	}
	return w
}

// GetTravelTime. free-flow travel time in seconds of length km at speed km/h
func (cf *CongestionFunction) GetTravelTime(length, speed float64) float64 {
	if speed <= 0 {
		speed = cf.defaultSpeed
	}
	return length / speed * pkg.SECONDS_PER_HOUR
}

// NormalizeSegment returns seg with defaults applied to missing/invalid attributes.
func (cf *CongestionFunction) NormalizeSegment(seg da.RoadSegment) da.RoadSegment {
	seg.LengthKm, seg.MaxSpeedKmh, seg.CurrentCongestion = cf.normalize(seg.LengthKm, seg.MaxSpeedKmh,
		seg.CurrentCongestion)
	return seg
}

func (cf *CongestionFunction) normalize(length, speed, congestion float64) (float64, float64, float64) {
	if length <= 0 {
		length = cf.defaultLength
	}
	if speed <= 0 {
		speed = cf.defaultSpeed
	}
	if congestion < 0 {
		congestion = 0
	}
	return length, speed, congestion
}
