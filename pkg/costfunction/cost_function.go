package costfunction

type EdgeAttributes interface {
	GetLength() float64     // km
	GetMaxSpeed() float64   // km/h
	GetCongestion() float64 // seconds of delay
}

type CostFunction interface {
	GetWeight(e EdgeAttributes) float64
}
