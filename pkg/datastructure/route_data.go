package datastructure

// PathCandidate is one of the K alternative routes with its metrics and scores.
type PathCandidate struct {
	Path        Path
	TotalWeight float64 // seconds
	Distance    float64 // km
	Congestion  float64
	Duration    float64 // seconds
	Rank        int     // 1-based order by total weight
	Probability float64
	Score       float64 // composite score, lower is better
	Label       string
}

func NewPathCandidate(path Path, totalWeight float64) PathCandidate {
	return PathCandidate{Path: path, TotalWeight: totalWeight, Duration: totalWeight}
}

func (p PathCandidate) Clone() PathCandidate {
	c := p
	c.Path = p.Path.Clone()
	return c
}

// FillMetrics sets distance and congestion of the candidate from the arcs of g.
func (p *PathCandidate) FillMetrics(g *Graph) {
	p.Distance = 0
	p.Congestion = 0
	for i := 0; i+1 < len(p.Path); i++ {
		e, ok := g.GetEdge(p.Path[i], p.Path[i+1])
		if !ok {
			continue
		}
		p.Distance += e.GetLength()
		p.Congestion += e.GetCongestion()
	}
	p.Duration = p.TotalWeight
}

func ClonePathCandidates(cands []PathCandidate) []PathCandidate {
	if cands == nil {
		return nil
	}
	out := make([]PathCandidate, len(cands))
	for i, c := range cands {
		out[i] = c.Clone()
	}
	return out
}
