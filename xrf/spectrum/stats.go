package spectrum

// Stats holds count statistics of a spectrum.
type Stats struct {
	Channels   int     `json:"channels" yaml:"channels"`
	Total      float64 `json:"total" yaml:"total"`
	Mean       float64 `json:"mean" yaml:"mean"`
	Variance   float64 `json:"variance" yaml:"variance"` // population variance
	Max        float64 `json:"max" yaml:"max"`
	MaxChannel int     `json:"max_channel" yaml:"max_channel"`
	MaxEnergy  float64 `json:"max_energy" yaml:"max_energy"`
	Zero       int     `json:"zero" yaml:"zero"` // channels with no counts
}

// Stats computes the count statistics in a single pass using Welford's
// online algorithm for the variance.
func (s *Spectrum) Stats() Stats {
	n := len(s.Channels)
	if n == 0 {
		return Stats{MaxChannel: -1}
	}

	st := Stats{Channels: n, Max: s.Channels[0]}

	var mean, m2 float64
	for i, x := range s.Channels {
		ni := float64(i + 1)
		delta := x - mean
		mean += delta / ni
		m2 += delta * (x - mean)

		st.Total += x
		if x > st.Max {
			st.Max = x
			st.MaxChannel = i
		}
		if x == 0 {
			st.Zero++
		}
	}

	st.Mean = mean
	st.Variance = m2 / float64(n)
	if st.MaxChannel < len(s.Energy) {
		st.MaxEnergy = s.Energy[st.MaxChannel]
	}
	return st
}
