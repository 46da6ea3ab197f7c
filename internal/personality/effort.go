package personality

import "fmt"

// Effort holds the four Laban effort components. Values are not clamped.
type Effort struct {
	Space  float32 `json:"space"`
	Weight float32 `json:"weight"`
	Time   float32 `json:"time"`
	Flow   float32 `json:"flow"`
}

func (e Effort) String() string {
	return fmt.Sprintf("space=%.3f weight=%.3f time=%.3f flow=%.3f", e.Space, e.Weight, e.Time, e.Flow)
}

// effortMatrix maps O, C, E, A, N onto Space, Weight, Time and Flow.
var effortMatrix = [4][TraitCount]float32{
	{-0.921, 0.928, -0.894, 0.000, -1.000}, // space
	{0.000, 0.000, 0.000, -1.000, 0.000},   // weight
	{0.000, -0.857, 0.990, -1.000, 0.970},  // time
	{-0.931, 0.938, -1.000, 0.000, -0.762}, // flow
}

// Convert maps traits to effort. Each component is the strongest positive
// weighted trait plus the strongest negative one; the remaining terms are
// ignored. Traits are clamped before use.
func Convert(t Traits) Effort {
	v := t.Clamped().Values()
	return Effort{
		Space:  dominantTerm(effortMatrix[0], v),
		Weight: dominantTerm(effortMatrix[1], v),
		Time:   dominantTerm(effortMatrix[2], v),
		Flow:   dominantTerm(effortMatrix[3], v),
	}
}

func dominantTerm(coefficients, traits [TraitCount]float32) float32 {
	var maxPositive, minNegative float32
	for i := 0; i < TraitCount; i++ {
		p := coefficients[i] * traits[i]
		if p > 0 {
			maxPositive = max(maxPositive, p)
		} else {
			minNegative = min(minNegative, p)
		}
	}
	return maxPositive + minNegative
}
