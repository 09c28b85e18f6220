package models

// TimeSeries is the chart payload: labels are YYYY-MM month buckets, values the
// summed amounts for the bucket at the same index.
type TimeSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Summary combines both series for one user.
type Summary struct {
	Income   TimeSeries `json:"income"`
	Spending TimeSeries `json:"spending"`
	Totals   Totals     `json:"totals"`
}

// Totals holds overall sums. Currencies are not converted.
type Totals struct {
	Income   float64 `json:"income"`
	Spending float64 `json:"spending"`
	Net      float64 `json:"net"`
}

// MonthlyDigest is the payload of a digest.monthly event.
type MonthlyDigest struct {
	Month    string  `json:"month"` // YYYY-MM
	Income   float64 `json:"income"`
	Spending float64 `json:"spending"`
	Net      float64 `json:"net"`
}
