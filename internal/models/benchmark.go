package models

// BenchmarkRow compares the company module with three competitors on one
// parameter.
type BenchmarkRow struct {
	Parameter   string `json:"Parameter"`
	Company     string `json:"Company"`
	CompetitorA string `json:"Competitor A"`
	CompetitorB string `json:"Competitor B"`
	CompetitorC string `json:"Competitor C"`
}

var BenchmarkColumns = []string{"Parameter", "Company", "Competitor A", "Competitor B", "Competitor C"}

func (b BenchmarkRow) Cells() []string {
	return []string{b.Parameter, b.Company, b.CompetitorA, b.CompetitorB, b.CompetitorC}
}
