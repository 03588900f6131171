package models

// SeriesChart is a labelled series used by bar, line and pie charts.
type SeriesChart struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// Point is a single scatter chart coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScatterChart plots ad spend against revenue.
type ScatterChart struct {
	Data []Point `json:"data"`
}

// AnalyticsData holds the precomputed dashboard charts.
type AnalyticsData struct {
	BarChart     SeriesChart  `json:"barChart"`
	LineChart    SeriesChart  `json:"lineChart"`
	PieChart     SeriesChart  `json:"pieChart"`
	ScatterChart ScatterChart `json:"scatterChart"`
}

// EmptyAnalytics returns charts with empty, non-nil series so they encode as [].
func EmptyAnalytics() *AnalyticsData {
	return &AnalyticsData{
		BarChart:     SeriesChart{Labels: []string{}, Data: []float64{}},
		LineChart:    SeriesChart{Labels: []string{}, Data: []float64{}},
		PieChart:     SeriesChart{Labels: []string{}, Data: []float64{}},
		ScatterChart: ScatterChart{Data: []Point{}},
	}
}

// SummaryData is the dashboard headline plus AI-generated insights.
type SummaryData struct {
	TotalRevenue float64  `json:"totalRevenue"`
	TopProduct   string   `json:"topProduct"`
	AverageRoas  float64  `json:"averageRoas"`
	GrowthRate   float64  `json:"growthRate"`
	KeyInsights  []string `json:"keyInsights"`
}
