package services

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/ekaya-insights/pkg/models"
	"github.com/ekaya-inc/ekaya-insights/pkg/repositories"
)

const (
	barChartLimit     = 10
	lineChartLimit    = 12
	pieChartLimit     = 8
	scatterChartLimit = 20

	// placeholderGrowthRate stands in until historical data is tracked.
	placeholderGrowthRate = 15

	unknownLabel      = "Unknown"
	otherCategory     = "Other"
	noTopProduct      = "N/A"
	summaryFailedText = "Unable to generate insights at this time."
)

// AnalyticsService computes the dashboard charts and headline summary.
// Both operations degrade to empty payloads instead of failing.
type AnalyticsService interface {
	Charts(ctx context.Context) *models.AnalyticsData
	Summary(ctx context.Context) *models.SummaryData
}

type analyticsService struct {
	records     repositories.RecordRepository
	synthesizer SynthesizerService
	logger      *zap.Logger
}

func NewAnalyticsService(records repositories.RecordRepository, synthesizer SynthesizerService, logger *zap.Logger) AnalyticsService {
	return &analyticsService{
		records:     records,
		synthesizer: synthesizer,
		logger:      logger.Named("analytics-service"),
	}
}

var _ AnalyticsService = (*analyticsService)(nil)

// datasets holds one consistent read of the three tables.
type datasets struct {
	adSales     []*models.AdSalesRecord
	totalSales  []*models.TotalSalesRecord
	eligibility []*models.EligibilityRecord
}

func (s *analyticsService) load(ctx context.Context, withEligibility bool) (*datasets, error) {
	var d datasets
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		d.adSales, err = s.records.ListAdSales(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.totalSales, err = s.records.ListTotalSales(gctx)
		return err
	})
	if withEligibility {
		g.Go(func() error {
			var err error
			d.eligibility, err = s.records.ListEligibility(gctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *analyticsService) Charts(ctx context.Context) *models.AnalyticsData {
	d, err := s.load(ctx, false)
	if err != nil {
		s.logger.Error("Failed to load data for analytics, returning empty charts", zap.Error(err))
		return models.EmptyAnalytics()
	}

	// Every chart reads the same two orderings: sales ranked by revenue and
	// ad rows sorted by product name.
	ranked := sortedByRevenue(d.totalSales)
	byName := sortedByName(d.adSales)

	return &models.AnalyticsData{
		BarChart:     revenueByProduct(ranked),
		LineChart:    adSpendByProduct(byName),
		PieChart:     revenueByCategory(ranked),
		ScatterChart: adSpendVsRevenue(byName, ranked),
	}
}

func (s *analyticsService) Summary(ctx context.Context) *models.SummaryData {
	d, err := s.load(ctx, true)
	if err != nil {
		s.logger.Error("Failed to load data for summary, returning placeholder", zap.Error(err))
		return &models.SummaryData{
			TopProduct:  noTopProduct,
			KeyInsights: []string{summaryFailedText},
		}
	}

	totalRevenue := 0.0
	for _, r := range d.totalSales {
		totalRevenue += r.TotalRevenue
	}

	topProduct := noTopProduct
	if ranked := sortedByRevenue(d.totalSales); len(ranked) > 0 && ranked[0].ProductName != "" {
		topProduct = ranked[0].ProductName
	}

	return &models.SummaryData{
		TotalRevenue: totalRevenue,
		TopProduct:   topProduct,
		AverageRoas:  averagePositiveRoas(d.adSales),
		GrowthRate:   placeholderGrowthRate,
		KeyInsights:  s.synthesizer.Insights(ctx, d.adSales, d.totalSales, d.eligibility),
	}
}

// sortedByRevenue returns a copy ordered by total revenue, highest first.
func sortedByRevenue(records []*models.TotalSalesRecord) []*models.TotalSalesRecord {
	out := make([]*models.TotalSalesRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalRevenue > out[j].TotalRevenue
	})
	return out
}

// sortedByName returns a copy ordered by product name, ascending.
func sortedByName(records []*models.AdSalesRecord) []*models.AdSalesRecord {
	out := make([]*models.AdSalesRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.Compare(out[i].ProductName, out[j].ProductName) < 0
	})
	return out
}

func labelOrUnknown(name string) string {
	if name == "" {
		return unknownLabel
	}
	return name
}

func revenueByProduct(ranked []*models.TotalSalesRecord) models.SeriesChart {
	if len(ranked) > barChartLimit {
		ranked = ranked[:barChartLimit]
	}

	chart := models.SeriesChart{Labels: make([]string, 0, len(ranked)), Data: make([]float64, 0, len(ranked))}
	for _, r := range ranked {
		chart.Labels = append(chart.Labels, labelOrUnknown(r.ProductName))
		chart.Data = append(chart.Data, r.TotalRevenue)
	}
	return chart
}

func adSpendByProduct(byName []*models.AdSalesRecord) models.SeriesChart {
	sorted := byName
	if len(sorted) > lineChartLimit {
		sorted = sorted[:lineChartLimit]
	}

	chart := models.SeriesChart{Labels: make([]string, 0, len(sorted)), Data: make([]float64, 0, len(sorted))}
	for _, r := range sorted {
		chart.Labels = append(chart.Labels, labelOrUnknown(r.ProductName))
		chart.Data = append(chart.Data, r.AdSpend)
	}
	return chart
}

// revenueByCategory sums revenue per category in first-seen order of the
// revenue-ranked rows.
func revenueByCategory(records []*models.TotalSalesRecord) models.SeriesChart {
	var order []string
	totals := make(map[string]float64)
	for _, r := range records {
		category := r.Category
		if category == "" {
			category = otherCategory
		}
		if _, seen := totals[category]; !seen {
			order = append(order, category)
		}
		totals[category] += r.TotalRevenue
	}
	if len(order) > pieChartLimit {
		order = order[:pieChartLimit]
	}

	chart := models.SeriesChart{Labels: make([]string, 0, len(order)), Data: make([]float64, 0, len(order))}
	for _, category := range order {
		chart.Labels = append(chart.Labels, category)
		chart.Data = append(chart.Data, totals[category])
	}
	return chart
}

// adSpendVsRevenue joins the first name-sorted ad rows to sales totals by
// product name. A duplicated product matches its highest-revenue row. Points
// with zero ad spend or zero revenue are skipped.
func adSpendVsRevenue(adSales []*models.AdSalesRecord, totalSales []*models.TotalSalesRecord) models.ScatterChart {
	revenueByName := make(map[string]float64, len(totalSales))
	for _, r := range totalSales {
		if _, ok := revenueByName[r.ProductName]; !ok {
			revenueByName[r.ProductName] = r.TotalRevenue
		}
	}

	ads := adSales
	if len(ads) > scatterChartLimit {
		ads = ads[:scatterChartLimit]
	}

	chart := models.ScatterChart{Data: make([]models.Point, 0, len(ads))}
	for _, ad := range ads {
		revenue, ok := revenueByName[ad.ProductName]
		if !ok || ad.AdSpend == 0 || revenue == 0 {
			continue
		}
		chart.Data = append(chart.Data, models.Point{X: ad.AdSpend, Y: revenue})
	}
	return chart
}

func averagePositiveRoas(records []*models.AdSalesRecord) float64 {
	sum, n := 0.0, 0
	for _, r := range records {
		if r.ROAS > 0 {
			sum += r.ROAS
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
