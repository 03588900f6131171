// Package ingest loads the sales datasets into the record store at startup.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/ekaya-insights/pkg/models"
	"github.com/ekaya-inc/ekaya-insights/pkg/repositories"
)

// CSV file names looked up under the data directory.
const (
	AdSalesFile     = "sample_ad_sales.csv"
	TotalSalesFile  = "sample_total_sales.csv"
	EligibilityFile = "sample_eligibility.csv"
)

// Source records where a table's rows came from.
type Source string

const (
	SourceCSV  Source = "csv"
	SourceSeed Source = "seed"
)

// TableReport describes the outcome of loading one table.
type TableReport struct {
	Table  string `json:"table" yaml:"table"`
	Source Source `json:"source" yaml:"source"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Rows   int    `json:"rows" yaml:"rows"`
}

// Loader reads the three CSV files from a data directory. A missing file is
// replaced by the built-in seed rows. A file that cannot be read or parsed
// leaves its table empty without affecting the other two.
type Loader struct {
	repo    repositories.RecordRepository
	dataDir string
	logger  *zap.Logger
}

func NewLoader(repo repositories.RecordRepository, dataDir string, logger *zap.Logger) *Loader {
	return &Loader{
		repo:    repo,
		dataDir: dataDir,
		logger:  logger.Named("ingest"),
	}
}

// Load parses all files concurrently, then inserts ad sales, total sales and
// eligibility in that order so id assignment is deterministic. Per-table
// failures are joined into the returned error; reports cover the tables that
// loaded. Only context cancellation aborts the whole load.
func (l *Loader) Load(ctx context.Context) ([]TableReport, error) {
	var (
		adSales     []*models.AdSalesRecord
		totalSales  []*models.TotalSalesRecord
		eligibility []*models.EligibilityRecord
		reports     = make([]TableReport, 3)
		failures    = make([]error, 3)
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		adSales, reports[0], failures[0] = loadTable(gctx, l, models.TableAdSales, AdSalesFile, parseAdSales, SeedAdSales)
		return gctx.Err()
	})
	g.Go(func() error {
		totalSales, reports[1], failures[1] = loadTable(gctx, l, models.TableTotalSales, TotalSalesFile, parseTotalSales, SeedTotalSales)
		return gctx.Err()
	})
	g.Go(func() error {
		eligibility, reports[2], failures[2] = loadTable(gctx, l, models.TableEligibility, EligibilityFile, parseEligibility, SeedEligibility)
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	inserts := []func() error{
		func() error { return l.repo.BulkInsertAdSales(ctx, adSales) },
		func() error { return l.repo.BulkInsertTotalSales(ctx, totalSales) },
		func() error { return l.repo.BulkInsertEligibility(ctx, eligibility) },
	}

	loaded := make([]TableReport, 0, len(reports))
	for i, insert := range inserts {
		if failures[i] != nil {
			l.logger.Error("Failed to load table, leaving it empty",
				zap.String("table", reports[i].Table),
				zap.Error(failures[i]))
			continue
		}
		if err := insert(); err != nil {
			return nil, fmt.Errorf("insert %s: %w", reports[i].Table, err)
		}
		l.logger.Info("Loaded table",
			zap.String("table", reports[i].Table),
			zap.String("source", string(reports[i].Source)),
			zap.Int("rows", reports[i].Rows))
		loaded = append(loaded, reports[i])
	}

	return loaded, errors.Join(failures...)
}

func loadTable[T any](
	ctx context.Context,
	l *Loader,
	table, fileName string,
	parse func([]csvRecord) []T,
	seed func() []T,
) ([]T, TableReport, error) {
	path := filepath.Join(l.dataDir, fileName)
	report := TableReport{Table: table, Path: path}

	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Warn("Data file not found, using sample data",
			zap.String("table", table),
			zap.String("path", path))
		rows := seed()
		report.Source, report.Path, report.Rows = SourceSeed, "", len(rows)
		return rows, report, nil
	}
	if err != nil {
		return nil, report, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := readCSV(f)
	if err != nil {
		return nil, report, fmt.Errorf("parse %s: %w", path, err)
	}

	rows := parse(records)
	report.Source, report.Rows = SourceCSV, len(rows)
	return rows, report, nil
}

func parseAdSales(records []csvRecord) []*models.AdSalesRecord {
	out := make([]*models.AdSalesRecord, 0, len(records))
	for _, r := range records {
		out = append(out, &models.AdSalesRecord{
			ProductName:    r.text("product_name", "Product"),
			CampaignName:   r.text("campaign_name", "Campaign"),
			AdSpend:        r.number(0, "ad_spend", "Ad Spend"),
			Impressions:    r.integer(0, "impressions", "Impressions"),
			Clicks:         r.integer(0, "clicks", "Clicks"),
			CPC:            r.number(0, "cpc", "CPC"),
			CTR:            r.number(0, "ctr", "CTR"),
			Conversions:    r.integer(0, "conversions", "Conversions"),
			ConversionRate: r.number(0, "conversion_rate", "Conversion Rate"),
			ROAS:           r.number(0, "roas", "ROAS"),
		})
	}
	return out
}

func parseTotalSales(records []csvRecord) []*models.TotalSalesRecord {
	out := make([]*models.TotalSalesRecord, 0, len(records))
	for _, r := range records {
		out = append(out, &models.TotalSalesRecord{
			ProductName:             r.text("product_name", "Product"),
			Category:                r.text("category", "Category"),
			TotalRevenue:            r.number(0, "total_revenue", "Total Revenue"),
			UnitsSold:               r.integer(0, "units_sold", "Units Sold"),
			AvgOrderValue:           r.number(0, "avg_order_value", "AOV"),
			ProfitMargin:            r.number(0, "profit_margin", "Profit Margin"),
			CustomerAcquisitionCost: r.number(0, "customer_acquisition_cost", "CAC"),
		})
	}
	return out
}

func parseEligibility(records []csvRecord) []*models.EligibilityRecord {
	out := make([]*models.EligibilityRecord, 0, len(records))
	for _, r := range records {
		out = append(out, &models.EligibilityRecord{
			ProductName:            r.text("product_name", "Product"),
			EligibleForAds:         r.flag("eligible_for_ads", "Eligible for Ads"),
			CategoryRestrictions:   r.optionalText("category_restrictions", "Category Restrictions"),
			MinOrderQuantity:       r.integer(1, "min_order_quantity", "Min Order Qty"),
			MaxOrderQuantity:       r.integer(1000, "max_order_quantity", "Max Order Qty"),
			GeographicRestrictions: r.optionalText("geographic_restrictions", "Geographic Restrictions"),
		})
	}
	return out
}
