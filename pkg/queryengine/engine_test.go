package queryengine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-insights/pkg/models"
	"github.com/ekaya-inc/ekaya-insights/pkg/repositories"
)

func newTestEngine(t *testing.T) (*Engine, *repositories.MemoryStore) {
	t.Helper()
	store := repositories.NewMemoryStore()
	return New(store, zap.NewNop()), store
}

func TestEngine_SumTotalRevenue(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.BulkInsertTotalSales(ctx, []*models.TotalSalesRecord{
		{ProductName: "A", TotalRevenue: 100},
		{ProductName: "B", TotalRevenue: 200},
	}))

	rows, err := engine.Execute(ctx, "SELECT SUM(total_revenue) FROM total_sales_metrics")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.Row{"total_revenue": 300.0, "total": 300.0}, rows[0])
}

func TestEngine_SumMissingFieldIsZero(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.BulkInsertTotalSales(ctx, []*models.TotalSalesRecord{
		{ProductName: "A", TotalRevenue: 100},
		{ProductName: "B", TotalRevenue: 200},
	}))

	rows, err := engine.Execute(ctx, "select sum(revenue) from total_sales_metrics")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0]["revenue"])
	assert.Equal(t, 0.0, rows[0]["total"])
}

func TestEngine_SumNonNumericFieldIsZero(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.BulkInsertTotalSales(ctx, []*models.TotalSalesRecord{
		{ProductName: "A", Category: "Electronics"},
	}))

	rows, err := engine.Execute(ctx, "SELECT SUM(category) FROM total_sales_metrics")
	require.NoError(t, err)
	assert.Equal(t, 0.0, rows[0]["total"])
}

func TestEngine_SumDefaultsToTotalRevenue(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.BulkInsertTotalSales(ctx, []*models.TotalSalesRecord{
		{ProductName: "A", TotalRevenue: 10},
		{ProductName: "B", TotalRevenue: 5.5},
	}))

	// "SUM(DISTINCT x)" does not match the single-word column pattern.
	rows, err := engine.Execute(ctx, "SELECT SUM(DISTINCT units_sold) FROM total_sales_metrics")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 15.5, rows[0]["total_revenue"])
	assert.Equal(t, 15.5, rows[0]["total"])
}

func TestEngine_SumCaseInsensitiveColumn(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.BulkInsertAdSales(ctx, []*models.AdSalesRecord{
		{ProductName: "A", AdSpend: 1000, Clicks: 10},
		{ProductName: "B", AdSpend: 500, Clicks: 5},
	}))

	rows, err := engine.Execute(ctx, "SELECT SUM(CLICKS) FROM AD_SALES_METRICS")
	require.NoError(t, err)
	assert.Equal(t, models.Row{"CLICKS": 15.0, "total": 15.0}, rows[0])
}

func TestEngine_SumTakesPriorityOverCount(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.BulkInsertAdSales(ctx, []*models.AdSalesRecord{
		{ProductName: "A", AdSpend: 1},
	}))

	rows, err := engine.Execute(ctx, "SELECT COUNT(*), SUM(ad_spend) FROM ad_sales_metrics")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0], "ad_spend")
	assert.NotContains(t, rows[0], "count")
}

func TestEngine_CountIgnoresWhere(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.BulkInsertEligibility(ctx, []*models.EligibilityRecord{
		{ProductName: "A", EligibleForAds: true},
		{ProductName: "B", EligibleForAds: false},
		{ProductName: "C", EligibleForAds: true},
	}))

	rows, err := engine.Execute(ctx, "SELECT COUNT(*) FROM eligibility_table WHERE eligible_for_ads = true")
	require.NoError(t, err)
	assert.Equal(t, []models.Row{{"count": 3}}, rows)
}

func TestEngine_OrderByDesc(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	var records []*models.AdSalesRecord
	for i := 0; i < 15; i++ {
		records = append(records, &models.AdSalesRecord{
			ProductName: fmt.Sprintf("P%02d", i),
			ROAS:        float64(i),
		})
	}
	require.NoError(t, store.BulkInsertAdSales(ctx, records))

	rows, err := engine.Execute(ctx, "SELECT * FROM ad_sales_metrics ORDER BY roas DESC LIMIT 3")
	require.NoError(t, err)
	require.Len(t, rows, 10, "ORDER BY DESC returns at most 10 rows regardless of LIMIT")
	assert.Equal(t, "P14", rows[0]["product_name"])
	assert.Equal(t, "P05", rows[9]["product_name"])
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1]["roas"], rows[i]["roas"])
	}
}

func TestEngine_OrderByDescDefaultsToID(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.BulkInsertTotalSales(ctx, []*models.TotalSalesRecord{
		{ProductName: "first"}, {ProductName: "second"}, {ProductName: "third"},
	}))

	// No whitespace between BY and the column, so extraction falls back to id.
	rows, err := engine.Execute(ctx, "SELECT * FROM total_sales_metrics ORDER BY(total_revenue) DESC")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "third", rows[0]["product_name"])
	assert.Equal(t, "first", rows[2]["product_name"])
}

func TestEngine_OrderByWithoutDescIsPlainScan(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.BulkInsertTotalSales(ctx, []*models.TotalSalesRecord{
		{ProductName: "low", TotalRevenue: 1},
		{ProductName: "high", TotalRevenue: 100},
	}))

	rows, err := engine.Execute(ctx, "SELECT * FROM total_sales_metrics ORDER BY total_revenue ASC")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "low", rows[0]["product_name"], "storage order is kept")
}

func TestEngine_PlainScanCapsAt100(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	var records []*models.TotalSalesRecord
	for i := 0; i < 150; i++ {
		records = append(records, &models.TotalSalesRecord{ProductName: fmt.Sprintf("P%03d", i)})
	}
	require.NoError(t, store.BulkInsertTotalSales(ctx, records))

	rows, err := engine.Execute(ctx, "SELECT * FROM total_sales_metrics WHERE product_name = 'P149'")
	require.NoError(t, err)
	require.Len(t, rows, 100)
	assert.Equal(t, "P000", rows[0]["product_name"])
	assert.Equal(t, "P099", rows[99]["product_name"])
}

func TestEngine_DispatchUsesFixedScanOrder(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	require.NoError(t, store.BulkInsertAdSales(ctx, []*models.AdSalesRecord{{ProductName: "from-ads"}}))
	require.NoError(t, store.BulkInsertTotalSales(ctx, []*models.TotalSalesRecord{{ProductName: "from-totals"}}))

	rows, err := engine.Execute(ctx,
		"SELECT * FROM total_sales_metrics t JOIN ad_sales_metrics a ON a.product_name = t.product_name")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "from-ads", rows[0]["product_name"])
}

func TestEngine_EmptyTableReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t)

	for _, q := range []string{
		"SELECT * FROM ad_sales_metrics",
		"SELECT * FROM eligibility_table ORDER BY max_order_quantity DESC",
	} {
		rows, err := engine.Execute(ctx, q)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	}
}

func TestEngine_UnknownOrEmptySQL(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)
	require.NoError(t, store.BulkInsertAdSales(ctx, []*models.AdSalesRecord{{ProductName: "A"}}))

	for _, q := range []string{"", "SELECT * FROM orders", "not sql at all"} {
		rows, err := engine.Execute(ctx, q)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	}
}

func TestEngine_CancelledContext(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Execute(ctx, "SELECT * FROM ad_sales_metrics")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrExecution))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEngine_ResultDoesNotAliasStore(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)
	require.NoError(t, store.BulkInsertAdSales(ctx, []*models.AdSalesRecord{{ProductName: "A"}}))

	rows, err := engine.Execute(ctx, "SELECT * FROM ad_sales_metrics")
	require.NoError(t, err)
	rows[0]["product_name"] = "mutated"

	again, err := engine.Execute(ctx, "SELECT * FROM ad_sales_metrics")
	require.NoError(t, err)
	assert.Equal(t, "A", again[0]["product_name"])
}
