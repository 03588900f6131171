package models

// Table name tokens recognized by the query engine, in dispatch order.
const (
	TableAdSales     = "ad_sales_metrics"
	TableTotalSales  = "total_sales_metrics"
	TableEligibility = "eligibility_table"
)

// KnownTables lists the table tokens in the fixed scan order used for dispatch.
var KnownTables = []string{TableAdSales, TableTotalSales, TableEligibility}

// Row is an open mapping from field name to value (number, string, bool or nil).
// Aggregate results invent their own field names, so rows carry no fixed schema.
type Row map[string]any

// AdSalesRecord is one row of per-product advertising performance.
type AdSalesRecord struct {
	ID             int64   `json:"id"`
	ProductName    string  `json:"product_name"`
	CampaignName   string  `json:"campaign_name"`
	AdSpend        float64 `json:"ad_spend"`
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	CPC            float64 `json:"cpc"`
	CTR            float64 `json:"ctr"`
	Conversions    int64   `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"`
	ROAS           float64 `json:"roas"`
}

// Row converts the record into an engine row keyed by column name.
func (r *AdSalesRecord) Row() Row {
	return Row{
		"id":              r.ID,
		"product_name":    r.ProductName,
		"campaign_name":   r.CampaignName,
		"ad_spend":        r.AdSpend,
		"impressions":     r.Impressions,
		"clicks":          r.Clicks,
		"cpc":             r.CPC,
		"ctr":             r.CTR,
		"conversions":     r.Conversions,
		"conversion_rate": r.ConversionRate,
		"roas":            r.ROAS,
	}
}

// TotalSalesRecord is one row of per-product sales totals.
type TotalSalesRecord struct {
	ID                      int64   `json:"id"`
	ProductName             string  `json:"product_name"`
	Category                string  `json:"category"`
	TotalRevenue            float64 `json:"total_revenue"`
	UnitsSold               int64   `json:"units_sold"`
	AvgOrderValue           float64 `json:"avg_order_value"`
	ProfitMargin            float64 `json:"profit_margin"`
	CustomerAcquisitionCost float64 `json:"customer_acquisition_cost"`
}

// Row converts the record into an engine row keyed by column name.
func (r *TotalSalesRecord) Row() Row {
	return Row{
		"id":                        r.ID,
		"product_name":              r.ProductName,
		"category":                  r.Category,
		"total_revenue":             r.TotalRevenue,
		"units_sold":                r.UnitsSold,
		"avg_order_value":           r.AvgOrderValue,
		"profit_margin":             r.ProfitMargin,
		"customer_acquisition_cost": r.CustomerAcquisitionCost,
	}
}

// EligibilityRecord describes whether and where a product may be advertised.
type EligibilityRecord struct {
	ID                     int64   `json:"id"`
	ProductName            string  `json:"product_name"`
	EligibleForAds         bool    `json:"eligible_for_ads"`
	CategoryRestrictions   *string `json:"category_restrictions"`
	MinOrderQuantity       int64   `json:"min_order_quantity"`
	MaxOrderQuantity       int64   `json:"max_order_quantity"`
	GeographicRestrictions *string `json:"geographic_restrictions"`
}

// Row converts the record into an engine row keyed by column name.
// Absent restrictions become nil values.
func (r *EligibilityRecord) Row() Row {
	row := Row{
		"id":                      r.ID,
		"product_name":            r.ProductName,
		"eligible_for_ads":        r.EligibleForAds,
		"category_restrictions":   nil,
		"min_order_quantity":      r.MinOrderQuantity,
		"max_order_quantity":      r.MaxOrderQuantity,
		"geographic_restrictions": nil,
	}
	if r.CategoryRestrictions != nil {
		row["category_restrictions"] = *r.CategoryRestrictions
	}
	if r.GeographicRestrictions != nil {
		row["geographic_restrictions"] = *r.GeographicRestrictions
	}
	return row
}

// DataCounts reports how many records each table holds.
type DataCounts struct {
	AdSales     int `json:"adSales" yaml:"adSales"`
	TotalSales  int `json:"totalSales" yaml:"totalSales"`
	Eligibility int `json:"eligibility" yaml:"eligibility"`
}
