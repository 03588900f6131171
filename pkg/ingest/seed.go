package ingest

import (
	"github.com/ekaya-inc/ekaya-insights/pkg/models"
)

// SeedAdSales is loaded when the ad sales CSV is absent.
func SeedAdSales() []*models.AdSalesRecord {
	return []*models.AdSalesRecord{
		{
			ProductName: "Wireless Headphones Pro", CampaignName: "Summer Sale 2024",
			AdSpend: 15000, Impressions: 150000, Clicks: 4500, CPC: 3.33, CTR: 3.0,
			Conversions: 450, ConversionRate: 10.0, ROAS: 5.2,
		},
		{
			ProductName: "Smart Watch Series X", CampaignName: "Tech Launch Campaign",
			AdSpend: 22000, Impressions: 200000, Clicks: 6000, CPC: 3.67, CTR: 3.0,
			Conversions: 600, ConversionRate: 10.0, ROAS: 4.8,
		},
		{
			ProductName: "Gaming Laptop Ultra", CampaignName: "Gaming Week Promo",
			AdSpend: 35000, Impressions: 120000, Clicks: 3600, CPC: 9.72, CTR: 3.0,
			Conversions: 180, ConversionRate: 5.0, ROAS: 6.2,
		},
	}
}

// SeedTotalSales is loaded when the total sales CSV is absent.
func SeedTotalSales() []*models.TotalSalesRecord {
	return []*models.TotalSalesRecord{
		{
			ProductName: "Wireless Headphones Pro", Category: "Electronics",
			TotalRevenue: 750000, UnitsSold: 2500, AvgOrderValue: 300,
			ProfitMargin: 25.5, CustomerAcquisitionCost: 45,
		},
		{
			ProductName: "Smart Watch Series X", Category: "Wearables",
			TotalRevenue: 920000, UnitsSold: 2300, AvgOrderValue: 400,
			ProfitMargin: 30.2, CustomerAcquisitionCost: 52,
		},
		{
			ProductName: "Gaming Laptop Ultra", Category: "Computers",
			TotalRevenue: 1200000, UnitsSold: 800, AvgOrderValue: 1500,
			ProfitMargin: 22.8, CustomerAcquisitionCost: 180,
		},
	}
}

// SeedEligibility is loaded when the eligibility CSV is absent.
func SeedEligibility() []*models.EligibilityRecord {
	geo := "US, CA, EU"
	age := "Age 18+"
	return []*models.EligibilityRecord{
		{
			ProductName: "Wireless Headphones Pro", EligibleForAds: true,
			MinOrderQuantity: 1, MaxOrderQuantity: 500,
		},
		{
			ProductName: "Smart Watch Series X", EligibleForAds: true,
			MinOrderQuantity: 1, MaxOrderQuantity: 300, GeographicRestrictions: &geo,
		},
		{
			ProductName: "Gaming Laptop Ultra", EligibleForAds: true, CategoryRestrictions: &age,
			MinOrderQuantity: 1, MaxOrderQuantity: 100,
		},
	}
}
