package prompts

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/ekaya-insights/pkg/models"
)

// TableSchema describes one queryable table for the SQL generation prompt.
type TableSchema struct {
	Name    string
	Columns []string
}

// Schemas is the fixed schema description the model generates SQL against.
var Schemas = []TableSchema{
	{
		Name: models.TableAdSales,
		Columns: []string{"product_name", "campaign_name", "ad_spend", "impressions", "clicks",
			"cpc", "ctr", "conversions", "conversion_rate", "roas"},
	},
	{
		Name: models.TableTotalSales,
		Columns: []string{"product_name", "category", "total_revenue", "units_sold",
			"avg_order_value", "profit_margin", "customer_acquisition_cost"},
	},
	{
		Name: models.TableEligibility,
		Columns: []string{"product_name", "eligible_for_ads", "category_restrictions",
			"min_order_quantity", "max_order_quantity", "geographic_restrictions"},
	},
}

var sqlRules = []string{
	"Generate only valid SQL SELECT statements",
	"Use proper table and column names",
	"Include appropriate WHERE, GROUP BY, ORDER BY clauses as needed",
	"For aggregations, use SUM, COUNT, AVG as appropriate",
	"Limit results to reasonable numbers (use LIMIT clause)",
	"Return only the SQL query, no explanations",
}

// BuildSQLPrompt creates the NL-to-SQL instruction prompt for question.
// The output is deterministic for a given question.
func BuildSQLPrompt(question string) string {
	var prompt strings.Builder

	prompt.WriteString("You are an expert SQL query generator. Convert the following natural language question into a SQL query.\n\n")

	prompt.WriteString("Available tables and their schemas:\n")
	for i, table := range Schemas {
		prompt.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, table.Name, strings.Join(table.Columns, ", ")))
	}

	prompt.WriteString(fmt.Sprintf("\nQuestion: %q\n\n", question))

	prompt.WriteString("Rules:\n")
	for _, rule := range sqlRules {
		prompt.WriteString("- " + rule + "\n")
	}

	prompt.WriteString("\nSQL Query:")

	return prompt.String()
}
