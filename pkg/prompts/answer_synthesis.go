package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ekaya-inc/ekaya-insights/pkg/models"
)

const (
	// SummaryRowLimit caps the rows embedded in a summary prompt.
	SummaryRowLimit = 10
	// InsightSampleSize caps the rows sampled from each dataset for insights.
	InsightSampleSize = 5
)

// BuildSummaryPrompt asks for a business-friendly answer to question over rows.
// Only the first SummaryRowLimit rows are embedded; the remainder is noted by count.
func BuildSummaryPrompt(rows []models.Row, question string) string {
	var prompt strings.Builder

	prompt.WriteString("You are a business analytics expert. Based on the following data and question, provide a clear, concise summary in natural language.\n\n")
	prompt.WriteString(fmt.Sprintf("Question: %q\n", question))

	sample := rows
	if len(sample) > SummaryRowLimit {
		sample = sample[:SummaryRowLimit]
	}
	prompt.WriteString("Data: " + marshalSample(sample))
	if extra := len(rows) - SummaryRowLimit; extra > 0 {
		prompt.WriteString(fmt.Sprintf(" ... and %d more rows", extra))
	}
	prompt.WriteString("\n\n")

	prompt.WriteString(`Provide a business-friendly answer that:
- Directly answers the question
- Highlights key insights
- Uses proper formatting with numbers
- Keeps it concise but informative
- Uses business terminology

Summary:`)

	return prompt.String()
}

// BuildInsightsPrompt asks for 4-5 insights as a JSON array of strings, using
// the first InsightSampleSize records of each dataset.
func BuildInsightsPrompt(
	adSales []*models.AdSalesRecord,
	totalSales []*models.TotalSalesRecord,
	eligibility []*models.EligibilityRecord,
) string {
	var prompt strings.Builder

	prompt.WriteString("You are a business intelligence analyst. Based on the following e-commerce data, provide 4-5 key business insights.\n\n")
	prompt.WriteString("Ad Sales Data (sample): " + marshalSample(head(adSales, InsightSampleSize)) + "\n")
	prompt.WriteString("Total Sales Data (sample): " + marshalSample(head(totalSales, InsightSampleSize)) + "\n")
	prompt.WriteString("Eligibility Data (sample): " + marshalSample(head(eligibility, InsightSampleSize)) + "\n\n")

	prompt.WriteString(`Provide insights as a JSON array of strings, focusing on:
- Revenue performance
- Ad spend efficiency
- Product performance
- Growth opportunities
- Risk factors

Format: ["Insight 1", "Insight 2", "Insight 3", "Insight 4", "Insight 5"]

Insights:`)

	return prompt.String()
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// marshalSample renders v as compact JSON. Row values are plain scalars, so a
// marshal failure only happens on programmer error and degrades to "[]".
func marshalSample(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}
