package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// csvRecord is one data row keyed by its (trimmed) header name.
type csvRecord map[string]string

// readCSV parses r as a header-first CSV document. Blank lines are skipped and
// rows may be shorter or longer than the header.
func readCSV(r io.Reader) ([]csvRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var records []csvRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		rec := make(csvRecord, len(headers))
		for i, val := range row {
			if i >= len(headers) {
				break
			}
			rec[headers[i]] = strings.TrimSpace(val)
		}
		records = append(records, rec)
	}

	return records, nil
}

// text returns the first non-empty value among the candidate headers.
func (r csvRecord) text(headers ...string) string {
	for _, h := range headers {
		if v := r[h]; v != "" {
			return v
		}
	}
	return ""
}

// optionalText is like text but reports absence as nil.
func (r csvRecord) optionalText(headers ...string) *string {
	if v := r.text(headers...); v != "" {
		return &v
	}
	return nil
}

// number parses the first present candidate. Currency symbols, thousands
// separators and a trailing percent sign are tolerated. NaN, Inf and
// anything else unparseable yield def.
func (r csvRecord) number(def float64, headers ...string) float64 {
	v := r.text(headers...)
	if v == "" {
		return def
	}
	cleaned := strings.NewReplacer("$", "", ",", "", "%", "").Replace(v)
	f, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// integer parses like number and truncates toward zero.
func (r csvRecord) integer(def int64, headers ...string) int64 {
	f := r.number(float64(def), headers...)
	return int64(f)
}

// flag accepts true/false, 1/0, t/f and yes/no in any case.
func (r csvRecord) flag(headers ...string) bool {
	v := strings.ToLower(r.text(headers...))
	if v == "yes" || v == "y" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
