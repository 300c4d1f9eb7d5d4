package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/storelens/pos-insight-be/internal/core/apperrors"
	"github.com/storelens/pos-insight-be/internal/core/table"
)

// timestampLayouts are tried in order when parsing the sale timestamp
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006.01.02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalizer cleans one raw export into canonical transactions
type Normalizer struct {
	calendar HolidayCalendar
}

// NewNormalizer creates a normalizer using the given holiday calendar
func NewNormalizer(calendar HolidayCalendar) *Normalizer {
	return &Normalizer{calendar: calendar}
}

// Normalize reads the export at path, applies the register profile's cleaning
// pipeline and returns the normalized transactions. It fails with a
// ValidationError when no timestamp or revenue column survives cleaning.
func (n *Normalizer) Normalize(path string, profile Profile) ([]Transaction, error) {
	tbl, err := ReadFile(path, profile.HeaderSkip)
	if err != nil {
		return nil, err
	}

	if len(profile.Select) > 0 {
		names := make([]string, len(profile.Select))
		renames := make(map[string]string, len(profile.Select))
		for i, sel := range profile.Select {
			names[i] = sel.From
			renames[sel.From] = sel.To
		}
		if err := tbl.Select(names); err != nil {
			return nil, apperrors.Validation("register %s: %v", profile.Name, err)
		}
		tbl.Rename(renames)
	}
	if profile.DropFirstRow && tbl.NumRows() > 0 {
		tbl.DropRow(0)
	}
	if profile.DeriveRevenue != nil {
		if err := deriveRevenue(tbl, profile.DeriveRevenue); err != nil {
			return nil, err
		}
	}

	if profile.MultiHeader {
		tbl.DropHeaderEchoColumns()
	}
	tbl.DropEmptyRows()
	tbl.DropEmptyColumns()
	tbl.DropConstantColumns()
	tbl.DropDuplicateColumns()

	if profile.MultiHeader {
		tbl.ForwardFill()
		for _, rule := range profile.Coalesce {
			if tbl.HasCol(rule.Name) {
				continue
			}
			if cands := tbl.ColumnsWhereValueContains(rule.Token); len(cands) > 0 {
				tbl.Coalesce(rule.Name, cands)
			}
		}
		tbl.DropRowsWithNulls()
		tbl.PromoteFirstRowHeaders()
	}

	reconcileRevenue(tbl)

	return n.parse(tbl)
}

// deriveRevenue appends revenue = quantity * unit price
func deriveRevenue(tbl *table.Table, rule *RevenueRule) error {
	qty := tbl.Col(rule.Quantity)
	price := tbl.Col(rule.Price)
	if qty == nil || price == nil {
		return apperrors.Validation("cannot derive revenue: missing %q or %q column", rule.Quantity, rule.Price)
	}
	values := make([]string, tbl.NumRows())
	for r := range values {
		q, qErr := parseNumber(qty.Values[r])
		p, pErr := parseNumber(price.Values[r])
		if qErr != nil || pErr != nil {
			continue // left null, removed by the null-row filter
		}
		values[r] = strconv.FormatFloat(q*p, 'f', -1, 64)
	}
	tbl.AppendCol(rule.Out, values)
	return nil
}

// reconcileRevenue collapses the revenue candidates down to exactly one
// revenue-bearing column, first match wins.
func reconcileRevenue(tbl *table.Table) {
	found := false
	for _, cand := range revenueCandidates {
		if !tbl.HasCol(cand) {
			continue
		}
		if found {
			tbl.DropCols(cand)
			continue
		}
		tbl.Rename(map[string]string{cand: colRevenue})
		found = true
	}
}

// parse converts the cleaned table into typed transactions with derived
// calendar attributes.
func (n *Normalizer) parse(tbl *table.Table) ([]Transaction, error) {
	tsCol := tbl.Col(colTimestamp)
	if tsCol == nil {
		return nil, apperrors.Validation("no timestamp column resolvable in export (expected %q)", colTimestamp)
	}
	revCol := tbl.Col(colRevenue)
	if revCol == nil {
		return nil, apperrors.Validation("no revenue column resolvable in export")
	}
	itemCol := tbl.Col(colItem)
	qtyCol := tbl.Col(colQuantity)
	priceCol := tbl.Col(colUnitPrice)
	custCol := tbl.Col(colCustomers)

	txs := make([]Transaction, 0, tbl.NumRows())
	for r := 0; r < tbl.NumRows(); r++ {
		ts, err := parseTimestamp(tsCol.Values[r])
		if err != nil {
			return nil, apperrors.Validation("unparseable sale timestamp %q", tsCol.Values[r])
		}
		rev, err := parseNumber(revCol.Values[r])
		if err != nil {
			return nil, apperrors.Validation("unparseable revenue value %q", revCol.Values[r])
		}

		tx := Transaction{
			Timestamp: ts,
			Revenue:   rev,
			Year:      fmt.Sprintf("%04d", ts.Year()),
			Month:     fmt.Sprintf("%02d", int(ts.Month())),
			Day:       fmt.Sprintf("%02d", ts.Day()),
			Hour:      fmt.Sprintf("%02d", ts.Hour()),
			Minute:    fmt.Sprintf("%02d", ts.Minute()),
			Weekday:   ts.Weekday().String(),
			TimeOfDay: timeOfDay(ts.Hour()),
			Season:    season(int(ts.Month())),
			Holiday:   holidayFlag(ts, n.calendar),
		}
		if itemCol != nil {
			tx.Item = itemCol.Values[r]
		}
		if qtyCol != nil {
			if q, err := parseNumber(qtyCol.Values[r]); err == nil {
				tx.Quantity = q
			}
		}
		if priceCol != nil {
			if p, err := parseNumber(priceCol.Values[r]); err == nil {
				tx.UnitPrice = p
			}
		}
		if custCol != nil {
			if c, err := parseNumber(custCol.Values[r]); err == nil {
				count := int(c)
				tx.Customers = &count
			}
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("no timestamp layout matched %q", value)
}

// parseNumber parses a numeric cell, tolerating thousands separators and
// currency markers common in Korean register exports.
func parseNumber(value string) (float64, error) {
	cleaned := strings.NewReplacer(",", "", "₩", "", " ", "").Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric cell")
	}
	return strconv.ParseFloat(cleaned, 64)
}
