package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const metricColumns = "ts, parcel_id, eto_mm_h, etc_mm_h, pe_mm_h, depletion_mm, ks, stress_index"

// MetricRow is one metrics_hourly row as exported
type MetricRow struct {
	Timestamp   time.Time `db:"ts" csv:"ts" json:"ts"`
	ParcelID    string    `db:"parcel_id" csv:"parcel_id" json:"parcel_id"`
	ETo         float64   `db:"eto_mm_h" csv:"eto_mm_h" json:"eto_mm_h"`
	ETc         float64   `db:"etc_mm_h" csv:"etc_mm_h" json:"etc_mm_h"`
	Pe          float64   `db:"pe_mm_h" csv:"pe_mm_h" json:"pe_mm_h"`
	Depletion   float64   `db:"depletion_mm" csv:"depletion_mm" json:"depletion_mm"`
	Ks          float64   `db:"ks" csv:"ks" json:"ks"`
	StressIndex float64   `db:"stress_index" csv:"stress_index" json:"stress_index"`
}

// Filter restricts the exported rows. Zero values do not filter.
type Filter struct {
	ParcelID string
	Start    time.Time
	End      time.Time
}

func (f Filter) where() (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if f.ParcelID != "" {
		add("parcel_id = ?", f.ParcelID)
	}
	if !f.Start.IsZero() {
		add("ts >= ?", f.Start)
	}
	if !f.End.IsZero() {
		add("ts <= ?", f.End)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Query returns the export query and its arguments
func (f Filter) Query() (string, []any) {
	where, args := f.where()
	return "SELECT " + metricColumns + " FROM metrics_hourly" + where + " ORDER BY parcel_id, ts", args
}

// CountQuery returns a query counting the rows Query would return
func (f Filter) CountQuery() (string, []any) {
	where, args := f.where()
	return "SELECT COUNT(*) FROM metrics_hourly" + where, args
}

func fetchMetrics(ctx context.Context, pool *pgxpool.Pool, query string, args []any) ([]MetricRow, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	metrics, err := pgx.CollectRows(rows, pgx.RowToStructByName[MetricRow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan rows: %w", err)
	}
	return metrics, nil
}

func writeCSV(w io.Writer, rows []MetricRow) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, rows []MetricRow) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}
