package services

import (
	"context"
	"sort"
	"time"

	"github.com/isdelr/finance-tracker-be/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const monthLayout = "2006-01"

// TimeSeries groups the user's records of the kind by calendar month. An unknown
// user simply has no records and yields an empty series.
func (s *TransactionService) TimeSeries(ctx context.Context, userUUID string, kind models.Kind) (models.TimeSeries, error) {
	txs, err := s.findByUser(ctx, userUUID, kind)
	if err != nil {
		return models.TimeSeries{}, err
	}
	return BuildTimeSeries(txs), nil
}

// Summary computes both series for the user concurrently, plus overall totals.
func (s *TransactionService) Summary(ctx context.Context, userUUID string) (models.Summary, error) {
	if err := s.requireUser(ctx, userUUID); err != nil {
		return models.Summary{}, err
	}

	var summary models.Summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		series, err := s.TimeSeries(gctx, userUUID, models.KindIncome)
		summary.Income = series
		return err
	})
	g.Go(func() error {
		series, err := s.TimeSeries(gctx, userUUID, models.KindSpending)
		summary.Spending = series
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Summary{}, err
	}

	summary.Totals.Income = sum(summary.Income.Values)
	summary.Totals.Spending = sum(summary.Spending.Values)
	summary.Totals.Net = summary.Totals.Income - summary.Totals.Spending
	return summary, nil
}

// BuildTimeSeries buckets records by the month of their date and sums the
// amounts per bucket. Buckets are in ascending order and labels line up with
// values. Membership is decided by comparing parsed dates against the
// bucket's [start, next month) range.
func BuildTimeSeries(txs []models.Transaction) models.TimeSeries {
	type dated struct {
		at     time.Time
		amount float64
	}

	records := make([]dated, 0, len(txs))
	seen := make(map[time.Time]bool)
	var buckets []time.Time
	for _, tx := range txs {
		at, err := tx.ParsedDate()
		if err != nil {
			log.Warn().Str("id", tx.ID).Str("date", tx.Date).Msg("Skipping record with unparseable date")
			continue
		}
		records = append(records, dated{at: at, amount: tx.Amount})

		start := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
		if !seen[start] {
			seen[start] = true
			buckets = append(buckets, start)
		}
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })

	series := models.TimeSeries{
		Labels: make([]string, 0, len(buckets)),
		Values: make([]float64, 0, len(buckets)),
	}
	for _, start := range buckets {
		end := start.AddDate(0, 1, 0)
		var total float64
		for _, r := range records {
			if !r.at.Before(start) && r.at.Before(end) {
				total += r.amount
			}
		}
		series.Labels = append(series.Labels, start.Format(monthLayout))
		series.Values = append(series.Values, total)
	}
	return series
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
