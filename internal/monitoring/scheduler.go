package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/finance-tracker-be/internal/events"
	"github.com/isdelr/finance-tracker-be/internal/models"
	"github.com/isdelr/finance-tracker-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// digestConcurrency bounds how many users are summarized at once.
const digestConcurrency = 4

// DigestScheduler periodically publishes each user's totals for the previous month.
type DigestScheduler struct {
	userSvc   services.UserServiceProvider
	txSvc     services.TransactionServiceProvider
	publisher events.Publisher
	cron      *cron.Cron
	now       func() time.Time
}

// NewDigestScheduler creates a scheduler that runs on the standard cron spec.
func NewDigestScheduler(userSvc services.UserServiceProvider, txSvc services.TransactionServiceProvider, publisher events.Publisher, spec string) (*DigestScheduler, error) {
	s := &DigestScheduler{
		userSvc:   userSvc,
		txSvc:     txSvc,
		publisher: publisher,
		cron:      cron.New(),
		now:       time.Now,
	}
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			log.Error().Err(err).Msg("Scheduler: Monthly digest failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the scheduler in the background.
func (s *DigestScheduler) Run() {
	log.Info().Msg("Starting background scheduler...")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running digest to finish.
func (s *DigestScheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped background scheduler.")
}

// RunOnce publishes a digest for every user covering the calendar month before now.
func (s *DigestScheduler) RunOnce(ctx context.Context) error {
	now := s.now().UTC()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	userIDs, err := s.userSvc.ListUserUUIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(digestConcurrency)
	for _, id := range userIDs {
		g.Go(func() error {
			return s.digestUser(gctx, id, month)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Int("users", len(userIDs)).Str("month", month.Format("2006-01")).Msg("Scheduler: Published monthly digests")
	return nil
}

func (s *DigestScheduler) digestUser(ctx context.Context, userUUID string, month time.Time) error {
	income, err := s.txSvc.MonthTotal(ctx, userUUID, models.KindIncome, month)
	if err != nil {
		return fmt.Errorf("income total for %s: %w", userUUID, err)
	}
	spending, err := s.txSvc.MonthTotal(ctx, userUUID, models.KindSpending, month)
	if err != nil {
		return fmt.Errorf("spending total for %s: %w", userUUID, err)
	}

	digest := models.MonthlyDigest{
		Month:    month.Format("2006-01"),
		Income:   income,
		Spending: spending,
		Net:      income - spending,
	}
	return s.publisher.Publish(ctx, events.New(models.EventMonthlyDigest, userUUID, "", digest))
}
