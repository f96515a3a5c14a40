package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/hireboard/internal/domain/repository"
	"github.com/oksasatya/hireboard/pkg/helpers"
)

// ExpirySweeper marks referrals past their deadline as expired.
type ExpirySweeper struct {
	Referrals repo.ReferralRepository
	Interval  time.Duration
	Logger    logrus.FieldLogger
	Now       func() time.Time
}

func NewExpirySweeper(referrals repo.ReferralRepository, interval time.Duration, logger logrus.FieldLogger) *ExpirySweeper {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpirySweeper{Referrals: referrals, Interval: interval, Logger: logger, Now: time.Now}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *ExpirySweeper) Run(ctx context.Context) {
	s.SweepOnce(ctx)
	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("expiry sweeper stopped")
			return
		case <-t.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single batch update and returns the number of referrals
// it expired. Errors are logged and reported as zero.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) int64 {
	n, err := s.Referrals.ExpireBefore(ctx, s.Now().UTC())
	if err != nil {
		metrics.Add(mSweepErrors, 1)
		s.Logger.WithError(err).Error("referral expiry sweep failed")
		return 0
	}
	if n > 0 {
		metrics.Add(mReferralsExpired, n)
		s.Logger.WithField("expired", n).Info("referrals expired")
	}
	return n
}
