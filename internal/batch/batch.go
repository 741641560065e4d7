package batch

import (
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/hearthledger/budget-service/internal/config"
	"github.com/hearthledger/budget-service/internal/engine"
	"github.com/hearthledger/budget-service/internal/models"
	"github.com/hearthledger/budget-service/internal/service"
	"github.com/hearthledger/budget-service/internal/utils/email"
)

// Runner executes the nightly projection-and-notify pass over all
// households. Tenants are fully isolated, so they are processed concurrently
// through a bounded worker pool; ordering between tenants is irrelevant.
type Runner struct {
	svc    *service.Service
	mailer *email.Sender
	log    *logrus.Logger
	cfg    *config.Config
}

// NewRunner initializes a new batch runner
func NewRunner(svc *service.Service, mailer *email.Sender, log *logrus.Logger, cfg *config.Config) *Runner {
	return &Runner{svc: svc, mailer: mailer, log: log, cfg: cfg}
}

// Start schedules the nightly run and returns the cron handle for shutdown
func (r *Runner) Start() (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(r.cfg.NightlyCron, r.RunOnce); err != nil {
		return nil, err
	}
	c.Start()
	r.log.Infof("Nightly batch scheduled: %q with %d workers", r.cfg.NightlyCron, r.cfg.BatchWorkers)
	return c, nil
}

// RunOnce processes every household through the worker pool
func (r *Runner) RunOnce() {
	ids, err := r.svc.HouseholdIDs()
	if err != nil {
		r.log.Errorf("Nightly batch aborted, cannot list households: %v", err)
		return
	}

	now := time.Now()
	sem := make(chan struct{}, r.cfg.BatchWorkers)
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}
		go func(householdID int64) {
			defer wg.Done()
			defer func() { <-sem }()
			r.processHousehold(householdID, now)
		}(id)
	}
	wg.Wait()
	r.log.Infof("Nightly batch finished for %d households", len(ids))
}

// processHousehold projects one tenant and sends any warnings and reminders.
// Failures are per-household; one broken tenant never stops the batch.
func (r *Runner) processHousehold(householdID int64, now time.Time) {
	household, err := r.svc.Household(householdID)
	if err != nil {
		r.log.Errorf("Batch: cannot load household %d: %v", householdID, err)
		return
	}

	result, err := r.svc.ProjectHousehold(householdID, now)
	switch {
	case errors.Is(err, models.ErrNoActiveCycle):
		r.log.Debugf("Batch: household %d has no active cycle, skipping projection", householdID)
	case err != nil:
		r.log.Errorf("Batch: projection failed for household %d: %v", householdID, err)
	case result.Severity != engine.SeverityOK:
		limitRisk := result.Severity == engine.SeverityLimitRisk
		if err := r.mailer.SendOverdraftWarning(household.Email, household.Name,
			result.Projection.LowestPoint, result.Projection.LowestPointDate, limitRisk); err != nil {
			r.log.Errorf("Batch: overdraft warning failed for household %d: %v", householdID, err)
		}
	}

	upcoming, err := r.svc.RemindersFor(householdID, now)
	if err != nil {
		r.log.Errorf("Batch: reminder lookup failed for household %d: %v", householdID, err)
		return
	}
	for _, occ := range upcoming {
		if err := r.mailer.SendObligationReminder(household.Email, household.Name,
			occ.Name, occ.Date, occ.Amount); err != nil {
			r.log.Errorf("Batch: reminder failed for household %d obligation %d: %v",
				householdID, occ.ObligationID, err)
		}
	}
}
