package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/hearthledger/budget-service/internal/config"
	"github.com/hearthledger/budget-service/internal/engine"
	"github.com/hearthledger/budget-service/internal/models"
	"github.com/hearthledger/budget-service/internal/repository"
	"github.com/hearthledger/budget-service/internal/utils"
)

// HolidayFetcher supplies the non-working dates for calendar adjustment.
type HolidayFetcher interface {
	Holidays() ([]time.Time, error)
}

// Service handles business logic
type Service struct {
	repo     *repository.Repository
	log      *logrus.Logger
	config   *config.Config
	holidays HolidayFetcher
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config, holidays HolidayFetcher) *Service {
	return &Service{repo: repo, log: log, config: cfg, holidays: holidays}
}

// ProjectionResult is the full answer to "will I go overdrawn, and by when".
type ProjectionResult struct {
	CycleStart      time.Time           `json:"cycle_start"`
	CycleEnd        time.Time           `json:"cycle_end"`
	StartingBalance decimal.Decimal     `json:"starting_balance"`
	Projection      engine.Projection   `json:"projection"`
	Severity        engine.Severity     `json:"severity"`
	Occurrences     []engine.Occurrence `json:"occurrences"`
}

// Register creates a new household with hashed password
func (s *Service) Register(name, email, password string) (*models.Household, error) {
	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	household := &models.Household{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateHousehold(household); err != nil {
		return nil, err
	}

	s.log.Infof("Household registered: %s", household.Email)
	return household, nil
}

// Login authenticates a household and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	household, err := s.repo.FindHouseholdByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(household.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	// Generate JWT
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", household.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("Household logged in: %s", household.Email)
	return tokenString, nil
}

// HouseholdID extracts the authenticated household from the request context
func HouseholdID(ctx context.Context) (int64, error) {
	idStr, ok := ctx.Value("householdID").(string)
	if !ok || idStr == "" {
		return 0, fmt.Errorf("household ID not found in context")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid household ID: %w", err)
	}
	return id, nil
}

// Calendar fetches the holiday feed and builds a working-day calendar. A
// feed failure degrades to weekend-only adjustment instead of blocking the
// projection.
func (s *Service) Calendar() *engine.Calendar {
	if s.holidays == nil {
		return nil
	}
	dates, err := s.holidays.Holidays()
	if err != nil {
		s.log.Warnf("Holiday feed unavailable, using weekend-only adjustment: %v", err)
		return nil
	}
	return engine.NewCalendar(dates)
}

// CreateObligation validates and stores a new obligation
func (s *Service) CreateObligation(ctx context.Context, o *models.Obligation) (*models.Obligation, error) {
	householdID, err := HouseholdID(ctx)
	if err != nil {
		return nil, err
	}
	o.HouseholdID = householdID

	if _, err := toEngineObligation(*o); err != nil {
		return nil, err
	}

	if err := s.repo.CreateObligation(o); err != nil {
		return nil, err
	}

	s.log.Infof("Obligation created for household %d: %s (%s %s)",
		householdID, o.Name, o.Kind, o.Frequency)
	return o, nil
}

// ListObligations returns the household's active obligations
func (s *Service) ListObligations(ctx context.Context) ([]models.Obligation, error) {
	householdID, err := HouseholdID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.ListActiveObligations(householdID)
}

// DeactivateObligation soft-deletes an obligation
func (s *Service) DeactivateObligation(ctx context.Context, obligationID int64) error {
	householdID, err := HouseholdID(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeactivateObligation(householdID, obligationID); err != nil {
		return err
	}
	s.log.Infof("Obligation %d deactivated for household %d", obligationID, householdID)
	return nil
}

// CreateBankAccount stores a new account with the number encrypted at rest
func (s *Service) CreateBankAccount(ctx context.Context, name, accountNumber string, overdraftLimit decimal.Decimal) (*models.BankAccount, error) {
	householdID, err := HouseholdID(ctx)
	if err != nil {
		return nil, err
	}

	encrypted, err := utils.Encrypt(accountNumber, []byte(s.config.EncryptionKey))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt account number: %w", err)
	}

	account := &models.BankAccount{
		HouseholdID:    householdID,
		Name:           name,
		AccountNumber:  encrypted,
		HMAC:           utils.GenerateHMAC(accountNumber, s.config.HMACSecret),
		OverdraftLimit: overdraftLimit,
	}

	if err := s.repo.CreateBankAccount(account); err != nil {
		return nil, err
	}

	// Return the account with the plain number for the response
	account.AccountNumber = accountNumber
	s.log.Infof("Bank account created for household %d", householdID)
	return account, nil
}

// GetProjection loads one household's snapshot and runs the full pipeline:
// resolve cycle, expand obligations, overlay progress, simulate the balance.
// The computation is a pure function of the loaded snapshot; nothing is
// written, so a failed run can simply be retried.
func (s *Service) GetProjection(ctx context.Context, now time.Time) (*ProjectionResult, error) {
	householdID, err := HouseholdID(ctx)
	if err != nil {
		return nil, err
	}
	return s.ProjectHousehold(householdID, now)
}

// ProjectHousehold computes the projection for one household id. The batch
// runner calls this directly, outside any HTTP context.
func (s *Service) ProjectHousehold(householdID int64, now time.Time) (*ProjectionResult, error) {
	now = engine.DateOnly(now)
	cal := s.Calendar()

	rows, err := s.repo.ListActiveObligations(householdID)
	if err != nil {
		return nil, err
	}
	obligations := s.toEngineObligations(rows)

	cycle, err := s.resolveCycle(rows, now, cal)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.cycleSnapshot(householdID, cycle.Start)
	if err != nil {
		return nil, err
	}

	progress, err := s.loadProgress(householdID, cycle.Start)
	if err != nil {
		return nil, err
	}

	var income, expenses []engine.Occurrence
	for _, ob := range obligations {
		occs := engine.Annotate(engine.Expand(ob, cal, cycle.Start, cycle.End), progress)
		if ob.Kind == engine.KindIncome {
			income = append(income, occs...)
		} else {
			expenses = append(expenses, occs...)
		}
	}

	projection := engine.Project(cycle, snapshot.CurrentBalance, income, expenses, now)

	severity := engine.Classify(projection.LowestPoint, decimal.Zero)
	if account, err := s.repo.FindBankAccount(householdID, snapshot.BankAccountID); err == nil {
		severity = engine.Classify(projection.LowestPoint, account.OverdraftLimit)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	all := append(append([]engine.Occurrence{}, income...), expenses...)
	return &ProjectionResult{
		CycleStart:      cycle.Start,
		CycleEnd:        cycle.End,
		StartingBalance: snapshot.CurrentBalance,
		Projection:      projection,
		Severity:        severity,
		Occurrences:     all,
	}, nil
}

// MarkProgress records what happened to one occurrence (paid, cancelled,
// back to pending, or an actual-amount override) and recomputes the
// projection from scratch. There is no incremental update path: the write
// and a full recompute are the whole contract, so a failure between the two
// can never leave a half-updated balance.
func (s *Service) MarkProgress(ctx context.Context, obligationID int64, occurrenceDate time.Time, isPaid int, actualAmount *decimal.Decimal, now time.Time) (*ProjectionResult, error) {
	householdID, err := HouseholdID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListActiveObligations(householdID)
	if err != nil {
		return nil, err
	}
	var kind string
	for _, row := range rows {
		if row.ID == obligationID {
			kind = row.Kind
			break
		}
	}
	if kind == "" {
		return nil, models.ErrNotFound
	}

	cycle, err := s.resolveCycle(rows, engine.DateOnly(now), s.Calendar())
	if err != nil {
		return nil, err
	}

	occurrenceDate = engine.DateOnly(occurrenceDate)
	entry := &models.ProgressEntry{
		HouseholdID:  householdID,
		CycleStart:   cycle.Start,
		Kind:         kind,
		ObligationID: obligationID,
		OccurDay:     occurrenceDate.Day(),
		OccurMonth:   int(occurrenceDate.Month()),
		ActualAmount: actualAmount,
		IsPaid:       isPaid,
	}
	if err := s.repo.UpsertProgress(entry); err != nil {
		return nil, err
	}

	s.log.Infof("Progress recorded for household %d obligation %d on %s: state %d",
		householdID, obligationID, occurrenceDate.Format("2006-01-02"), isPaid)
	return s.ProjectHousehold(householdID, now)
}

// Reminders returns the occurrences due exactly at the lookahead horizon
func (s *Service) Reminders(ctx context.Context, now time.Time) ([]engine.Occurrence, error) {
	householdID, err := HouseholdID(ctx)
	if err != nil {
		return nil, err
	}
	return s.RemindersFor(householdID, now)
}

// RemindersFor computes upcoming reminders for one household id
func (s *Service) RemindersFor(householdID int64, now time.Time) ([]engine.Occurrence, error) {
	now = engine.DateOnly(now)
	cal := s.Calendar()

	rows, err := s.repo.ListActiveObligations(householdID)
	if err != nil {
		return nil, err
	}
	obligations := s.toEngineObligations(rows)

	// Cancelled occurrences must not remind; progress lives on the active
	// cycle, which may be unresolvable for households still setting up.
	var progress []engine.ProgressEntry
	if cycle, err := s.resolveCycle(rows, now, cal); err == nil {
		progress, err = s.loadProgress(householdID, cycle.Start)
		if err != nil {
			return nil, err
		}
	} else if !errors.Is(err, models.ErrNoActiveCycle) {
		return nil, err
	}

	return engine.FindUpcoming(obligations, progress, cal, now, s.config.ReminderLookahead), nil
}

// DebtStrategy ranks the household's debts by both repayment strategies
func (s *Service) DebtStrategy(ctx context.Context) (*engine.Ranking, error) {
	householdID, err := HouseholdID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListDebts(householdID)
	if err != nil {
		return nil, err
	}

	debts := make([]engine.Debt, 0, len(rows))
	for _, row := range rows {
		debts = append(debts, engine.Debt{
			ID:             row.ID,
			Name:           row.Name,
			Balance:        row.Balance,
			InterestRate:   row.InterestRate,
			MinimumPayment: row.MinimumPayment,
		})
	}

	ranking := engine.Rank(debts)
	return &ranking, nil
}

// Household loads the household row for notification addressing
func (s *Service) Household(householdID int64) (*models.Household, error) {
	return s.repo.FindHouseholdByID(householdID)
}

// HouseholdIDs lists every tenant for the nightly batch
func (s *Service) HouseholdIDs() ([]int64, error) {
	return s.repo.ListHouseholdIDs()
}

// resolveCycle finds the primary income obligation and derives the active
// budget cycle from its anchor day. Households without a primary income get
// ErrNoActiveCycle so callers can render a setup prompt instead of zeros.
func (s *Service) resolveCycle(rows []models.Obligation, now time.Time, cal *engine.Calendar) (engine.Cycle, error) {
	for _, row := range rows {
		if !row.IsPrimaryIncome || row.Kind != string(engine.KindIncome) {
			continue
		}
		if row.AnchorDate == nil {
			continue
		}
		cycle, err := engine.ResolveCycle(row.AnchorDate.Day(), now, cal)
		if err != nil {
			s.log.Warnf("Skipping primary income %d: %v", row.ID, err)
			continue
		}
		return cycle, nil
	}
	return engine.Cycle{}, models.ErrNoActiveCycle
}

// cycleSnapshot loads the balance snapshot for the cycle, creating the row
// the first time a new cycle is observed.
func (s *Service) cycleSnapshot(householdID int64, cycleStart time.Time) (*models.BudgetCycle, error) {
	snapshot, err := s.repo.FindCycle(householdID, cycleStart)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	snapshot = &models.BudgetCycle{
		HouseholdID:    householdID,
		CycleStart:     cycleStart,
		CurrentBalance: decimal.Zero,
	}
	if account, err := s.repo.FindDefaultBankAccount(householdID); err == nil {
		snapshot.BankAccountID = account.ID
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if err := s.repo.CreateCycle(snapshot); err != nil {
		return nil, err
	}
	s.log.Infof("New budget cycle observed for household %d starting %s",
		householdID, cycleStart.Format("2006-01-02"))
	return snapshot, nil
}

// loadProgress converts stored progress rows into engine entries
func (s *Service) loadProgress(householdID int64, cycleStart time.Time) ([]engine.ProgressEntry, error) {
	rows, err := s.repo.ListProgress(householdID, cycleStart)
	if err != nil {
		return nil, err
	}
	entries := make([]engine.ProgressEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, engine.ProgressEntry{
			Key: engine.OccurrenceKey{
				Kind:         engine.Kind(row.Kind),
				ObligationID: row.ObligationID,
				Day:          row.OccurDay,
				Month:        time.Month(row.OccurMonth),
			},
			State:        engine.PaidState(row.IsPaid),
			ActualAmount: row.ActualAmount,
		})
	}
	return entries, nil
}

// toEngineObligations converts stored rows into validated engine values.
// Malformed rows are skipped with a diagnostic; one broken record must not
// take down the household's whole budget view.
func (s *Service) toEngineObligations(rows []models.Obligation) []engine.Obligation {
	obligations := make([]engine.Obligation, 0, len(rows))
	for _, row := range rows {
		ob, err := toEngineObligation(row)
		if err != nil {
			s.log.Warnf("Skipping obligation %d for household %d: %v", row.ID, row.HouseholdID, err)
			continue
		}
		obligations = append(obligations, ob)
	}
	return obligations
}

func toEngineObligation(row models.Obligation) (engine.Obligation, error) {
	var schedule engine.Schedule
	switch row.Frequency {
	case models.FrequencyOneOff:
		if row.AnchorDate == nil {
			return engine.Obligation{}, fmt.Errorf("one-off obligation %d has no date", row.ID)
		}
		schedule = engine.OneOff{Date: *row.AnchorDate}
	default:
		if row.AnchorDate == nil {
			return engine.Obligation{}, fmt.Errorf("periodic obligation %d has no anchor date", row.ID)
		}
		schedule = engine.Periodic{
			Frequency: engine.Frequency(row.Frequency),
			Anchor:    *row.AnchorDate,
		}
	}

	ob := engine.Obligation{
		ID:                  row.ID,
		Name:                row.Name,
		Kind:                engine.Kind(row.Kind),
		Amount:              row.Amount,
		Schedule:            schedule,
		AdjustForWorkingDay: row.AdjustForWorkingDay,
	}
	if err := ob.Validate(); err != nil {
		return engine.Obligation{}, err
	}
	return ob, nil
}
