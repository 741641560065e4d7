package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hearthledger/budget-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateHousehold creates a new household in the database
func (r *Repository) CreateHousehold(h *models.Household) error {
	query := `
		INSERT INTO budget.households (name, email, password_hash, created_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, h.Name, h.Email, h.PasswordHash).
		Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create household: %w", err)
	}
	return nil
}

// FindHouseholdByEmail retrieves a household by email
func (r *Repository) FindHouseholdByEmail(email string) (*models.Household, error) {
	h := &models.Household{}
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM budget.households
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&h.ID, &h.Name, &h.Email, &h.PasswordHash, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find household: %w", err)
	}
	return h, nil
}

// FindHouseholdByID retrieves a household by id
func (r *Repository) FindHouseholdByID(id int64) (*models.Household, error) {
	h := &models.Household{}
	query := `
		SELECT id, name, email, password_hash, created_at
		FROM budget.households
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&h.ID, &h.Name, &h.Email, &h.PasswordHash, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find household: %w", err)
	}
	return h, nil
}

// ListHouseholdIDs returns every household id, for the nightly batch
func (r *Repository) ListHouseholdIDs() ([]int64, error) {
	rows, err := r.db.Query(`SELECT id FROM budget.households ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan household id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateObligation creates a new obligation row
func (r *Repository) CreateObligation(o *models.Obligation) error {
	query := `
		INSERT INTO budget.obligations
			(household_id, name, kind, amount, frequency, anchor_date,
			 adjust_for_working_day, is_primary_income, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, active, created_at, updated_at`
	err := r.db.QueryRow(query,
		o.HouseholdID, o.Name, o.Kind, o.Amount, o.Frequency, o.AnchorDate,
		o.AdjustForWorkingDay, o.IsPrimaryIncome).
		Scan(&o.ID, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create obligation: %w", err)
	}
	return nil
}

// ListActiveObligations retrieves all active obligations for a household
func (r *Repository) ListActiveObligations(householdID int64) ([]models.Obligation, error) {
	query := `
		SELECT id, household_id, name, kind, amount, frequency, anchor_date,
		       adjust_for_working_day, is_primary_income, active, created_at, updated_at
		FROM budget.obligations
		WHERE household_id = $1 AND active = TRUE
		ORDER BY id`
	rows, err := r.db.Query(query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []models.Obligation
	for rows.Next() {
		var o models.Obligation
		err := rows.Scan(&o.ID, &o.HouseholdID, &o.Name, &o.Kind, &o.Amount,
			&o.Frequency, &o.AnchorDate, &o.AdjustForWorkingDay,
			&o.IsPrimaryIncome, &o.Active, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		obligations = append(obligations, o)
	}
	return obligations, rows.Err()
}

// DeactivateObligation soft-deletes an obligation so history stays intact
func (r *Repository) DeactivateObligation(householdID, obligationID int64) error {
	query := `
		UPDATE budget.obligations
		SET active = FALSE, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND household_id = $2`
	res, err := r.db.Exec(query, obligationID, householdID)
	if err != nil {
		return fmt.Errorf("failed to deactivate obligation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to deactivate obligation: %w", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListProgress retrieves all progress entries for one household and cycle
func (r *Repository) ListProgress(householdID int64, cycleStart time.Time) ([]models.ProgressEntry, error) {
	query := `
		SELECT id, household_id, cycle_start, kind, obligation_id,
		       occur_day, occur_month, actual_amount, is_paid, created_at, updated_at
		FROM budget.progress_entries
		WHERE household_id = $1 AND cycle_start = $2`
	rows, err := r.db.Query(query, householdID, cycleStart)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	var entries []models.ProgressEntry
	for rows.Next() {
		var e models.ProgressEntry
		var actual decimal.NullDecimal
		err := rows.Scan(&e.ID, &e.HouseholdID, &e.CycleStart, &e.Kind,
			&e.ObligationID, &e.OccurDay, &e.OccurMonth, &actual, &e.IsPaid,
			&e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress entry: %w", err)
		}
		if actual.Valid {
			e.ActualAmount = &actual.Decimal
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertProgress creates or updates the progress entry for one occurrence
// key. Entries are created lazily the first time a user marks an occurrence.
func (r *Repository) UpsertProgress(e *models.ProgressEntry) error {
	var actual decimal.NullDecimal
	if e.ActualAmount != nil {
		actual = decimal.NewNullDecimal(*e.ActualAmount)
	}
	query := `
		INSERT INTO budget.progress_entries
			(household_id, cycle_start, kind, obligation_id, occur_day,
			 occur_month, actual_amount, is_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (household_id, cycle_start, kind, obligation_id, occur_day, occur_month)
		DO UPDATE SET actual_amount = EXCLUDED.actual_amount,
		              is_paid = EXCLUDED.is_paid,
		              updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		e.HouseholdID, e.CycleStart, e.Kind, e.ObligationID,
		e.OccurDay, e.OccurMonth, actual, e.IsPaid).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert progress entry: %w", err)
	}
	return nil
}

// FindCycle retrieves the balance snapshot row for one cycle start
func (r *Repository) FindCycle(householdID int64, cycleStart time.Time) (*models.BudgetCycle, error) {
	c := &models.BudgetCycle{}
	query := `
		SELECT id, household_id, cycle_start, current_balance, bank_account_id, created_at
		FROM budget.budget_cycles
		WHERE household_id = $1 AND cycle_start = $2`
	err := r.db.QueryRow(query, householdID, cycleStart).
		Scan(&c.ID, &c.HouseholdID, &c.CycleStart, &c.CurrentBalance,
			&c.BankAccountID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cycle: %w", err)
	}
	return c, nil
}

// CreateCycle records the balance snapshot when a new cycle is first observed
func (r *Repository) CreateCycle(c *models.BudgetCycle) error {
	query := `
		INSERT INTO budget.budget_cycles
			(household_id, cycle_start, current_balance, bank_account_id, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query,
		c.HouseholdID, c.CycleStart, c.CurrentBalance, c.BankAccountID).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create cycle: %w", err)
	}
	return nil
}

// CreateBankAccount creates a new bank account row
func (r *Repository) CreateBankAccount(a *models.BankAccount) error {
	query := `
		INSERT INTO budget.bank_accounts
			(household_id, name, account_number, hmac, overdraft_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		a.HouseholdID, a.Name, a.AccountNumber, a.HMAC, a.OverdraftLimit).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bank account: %w", err)
	}
	return nil
}

// FindBankAccount retrieves one of the household's accounts
func (r *Repository) FindBankAccount(householdID, accountID int64) (*models.BankAccount, error) {
	a := &models.BankAccount{}
	query := `
		SELECT id, household_id, name, account_number, hmac, overdraft_limit, created_at, updated_at
		FROM budget.bank_accounts
		WHERE id = $1 AND household_id = $2`
	err := r.db.QueryRow(query, accountID, householdID).
		Scan(&a.ID, &a.HouseholdID, &a.Name, &a.AccountNumber, &a.HMAC,
			&a.OverdraftLimit, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account: %w", err)
	}
	return a, nil
}

// FindDefaultBankAccount retrieves the household's oldest account
func (r *Repository) FindDefaultBankAccount(householdID int64) (*models.BankAccount, error) {
	a := &models.BankAccount{}
	query := `
		SELECT id, household_id, name, account_number, hmac, overdraft_limit, created_at, updated_at
		FROM budget.bank_accounts
		WHERE household_id = $1
		ORDER BY id
		LIMIT 1`
	err := r.db.QueryRow(query, householdID).
		Scan(&a.ID, &a.HouseholdID, &a.Name, &a.AccountNumber, &a.HMAC,
			&a.OverdraftLimit, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find bank account: %w", err)
	}
	return a, nil
}

// ListDebts retrieves all debts for a household in insertion order
func (r *Repository) ListDebts(householdID int64) ([]models.Debt, error) {
	query := `
		SELECT id, household_id, name, balance, interest_rate, minimum_payment, created_at, updated_at
		FROM budget.debts
		WHERE household_id = $1
		ORDER BY id`
	rows, err := r.db.Query(query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		var d models.Debt
		err := rows.Scan(&d.ID, &d.HouseholdID, &d.Name, &d.Balance,
			&d.InterestRate, &d.MinimumPayment, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}
