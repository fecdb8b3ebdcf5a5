package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/softblue/bank_backend/internal/core/domain"
	portsrepo "github.com/softblue/bank_backend/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// DepositTotalsByCustomer ranks customers with any ledger activity in [from, to) by their deposits.
// The account number shown is the customer's oldest account that was active in the period.
func (r *reportingRepository) DepositTotalsByCustomer(ctx context.Context, from, to time.Time) ([]domain.ClientDepositTotal, error) {
	query := `
		WITH active_accounts AS (
			SELECT
				a.customer_id,
				a.account_id,
				a.account_number,
				a.created_at,
				SUM(CASE WHEN t.transaction_type = 'deposit' THEN t.amount ELSE 0 END) AS deposits
			FROM accounts a
			JOIN transactions t ON t.account_id = a.account_id
			WHERE t.created_at >= $1 AND t.created_at < $2
			GROUP BY a.customer_id, a.account_id, a.account_number, a.created_at
		),
		per_customer AS (
			SELECT
				customer_id,
				SUM(deposits) AS total_deposits,
				(ARRAY_AGG(account_number ORDER BY created_at, account_id))[1] AS account_number
			FROM active_accounts
			GROUP BY customer_id
		)
		SELECT c.customer_id, c.name, c.email, p.account_number, p.total_deposits
		FROM per_customer p
		JOIN customers c ON c.customer_id = p.customer_id
		ORDER BY p.total_deposits DESC, c.customer_id
	`

	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, storageError("query deposit totals", err)
	}
	defer rows.Close()

	result := []domain.ClientDepositTotal{}
	for rows.Next() {
		var row domain.ClientDepositTotal
		if err := rows.Scan(
			&row.CustomerID,
			&row.Name,
			&row.Email,
			&row.AccountNumber,
			&row.TotalDeposits,
		); err != nil {
			return nil, storageError("scan deposit total", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate deposit totals", err)
	}
	return result, nil
}

func (r *reportingRepository) LargeWithdrawalClients(ctx context.Context, from, to time.Time, threshold decimal.Decimal) ([]domain.LargeWithdrawalClient, error) {
	query := `
		WITH flagged_accounts AS (
			SELECT a.customer_id, SUM(t.amount) AS total
			FROM accounts a
			JOIN transactions t ON t.account_id = a.account_id
			WHERE t.transaction_type = 'withdrawal'
				AND t.created_at >= $1 AND t.created_at < $2
			GROUP BY a.customer_id, a.account_id
			HAVING SUM(t.amount) > $3
				AND BOOL_OR(t.transaction_city <> a.origin_city)
		)
		SELECT c.customer_id, c.name, c.email, SUM(f.total) AS total_withdrawals
		FROM flagged_accounts f
		JOIN customers c ON c.customer_id = f.customer_id
		GROUP BY c.customer_id, c.name, c.email
		ORDER BY total_withdrawals DESC, c.customer_id
	`

	rows, err := r.Pool.Query(ctx, query, from, to, threshold)
	if err != nil {
		return nil, storageError("query large withdrawals", err)
	}
	defer rows.Close()

	result := []domain.LargeWithdrawalClient{}
	for rows.Next() {
		var row domain.LargeWithdrawalClient
		if err := rows.Scan(
			&row.CustomerID,
			&row.Name,
			&row.Email,
			&row.TotalWithdrawals,
		); err != nil {
			return nil, storageError("scan large withdrawal", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate large withdrawals", err)
	}
	return result, nil
}
