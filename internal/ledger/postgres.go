package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists accounts in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// SaveAll upserts every record in one transaction so a partially written
// account set is never observable.
func (s *PostgresStore) SaveAll(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	const upsert = `INSERT INTO accounts (owner, address, password, balance, unseen_deposit, unseen_transfer, welfare_counter, welfare_last_payment, welfare_amount)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (owner) DO UPDATE SET
            balance = EXCLUDED.balance,
            unseen_deposit = EXCLUDED.unseen_deposit,
            unseen_transfer = EXCLUDED.unseen_transfer,
            welfare_counter = EXCLUDED.welfare_counter,
            welfare_last_payment = EXCLUDED.welfare_last_payment,
            welfare_amount = EXCLUDED.welfare_amount`

	for _, rec := range records {
		owner, err := uuid.Parse(rec.Owner)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, upsert,
			owner, rec.Address, rec.Password, rec.Balance,
			rec.UnseenDeposit, rec.UnseenTransfer,
			rec.WelfareCounter, rec.WelfareLastPayment.UTC(), rec.WelfareAmount); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// LoadAll reads every persisted account record.
func (s *PostgresStore) LoadAll(ctx context.Context) ([]Record, error) {
	const query = `SELECT owner, address, password, balance, unseen_deposit, unseen_transfer, welfare_counter, welfare_last_payment, welfare_amount
        FROM accounts`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec         Record
			owner       uuid.UUID
			lastPayment time.Time
		)
		if err := rows.Scan(&owner, &rec.Address, &rec.Password, &rec.Balance,
			&rec.UnseenDeposit, &rec.UnseenTransfer,
			&rec.WelfareCounter, &lastPayment, &rec.WelfareAmount); err != nil {
			return nil, err
		}
		rec.Owner = owner.String()
		rec.WelfareLastPayment = lastPayment.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}
