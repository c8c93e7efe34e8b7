package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

var (
	_ usecase.AccountRepository = (*AccountRepository)(nil)
	_ usecase.Transactor        = (*AccountRepository)(nil)
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id              TEXT PRIMARY KEY,
	owner_name      TEXT NOT NULL DEFAULT '',
	email           TEXT UNIQUE,
	account_number  TEXT NOT NULL UNIQUE,
	bank            TEXT NOT NULL DEFAULT '',
	balance         BIGINT NOT NULL CHECK (balance >= 0),
	password_digest TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const selectColumns = `SELECT id, owner_name, email, account_number, bank, balance, password_digest FROM accounts`

// querier *sql.DB 與 *sql.Tx 共同的方法
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AccountRepository 以 database/sql + lib/pq 實作的帳戶儲存層
type AccountRepository struct {
	db *sql.DB
	q  querier
	// lockRows 交易內的單筆讀取加上 FOR UPDATE
	lockRows bool
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db, q: db}
}

// Migrate 建立 accounts 表 (可重複執行)
func (r *AccountRepository) Migrate(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, schema)
	return err
}

// WithinTransaction 在同一個資料庫交易內執行 fn，fn 失敗時 rollback
func (r *AccountRepository) WithinTransaction(ctx context.Context, fn func(repo usecase.AccountRepository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&AccountRepository{db: r.db, q: tx, lockRows: true}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *AccountRepository) FetchAll(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.q.QueryContext(ctx, selectColumns+` ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

func (r *AccountRepository) FetchByID(ctx context.Context, id string) (domain.Account, error) {
	return r.fetchOne(ctx, "id", id)
}

func (r *AccountRepository) FetchByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	return r.fetchOne(ctx, "account_number", accountNumber)
}

func (r *AccountRepository) FetchByEmail(ctx context.Context, email string) (domain.Account, error) {
	if email == "" {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return r.fetchOne(ctx, "email", email)
}

// fetchOne column 只會是本檔內的常數
func (r *AccountRepository) fetchOne(ctx context.Context, column, value string) (domain.Account, error) {
	query := selectColumns + ` WHERE ` + column + ` = $1`
	if r.lockRows {
		query += ` FOR UPDATE`
	}
	acc, err := scanAccount(r.q.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return acc, err
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO accounts (id, owner_name, email, account_number, bank, balance, password_digest)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)`,
		account.ID, account.OwnerName, account.Email, account.AccountNumber,
		account.Bank, account.Balance, account.PasswordDigest,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrAccountAlreadyExists, account.AccountNumber)
	}
	return err
}

func (r *AccountRepository) Update(ctx context.Context, id, ownerName, email, accountNumber string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET owner_name = $2, email = NULLIF($3, ''), account_number = $4, updated_at = NOW()
		 WHERE id = $1`,
		id, ownerName, email, accountNumber,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrAccountAlreadyExists, accountNumber)
	}
	return requireRow(res, err)
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return requireRow(res, err)
}

func (r *AccountRepository) SetPassword(ctx context.Context, id, digest string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET password_digest = $2, updated_at = NOW() WHERE id = $1`, id, digest)
	return requireRow(res, err)
}

func (r *AccountRepository) SetBalance(ctx context.Context, id string, balance int64) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET balance = $2, updated_at = NOW() WHERE id = $1`, id, balance)
	return requireRow(res, err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (domain.Account, error) {
	var (
		acc   domain.Account
		email sql.NullString
	)
	err := s.Scan(&acc.ID, &acc.OwnerName, &email, &acc.AccountNumber, &acc.Bank, &acc.Balance, &acc.PasswordDigest)
	if err != nil {
		return domain.Account{}, err
	}
	acc.Email = email.String
	return acc, nil
}

// requireRow Postgres 的 RowsAffected 是符合條件的列數，0 代表不存在
func requireRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
