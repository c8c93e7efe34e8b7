package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-account-ledger/pkg/mysql"
)

var (
	_ usecase.AccountRepository = (*AccountRepository)(nil)
	_ usecase.Transactor        = (*AccountRepository)(nil)
)

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID             string  `gorm:"primaryKey;type:char(36)"`
	OwnerName      string  `gorm:"size:255;index"`
	Email          *string `gorm:"size:255;uniqueIndex"` // 空字串存 NULL，避免撞 unique
	AccountNumber  string  `gorm:"size:64;uniqueIndex;not null"`
	Bank           string  `gorm:"size:128"`
	Balance        int64   `gorm:"not null"`
	PasswordDigest string  `gorm:"size:255"`
	CreatedAt      int64   `gorm:"autoCreateTime:milli;index"`
	UpdatedAt      int64   `gorm:"autoUpdateTime:milli"`
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

func toRow(acc domain.Account) sqlAccount {
	return sqlAccount{
		ID:             acc.ID,
		OwnerName:      acc.OwnerName,
		Email:          nullable(acc.Email),
		AccountNumber:  acc.AccountNumber,
		Bank:           acc.Bank,
		Balance:        acc.Balance,
		PasswordDigest: acc.PasswordDigest,
	}
}

func (row sqlAccount) toDomain() domain.Account {
	acc := domain.Account{
		ID:             row.ID,
		OwnerName:      row.OwnerName,
		AccountNumber:  row.AccountNumber,
		Bank:           row.Bank,
		Balance:        row.Balance,
		PasswordDigest: row.PasswordDigest,
	}
	if row.Email != nil {
		acc.Email = *row.Email
	}
	return acc
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// AccountRepository 以 GORM + MySQL 實作的帳戶儲存層
type AccountRepository struct {
	db *gorm.DB
	// forUpdate 交易內的讀取加上 SELECT ... FOR UPDATE
	forUpdate bool
}

func NewAccountRepository(client *mysql.Client) *AccountRepository {
	return &AccountRepository{
		db: client.DB(),
	}
}

// Migrate 建立 / 更新 accounts 表
func (r *AccountRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&sqlAccount{})
}

// WithinTransaction 在同一個資料庫交易內執行 fn
// fn 回傳錯誤 (或 panic) 時 rollback
func (r *AccountRepository) WithinTransaction(ctx context.Context, fn func(repo usecase.AccountRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AccountRepository{db: tx, forUpdate: true})
	})
}

func (r *AccountRepository) FetchAll(ctx context.Context) ([]domain.Account, error) {
	var rows []sqlAccount
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *AccountRepository) FetchByID(ctx context.Context, id string) (domain.Account, error) {
	return r.fetchOne(ctx, "id = ?", id)
}

func (r *AccountRepository) FetchByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	return r.fetchOne(ctx, "account_number = ?", accountNumber)
}

func (r *AccountRepository) FetchByEmail(ctx context.Context, email string) (domain.Account, error) {
	if email == "" {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return r.fetchOne(ctx, "email = ?", email)
}

func (r *AccountRepository) fetchOne(ctx context.Context, cond string, arg any) (domain.Account, error) {
	q := r.db.WithContext(ctx)
	if r.forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row sqlAccount
	err := q.Where(cond, arg).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	return row.toDomain(), nil
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	row := toRow(account)
	err := r.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", domain.ErrAccountAlreadyExists, account.AccountNumber)
	}
	return err
}

func (r *AccountRepository) Update(ctx context.Context, id, ownerName, email, accountNumber string) error {
	res := r.db.WithContext(ctx).Model(&sqlAccount{}).Where("id = ?", id).Updates(map[string]any{
		"owner_name":     ownerName,
		"email":          nullable(email),
		"account_number": accountNumber,
	})
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", domain.ErrAccountAlreadyExists, accountNumber)
	}
	return r.affected(ctx, res, id)
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&sqlAccount{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) SetPassword(ctx context.Context, id, digest string) error {
	res := r.db.WithContext(ctx).Model(&sqlAccount{}).Where("id = ?", id).Update("password_digest", digest)
	return r.affected(ctx, res, id)
}

func (r *AccountRepository) SetBalance(ctx context.Context, id string, balance int64) error {
	res := r.db.WithContext(ctx).Model(&sqlAccount{}).Where("id = ?", id).Update("balance", balance)
	return r.affected(ctx, res, id)
}

// affected MySQL 的 RowsAffected 只算「有變動」的列，
// 值沒變時是 0，需要再確認資料列是否存在
func (r *AccountRepository) affected(ctx context.Context, res *gorm.DB, id string) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&sqlAccount{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
