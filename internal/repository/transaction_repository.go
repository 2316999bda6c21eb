package repository

import (
	"errors"
	"time"

	"github.com/sponza-next/internal/constants"
	"github.com/sponza-next/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// TransactionRepository ledger data access
type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository

	GetByID(id uint) (*models.Transaction, error)
	GetByReference(userID uint, txType string, referenceID uint) (*models.Transaction, error)
	Create(transaction *models.Transaction) error
	Update(transaction *models.Transaction) error
	List(filter TransactionListFilter) ([]models.Transaction, int64, error)
	SumByUser(userID uint, txType string, statuses []string) (decimal.Decimal, error)
	SumByUserSince(userID uint, txType string, statuses []string, since time.Time) (decimal.Decimal, error)
}

// GormTransactionRepository GORM implementation
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates the transaction repository
func NewTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// WithTx binds the repository to a transaction
func (r *GormTransactionRepository) WithTx(tx *gorm.DB) TransactionRepository {
	if tx == nil {
		return r
	}
	return &GormTransactionRepository{db: tx}
}

// GetByID fetches a ledger row by ID
func (r *GormTransactionRepository) GetByID(id uint) (*models.Transaction, error) {
	if id == 0 {
		return nil, nil
	}
	var transaction models.Transaction
	if err := r.db.First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transaction, nil
}

// GetByReference fetches a ledger row by its business reference. Used to
// keep reward and payment writes idempotent.
func (r *GormTransactionRepository) GetByReference(userID uint, txType string, referenceID uint) (*models.Transaction, error) {
	if userID == 0 || referenceID == 0 {
		return nil, nil
	}
	var transaction models.Transaction
	if err := r.db.Where("user_id = ? AND type = ? AND reference_id = ?", userID, txType, referenceID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &transaction, nil
}

// Create inserts a ledger row
func (r *GormTransactionRepository) Create(transaction *models.Transaction) error {
	return r.db.Create(transaction).Error
}

// Update saves a ledger row
func (r *GormTransactionRepository) Update(transaction *models.Transaction) error {
	return r.db.Save(transaction).Error
}

// List queries ledger rows
func (r *GormTransactionRepository) List(filter TransactionListFilter) ([]models.Transaction, int64, error) {
	query := r.db.Model(&models.Transaction{})

	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var transactions []models.Transaction
	if err := query.Order("id DESC").Find(&transactions).Error; err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// SumByUser sums ledger amounts for a user
func (r *GormTransactionRepository) SumByUser(userID uint, txType string, statuses []string) (decimal.Decimal, error) {
	return r.sum(userID, txType, statuses, nil)
}

// SumByUserSince sums ledger amounts created at or after since
func (r *GormTransactionRepository) SumByUserSince(userID uint, txType string, statuses []string, since time.Time) (decimal.Decimal, error) {
	return r.sum(userID, txType, statuses, &since)
}

func (r *GormTransactionRepository) sum(userID uint, txType string, statuses []string, since *time.Time) (decimal.Decimal, error) {
	if userID == 0 {
		return decimal.Zero, nil
	}
	query := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if txType != "" {
		query = query.Where("type = ?", txType)
	}
	if len(statuses) == 0 {
		statuses = []string{constants.TransactionStatusCompleted}
	}
	query = query.Where("status IN ?", statuses)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := query.Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total.Round(2), nil
}
