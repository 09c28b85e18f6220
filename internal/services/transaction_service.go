package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/finance-tracker-be/internal/database"
	"github.com/isdelr/finance-tracker-be/internal/events"
	"github.com/isdelr/finance-tracker-be/internal/models"
)

// TransactionServiceProvider defines the interface for income and spending records.
type TransactionServiceProvider interface {
	List(ctx context.Context, userUUID string, kind models.Kind) ([]models.Transaction, error)
	Create(ctx context.Context, userUUID string, kind models.Kind, tx models.Transaction) (models.Transaction, error)
	Delete(ctx context.Context, userUUID string, kind models.Kind, tx models.Transaction) (int64, error)
	TimeSeries(ctx context.Context, userUUID string, kind models.Kind) (models.TimeSeries, error)
	Summary(ctx context.Context, userUUID string) (models.Summary, error)
	MonthTotal(ctx context.Context, userUUID string, kind models.Kind, month time.Time) (float64, error)
}

// TransactionService provides business logic for income and spending records.
type TransactionService struct {
	db        *sql.DB
	users     UserServiceProvider
	publisher events.Publisher
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(db *sql.DB, users UserServiceProvider, publisher events.Publisher) *TransactionService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &TransactionService{db: db, users: users, publisher: publisher}
}

// List returns every record of the kind owned by the user, in insertion order.
func (s *TransactionService) List(ctx context.Context, userUUID string, kind models.Kind) ([]models.Transaction, error) {
	if err := s.requireUser(ctx, userUUID); err != nil {
		return nil, err
	}
	return s.findByUser(ctx, userUUID, kind)
}

// Create stores a new record for the user. The path user owns the record
// regardless of the user_uuid sent by the client. Duplicates are allowed.
func (s *TransactionService) Create(ctx context.Context, userUUID string, kind models.Kind, tx models.Transaction) (models.Transaction, error) {
	table, err := database.TableFor(kind)
	if err != nil {
		return models.Transaction{}, err
	}
	tx = normalize(userUUID, tx)
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.requireUser(ctx, userUUID); err != nil {
		return models.Transaction{}, err
	}

	tx.ID = uuid.New().String()
	tx.CreatedAt = time.Now().UTC()
	catUser, catName := categoryColumns(tx.Category)

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Transaction{}, err
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx,
		"INSERT INTO "+table+" (id, user_uuid, amount, currency, date, category_user_uuid, category_name, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		tx.ID, tx.UserUUID, tx.Amount, tx.Currency, tx.Date, catUser, catName, tx.CreatedAt,
	)
	if err != nil {
		return models.Transaction{}, err
	}

	if tx.Category != nil {
		_, err = dbTx.ExecContext(ctx,
			"INSERT OR IGNORE INTO categories (user_uuid, name) VALUES (?, ?)",
			tx.Category.UserUUID, tx.Category.Name,
		)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("failed to record category: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return models.Transaction{}, err
	}

	s.publisher.Publish(ctx, events.New(models.EventTransactionCreated, userUUID, kind, tx))
	return tx, nil
}

// Delete removes every record of the kind matching user, amount, currency and
// category. The date is ignored, so several records may be removed at once.
// Matching nothing is not an error.
func (s *TransactionService) Delete(ctx context.Context, userUUID string, kind models.Kind, tx models.Transaction) (int64, error) {
	table, err := database.TableFor(kind)
	if err != nil {
		return 0, err
	}
	tx = normalize(userUUID, tx)
	if err := tx.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	catUser, catName := categoryColumns(tx.Category)

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE user_uuid = ? AND amount = ? AND currency = ? AND category_user_uuid IS ? AND category_name IS ?",
		tx.UserUUID, tx.Amount, tx.Currency, catUser, catName,
	)
	if err != nil {
		return 0, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.publisher.Publish(ctx, events.New(models.EventTransactionDeleted, userUUID, kind, map[string]interface{}{
			"match":   tx,
			"deleted": deleted,
		}))
	}
	return deleted, nil
}

// MonthTotal sums the user's records of the kind dated within month's calendar month.
func (s *TransactionService) MonthTotal(ctx context.Context, userUUID string, kind models.Kind, month time.Time) (float64, error) {
	table, err := database.TableFor(kind)
	if err != nil {
		return 0, err
	}
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	// Dates are stored as YYYY-MM-DD, so lexical order is chronological order.
	var total sql.NullFloat64
	err = s.db.QueryRowContext(ctx,
		"SELECT SUM(amount) FROM "+table+" WHERE user_uuid = ? AND date >= ? AND date < ?",
		userUUID, start.Format(models.DateLayout), end.Format(models.DateLayout),
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}

func (s *TransactionService) requireUser(ctx context.Context, userUUID string) error {
	exists, err := s.users.UserExists(ctx, userUUID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// findByUser returns the user's records without checking that the user exists.
func (s *TransactionService) findByUser(ctx context.Context, userUUID string, kind models.Kind) ([]models.Transaction, error) {
	table, err := database.TableFor(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_uuid, amount, currency, date, category_user_uuid, category_name, created_at FROM "+table+" WHERE user_uuid = ? ORDER BY rowid",
		userUUID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		var catUser, catName sql.NullString
		if err := rows.Scan(&tx.ID, &tx.UserUUID, &tx.Amount, &tx.Currency, &tx.Date, &catUser, &catName, &tx.CreatedAt); err != nil {
			return nil, err
		}
		if catName.Valid {
			tx.Category = &models.Category{UserUUID: catUser.String, Name: catName.String}
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// normalize assigns ownership to the path user and fills an empty category owner.
func normalize(userUUID string, tx models.Transaction) models.Transaction {
	tx.UserUUID = userUUID
	if tx.Category != nil {
		cat := *tx.Category
		if cat.UserUUID == "" {
			cat.UserUUID = userUUID
		}
		tx.Category = &cat
	}
	return tx
}

func categoryColumns(cat *models.Category) (interface{}, interface{}) {
	if cat == nil {
		return nil, nil
	}
	return cat.UserUUID, cat.Name
}
