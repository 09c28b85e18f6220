package services

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/finance-tracker-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	users     *UserService
	svc       *TransactionService
	events    *EventService
	published *capturePublisher
	ctx       context.Context
	userUUID  string
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	db := newTestDB(suite.T())
	suite.ctx = context.Background()
	suite.users = newTestUserService(db)
	suite.published = &capturePublisher{}
	suite.events = NewEventService(db)
	suite.svc = NewTransactionService(db, suite.users, suite.published)

	user, err := suite.users.CreateUser(suite.ctx, "alice", "alice@example.com", "Alice", "pw")
	require.NoError(suite.T(), err)
	suite.userUUID = user.UUID
}

func (suite *TransactionServiceTestSuite) create(kind models.Kind, amount float64, currency, date string, cat *models.Category) {
	_, err := suite.svc.Create(suite.ctx, suite.userUUID, kind, models.Transaction{
		Amount: amount, Currency: currency, Date: date, Category: cat,
	})
	require.NoError(suite.T(), err)
}

func (suite *TransactionServiceTestSuite) TestCreateThenList() {
	suite.create(models.KindIncome, 100, "USD", "2024-01-15", nil)

	txs, err := suite.svc.List(suite.ctx, suite.userUUID, models.KindIncome)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), txs, 1)
	assert.Equal(suite.T(), suite.userUUID, txs[0].UserUUID)
	assert.Equal(suite.T(), 100.0, txs[0].Amount)
	assert.Equal(suite.T(), "USD", txs[0].Currency)
	assert.Equal(suite.T(), "2024-01-15", txs[0].Date)
	assert.Nil(suite.T(), txs[0].Category)

	spending, err := suite.svc.List(suite.ctx, suite.userUUID, models.KindSpending)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), spending)

	assert.Equal(suite.T(), []string{models.EventTransactionCreated}, suite.published.types())
}

func (suite *TransactionServiceTestSuite) TestPathUserOwnsRecord() {
	_, err := suite.svc.Create(suite.ctx, suite.userUUID, models.KindIncome, models.Transaction{
		UserUUID: "someone-else", Amount: 1, Currency: "EUR", Date: "2024-03-01",
	})
	require.NoError(suite.T(), err)

	txs, err := suite.svc.List(suite.ctx, suite.userUUID, models.KindIncome)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), txs, 1)
	assert.Equal(suite.T(), suite.userUUID, txs[0].UserUUID)
}

func (suite *TransactionServiceTestSuite) TestUnknownUser() {
	_, err := suite.svc.List(suite.ctx, "missing", models.KindIncome)
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)

	_, err = suite.svc.Create(suite.ctx, "missing", models.KindSpending, models.Transaction{Amount: 1, Currency: "USD", Date: "2024-01-01"})
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)

	series, err := suite.svc.TimeSeries(suite.ctx, "missing", models.KindIncome)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{}, series.Labels)
	assert.Equal(suite.T(), []float64{}, series.Values)
}

func (suite *TransactionServiceTestSuite) TestMalformedDateWritesNothing() {
	_, err := suite.svc.Create(suite.ctx, suite.userUUID, models.KindIncome, models.Transaction{
		Amount: 100, Currency: "USD", Date: "15-01-2024",
	})
	assert.ErrorIs(suite.T(), err, ErrValidation)

	txs, err := suite.svc.List(suite.ctx, suite.userUUID, models.KindIncome)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), txs)
	assert.Empty(suite.T(), suite.published.types())
}

func (suite *TransactionServiceTestSuite) TestDeleteRemovesEveryMatchRegardlessOfDate() {
	food := &models.Category{Name: "food"}
	suite.create(models.KindIncome, 50, "USD", "2024-01-10", nil)
	suite.create(models.KindIncome, 50, "USD", "2024-02-10", nil)
	suite.create(models.KindIncome, 50, "EUR", "2024-02-10", nil)
	suite.create(models.KindIncome, 50, "USD", "2024-02-11", food)

	deleted, err := suite.svc.Delete(suite.ctx, suite.userUUID, models.KindIncome, models.Transaction{
		Amount: 50, Currency: "USD", Date: "2030-12-31",
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), deleted)

	txs, err := suite.svc.List(suite.ctx, suite.userUUID, models.KindIncome)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), txs, 2)
	assert.Equal(suite.T(), "EUR", txs[0].Currency)
	require.NotNil(suite.T(), txs[1].Category)
	assert.Equal(suite.T(), "food", txs[1].Category.Name)
	assert.Equal(suite.T(), suite.userUUID, txs[1].Category.UserUUID)

	deleted, err = suite.svc.Delete(suite.ctx, suite.userUUID, models.KindIncome, models.Transaction{
		Amount: 50, Currency: "USD", Date: "2024-02-11", Category: &models.Category{Name: "food"},
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), deleted)
}

func (suite *TransactionServiceTestSuite) TestDeleteMissingIsNoop() {
	deleted, err := suite.svc.Delete(suite.ctx, suite.userUUID, models.KindSpending, models.Transaction{
		Amount: 9, Currency: "USD", Date: "2024-01-01",
	})
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), deleted)
	assert.Empty(suite.T(), suite.published.types())
}

func (suite *TransactionServiceTestSuite) TestCategoriesAreRecorded() {
	suite.create(models.KindSpending, 5, "USD", "2024-01-01", &models.Category{Name: "coffee"})
	suite.create(models.KindSpending, 6, "USD", "2024-01-02", &models.Category{Name: "coffee"})

	var count int
	err := suite.svc.db.QueryRow("SELECT COUNT(*) FROM categories WHERE user_uuid = ?", suite.userUUID).Scan(&count)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, count)
}

func (suite *TransactionServiceTestSuite) TestFailedCategoryWriteStoresNothing() {
	_, err := suite.svc.db.Exec("DROP TABLE categories")
	require.NoError(suite.T(), err)

	_, err = suite.svc.Create(suite.ctx, suite.userUUID, models.KindSpending, models.Transaction{
		Amount: 5, Currency: "USD", Date: "2024-01-01", Category: &models.Category{Name: "coffee"},
	})
	require.Error(suite.T(), err)

	txs, err := suite.svc.List(suite.ctx, suite.userUUID, models.KindSpending)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), txs)
	assert.Empty(suite.T(), suite.published.types())
}

func (suite *TransactionServiceTestSuite) TestTimeSeriesSumsMonth() {
	suite.create(models.KindIncome, 50, "USD", "2024-01-10", nil)
	suite.create(models.KindIncome, 70, "USD", "2024-01-20", nil)

	series, err := suite.svc.TimeSeries(suite.ctx, suite.userUUID, models.KindIncome)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"2024-01"}, series.Labels)
	assert.Equal(suite.T(), []float64{120}, series.Values)
}

func (suite *TransactionServiceTestSuite) TestSummary() {
	suite.create(models.KindIncome, 1000, "USD", "2024-01-01", nil)
	suite.create(models.KindIncome, 500, "USD", "2024-02-01", nil)
	suite.create(models.KindSpending, 300, "USD", "2024-02-03", nil)

	summary, err := suite.svc.Summary(suite.ctx, suite.userUUID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"2024-01", "2024-02"}, summary.Income.Labels)
	assert.Equal(suite.T(), []string{"2024-02"}, summary.Spending.Labels)
	assert.Equal(suite.T(), 1500.0, summary.Totals.Income)
	assert.Equal(suite.T(), 300.0, summary.Totals.Spending)
	assert.Equal(suite.T(), 1200.0, summary.Totals.Net)

	_, err = suite.svc.Summary(suite.ctx, "missing")
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
}

func (suite *TransactionServiceTestSuite) TestMonthTotal() {
	suite.create(models.KindSpending, 10, "USD", "2024-01-31", nil)
	suite.create(models.KindSpending, 20, "USD", "2024-02-01", nil)
	suite.create(models.KindSpending, 30, "USD", "2024-02-29", nil)
	suite.create(models.KindSpending, 40, "USD", "2024-03-01", nil)

	total, err := suite.svc.MonthTotal(suite.ctx, suite.userUUID, models.KindSpending, time.Date(2024, time.February, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 50.0, total)

	total, err = suite.svc.MonthTotal(suite.ctx, suite.userUUID, models.KindIncome, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), total)
}

func (suite *TransactionServiceTestSuite) TestEventLogRecordsActivity() {
	svc := NewTransactionService(suite.svc.db, suite.users, suite.events)
	_, err := svc.Create(suite.ctx, suite.userUUID, models.KindIncome, models.Transaction{Amount: 3, Currency: "USD", Date: "2024-05-05"})
	require.NoError(suite.T(), err)
	_, err = svc.Delete(suite.ctx, suite.userUUID, models.KindIncome, models.Transaction{Amount: 3, Currency: "USD", Date: "2024-05-05"})
	require.NoError(suite.T(), err)

	recent, err := suite.events.GetRecentEvents(suite.ctx, suite.userUUID, 10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), recent, 2)
	assert.Equal(suite.T(), models.EventTransactionDeleted, recent[0].Type)
	assert.Equal(suite.T(), models.EventTransactionCreated, recent[1].Type)
	assert.Equal(suite.T(), models.KindIncome, recent[1].Kind)

	recent, err = suite.events.GetRecentEvents(suite.ctx, suite.userUUID, 1)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), recent, 1)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
