package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"weighbridge-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func sampleTicket() *model.Ticket {
	return &model.Ticket{
		IssuedAt:    time.Now().UTC(),
		Plate:       "ABC-1234",
		Driver:      "J. Silva",
		CargoType:   "Soy",
		GrossWeight: decimal.NewFromInt(32000),
		TareWeight:  decimal.NewFromInt(14000),
		NetWeight:   decimal.NewFromInt(18000),
	}
}

func TestGormStore_CloseWeighing(t *testing.T) {
	testCases := []struct {
		name             string
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedErr      error
		expectedTicketID int64
	}{
		{
			name: "pending row exists, delete and insert commit together",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `pending_weighings` WHERE `pending_weighings`.`id` = ?")).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `tickets`")).
					WithArgs(Any{}, "ABC-1234", "", "J. Silva", "", "", "Soy", Any{}, Any{}, Any{}).
					WillReturnResult(sqlmock.NewResult(7, 1))
				mock.ExpectCommit()
			},
			expectedTicketID: 7,
		},
		{
			name: "pending already consumed, transaction rolls back with not found",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `pending_weighings` WHERE `pending_weighings`.`id` = ?")).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			expectedErr: ErrNotFound,
		},
		{
			name: "ticket insert fails, delete is rolled back",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `pending_weighings` WHERE `pending_weighings`.`id` = ?")).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `tickets`")).
					WillReturnError(errors.New("connection lost"))
				mock.ExpectRollback()
			},
			expectedErr: errors.New("connection lost"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			st := NewGormStore(gormDB)

			tc.mockExpectations(mock)

			ticket := sampleTicket()
			err := st.CloseWeighing(context.Background(), 1, ticket)

			if tc.expectedErr != nil {
				require.Error(t, err)
				if errors.Is(tc.expectedErr, ErrNotFound) {
					assert.ErrorIs(t, err, ErrNotFound)
				} else {
					assert.Contains(t, err.Error(), tc.expectedErr.Error())
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedTicketID, ticket.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_FetchPendingNotFound(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `pending_weighings` WHERE `pending_weighings`.`id` = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := st.FetchPending(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ListPendingNewestFirst(t *testing.T) {
	gormDB, mock := newTestDB(t)
	st := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `pending_weighings` ORDER BY id DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "plate"}).
			AddRow(3, "XYZ-5678").
			AddRow(1, "ABC-1234"))

	rows, err := st.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0].ID)
	assert.Equal(t, int64(1), rows[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}
