package testhelper

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
)

// NewMock returns a pgxmock pool that satisfies postgres.DB. Statements are
// matched as regular expressions. The pool is closed via t.Cleanup.
func NewMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("testhelper: failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(mock.Close)

	return mock
}

// ExpectationsWereMet fails the test if any queued expectation was not consumed.
func ExpectationsWereMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled pgxmock expectations: %v", err)
	}
}
