// -----------------------------------------------------------------------------
// Pagination Tests
// -----------------------------------------------------------------------------
// Sayfalı okuma iki sorgudan oluşur: COUNT ve LIMIT/OFFSET'li SELECT.
// Bu testler, sorgu çiftinin doğru üretildiğini ve sayfa aritmetiğinin
// ceil kuralına uyduğunu sqlmock üzerinden doğrular.
// -----------------------------------------------------------------------------

package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// TestLastPage_CeilArithmetic tests page count calculation.
func TestLastPage_CeilArithmetic(t *testing.T) {
	tests := []struct {
		total    int64
		perPage  int
		expected int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 7, 15},
	}

	for _, tt := range tests {
		if got := lastPage(tt.total, tt.perPage); got != tt.expected {
			t.Errorf("lastPage(%d, %d) = %d, expected %d", tt.total, tt.perPage, got, tt.expected)
		}
	}
}

// TestPaginateMaps_SecondPage tests the count + page query pair.
func TestPaginateMaps_SecondPage(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT(*) AS `aggregate` FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"aggregate"}).AddRow(25))

	mock.ExpectQuery("SELECT * FROM `users` ORDER BY `id` ASC LIMIT 10 OFFSET 10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(11, "Ali").
			AddRow(12, "Veli"))

	qb := NewBuilder(db, NewMySQLGrammar())
	rows, meta, err := qb.Table("users").OrderBy("id", "asc").PaginateMaps(2, 10)
	if err != nil {
		t.Fatalf("PaginateMaps failed: %v", err)
	}

	if len(rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(rows))
	}
	if meta.Total != 25 || meta.CurrentPage != 2 || meta.PerPage != 10 || meta.LastPage != 3 {
		t.Errorf("Unexpected pagination metadata: %+v", meta)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet sqlmock expectations: %v", err)
	}
}

// TestPaginateMaps_NormalizesInvalidPageArgs tests page/limit clamping.
func TestPaginateMaps_NormalizesInvalidPageArgs(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT(*) AS `aggregate` FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"aggregate"}).AddRow(3))

	mock.ExpectQuery("SELECT * FROM `users` LIMIT 10").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	qb := NewBuilder(db, NewMySQLGrammar())
	_, meta, err := qb.Table("users").PaginateMaps(0, -5)
	if err != nil {
		t.Fatalf("PaginateMaps failed: %v", err)
	}

	if meta.CurrentPage != 1 || meta.PerPage != 10 {
		t.Errorf("Expected defaults page=1, perPage=10, got %+v", meta)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet sqlmock expectations: %v", err)
	}
}

// TestCount_SeparateConnectionsDoNotShareInFlightResult tests that identical
// concurrent COUNTs bound to different connections each hit their own
// database instead of sharing one in-flight result.
func TestCount_SeparateConnectionsDoNotShareInFlightResult(t *testing.T) {
	dbA, mockA, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer dbA.Close()

	dbB, mockB, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer dbB.Close()

	mockA.ExpectQuery("SELECT COUNT(*) AS `aggregate` FROM `users`").
		WillDelayFor(100 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"aggregate"}).AddRow(7))
	mockB.ExpectQuery("SELECT COUNT(*) AS `aggregate` FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"aggregate"}).AddRow(99))

	countA := make(chan int64, 1)
	errA := make(chan error, 1)
	go func() {
		count, err := NewBuilder(dbA, NewMySQLGrammar()).Table("users").Count()
		countA <- count
		errA <- err
	}()

	// A'nın sorgusu uçuştayken B aynı SQL'i kendi bağlantısında çalıştırır.
	time.Sleep(20 * time.Millisecond)
	countB, err := NewBuilder(dbB, NewMySQLGrammar()).Table("users").Count()
	if err != nil {
		t.Fatalf("Count on second connection failed: %v", err)
	}
	if countB != 99 {
		t.Errorf("Expected count 99 from second connection, got %d", countB)
	}

	if err := <-errA; err != nil {
		t.Fatalf("Count on first connection failed: %v", err)
	}
	if got := <-countA; got != 7 {
		t.Errorf("Expected count 7 from first connection, got %d", got)
	}

	if err := mockA.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet sqlmock expectations on first connection: %v", err)
	}
	if err := mockB.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet sqlmock expectations on second connection: %v", err)
	}
}

// TestCount_WithWhereContext tests that Count preserves filters and binds by
// position.
func TestCount_WithWhereContext(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT(*) AS `aggregate` FROM `users` WHERE `status` = ?").
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"aggregate"}).AddRow(7))

	qb := NewBuilder(db, NewMySQLGrammar())
	count, err := qb.Table("users").WhereEq("status", "active").Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 7 {
		t.Errorf("Expected count 7, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet sqlmock expectations: %v", err)
	}
}
