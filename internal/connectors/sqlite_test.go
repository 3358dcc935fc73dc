package connectors

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"db_forms/internal/config"
	"db_forms/internal/domain"
	"db_forms/internal/schema"
)

func openTestStore(t *testing.T, path string) *SQLiteConnector {
	t.Helper()
	c := NewSQLiteConnector(config.DatabaseConfig{Driver: config.DriverSQLite, Path: path, Timeout: 5})
	if err := c.Connect(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Disconnect() })
	return c
}

func createTables(t *testing.T, c Store) {
	t.Helper()
	for _, s := range schema.Tables() {
		if err := c.CreateTable(context.Background(), s); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSQLiteExecAndSelect(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	createTables(t, c)

	n, err := c.Exec(ctx, "INSERT INTO Authors (AuthorID, Name, Bio) VALUES (?, ?, ?)", "1", "Jane", "Bio text")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("got %d rows affected; want 1", n)
	}
	if !c.Pending() {
		t.Errorf("no pending transaction after insert")
	}

	got, err := c.SelectAll(ctx, "Authors")
	if err != nil {
		t.Fatal(err)
	}
	want := &domain.DisplayTable{
		Columns: []string{"AuthorID", "Name", "Bio"},
		Rows:    [][]string{{"1", "Jane", "Bio text"}},
	}
	if !got.Equal(want) {
		t.Errorf("got %+v; want %+v", got, want)
	}
}

func TestSQLiteCommitIsDurable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	c := openTestStore(t, path)
	createTables(t, c)
	if _, err := c.Exec(ctx, "INSERT INTO Customers (CustomerID, FirstName, LastName, Email) VALUES (?, ?, ?, ?)",
		"5", "Ann", "Lee", "ann@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := c.Commit(); err != nil {
		t.Fatal(err)
	}
	if c.Pending() {
		t.Errorf("pending after commit")
	}
	if _, err := c.Exec(ctx, "INSERT INTO Customers (CustomerID, FirstName, LastName, Email) VALUES (?, ?, ?, ?)",
		"6", "Bob", "Ray", "bob@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := c.Disconnect(); err != nil {
		t.Fatal(err)
	}

	c2 := openTestStore(t, path)
	got, err := c2.SelectAll(ctx, "Customers")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != 1 || got.Rows[0][0] != "5" {
		t.Errorf("got rows %v; want only committed customer 5", got.Rows)
	}
}

func TestSQLiteRollback(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	createTables(t, c)
	if _, err := c.Exec(ctx, "INSERT INTO Orders (OrderID, CustomerID, OrderDate, Status) VALUES (?, ?, ?, ?)",
		"1", "1", "01/05/2005", "new"); err != nil {
		t.Fatal(err)
	}
	if err := c.Rollback(); err != nil {
		t.Fatal(err)
	}
	got, err := c.SelectAll(ctx, "Orders")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != 0 {
		t.Errorf("got %v; want no rows after rollback", got.Rows)
	}
}

func TestSQLiteFailedStatementKeepsWorkingState(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	createTables(t, c)
	insert := "INSERT INTO Authors (AuthorID, Name, Bio) VALUES (?, ?, ?)"
	if _, err := c.Exec(ctx, insert, "1", "Jane", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Exec(ctx, insert, "1", "Dup", ""); err == nil {
		t.Fatalf("got nil; want primary key violation")
	}
	got, err := c.SelectAll(ctx, "Authors")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != 1 || got.Rows[0][1] != "Jane" {
		t.Errorf("got %v; want the first insert to survive", got.Rows)
	}
}

func TestSQLiteSelectMissingTable(t *testing.T) {
	c := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	if _, err := c.SelectAll(context.Background(), "Authors"); err == nil {
		t.Errorf("got nil; want error for missing table")
	}
}

func TestNotConnected(t *testing.T) {
	c := NewSQLiteConnector(config.DatabaseConfig{Path: "unused.db"})
	if _, err := c.Exec(context.Background(), "SELECT 1"); !errors.Is(err, domain.ErrNotConnected) {
		t.Errorf("Exec: got %v; want %v", err, domain.ErrNotConnected)
	}
	if _, err := c.SelectAll(context.Background(), "Authors"); !errors.Is(err, domain.ErrNotConnected) {
		t.Errorf("SelectAll: got %v; want %v", err, domain.ErrNotConnected)
	}
	if err := c.Commit(); !errors.Is(err, domain.ErrNotConnected) {
		t.Errorf("Commit: got %v; want %v", err, domain.ErrNotConnected)
	}
	if err := c.Disconnect(); err != nil {
		t.Errorf("Disconnect: got %v; want nil", err)
	}
}

func TestCommitWithoutChanges(t *testing.T) {
	c := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	if err := c.Commit(); err != nil {
		t.Errorf("got %v; want nil", err)
	}
}

var formatValueTests = []struct {
	in   interface{}
	want string
}{
	{nil, ""},
	{[]byte("abc"), "abc"},
	{"text", "text"},
	{int64(42), "42"},
	{float64(9.99), "9.99"},
	{float64(10), "10"},
	{true, "true"},
	{time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "2020-01-01"},
	{time.Date(2020, 1, 1, 13, 4, 5, 0, time.UTC), "2020-01-01 13:04:05"},
	{int32(7), "7"},
}

func TestFormatValue(t *testing.T) {
	for _, tt := range formatValueTests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%#v): got %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewSelectsConnector(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{config.DriverSQLite, "?"},
		{config.DriverMariaDB, "?"},
		{config.DriverOracle, ":1"},
		{config.DriverPostgres, "$1"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s, err := New(config.DatabaseConfig{Driver: tt.driver})
			if err != nil {
				t.Fatal(err)
			}
			if got := s.Placeholder()(1); got != tt.want {
				t.Errorf("got %q; want %q", got, tt.want)
			}
		})
	}
	if _, err := New(config.DatabaseConfig{Driver: "mongo"}); err == nil {
		t.Errorf("got nil; want error for unknown driver")
	}
}

func TestSQLitePingInsideWorkingTransaction(t *testing.T) {
	ctx := context.Background()
	c := NewSQLiteConnector(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db"), Timeout: 1})
	if err := c.Connect(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Disconnect() })
	createTables(t, c)

	if err := c.Ping(); err != nil {
		t.Fatalf("ping without transaction: %v", err)
	}
	if _, err := c.Exec(ctx, "INSERT INTO Authors (AuthorID, Name, Bio) VALUES (?, ?, ?)", "1", "Jane", ""); err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if err := c.Ping(); err != nil {
		t.Errorf("ping inside transaction: %v", err)
	}
	if d := time.Since(start); d > 500*time.Millisecond {
		t.Errorf("ping took %v", d)
	}
}

func TestSQLiteFailedFirstStatementNotPending(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	createTables(t, c)
	insert := "INSERT INTO Authors (AuthorID, Name, Bio) VALUES (?, ?, ?)"
	if _, err := c.Exec(ctx, insert, "1", "Jane", ""); err != nil {
		t.Fatal(err)
	}
	if err := c.Commit(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Exec(ctx, insert, "1", "Dup", ""); err == nil {
		t.Fatalf("got nil; want primary key violation")
	}
	if c.Pending() {
		t.Errorf("pending after a failed statement changed nothing")
	}
	if _, err := c.Exec(ctx, insert, "2", "Joe", ""); err != nil {
		t.Fatal(err)
	}
	if !c.Pending() {
		t.Errorf("not pending after a successful insert")
	}
	if err := c.Rollback(); err != nil {
		t.Fatal(err)
	}
	if c.Pending() {
		t.Errorf("pending after rollback")
	}
}

func TestSQLiteDateColumnsReadAsText(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t, filepath.Join(t.TempDir(), "test.db"))
	if _, err := c.Exec(ctx, "CREATE TABLE Orders (OrderID INTEGER PRIMARY KEY, CustomerID INTEGER, OrderDate DATE, Status TEXT)"); err != nil {
		t.Fatal(err)
	}
	for _, date := range []string{"01/05/2005", "2005-01-05"} {
		if _, err := c.Exec(ctx, "DELETE FROM Orders"); err != nil {
			t.Fatal(err)
		}
		if _, err := c.Exec(ctx, "INSERT INTO Orders (OrderID, CustomerID, OrderDate, Status) VALUES (?, ?, ?, ?)",
			"1", "2", date, "new"); err != nil {
			t.Fatal(err)
		}
		got, err := c.SelectAll(ctx, "Orders")
		if err != nil {
			t.Fatal(err)
		}
		want := &domain.DisplayTable{
			Columns: []string{"OrderID", "CustomerID", "OrderDate", "Status"},
			Rows:    [][]string{{"1", "2", date, "new"}},
		}
		if !got.Equal(want) {
			t.Errorf("got %+v; want %+v", got, want)
		}
	}
}

func TestSQLiteDSNEscapesPath(t *testing.T) {
	if got, want := sqliteDSN("/tmp/a?b#c%d.db"), "file:/tmp/a%3Fb%23c%25d.db"+sqliteOpenOptions; got != want {
		t.Errorf("got %q; want %q", got, want)
	}

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "odd?name#1.db")
	c := openTestStore(t, path)
	createTables(t, c)
	if _, err := c.Exec(ctx, "INSERT INTO Authors (AuthorID, Name, Bio) VALUES (?, ?, ?)", "1", "Jane", ""); err != nil {
		t.Fatal(err)
	}
	if err := c.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := c.Disconnect(); err != nil {
		t.Fatal(err)
	}

	c2 := openTestStore(t, path)
	got, err := c2.SelectAll(ctx, "Authors")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != 1 {
		t.Errorf("got %v; want the committed row", got.Rows)
	}
}
