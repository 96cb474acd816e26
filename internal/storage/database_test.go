package storage

import (
	"os"
	"path/filepath"
	"testing"
)

// testDatabases returns a migrated SQLite database and, when TEST_POSTGRES_DSN
// is set, a migrated Postgres database.
func testDatabases(t *testing.T) map[string]*DB {
	t.Helper()

	dbs := map[string]*DB{"sqlite": newTestDB(t)}

	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		db, err := NewPostgres(dsn)
		if err != nil {
			t.Fatalf("NewPostgres() error = %v", err)
		}
		t.Cleanup(func() {
			_ = db.Close()
		})
		if err := Migrate(db); err != nil {
			t.Fatalf("Migrate() error = %v", err)
		}
		dbs["postgres"] = db
	}

	return dbs
}

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "valid path",
			path:    dbPath,
			wantErr: false,
		},
		{
			name:    "invalid path",
			path:    "/invalid/path/to/db.db",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := New(tt.path)

			if tt.wantErr {
				if err == nil {
					t.Errorf("New() expected error, got nil")
				}
				if db != nil {
					_ = db.Close()
				}
				return
			}

			if err != nil {
				t.Errorf("New() unexpected error: %v", err)
				return
			}

			if db == nil {
				t.Fatal("New() returned nil database")
			}

			if db.Stats().MaxOpenConnections != 25 {
				t.Errorf("New() MaxOpenConnections = %v, want 25", db.Stats().MaxOpenConnections)
			}
			if db.Dialect() != DialectSQLite {
				t.Errorf("New() Dialect = %v, want sqlite", db.Dialect())
			}

			_ = db.Close()
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "", ""); err == nil {
		t.Error("Open(mysql) expected error, got nil")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	for _, table := range []string{"memory_records", "memory_vectors"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestDB_Rebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{
			name:    "sqlite keeps question marks",
			dialect: DialectSQLite,
			query:   "SELECT * FROM t WHERE a = ? AND b = ?",
			want:    "SELECT * FROM t WHERE a = ? AND b = ?",
		},
		{
			name:    "postgres numbers placeholders",
			dialect: DialectPostgres,
			query:   "SELECT * FROM t WHERE a = ? AND b IN (?, ?)",
			want:    "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)",
		},
		{
			name:    "no placeholders",
			dialect: DialectPostgres,
			query:   "SELECT 1",
			want:    "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &DB{dialect: tt.dialect}
			if got := db.Rebind(tt.query); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}
