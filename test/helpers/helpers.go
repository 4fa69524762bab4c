// test/helpers/helpers.go
package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/wms-ledger/internal/adapters/db"
	"github.com/ammerola/wms-ledger/internal/core/domain"
	"github.com/ammerola/wms-ledger/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container with the ledger schema applied
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_ledger",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := db.DefaultConfig()
	dbConfig.Port = resource.GetPort("5432/tcp")
	dbConfig.User = "test"
	dbConfig.Password = "test"
	dbConfig.Database = "test_ledger"
	dbConfig.MaxConnections = 10
	dbConfig.MinConnections = 1
	dbConfig.EnableQueryLogging = testing.Verbose()

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")
	t.Cleanup(database.Close)

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		TableName:  "schema_migrations",
		SchemaName: "public",
	}
	err = db.RunMigrationsWithRetry(context.Background(), migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates an in-memory Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{Client: client, Server: mr}
}

// SetupMockDB creates a mock database for unit testing
func SetupMockDB(t *testing.T) (sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock DB")

	t.Cleanup(func() {
		db.Close()
	})

	return mock, db
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:            "wms-ledger-test",
			Environment:     "test",
			Version:         "test",
			LogLevel:        "debug",
			LogFormat:       "text",
			Debug:           true,
			SecretsProvider: "env",
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_ledger",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			LockTimeout:        2 * time.Second,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			PoolSize: 10,
		},
		Asynq: config.AsynqConfig{
			RedisAddr:   "localhost:6379",
			Concurrency: 2,
			Queues:      map[string]int{"critical": 6, "default": 3, "low": 1},
		},
		Archive: config.ArchiveConfig{
			Backend:  "local",
			LocalDir: os.TempDir(),
		},
		Ledger: config.LedgerConfig{
			MaxRetries:        3,
			RetryBackoff:      time.Millisecond,
			LocationsCacheTTL: 30 * time.Second,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			RequestIDHeader:   "X-Request-ID",
			UserIDHeader:      "X-User-ID",
		},
		Server: config.ServerConfig{
			Host:           "localhost",
			Port:           "8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			RequestTimeout: 10 * time.Second,
		},
		Worker: config.WorkerConfig{
			AuditCron:   "*/30 * * * *",
			AuditLimit:  500,
			ArchiveCron: "15 0 * * *",
			Timezone:    "UTC",
		},
	}
}

// Fixture is a minimal warehouse layout seeded into a test database
type Fixture struct {
	UserID     uuid.UUID
	SupplierID uuid.UUID
	// Shelves keyed by "<rack>/<position>"
	Shelves map[string]domain.Shelf
}

// ShelfSpec describes a shelf to seed
type ShelfSpec struct {
	Rack      string
	Position  string
	MaxWeight decimal.Decimal
	Stackable bool
}

// SeedWarehouse inserts a user, one shelf type per distinct rack and the
// requested shelves.
func SeedWarehouse(t *testing.T, pool *pgxpool.Pool, shelves ...ShelfSpec) *Fixture {
	t.Helper()
	ctx := context.Background()

	fx := &Fixture{
		UserID:     uuid.New(),
		SupplierID: uuid.New(),
		Shelves:    make(map[string]domain.Shelf, len(shelves)),
	}

	_, err := pool.Exec(ctx, `INSERT INTO users (id, name) VALUES ($1, $2)`, fx.UserID, "Test Operator")
	require.NoError(t, err, "Failed to seed user")

	racks := map[string]domain.Rack{}
	for _, spec := range shelves {
		rack, ok := racks[spec.Rack]
		if !ok {
			st := domain.ShelfType{
				ID:        uuid.New(),
				Name:      "type-" + spec.Rack,
				MaxWeight: spec.MaxWeight,
				Stackable: spec.Stackable,
			}
			_, err := pool.Exec(ctx,
				`INSERT INTO shelf_types (id, name, max_weight, stackable) VALUES ($1, $2, $3, $4)`,
				st.ID, st.Name, st.MaxWeight, st.Stackable)
			require.NoError(t, err, "Failed to seed shelf type")

			rack = domain.Rack{ID: uuid.New(), Name: spec.Rack, ShelfTypeID: st.ID}
			_, err = pool.Exec(ctx, `INSERT INTO racks (id, name, shelf_type_id) VALUES ($1, $2, $3)`,
				rack.ID, rack.Name, rack.ShelfTypeID)
			require.NoError(t, err, "Failed to seed rack")
			racks[spec.Rack] = rack
		}

		shelf := domain.Shelf{ID: uuid.New(), RackID: rack.ID, RackName: rack.Name, Position: spec.Position}
		_, err := pool.Exec(ctx, `INSERT INTO shelves (id, rack_id, position) VALUES ($1, $2, $3)`,
			shelf.ID, shelf.RackID, shelf.Position)
		require.NoError(t, err, "Failed to seed shelf")
		fx.Shelves[spec.Rack+"/"+spec.Position] = shelf
	}

	return fx
}

// Shelf returns the seeded shelf for "<rack>/<position>"
func (f *Fixture) Shelf(t *testing.T, key string) domain.Shelf {
	t.Helper()
	shelf, ok := f.Shelves[key]
	require.True(t, ok, "no seeded shelf %s", key)
	return shelf
}

// LoadRequest builds a one-package load for productID placed on shelfID
func (f *Fixture) LoadRequest(productID, shelfID uuid.UUID, quantity int) domain.LoadRequest {
	return domain.LoadRequest{
		SupplierID:     f.SupplierID,
		DocumentNumber: "DOC-" + uuid.NewString()[:8],
		DeclaredValue:  decimal.NewFromInt(100),
		ActingUserID:   f.UserID,
		Packages: []domain.PackageSpec{{
			ProductID:     productID,
			Quantity:      quantity,
			Weight:        decimal.NewFromInt(1),
			Stackable:     true,
			Type:          domain.PackageTypeBox,
			TargetShelfID: shelfID,
		}},
	}
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"ledger_transactions",
		"placements",
		"packages",
		"loads",
		"shelves",
		"racks",
		"shelf_types",
		"users",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}
