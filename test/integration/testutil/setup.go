//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/winpay/platform/internal/app"
	"github.com/winpay/platform/internal/auth"
	"github.com/winpay/platform/internal/infra"
	"github.com/winpay/platform/internal/ledger"
	"github.com/winpay/platform/internal/repository"
)

const (
	TestJWTSecret  = "integration-test-secret"
	TestServerSeed = "integration-test-seed"
	TestDBHost     = "localhost"
	TestDBPort     = 5434
	TestDBUser     = "winpay"
	TestDBPass     = "winpay"
	TestDBName     = "winpay_test"
)

// TestEnv holds all resources for an integration test.
type TestEnv struct {
	Server *httptest.Server
	Pool   *pgxpool.Pool
	App    *app.App
	Engine *ledger.Engine
	JWTMgr *auth.JWTManager
	t      *testing.T
}

var (
	sharedPool *pgxpool.Pool
	poolOnce   sync.Once
	poolErr    error
)

func testDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		TestDBUser, TestDBPass, TestDBHost, TestDBPort, TestDBName)
}

func bootstrapDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		TestDBUser, TestDBPass, TestDBHost, TestDBPort, "winpay")
}

func ensureTestDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect to the main database to create the test database
	bPool, err := pgxpool.New(ctx, bootstrapDSN())
	if err != nil {
		return fmt.Errorf("connect bootstrap db: %w", err)
	}
	defer bPool.Close()

	var exists bool
	err = bPool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", TestDBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check db exists: %w", err)
	}

	if !exists {
		_, err = bPool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", TestDBName))
		if err != nil {
			return fmt.Errorf("create test db: %w", err)
		}
	}

	return nil
}

func runMigrations() error {
	root, err := findProjectRoot()
	if err != nil {
		return err
	}

	m, err := newMigrate(fmt.Sprintf("file://%s/db/migrations", root), testDSN())
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err.Error() != "no change" {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", dir)
		}
		dir = parent
	}
}

func getSharedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	poolOnce.Do(func() {
		if err := ensureTestDB(); err != nil {
			poolErr = err
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		poolCfg, err := pgxpool.ParseConfig(testDSN())
		if err != nil {
			poolErr = fmt.Errorf("parse pool config: %w", err)
			return
		}
		poolCfg.MaxConns = 10
		poolCfg.MinConns = 1

		sharedPool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			poolErr = fmt.Errorf("create pool: %w", err)
			return
		}

		if err := runMigrations(); err != nil {
			poolErr = fmt.Errorf("run migrations: %w", err)
			sharedPool.Close()
			sharedPool = nil
			return
		}
	})

	if poolErr != nil {
		t.Fatalf("failed to initialize test pool: %v", poolErr)
	}
	return sharedPool
}

func testConfig() *infra.Config {
	return &infra.Config{
		JWTSecret:       TestJWTSecret,
		JWTPlayerExpiry: "24h",
		JWTAdminExpiry:  "8h",
		ServerSeed:      TestServerSeed,
		BetLockMargin:   5 * time.Second,
		MinBetAmount:    1000,
		GridHouseEdge:   0.01,
		WagerMultiple:   2,
		MinWithdrawal:   10_000,
	}
}

// NewTestEnv creates a test environment with an httptest.Server backed by
// the real router and test DB. The settler is not started; tests drive
// settlement through Settler.SettleRound.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	pool := getSharedPool(t)

	jwtMgr := auth.NewJWTManager(TestJWTSecret, 24*time.Hour, 8*time.Hour)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	application, err := app.New(app.Deps{
		Pool:   pool,
		Cfg:    testConfig(),
		JWTMgr: jwtMgr,
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("wire app: %v", err)
	}

	server := httptest.NewServer(application.Router)

	engine := ledger.NewEngine(
		repository.NewAccountRepository(),
		repository.NewLedgerEntryRepository(),
		repository.NewOutboxRepository(),
	)

	env := &TestEnv{
		Server: server,
		Pool:   pool,
		App:    application,
		Engine: engine,
		JWTMgr: jwtMgr,
		t:      t,
	}

	t.Cleanup(func() {
		server.Close()
		env.CleanAll()
	})

	// Clean before test to ensure isolation
	env.CleanAll()

	return env
}
