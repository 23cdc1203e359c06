//go:build integration

package persistence

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	appletter "github.com/pulosarok/desa/internal/application/letter"
	"github.com/pulosarok/desa/internal/domain/identity"
	"github.com/pulosarok/desa/internal/infrastructure/migration"
	"github.com/pulosarok/desa/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newPostgres starts a disposable postgres, applies the embedded migrations and
// returns a pooled connection
func newPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("desa_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(20)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.NewFromFS(sqlDB, migrations.FS, ".", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db
}

func seedTenant(t *testing.T, db *gorm.DB, code string) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant(code, "Desa "+code)
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(db).Save(t.Context(), tenant))
	return tenant
}

func TestPostgres_SequenceIsGaplessUnderConcurrency(t *testing.T) {
	db := newPostgres(t)
	tenant := seedTenant(t, db, "PULO")
	scope := NewGormLetterTransactionScope(db)

	const workers = 25
	var (
		mu      sync.Mutex
		numbers []int64
		wg      sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := scope.Execute(context.Background(), func(repos appletter.TransactionalRepositories) error {
				n, err := repos.SequenceRepo().Next(context.Background(), tenant.ID, 2026)
				if err != nil {
					return err
				}
				mu.Lock()
				numbers = append(numbers, n)
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, numbers, workers)
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for i, n := range numbers {
		assert.Equal(t, int64(i+1), n)
	}
}

func TestPostgres_RolledBackNumberIsReissued(t *testing.T) {
	db := newPostgres(t)
	tenant := seedTenant(t, db, "PULO")
	scope := NewGormLetterTransactionScope(db)
	errAbort := errors.New("abort")

	err := scope.Execute(t.Context(), func(repos appletter.TransactionalRepositories) error {
		n, err := repos.SequenceRepo().Next(t.Context(), tenant.ID, 2026)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	n, err := NewGormSequenceRepository(db).Next(t.Context(), tenant.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "a rolled back submit does not consume a number")
}

func TestPostgres_SequencesArePartitioned(t *testing.T) {
	db := newPostgres(t)
	a := seedTenant(t, db, "PULO")
	b := seedTenant(t, db, "SAROK")
	repo := NewGormSequenceRepository(db)

	for i := 0; i < 3; i++ {
		_, err := repo.Next(t.Context(), a.ID, 2026)
		require.NoError(t, err)
	}

	n, err := repo.Next(t.Context(), b.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "tenants number independently")

	n, err = repo.Next(t.Context(), a.ID, 2027)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "a new year starts from one")

	n, err = repo.Next(t.Context(), a.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestPostgres_TenantRepositoryRoundTrip(t *testing.T) {
	db := newPostgres(t)
	tenant := seedTenant(t, db, "PULO")
	repo := NewGormTenantRepository(db)

	found, err := repo.FindByCode(t.Context(), "PULO")
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, found.ID)

	_, err = repo.FindByID(t.Context(), uuid.New())
	assert.Error(t, err)
}
