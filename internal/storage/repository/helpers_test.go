//go:build integration

package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/gymhub/internal/migrations"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("gymhub"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))
	require.NoError(t, CheckDatabaseReady(ctx, storage))

	return storage
}

// TestDataFactory создаёт тестовые записи напрямую в базе.
type TestDataFactory struct {
	storage *Storage
}

func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

func (f *TestDataFactory) CreateTrialKey(t *testing.T, key string) {
	_, err := f.storage.DB.Exec(`INSERT INTO trial_keys (key) VALUES ($1)`, key)
	require.NoError(t, err)
}

func (f *TestDataFactory) CreateGym(t *testing.T, name string, isTrial bool, expiresAt, nextDue *time.Time) string {
	var id string
	err := f.storage.DB.QueryRow(
		`INSERT INTO gyms (name, email, is_trial, expires_at, next_due_date)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		name, name+"@gym.test", isTrial, expiresAt, nextDue).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *TestDataFactory) CreateTrainer(t *testing.T, gymID, name string) string {
	var id string
	err := f.storage.DB.QueryRow(
		`INSERT INTO trainers (gym_id, name) VALUES ($1, $2) RETURNING id`, gymID, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *TestDataFactory) CreateMember(t *testing.T, gymID, name string, trainerID *string, nextDue *time.Time) string {
	var id string
	err := f.storage.DB.QueryRow(
		`INSERT INTO members (gym_id, trainer_id, name, email, next_due_date)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		gymID, trainerID, name, name+"@mail.test", nextDue).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *TestDataFactory) CreateUser(t *testing.T, email, role string, gymID *string, handle *string) string {
	var uid string
	err := f.storage.DB.QueryRow(
		`INSERT INTO users (email, password_hash, role, gym_id, display_name, community_handle)
		 VALUES ($1, 'hash', $2, $3, $1, $4) RETURNING uid`,
		email, role, gymID, handle).Scan(&uid)
	require.NoError(t, err)
	return uid
}

func (f *TestDataFactory) Count(t *testing.T, table string) int {
	var n int
	require.NoError(t, f.storage.DB.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
