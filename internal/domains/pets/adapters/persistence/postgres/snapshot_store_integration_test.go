//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	petspostgres "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/persistence/postgres"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	"github.com/Apurer/pet-adoption-catalog/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("catalog_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestSnapshotStore_UpsertAndLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := petspostgres.NewSnapshotStore(db)
	ctx := context.Background()

	_, found, err := store.Load(ctx, "pets")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Store(ctx, "pets", []byte(`{"1":{"id":1,"name":"Nicko"}}`)))
	require.NoError(t, store.Store(ctx, "pets", []byte(`{"1":{"id":1,"name":"Nicko"},"4":{"id":4,"name":"Luna"}}`)))

	payload, found, err := store.Load(ctx, "pets")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `{"1":{"id":1,"name":"Nicko"},"4":{"id":4,"name":"Luna"}}`, string(payload))

	ids, err := store.PetIDs(ctx, "pets")
	require.NoError(t, err)
	require.Equal(t, []int64{1, 4}, ids)

	_, err = store.PetIDs(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSnapshotStore_BacksCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	store := petspostgres.NewSnapshotStore(db)
	cache := application.NewCache(ctx, store)
	id := cache.Add(ctx, domain.Draft{Type: domain.SpeciesCat, Name: "Mia"})

	restored := application.NewCache(ctx, petspostgres.NewSnapshotStore(db))
	pet, ok := restored.GetByID(id)
	require.True(t, ok)
	require.Equal(t, "Mia", pet.Name)
	require.Equal(t, cache.Len(), restored.Len())
}
