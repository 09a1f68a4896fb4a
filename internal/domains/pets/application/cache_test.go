package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	petmemory "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/memory"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

func fixedSeed(pets ...domain.Pet) CacheOption {
	return WithSeed(func() ([]domain.Pet, error) { return pets, nil })
}

func ids(snapshot Snapshot) []int64 {
	out := make([]int64, 0, len(snapshot.Pets))
	for _, p := range snapshot.Pets {
		out = append(out, p.ID)
	}
	return out
}

func TestSeedPets_BundledDatasetIsValid(t *testing.T) {
	pets, err := SeedPets()
	require.NoError(t, err)
	require.NotEmpty(t, pets)
	for _, pet := range pets {
		require.NotEmpty(t, pet.Name)
		require.True(t, pet.Type.Valid(), pet.Name)
	}
}

func TestNewCache_EmptyStoreUsesSeed(t *testing.T) {
	cache := NewCache(context.Background(), petmemory.NewSnapshotStore())

	seed, err := SeedPets()
	require.NoError(t, err)
	require.Equal(t, len(seed), cache.Len())
}

func TestNewCache_CorruptSnapshotFallsBackToSeed(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":       "{{{",
		"not an object":  "[1,2,3]",
		"non numeric id": `{"abc":{"name":"Rex"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			store := petmemory.NewSnapshotStore()
			store.Seed(DefaultSnapshotKey, []byte(payload))

			cache := NewCache(context.Background(), store, fixedSeed(domain.Pet{ID: 7, Name: "Seeded"}))

			require.Equal(t, []int64{7}, ids(cache.Snapshot()))
		})
	}
}

func TestNewCache_RestoresStoredSnapshot(t *testing.T) {
	ctx := context.Background()
	store := petmemory.NewSnapshotStore()

	first := NewCache(ctx, store, fixedSeed())
	id := first.Add(ctx, domain.Draft{Type: domain.SpeciesCat, Name: "Mel", Tags: []string{"Fêmea"}})

	second := NewCache(ctx, store, fixedSeed(domain.Pet{ID: 99, Name: "Ignored"}))
	pet, ok := second.GetByID(id)
	require.True(t, ok)
	require.Equal(t, "Mel", pet.Name)
	require.Equal(t, []string{"Fêmea"}, pet.Tags)
	require.Equal(t, 1, second.Len())
}

func TestCacheAdd_AssignsNextID(t *testing.T) {
	ctx := context.Background()

	empty := NewCache(ctx, petmemory.NewSnapshotStore(), fixedSeed())
	require.Equal(t, int64(1), empty.Add(ctx, domain.Draft{Name: "First"}))

	sparse := NewCache(ctx, petmemory.NewSnapshotStore(), fixedSeed(
		domain.Pet{ID: 1, Name: "A"},
		domain.Pet{ID: 2, Name: "B"},
		domain.Pet{ID: 5, Name: "C"},
	))
	id := sparse.Add(ctx, domain.Draft{Name: "D"})
	require.Equal(t, int64(6), id)

	pet, ok := sparse.GetByID(id)
	require.True(t, ok)
	require.Equal(t, id, pet.ID)
	require.Equal(t, []int64{1, 2, 5, 6}, ids(sparse.Snapshot()))
}

func TestCacheUpdate_MergesPartialFields(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(ctx, petmemory.NewSnapshotStore(), fixedSeed(domain.Pet{
		ID: 1, Name: "Nicko", Location: "São Paulo", Vaccinated: true, Tags: []string{"Macho"},
	}))

	name := "Nick"
	require.True(t, cache.Update(ctx, 1, domain.Patch{Name: &name}))

	pet, _ := cache.GetByID(1)
	require.Equal(t, "Nick", pet.Name)
	require.Equal(t, "São Paulo", pet.Location)
	require.True(t, pet.Vaccinated)
	require.Equal(t, []string{"Macho"}, pet.Tags)
}

func TestCacheUpdateAndDelete_MissingIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store := petmemory.NewSnapshotStore()
	cache := NewCache(ctx, store, fixedSeed(domain.Pet{ID: 1, Name: "A"}))
	before := cache.Snapshot()

	name := "ghost"
	require.False(t, cache.Update(ctx, 42, domain.Patch{Name: &name}))
	require.False(t, cache.Delete(ctx, 42))

	after := cache.Snapshot()
	require.Equal(t, before, after)
	require.Zero(t, store.Writes())
}

func TestCacheDelete_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(ctx, petmemory.NewSnapshotStore(), fixedSeed(domain.Pet{ID: 1, Name: "A"}, domain.Pet{ID: 2, Name: "B"}))

	require.True(t, cache.Delete(ctx, 1))
	require.False(t, cache.Delete(ctx, 1))
	require.Equal(t, []int64{2}, ids(cache.Snapshot()))
}

func TestCacheSnapshot_IsIsolatedAndVersioned(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(ctx, petmemory.NewSnapshotStore(), fixedSeed(domain.Pet{ID: 1, Name: "A", Tags: []string{"x"}}))

	snapshot := cache.Snapshot()
	snapshot.Pets[0].Tags[0] = "mutated"

	pet, _ := cache.GetByID(1)
	require.Equal(t, []string{"x"}, pet.Tags)

	cache.Add(ctx, domain.Draft{Name: "B"})
	require.Greater(t, cache.Snapshot().Version, snapshot.Version)
}

func TestCache_WriteFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	store := petmemory.NewSnapshotStore()
	store.FailWrites = errors.New("quota exceeded")
	cache := NewCache(ctx, store, fixedSeed())

	id := cache.Add(ctx, domain.Draft{Name: "Rex"})

	_, ok := cache.GetByID(id)
	require.True(t, ok)
	require.Error(t, cache.Save(ctx))
}

func TestCache_WriteBehindFlushesOnClose(t *testing.T) {
	ctx := context.Background()
	store := petmemory.NewSnapshotStore()
	cache := NewCache(ctx, store, fixedSeed(), WithWriteBehind(time.Hour))

	cache.Add(ctx, domain.Draft{Name: "Rex"})
	require.Zero(t, store.Writes())

	require.NoError(t, cache.Close(ctx))
	require.Equal(t, 1, store.Writes())

	payload, found, err := store.Load(ctx, DefaultSnapshotKey)
	require.NoError(t, err)
	require.True(t, found)
	pets, err := DecodeSnapshot(payload)
	require.NoError(t, err)
	require.Equal(t, "Rex", pets[1].Name)
}

func TestCache_CustomSnapshotKey(t *testing.T) {
	ctx := context.Background()
	store := petmemory.NewSnapshotStore()
	cache := NewCache(ctx, store, fixedSeed(), WithSnapshotKey("pets-staging"))

	cache.Add(ctx, domain.Draft{Name: "Rex"})

	_, found, _ := store.Load(ctx, DefaultSnapshotKey)
	require.False(t, found)
	_, found, _ = store.Load(ctx, "pets-staging")
	require.True(t, found)
}

func TestCache_NilCachePanics(t *testing.T) {
	var cache *Cache
	require.PanicsWithValue(t, ErrCacheNotInitialized, func() { cache.Len() })
}

func TestEncodeSnapshot_UsesIDKeys(t *testing.T) {
	payload, err := EncodeSnapshot(map[int64]domain.Pet{3: {ID: 3, Name: "Bob"}})
	require.NoError(t, err)
	require.Contains(t, string(payload), `"3":{"id":3`)

	decoded, err := DecodeSnapshot(payload)
	require.NoError(t, err)
	require.Equal(t, "Bob", decoded[3].Name)
}

func TestCacheRekey_NeverOverwritesAnotherPet(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(ctx, petmemory.NewSnapshotStore(), fixedSeed(domain.Pet{ID: 1, Name: "Nicko"}))
	id := cache.Add(ctx, domain.Draft{Name: "Rex"})
	local, _ := cache.GetByID(id)

	require.False(t, cache.Rekey(ctx, local, domain.Pet{ID: 1, Name: "Rex"}))
	nicko, _ := cache.GetByID(1)
	require.Equal(t, "Nicko", nicko.Name)

	require.True(t, cache.Rekey(ctx, local, domain.Pet{ID: 40, Name: "Rex"}))
	require.Equal(t, []int64{1, 40}, ids(cache.Snapshot()))
}

func TestCacheConditionalWrites_RefuseStaleExpectations(t *testing.T) {
	ctx := context.Background()
	cache := NewCache(ctx, petmemory.NewSnapshotStore(), fixedSeed(domain.Pet{ID: 1, Name: "A", Tags: []string{"x"}}))
	original, _ := cache.GetByID(1)

	location := "Campinas"
	cache.Update(ctx, 1, domain.Patch{Location: &location})

	require.False(t, cache.CompareAndSwap(ctx, original, domain.Pet{Name: "B"}))
	require.False(t, cache.CompareAndDelete(ctx, original))
	require.False(t, cache.RestoreIfAbsent(ctx, original))

	current, _ := cache.GetByID(1)
	require.Equal(t, "Campinas", current.Location)
	require.True(t, cache.CompareAndSwap(ctx, current, domain.Pet{ID: 99, Name: "B"}))

	swapped, ok := cache.GetByID(1)
	require.True(t, ok)
	require.Equal(t, "B", swapped.Name)
	require.True(t, cache.CompareAndDelete(ctx, swapped))
	require.True(t, cache.RestoreIfAbsent(ctx, original))
	require.Equal(t, []int64{1}, ids(cache.Snapshot()))
}

func TestSnapshot_RoundTripPreservesEveryField(t *testing.T) {
	lat, lng := -23.55, -46.63
	ong, tutor := int64(4), int64(9)
	in := map[int64]domain.Pet{
		1: {
			ID: 1, Type: domain.SpeciesDog, Name: "Nicko", Description: "Calmo",
			Images: []string{"a.jpg", "b.jpg"}, Tags: []string{"Macho", " "},
			Age: "2 anos", Size: "Pequeno", Weight: "8kg", Location: "São Paulo",
			Coordinates: domain.Coordinates{Latitude: &lat, Longitude: &lng},
			Address: "Rua A", Vaccinated: true, Castrated: true,
			Temperament: []string{"dócil"}, HealthStatus: "Saudável",
			Status: domain.StatusUnderReview, OngID: &ong, TutorID: &tutor,
		},
		2: {ID: 2, Type: domain.SpeciesCat, Name: "Legacy"},
		3: {ID: 3, Name: "Empty", Images: []string{}, Tags: []string{}, Temperament: []string{}},
	}

	payload, err := EncodeSnapshot(in)
	require.NoError(t, err)
	out, err := DecodeSnapshot(payload)
	require.NoError(t, err)
	require.Equal(t, in, out)

	store := petmemory.NewSnapshotStore()
	store.Seed(DefaultSnapshotKey, payload)
	cache := NewCache(context.Background(), store, fixedSeed())
	for id, pet := range in {
		restored, ok := cache.GetByID(id)
		require.True(t, ok)
		require.Equal(t, pet, restored)
	}
}
