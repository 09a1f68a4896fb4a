package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
)

// DefaultSnapshotKey is the slot holding the serialized pet collection.
const DefaultSnapshotKey = "pets"

// ErrCacheNotInitialized is raised when a nil cache is used.
var ErrCacheNotInitialized = errors.New("pet cache used before initialization")

// Snapshot is an immutable view of the collection in catalog order (ascending id).
type Snapshot struct {
	Version uint64
	Pets    []domain.Pet
}

// Cache is the session-scoped, locally persisted collection of pet records.
// Mutations apply in memory immediately; update and delete on a missing id are no-ops.
type Cache struct {
	mu      sync.RWMutex
	pets    map[int64]domain.Pet
	version uint64
	saved   uint64

	store       ports.SnapshotStore
	key         string
	logger      *slog.Logger
	seed        func() ([]domain.Pet, error)
	writeBehind time.Duration

	flushMu sync.Mutex
	stop    chan struct{}
	done    chan struct{}
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheLogger injects a slog logger.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithSnapshotKey overrides the slot key.
func WithSnapshotKey(key string) CacheOption {
	return func(c *Cache) {
		if key != "" {
			c.key = key
		}
	}
}

// WithSeed replaces the bundled seed dataset.
func WithSeed(seed func() ([]domain.Pet, error)) CacheOption {
	return func(c *Cache) {
		if seed != nil {
			c.seed = seed
		}
	}
}

// WithWriteBehind batches persistence: mutations mark the cache dirty and a
// background loop flushes every interval. Close flushes the final state.
func WithWriteBehind(interval time.Duration) CacheOption {
	return func(c *Cache) {
		c.writeBehind = interval
	}
}

// NewCache initializes the collection from store, falling back to the seed
// dataset when the slot is empty, unreadable or corrupt. It never fails.
func NewCache(ctx context.Context, store ports.SnapshotStore, opts ...CacheOption) *Cache {
	c := &Cache{
		pets:   map[int64]domain.Pet{},
		store:  store,
		key:    DefaultSnapshotKey,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		seed:   SeedPets,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.initialize(ctx)
	if c.writeBehind > 0 {
		c.stop = make(chan struct{})
		c.done = make(chan struct{})
		go c.flushLoop()
	}
	return c
}

func (c *Cache) initialize(ctx context.Context) {
	if c.store != nil {
		payload, found, err := c.store.Load(ctx, c.key)
		switch {
		case err != nil:
			c.logger.WarnContext(ctx, "failed to read pet snapshot, using seed dataset", slog.String("key", c.key), slog.String("error", err.Error()))
		case found:
			pets, err := DecodeSnapshot(payload)
			if err == nil {
				c.pets = pets
				c.logger.InfoContext(ctx, "pet snapshot restored", slog.String("key", c.key), slog.Int("count", len(pets)))
				return
			}
			c.logger.WarnContext(ctx, "corrupt pet snapshot, using seed dataset", slog.String("key", c.key), slog.String("error", err.Error()))
		}
	}
	seed, err := c.seed()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to load seed dataset, starting empty", slog.String("error", err.Error()))
		return
	}
	for _, pet := range seed {
		c.pets[pet.ID] = pet.Clone()
	}
	c.logger.InfoContext(ctx, "pet cache seeded", slog.Int("count", len(c.pets)))
}

// Add inserts draft under 1 + max(existing ids) and returns the assigned id.
func (c *Cache) Add(ctx context.Context, draft domain.Draft) int64 {
	c.mustInit()
	c.mu.Lock()
	var maxID int64
	for id := range c.pets {
		if id > maxID {
			maxID = id
		}
	}
	id := maxID + 1
	c.pets[id] = draft.WithID(id)
	c.version++
	c.mu.Unlock()
	c.afterMutation(ctx)
	return id
}

// Update shallow-merges patch over the stored record. A missing id is a no-op.
func (c *Cache) Update(ctx context.Context, id int64, patch domain.Patch) bool {
	c.mustInit()
	c.mu.Lock()
	existing, ok := c.pets[id]
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.pets[id] = patch.Apply(existing)
	c.version++
	c.mu.Unlock()
	c.afterMutation(ctx)
	return true
}

// Delete removes the record. A missing id is a no-op.
func (c *Cache) Delete(ctx context.Context, id int64) bool {
	c.mustInit()
	c.mu.Lock()
	if _, ok := c.pets[id]; !ok {
		c.mu.Unlock()
		return false
	}
	delete(c.pets, id)
	c.version++
	c.mu.Unlock()
	c.afterMutation(ctx)
	return true
}

// GetByID returns a copy of the record.
func (c *Cache) GetByID(id int64) (domain.Pet, bool) {
	c.mustInit()
	c.mu.RLock()
	defer c.mu.RUnlock()
	pet, ok := c.pets[id]
	if !ok {
		return domain.Pet{}, false
	}
	return pet.Clone(), true
}

// Restore writes a record verbatim under its own id, replacing any holder.
func (c *Cache) Restore(ctx context.Context, pet domain.Pet) {
	c.mustInit()
	c.mu.Lock()
	c.pets[pet.ID] = pet.Clone()
	c.version++
	c.mu.Unlock()
	c.afterMutation(ctx)
}

// RestoreIfAbsent puts a deleted record back unless its id was reused meanwhile.
func (c *Cache) RestoreIfAbsent(ctx context.Context, pet domain.Pet) bool {
	c.mustInit()
	c.mu.Lock()
	if _, taken := c.pets[pet.ID]; taken {
		c.mu.Unlock()
		return false
	}
	c.pets[pet.ID] = pet.Clone()
	c.version++
	c.mu.Unlock()
	c.afterMutation(ctx)
	return true
}

// CompareAndSwap replaces the record under expected.ID with replacement only
// while it still equals expected. replacement keeps expected's id.
func (c *Cache) CompareAndSwap(ctx context.Context, expected, replacement domain.Pet) bool {
	c.mustInit()
	c.mu.Lock()
	if !c.holdsLocked(expected) {
		c.mu.Unlock()
		return false
	}
	replacement = replacement.Clone()
	replacement.ID = expected.ID
	c.pets[expected.ID] = replacement
	c.version++
	c.mu.Unlock()
	c.afterMutation(ctx)
	return true
}

// CompareAndDelete removes the record under expected.ID only while it still equals expected.
func (c *Cache) CompareAndDelete(ctx context.Context, expected domain.Pet) bool {
	c.mustInit()
	c.mu.Lock()
	if !c.holdsLocked(expected) {
		c.mu.Unlock()
		return false
	}
	delete(c.pets, expected.ID)
	c.version++
	c.mu.Unlock()
	c.afterMutation(ctx)
	return true
}

// Rekey moves local to remote.ID. It refuses when local changed since it was
// read or when remote.ID already belongs to another record; nothing is overwritten.
func (c *Cache) Rekey(ctx context.Context, local, remote domain.Pet) bool {
	c.mustInit()
	c.mu.Lock()
	if !c.holdsLocked(local) {
		c.mu.Unlock()
		return false
	}
	if _, taken := c.pets[remote.ID]; taken && remote.ID != local.ID {
		c.mu.Unlock()
		return false
	}
	delete(c.pets, local.ID)
	c.pets[remote.ID] = remote.Clone()
	c.version++
	c.mu.Unlock()
	c.afterMutation(ctx)
	return true
}

// ReplaceAll swaps the whole collection, used when reconciling with the backend.
func (c *Cache) ReplaceAll(ctx context.Context, pets []domain.Pet) {
	c.mustInit()
	next := make(map[int64]domain.Pet, len(pets))
	for _, pet := range pets {
		next[pet.ID] = pet.Clone()
	}
	c.mu.Lock()
	c.pets = next
	c.version++
	c.mu.Unlock()
	c.afterMutation(ctx)
}

// Snapshot returns a copy of every record ordered by ascending id.
func (c *Cache) Snapshot() Snapshot {
	c.mustInit()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{Version: c.version, Pets: c.orderedLocked()}
}

// Len reports how many records the cache holds.
func (c *Cache) Len() int {
	c.mustInit()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pets)
}

// Save serializes the full collection into the store slot.
func (c *Cache) Save(ctx context.Context) error {
	c.mustInit()
	if c.store == nil {
		return nil
	}
	c.flushMu.Lock()
	defer c.flushMu.Unlock()

	c.mu.RLock()
	version := c.version
	payload, err := encodePets(c.orderedLocked())
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode pet snapshot: %w", err)
	}
	if err := c.store.Store(ctx, c.key, payload); err != nil {
		return fmt.Errorf("store pet snapshot: %w", err)
	}
	c.mu.Lock()
	if version > c.saved {
		c.saved = version
	}
	c.mu.Unlock()
	return nil
}

// Close stops the write-behind loop and flushes pending changes.
func (c *Cache) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.stop != nil {
		close(c.stop)
		<-c.done
		c.stop = nil
	}
	if !c.dirty() {
		return nil
	}
	return c.Save(ctx)
}

func (c *Cache) afterMutation(ctx context.Context) {
	if c.writeBehind > 0 {
		return
	}
	if err := c.Save(ctx); err != nil {
		c.logger.WarnContext(ctx, "pet snapshot write failed", slog.String("key", c.key), slog.String("error", err.Error()))
	}
}

func (c *Cache) flushLoop() {
	defer close(c.done)
	ticker := time.NewTicker(c.writeBehind)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if !c.dirty() {
				continue
			}
			if err := c.Save(context.Background()); err != nil {
				c.logger.Warn("pet snapshot write-behind failed", slog.String("key", c.key), slog.String("error", err.Error()))
			}
		}
	}
}

func (c *Cache) dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store != nil && c.version != c.saved
}

func (c *Cache) holdsLocked(expected domain.Pet) bool {
	current, ok := c.pets[expected.ID]
	return ok && current.Equal(expected)
}

func (c *Cache) orderedLocked() []domain.Pet {
	ids := make([]int64, 0, len(c.pets))
	for id := range c.pets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	pets := make([]domain.Pet, 0, len(ids))
	for _, id := range ids {
		pets = append(pets, c.pets[id].Clone())
	}
	return pets
}

func (c *Cache) mustInit() {
	if c == nil || c.pets == nil {
		panic(ErrCacheNotInitialized)
	}
}

// DecodeSnapshot parses the stored `{"<id>": Pet}` mapping. The map key is authoritative for the id.
func DecodeSnapshot(payload []byte) (map[int64]domain.Pet, error) {
	var raw map[string]domain.Pet
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("snapshot is not an object")
	}
	pets := make(map[int64]domain.Pet, len(raw))
	for key, pet := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("snapshot key %q is not a pet id", key)
		}
		pet.ID = id
		pets[id] = pet
	}
	return pets, nil
}

// EncodeSnapshot serializes pets as the stored `{"<id>": Pet}` mapping.
func EncodeSnapshot(pets map[int64]domain.Pet) ([]byte, error) {
	list := make([]domain.Pet, 0, len(pets))
	for _, pet := range pets {
		list = append(list, pet)
	}
	return encodePets(list)
}

func encodePets(pets []domain.Pet) ([]byte, error) {
	raw := make(map[string]domain.Pet, len(pets))
	for _, pet := range pets {
		raw[strconv.FormatInt(pet.ID, 10)] = pet
	}
	return json.Marshal(raw)
}
