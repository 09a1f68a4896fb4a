package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore persists catalog slots in PostgreSQL. The payload is stored
// as jsonb and the pet ids it contains are mirrored into a bigint[] column.
type SnapshotStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSnapshotStore wires a PostgreSQL-backed snapshot store.
func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{db: db, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *SnapshotStore) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Load returns the slot payload.
func (s *SnapshotStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.ensureDB(); err != nil {
		return nil, false, err
	}
	var record slotRecord
	if err := s.db.WithContext(ctx).First(&record, "slot_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(record.Payload), true, nil
}

// Store upserts the slot. Last writer wins.
func (s *SnapshotStore) Store(ctx context.Context, key string, payload []byte) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	ids, err := petIDs(payload)
	if err != nil {
		return fmt.Errorf("index pet snapshot: %w", err)
	}
	now := s.now().UTC()
	record := slotRecord{
		Key:       key,
		Payload:   string(payload),
		PetIDs:    ids,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "pet_ids", "updated_at"}),
	}).Create(&record).Error
}

// PetIDs lists the pet ids held in the slot without decoding the payload.
func (s *SnapshotStore) PetIDs(ctx context.Context, key string) ([]int64, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record slotRecord
	if err := s.db.WithContext(ctx).Select("pet_ids").First(&record, "slot_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return []int64(record.PetIDs), nil
}

func (s *SnapshotStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres snapshot store not configured")
	}
	return nil
}

func petIDs(payload []byte) (pq.Int64Array, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}
	ids := make(pq.Int64Array, 0, len(raw))
	for key := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("slot key %q is not a pet id", key)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type slotRecord struct {
	Key       string        `gorm:"primaryKey;column:slot_key;size:255"`
	Payload   string        `gorm:"column:payload;type:jsonb;not null"`
	PetIDs    pq.Int64Array `gorm:"column:pet_ids;type:bigint[]"`
	CreatedAt time.Time     `gorm:"column:created_at"`
	UpdatedAt time.Time     `gorm:"column:updated_at;index"`
}

func (slotRecord) TableName() string { return "catalog_slots" }
