package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the catalog schema.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&catalogSlotRecord{})
}

// Slot schema mirrors the pets Postgres snapshot store.
type catalogSlotRecord struct {
	Key       string        `gorm:"primaryKey;column:slot_key;size:255"`
	Payload   string        `gorm:"column:payload;type:jsonb;not null"`
	PetIDs    pq.Int64Array `gorm:"column:pet_ids;type:bigint[]"`
	CreatedAt time.Time     `gorm:"column:created_at"`
	UpdatedAt time.Time     `gorm:"column:updated_at;index"`
}

func (catalogSlotRecord) TableName() string { return "catalog_slots" }
