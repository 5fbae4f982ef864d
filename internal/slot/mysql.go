package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type slotRow struct {
	Key       string    `gorm:"column:slot_key;primaryKey;size:64"`
	Value     []byte    `gorm:"column:value;type:longblob"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (slotRow) TableName() string { return "order_slots" }

// MySQL stores the slot in the order_slots table through gorm.
type MySQL struct {
	db  *gorm.DB
	key string
}

func NewMySQL(db *gorm.DB, key string) *MySQL {
	return &MySQL{db: db, key: key}
}

// Migrate creates order_slots when it does not exist.
func (m *MySQL) Migrate() error {
	if err := m.db.AutoMigrate(&slotRow{}); err != nil {
		return fmt.Errorf("migrate order_slots: %w", err)
	}
	return nil
}

func (m *MySQL) Load(ctx context.Context) ([]byte, error) {
	var row slotRow
	err := m.db.WithContext(ctx).Where("slot_key = ?", m.key).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("select slot %s: %w", m.key, err)
	}
	return row.Value, nil
}

func (m *MySQL) Save(ctx context.Context, data []byte) error {
	row := slotRow{Key: m.key, Value: data, UpdatedAt: time.Now().UTC()}
	err := m.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", m.key, err)
	}
	return nil
}
