package store

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// record is one persisted collection: a JSON document keyed by name.
// Data is held as text so the driver never second-guesses the encoding.
type record struct {
	Key  string `gorm:"type:varchar(50);primaryKey"`
	Data string `gorm:"type:jsonb;not null"`
}

func (record) TableName() string {
	return "records"
}

// Migrate creates the records table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&record{})
}

// Gorm persists collections in a Postgres records table via GORM.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) Load(key string, out any) error {
	var rec record
	err := s.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(rec.Data), out)
}

func (s *Gorm) Save(key string, value any) error {
	return s.SaveAll(Write{Key: key, Value: value})
}

// SaveAll upserts every collection inside one database transaction so a
// multi-collection commit cannot be applied partially.
func (s *Gorm) SaveAll(writes ...Write) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, w := range writes {
			data, err := json.Marshal(w.Value)
			if err != nil {
				return err
			}
			rec := record{Key: w.Key, Data: string(data)}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"data"}),
			}).Create(&rec).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Gorm) Has(key string) (bool, error) {
	var count int64
	err := s.db.Model(&record{}).Where("key = ?", key).Count(&count).Error
	return count > 0, err
}
