package sqlite

import (
	"time"

	"gorm.io/gorm"
)

// UpdatedAt deliberately opts out of gorm's automatic tracking: the column
// stays NULL until the first mutation, and the repository stamps it itself.

type ServiceModel struct {
	ID        uint           `gorm:"primaryKey"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt *time.Time     `gorm:"autoUpdateTime:false"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	Host      string         `gorm:"not null"`
	Port      int            `gorm:"not null"`
}

func (ServiceModel) TableName() string { return "services" }

type GateModel struct {
	ID        uint           `gorm:"primaryKey"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt *time.Time     `gorm:"autoUpdateTime:false"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	ServiceID uint           `gorm:"not null;index"`
	Host      string         `gorm:"not null"`
	Port      int            `gorm:"not null"`
}

func (GateModel) TableName() string { return "gates" }
