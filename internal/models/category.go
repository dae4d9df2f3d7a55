package models

import "time"

const (
	maxCategoryNameLen = 100
)

// Category groups posts. Names are not unique.
type Category struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null;index"`
	Description string    `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
	Posts       []Post    `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`

	// PostsCount is not persisted; computed at query time
	PostsCount int64 `gorm:"->;-:migration"`
}
