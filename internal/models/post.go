package models

import "time"

const (
	maxPostTitleLen = 200
)

// Post is an article in a category, written by exactly one user.
type Post struct {
	ID         uint      `gorm:"primaryKey"`
	Title      string    `gorm:"size:200;not null"`
	Content    string    `gorm:"type:text;not null"`
	CategoryID uint      `gorm:"not null;index"`
	Category   Category  `gorm:"foreignKey:CategoryID"`
	AuthorID   uint      `gorm:"not null;index"`
	Author     User      `gorm:"foreignKey:AuthorID"`
	Published  bool      `gorm:"not null;default:false;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}
