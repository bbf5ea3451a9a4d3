package domain

import "time"

// Banner is one slide of the homepage banner slider
type Banner struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id" form:"id"`
	ImageUrl  string    `gorm:"size:2048" json:"image_url" form:"image_url"`
	Title     string    `gorm:"size:200" json:"title" form:"title"`
	Link      string    `gorm:"size:512" json:"link" form:"link"`
	IsActive  bool      `gorm:"index" json:"is_active" form:"is_active"`
	Sort      int64     `gorm:"index" json:"sort"` // insertion order
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Banner) TableName() string {
	return "banners"
}
