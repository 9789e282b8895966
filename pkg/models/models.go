package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

type Admin struct {
	ID           string    `gorm:"primary_key;type:varchar(36)" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Admin) TableName() string {
	return "admins"
}

func (a *Admin) BeforeCreate(scope *gorm.Scope) error {
	if a.ID != "" {
		return nil
	}
	return scope.SetColumn("ID", uuid.New().String())
}

type Video struct {
	ID          string    `gorm:"primary_key;type:varchar(36)" json:"id"`
	YoutubeID   string    `gorm:"column:youtube_id;not null" json:"youtubeId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Order       int       `gorm:"column:sort_order;index" json:"order"`
	Visible     bool      `json:"visible"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}

func (Video) TableName() string {
	return "videos"
}

func (v *Video) BeforeCreate(scope *gorm.Scope) error {
	if v.ID != "" {
		return nil
	}
	return scope.SetColumn("ID", uuid.New().String())
}

// PublicVideo is the read-only shape exposed on the public site.
type PublicVideo struct {
	ID          string `json:"id"`
	YoutubeID   string `json:"youtubeId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (v Video) Public() PublicVideo {
	return PublicVideo{
		ID:          v.ID,
		YoutubeID:   v.YoutubeID,
		Title:       v.Title,
		Description: v.Description,
	}
}

// VideoPatch carries the fields of a partial update. Nil means "leave as is".
type VideoPatch struct {
	YoutubeID   *string `json:"youtubeId"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Visible     *bool   `json:"visible"`
}

func (p VideoPatch) Empty() bool {
	return p.YoutubeID == nil && p.Title == nil && p.Description == nil && p.Visible == nil
}

// Columns maps the supplied fields to their database columns.
func (p VideoPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.YoutubeID != nil {
		cols["youtube_id"] = *p.YoutubeID
	}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Visible != nil {
		cols["visible"] = *p.Visible
	}
	return cols
}
