package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyView - один просмотр страницы объекта
type PropertyView struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PropertyID uuid.UUID `json:"property_id" db:"property_id"`
	IPAddress  string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  string    `json:"user_agent,omitempty" db:"user_agent"`
	ViewedAt   time.Time `json:"viewed_at" db:"viewed_at"`
}

// ViewCount - агрегат просмотров по объекту
type ViewCount struct {
	PropertyID uuid.UUID `json:"property_id"`
	Title      string    `json:"title"`
	Views      int64     `json:"views"`
	LastViewed time.Time `json:"last_viewed"`
}

// ViewStats - строка аналитики вместе с изображением объекта
type ViewStats struct {
	ViewCount
	Image MediaItem `json:"image"`
}
