package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Location string

const (
	LocationAtlanta Location = "atlanta"
	LocationDallas  Location = "dallas"
)

func (l Location) Valid() bool {
	return l == LocationAtlanta || l == LocationDallas
}

// PropertyType - закрытый набор типов объекта; от него зависит доступность юнитов
type PropertyType string

const (
	PropertyTypeMultifamily  PropertyType = "multifamily"
	PropertyTypeSingleFamily PropertyType = "single-family"
)

func (t PropertyType) Valid() bool {
	return t == PropertyTypeMultifamily || t == PropertyTypeSingleFamily
}

// Property - объект недвижимости на сайте
type Property struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Title        string       `json:"title" db:"title"`
	Description  string       `json:"description" db:"description"`
	Location     Location     `json:"location" db:"location"`
	PropertyType PropertyType `json:"property_type" db:"property_type"`
	Address      *string      `json:"address,omitempty" db:"address"`
	Bedrooms     *int         `json:"bedrooms,omitempty" db:"bedrooms"`
	Bathrooms    *int         `json:"bathrooms,omitempty" db:"bathrooms"`
	SquareFeet   *int         `json:"square_feet,omitempty" db:"square_feet"`
	YoutubeURL   *string      `json:"youtube_url,omitempty" db:"youtube_url"`
	Featured     bool         `json:"featured" db:"featured"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
	Images       []MediaItem  `json:"images"`
	Units        []Unit       `json:"units,omitempty"`
}

// SupportsUnits сообщает, можно ли управлять юнитами этого объекта
func (p *Property) SupportsUnits() bool {
	return p.PropertyType == PropertyTypeMultifamily
}

// Validate проверяет корректность данных объекта
func (p *Property) Validate() error {
	verr := &ValidationError{}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		verr.Add("title", "is required")
	} else if len(title) > 255 {
		verr.Add("title", "must be 255 characters or less")
	}
	if strings.TrimSpace(p.Description) == "" {
		verr.Add("description", "is required")
	}
	if !p.Location.Valid() {
		verr.Add("location", fmt.Sprintf("must be one of: %s, %s", LocationAtlanta, LocationDallas))
	}
	if !p.PropertyType.Valid() {
		verr.Add("property_type", fmt.Sprintf("must be one of: %s, %s", PropertyTypeMultifamily, PropertyTypeSingleFamily))
	}
	if p.Address != nil && len(*p.Address) > 500 {
		verr.Add("address", "must be 500 characters or less")
	}
	if p.YoutubeURL != nil && len(*p.YoutubeURL) > 500 {
		verr.Add("youtube_url", "must be 500 characters or less")
	}
	checkNonNegative(verr, "bedrooms", p.Bedrooms)
	checkNonNegative(verr, "bathrooms", p.Bathrooms)
	checkNonNegative(verr, "square_feet", p.SquareFeet)

	return verr.OrNil()
}

// PropertyUpdate - частичное обновление объекта: nil означает "не менять"
type PropertyUpdate struct {
	Title        *string
	Description  *string
	Location     *Location
	PropertyType *PropertyType
	Address      *string
	Bedrooms     *int
	Bathrooms    *int
	SquareFeet   *int
	YoutubeURL   *string
	Featured     *bool
}

// Apply переносит заданные поля в объект
func (u PropertyUpdate) Apply(p *Property) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Location != nil {
		p.Location = *u.Location
	}
	if u.PropertyType != nil {
		p.PropertyType = *u.PropertyType
	}
	if u.Address != nil {
		p.Address = u.Address
	}
	if u.Bedrooms != nil {
		p.Bedrooms = u.Bedrooms
	}
	if u.Bathrooms != nil {
		p.Bathrooms = u.Bathrooms
	}
	if u.SquareFeet != nil {
		p.SquareFeet = u.SquareFeet
	}
	if u.YoutubeURL != nil {
		p.YoutubeURL = u.YoutubeURL
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
}

// PropertyFilter задаёт выборку списка объектов
type PropertyFilter struct {
	Location     *Location
	FeaturedOnly bool
	IDs          []uuid.UUID
}

func checkNonNegative(verr *ValidationError, field string, v *int) {
	if v != nil && *v < 0 {
		verr.Add(field, "must be 0 or greater")
	}
}

// MaxCompare - сколько объектов можно сравнивать одновременно
const MaxCompare = 3
