package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Unit - квартира внутри многоквартирного объекта
type Unit struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	PropertyID uuid.UUID   `json:"property_id" db:"property_id"`
	UnitNumber string      `json:"unit_number" db:"unit_number"`
	Bedrooms   int         `json:"bedrooms" db:"bedrooms"`
	Bathrooms  int         `json:"bathrooms" db:"bathrooms"`
	SquareFeet *int        `json:"square_feet,omitempty" db:"square_feet"`
	Features   *string     `json:"features,omitempty" db:"features"`
	YoutubeURL *string     `json:"youtube_url,omitempty" db:"youtube_url"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
	Images     []MediaItem `json:"images"`
}

func (u *Unit) Validate() error {
	verr := &ValidationError{}

	if u.PropertyID == uuid.Nil {
		verr.Add("property_id", "is required")
	}
	number := strings.TrimSpace(u.UnitNumber)
	if number == "" {
		verr.Add("unit_number", "is required")
	} else if len(number) > 50 {
		verr.Add("unit_number", "must be 50 characters or less")
	}
	if u.Bedrooms < 0 {
		verr.Add("bedrooms", "must be 0 or greater")
	}
	if u.Bathrooms < 0 {
		verr.Add("bathrooms", "must be 0 or greater")
	}
	checkNonNegative(verr, "square_feet", u.SquareFeet)
	if u.YoutubeURL != nil && len(*u.YoutubeURL) > 500 {
		verr.Add("youtube_url", "must be 500 characters or less")
	}

	return verr.OrNil()
}

// UnitUpdate - частичное обновление юнита
type UnitUpdate struct {
	UnitNumber *string
	Bedrooms   *int
	Bathrooms  *int
	SquareFeet *int
	Features   *string
	YoutubeURL *string
}

func (u UnitUpdate) Apply(unit *Unit) {
	if u.UnitNumber != nil {
		unit.UnitNumber = *u.UnitNumber
	}
	if u.Bedrooms != nil {
		unit.Bedrooms = *u.Bedrooms
	}
	if u.Bathrooms != nil {
		unit.Bathrooms = *u.Bathrooms
	}
	if u.SquareFeet != nil {
		unit.SquareFeet = u.SquareFeet
	}
	if u.Features != nil {
		unit.Features = u.Features
	}
	if u.YoutubeURL != nil {
		unit.YoutubeURL = u.YoutubeURL
	}
}
