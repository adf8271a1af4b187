package model

import "time"

// Country represents a country in the database
type Country struct {
	ID        int64     `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// City represents a city in the database
type City struct {
	ID        int64     `json:"id" db:"id"`
	CountryID int64     `json:"country_id" db:"country_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CityFilter narrows a city listing
type CityFilter struct {
	CountryID *int64
	Query     string
}
