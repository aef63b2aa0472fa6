package registry

import "time"

// House groups apartments under a microdistrict + house number pair.
// The pair is kept unique by the duplicate pre-checks in the store, not by a
// DB constraint, so the index below is deliberately non-unique.
type House struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Microdistrict string      `gorm:"index:idx_houses_address" json:"microdistrict"`
	HouseNumber   string      `gorm:"index:idx_houses_address" json:"house_number"`
	FloorsCount   int         `json:"floors_count"`
	Apartments    []Apartment `gorm:"foreignKey:HouseID" json:"apartments,omitempty"`
}

// Apartment is a unit within a house. FloorsCount of the owning house may be
// 0 when the house was created by import (see Store.CreateHouse).
type Apartment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	HouseID      uint       `gorm:"index" json:"house_id"`
	Floor        int        `json:"floor"`
	ApartmentNum int        `json:"apartment_num"`
	Residents    []Resident `gorm:"foreignKey:ApartmentID" json:"residents,omitempty"`
}

// Resident rows model occupancy by their presence: registration creates one,
// eviction deletes it. They are never updated in place. The store does not
// cap residents per apartment; "occupied vs free" is a UI-level reading.
type Resident struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ApartmentID uint      `gorm:"index" json:"apartment_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	MoveInDate  time.Time `json:"move_in_date"`
}

// ResidentFields is the creatable part of a Resident.
type ResidentFields struct {
	FirstName  string
	LastName   string
	Phone      string
	MoveInDate time.Time
}

// ResidentRow is the flat resident→apartment→house join used by the listing
// endpoint and the CSV export. Apartment and house fields are nullable: a
// resident whose apartment (or the apartment's house) cannot be joined still
// yields a row, with those fields empty.
type ResidentRow struct {
	ID            uint      `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone"`
	MoveInDate    time.Time `json:"move_in_date"`
	Microdistrict *string   `json:"microdistrict"`
	HouseNumber   *string   `json:"house_number"`
	ApartmentNum  *int      `json:"apartment_num"`
	Floor         *int      `json:"floor"`
}
