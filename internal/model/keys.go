package model

import (
	"strconv"
	"time"
)

// UniqueKey is a composite uniqueness key. Member returns the encoding stored in
// the index set; distinct keys always have distinct encodings.
type UniqueKey interface {
	Member() string
}

// CountryKey: country names are globally unique.
type CountryKey struct {
	Name string
}

func (k CountryKey) Member() string {
	return strconv.Quote(k.Name)
}

// CityKey: city names are unique within their country.
type CityKey struct {
	CountryID int
	Name      string
}

// Member quotes the name so a name containing the separator cannot
// collide with another (country, name) pair.
func (k CityKey) Member() string {
	return strconv.Itoa(k.CountryID) + ":" + strconv.Quote(k.Name)
}

// TemperatureKey: one reading per city per second.
type TemperatureKey struct {
	CityID    int
	Timestamp time.Time
}

func (k TemperatureKey) Member() string {
	return strconv.Itoa(k.CityID) + ":" + strconv.FormatInt(k.Timestamp.Unix(), 10)
}
