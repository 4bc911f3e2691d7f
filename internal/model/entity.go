package model

import "time"

// Country is a country record
type Country struct {
	ID   int     `json:"id"`
	Name string  `json:"nume"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Key returns the uniqueness key of the country
func (c Country) Key() CountryKey {
	return CountryKey{Name: c.Name}
}

// City is a city record. CountryID must name a live country when the city is written.
type City struct {
	ID        int     `json:"id"`
	CountryID int     `json:"idTara"`
	Name      string  `json:"nume"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// Key returns the uniqueness key of the city
func (c City) Key() CityKey {
	return CityKey{CountryID: c.CountryID, Name: c.Name}
}

// Temperature is a single reading taken in a city, at second precision.
type Temperature struct {
	ID        int
	CityID    int
	Value     float64
	Timestamp time.Time
}

// Key returns the uniqueness key of the reading
func (t Temperature) Key() TemperatureKey {
	return TemperatureKey{CityID: t.CityID, Timestamp: t.Timestamp}
}
