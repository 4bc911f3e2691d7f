package repository

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexivanou/geotemp-api/internal/model"
)

// Field names inside the stored field maps.
const (
	fieldCountryName = "nume_tara"
	fieldCityName    = "nume_oras"
	fieldCountryID   = "id_tara"
	fieldLat         = "latitudine"
	fieldLon         = "longitudine"
	fieldCityID      = "idOras"
	fieldValue       = "valoare"
	fieldTimestamp   = "timestamp"
)

var countryCodec = codec[model.Country]{
	id: func(c model.Country) int { return c.ID },
	encode: func(c model.Country) map[string]string {
		return map[string]string{
			fieldCountryName: c.Name,
			fieldLat:         formatFloat(c.Lat),
			fieldLon:         formatFloat(c.Lon),
		}
	},
	decode: func(id int, f map[string]string) (model.Country, error) {
		c := model.Country{ID: id, Name: f[fieldCountryName]}
		var err error
		if c.Lat, err = parseFloat(f, fieldLat); err != nil {
			return c, err
		}
		if c.Lon, err = parseFloat(f, fieldLon); err != nil {
			return c, err
		}
		return c, nil
	},
}

var cityCodec = codec[model.City]{
	id: func(c model.City) int { return c.ID },
	encode: func(c model.City) map[string]string {
		return map[string]string{
			fieldCountryID: strconv.Itoa(c.CountryID),
			fieldCityName:  c.Name,
			fieldLat:       formatFloat(c.Lat),
			fieldLon:       formatFloat(c.Lon),
		}
	},
	decode: func(id int, f map[string]string) (model.City, error) {
		c := model.City{ID: id, Name: f[fieldCityName]}
		var err error
		if c.CountryID, err = parseInt(f, fieldCountryID); err != nil {
			return c, err
		}
		if c.Lat, err = parseFloat(f, fieldLat); err != nil {
			return c, err
		}
		if c.Lon, err = parseFloat(f, fieldLon); err != nil {
			return c, err
		}
		return c, nil
	},
}

var temperatureCodec = codec[model.Temperature]{
	id: func(t model.Temperature) int { return t.ID },
	encode: func(t model.Temperature) map[string]string {
		return map[string]string{
			fieldCityID:    strconv.Itoa(t.CityID),
			fieldValue:     formatFloat(t.Value),
			fieldTimestamp: strconv.FormatInt(t.Timestamp.Unix(), 10),
		}
	},
	decode: func(id int, f map[string]string) (model.Temperature, error) {
		t := model.Temperature{ID: id}
		var err error
		if t.CityID, err = parseInt(f, fieldCityID); err != nil {
			return t, err
		}
		if t.Value, err = parseFloat(f, fieldValue); err != nil {
			return t, err
		}
		sec, err := strconv.ParseInt(f[fieldTimestamp], 10, 64)
		if err != nil {
			return t, fmt.Errorf("field %s: %w", fieldTimestamp, err)
		}
		t.Timestamp = time.Unix(sec, 0).UTC()
		return t, nil
	},
}

// formatFloat uses the shortest representation that parses back to the same value,
// so exact-equality coordinate filters keep working after a round trip.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func parseFloat(fields map[string]string, name string) (float64, error) {
	f, err := strconv.ParseFloat(fields[name], 64)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", name, err)
	}
	return f, nil
}

func parseInt(fields map[string]string, name string) (int, error) {
	n, err := strconv.Atoi(fields[name])
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", name, err)
	}
	return n, nil
}
