package repository

import "strconv"

// Kind names the key-space of one entity kind in the flat store.
type Kind struct {
	// Name is used in errors, logs and metrics.
	Name string
	// Counter is the atomic counter identifiers are allocated from.
	Counter string
	// IDSet holds the identifiers of every live record.
	IDSet string
	// RecordPrefix prefixes the identifier to form the field-map key.
	RecordPrefix string
	// IndexSet holds the uniqueness keys of every live record.
	IndexSet string
}

var (
	CountryKind = Kind{
		Name:         "country",
		Counter:      "country_id",
		IDSet:        "country_ids",
		RecordPrefix: "country_id_",
		IndexSet:     "countries",
	}
	CityKind = Kind{
		Name:         "city",
		Counter:      "city_id",
		IDSet:        "city_ids",
		RecordPrefix: "city_id_",
		IndexSet:     "cities",
	}
	TemperatureKind = Kind{
		Name:         "temperature",
		Counter:      "temp_id",
		IDSet:        "temp_ids",
		RecordPrefix: "temp_id_",
		IndexSet:     "temps",
	}
)

// Kinds lists every entity kind, parents first.
var Kinds = []Kind{CountryKind, CityKind, TemperatureKind}

// RecordKey returns the field-map key of the record filed under id
func (k Kind) RecordKey(id int) string {
	return k.RecordPrefix + strconv.Itoa(id)
}

func (k Kind) member(id int) string {
	return strconv.Itoa(id)
}
