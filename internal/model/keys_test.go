package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCityKey_MemberIsUnambiguous(t *testing.T) {
	// With a plain "<country>_<name>" encoding both pairs would map to "1_2_Cluj".
	a := CityKey{CountryID: 1, Name: "2_Cluj"}
	b := CityKey{CountryID: 12, Name: "Cluj"}
	c := CityKey{CountryID: 1, Name: `2:"Cluj`}

	assert.NotEqual(t, a.Member(), b.Member())
	assert.NotEqual(t, b.Member(), c.Member())
	assert.NotEqual(t, a.Member(), c.Member())
	assert.Equal(t, `12:"Cluj"`, b.Member())
}

func TestKeys_FromEntities(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, `"Romania"`, Country{ID: 1, Name: "Romania"}.Key().Member())
	assert.Equal(t, `1:"Cluj"`, City{ID: 5, CountryID: 1, Name: "Cluj"}.Key().Member())
	assert.Equal(t, "3:1709294400", Temperature{ID: 9, CityID: 3, Timestamp: ts}.Key().Member())
}

func TestNewTemperatureResponse(t *testing.T) {
	ts := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	resp := NewTemperatureResponse(Temperature{ID: 2, CityID: 1, Value: 21.5, Timestamp: ts})

	assert.Equal(t, TemperatureResponse{ID: 2, CityID: 1, Value: 21.5, Timestamp: "2024-03-01"}, resp)
	assert.NotNil(t, NewTemperatureResponses(nil))
}
