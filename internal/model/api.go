package model

// DateLayout is the day-precision format used for temperature timestamps and date filters
const DateLayout = "2006-01-02"

// CreatedResponse is returned when an entity is created
type CreatedResponse struct {
	ID int `json:"id"`
}

// StatusResponse carries the outcome of an operation without a body
type StatusResponse struct {
	Status string `json:"status"`
}

// TemperatureResponse is the wire shape of a temperature reading
type TemperatureResponse struct {
	ID        int     `json:"id"`
	CityID    int     `json:"idOras"`
	Value     float64 `json:"valoare"`
	Timestamp string  `json:"timestamp"`
}

// NewTemperatureResponse converts a reading into its wire shape
func NewTemperatureResponse(t Temperature) TemperatureResponse {
	return TemperatureResponse{
		ID:        t.ID,
		CityID:    t.CityID,
		Value:     t.Value,
		Timestamp: t.Timestamp.UTC().Format(DateLayout),
	}
}

// NewTemperatureResponses converts a list of readings, never returning nil
func NewTemperatureResponses(temps []Temperature) []TemperatureResponse {
	out := make([]TemperatureResponse, 0, len(temps))
	for _, t := range temps {
		out = append(out, NewTemperatureResponse(t))
	}
	return out
}
