package encoding

import "github.com/okian/fareprice/internal/domain/model"

// Duration returns the minutes from departure to arrival, assuming arrival is
// on the same or the next calendar day. The result is always in [0, 1439];
// journeys longer than a day are not representable.
func Duration(departure, arrival model.TimeOfDay) model.Elapsed {
	hours := arrival.Hour - departure.Hour
	minutes := arrival.Minute - departure.Minute
	if minutes < 0 {
		hours--
		minutes += 60
	}
	if hours < 0 {
		hours += 24
	}
	return model.Elapsed(hours*60 + minutes)
}
