package webhook

import (
	"regexp"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-order-service-go/internal/order"
)

var coordinatePattern = regexp.MustCompile(`(\d+\.\d+),\s*(\d+\.\d+)`)

// ExtractGPSCoordinates finds a "lat, lon" decimal pair typed into a free
// form address, e.g. "Soi 5, 13.756331, 100.501765". Returns nil if none.
func ExtractGPSCoordinates(address string) *order.GpsCoordinates {
	m := coordinatePattern.FindStringSubmatch(address)
	if len(m) < 3 {
		return nil
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}
	if !order.ValidCoordinates(lat, lon) {
		return nil
	}
	return &order.GpsCoordinates{Latitude: lat, Longitude: lon}
}
