package util

// DecodePolyline converts an encoded polyline string to a slice of lat/lng
// coordinates using the Google Encoded Polyline Algorithm Format with the
// standard 1e-5 precision. OSRM uses this precision for geometries=polyline.
func DecodePolyline(encoded string) [][2]float64 {
	return DecodePolylineWithPrecision(encoded, 1e-5)
}

// DecodePolylineWithPrecision decodes a polyline with a custom precision
// factor. Routing engines that encode with a 1,000,000 multiplier
// (geometries=polyline6) need 1e-6.
func DecodePolylineWithPrecision(encoded string, precision float64) [][2]float64 {
	var points [][2]float64
	index, lat, lng := 0, 0, 0

	for index < len(encoded) {
		dLat, next, ok := decodeChunk(encoded, index)
		if !ok {
			return points
		}
		lat += dLat
		index = next

		dLng, next, ok := decodeChunk(encoded, index)
		if !ok {
			return points
		}
		lng += dLng
		index = next

		// Coordinates in Google standard order: [latitude, longitude]
		points = append(points, [2]float64{float64(lat) * precision, float64(lng) * precision})
	}

	return points
}

// decodeChunk reads one zigzag-encoded delta starting at index. Returns the
// signed delta, the index past the consumed bytes, and false on truncation.
func decodeChunk(encoded string, index int) (int, int, bool) {
	shift, result := 0, 0
	for {
		if index >= len(encoded) {
			return 0, index, false
		}
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index, true
	}
	return result >> 1, index, true
}
