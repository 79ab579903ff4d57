package feed

// ForKind returns the normalizer registered for a source kind.
func ForKind(kind string) (Normalizer, bool) {
	switch kind {
	case "quake":
		return NormalizeQuakes, true
	case "airquality":
		return NormalizeAirQuality, true
	case "spaceweather":
		return NormalizeSpaceWeather, true
	case "disaster":
		return NormalizeDisasters, true
	case "newswire":
		return NormalizeNewsWire, true
	}
	return nil, false
}
