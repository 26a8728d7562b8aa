package pure

// MapValues returns a new map with the same keys as m, where every value is
// replaced by fn(key, value). m is never modified.
func MapValues[K comparable, I, O any](
	m map[K]I,
	fn func(K, I) O,
) map[K]O {
	mapped := make(map[K]O, len(m))
	for k, v := range m {
		mapped[k] = fn(k, v)
	}
	return mapped
}
