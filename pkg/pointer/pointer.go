package pointer

// To returns a pointer to the provided value
func To[T any](value T) *T {
	return &value
}

// Copy returns a pointer to a copy of the pointed-to value, or nil
func Copy[T any](value *T) *T {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

// ValueOrDefault returns the pointed-to value if not nil, otherwise the default value
func ValueOrDefault[T any](value *T, defaultValue T) T {
	if value == nil {
		return defaultValue
	}
	return *value
}
