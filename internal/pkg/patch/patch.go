package patch

// Coalesce returns the value pointed to by ptr if it's not nil, otherwise returns fallback
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// Changed reports whether ptr carries a value different from current.
// A nil ptr means "no change requested".
func Changed[T comparable](ptr *T, current T) bool {
	return ptr != nil && *ptr != current
}
