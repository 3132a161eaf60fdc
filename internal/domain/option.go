package domain

import "encoding/json"

// Option represents a value that may be absent. The qualitative judgment
// dimension is optional at every layer, and a dedicated sum type keeps
// "no judgment" from ever being confused with a real low score the way a
// sentinel numeric value could be.
type Option[T any] struct {
	value   T
	present bool
}

// Some wraps a present value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, present: true}
}

// None returns the absent value for type T.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the contained value and whether it is present.
// When absent, the zero value of T is returned.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether the option holds a value.
func (o Option[T]) IsPresent() bool { return o.present }

// OrElse returns the contained value when present, otherwise fallback.
func (o Option[T]) OrElse(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

// MarshalJSON encodes an absent option as JSON null so that per-pair result
// lists stay positionally aligned with the pair list in the snapshot.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes JSON null as absent and any other value as present.
func (o *Option[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Option[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
