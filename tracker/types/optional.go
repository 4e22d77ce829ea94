package types

type (
	// Optional is a value that may or may not exist. The zero value is empty.
	Optional[T comparable] struct {
		value  T
		exists bool
	}
)

func NewOptional[T comparable](value T, exists bool) Optional[T] {
	return Optional[T]{value, exists}
}

func NewOptionalOf[T comparable](value T) Optional[T] {
	return Optional[T]{
		value:  value,
		exists: true,
	}
}

func NewEmptyOptional[T comparable]() Optional[T] {
	// could also just use Optional[T]{}
	return Optional[T]{}
}

func (o Optional[T]) Unpack() (T, bool) {
	return o.value, o.exists
}

// Value panics if the optional is empty; check with Empty or use Unpack
// instead if unsure.
func (o Optional[T]) Value() T {
	if !o.exists {
		panic("Access value of empty Optional")
	}
	return o.value
}

func (o Optional[T]) Empty() bool {
	return !o.exists
}

func (o Optional[T]) Equals(value T) bool {
	return o.exists && o.value == value
}

// Or returns the value if it exists, otherwise def.
func (o Optional[T]) Or(def T) T {
	if !o.exists {
		return def
	}
	return o.value
}
