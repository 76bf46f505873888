package attendance

// Field is the outcome of one association lookup: either a value or the error that
// replaced it. Callers read it with Or so a failed lookup degrades only that field.
type Field[T any] struct {
	value T
	err   error
}

func Ok[T any](v T) Field[T] {
	return Field[T]{value: v}
}

func Failed[T any](err error) Field[T] {
	return Field[T]{err: err}
}

// Lookup runs fn and captures its result. A panic inside fn is also captured.
func Lookup[T any](fn func() (T, error)) (f Field[T]) {
	defer func() {
		if p := recover(); p != nil {
			f = Failed[T](panicError{p})
		}
	}()

	v, err := fn()
	if err != nil {
		return Failed[T](err)
	}
	return Ok(v)
}

func (f Field[T]) Or(def T) T {
	if f.err != nil {
		return def
	}
	return f.value
}

func (f Field[T]) Err() error { return f.err }

func (f Field[T]) OK() bool { return f.err == nil }

type panicError struct{ v any }

func (p panicError) Error() string {
	return "lookup panicked: " + toString(p.v)
}

func toString(v any) string {
	switch x := v.(type) {
	case error:
		return x.Error()
	case string:
		return x
	default:
		return "unknown panic"
	}
}
