package tool

// Args holds validated arguments in declared parameter order. Optional
// parameters without a declared default are simply absent: typed getters
// return the kind's zero value and ok=false, and absent values never reach
// upstream request payloads.
type Args struct {
	order  []string
	values map[string]any
}

func newArgs(capacity int) Args {
	return Args{
		order:  make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

func (a *Args) set(name string, value any) {
	if _, exists := a.values[name]; !exists {
		a.order = append(a.order, name)
	}
	a.values[name] = value
}

// Names returns the present argument names in declared parameter order.
func (a Args) Names() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Has reports whether name carries a value (explicit or defaulted).
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Value returns the raw validated value for name.
func (a Args) Value(name string) (any, bool) {
	v, ok := a.values[name]
	return v, ok
}

// String returns a KindString argument.
func (a Args) String(name string) (string, bool) {
	v, ok := a.values[name].(string)
	return v, ok
}

// Int returns a KindInteger argument.
func (a Args) Int(name string) (int64, bool) {
	v, ok := a.values[name].(int64)
	return v, ok
}

// Bool returns a KindBoolean argument.
func (a Args) Bool(name string) (bool, bool) {
	v, ok := a.values[name].(bool)
	return v, ok
}

// Object returns a KindObject argument.
func (a Args) Object(name string) (map[string]any, bool) {
	v, ok := a.values[name].(map[string]any)
	return v, ok
}

// Array returns a KindArray argument.
func (a Args) Array(name string) ([]any, bool) {
	v, ok := a.values[name].([]any)
	return v, ok
}
