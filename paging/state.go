package paging

// State is the accumulated list a caller shows across "load more" calls.
// It is a plain value: every load takes one and returns the next.
type State[T any] struct {
	Mode    Mode
	Items   []T
	Next    *Cursor
	HasMore bool
}

// Apply folds a fetched page into the state. reset replaces the list (first
// page of a new listing); otherwise the page is appended, dropping records
// whose id is already present so a shifted ordering never shows a record twice.
func (s State[T]) Apply(p Page[T], reset bool, id func(T) string) State[T] {
	next := State[T]{Mode: s.Mode, Next: p.Next, HasMore: p.HasMore}
	if reset {
		next.Items = dedupe(nil, p.Items, id)
		return next
	}
	next.Items = dedupe(s.Items, p.Items, id)
	return next
}

func dedupe[T any](have, add []T, id func(T) string) []T {
	seen := make(map[string]struct{}, len(have)+len(add))
	out := make([]T, 0, len(have)+len(add))
	for _, it := range have {
		seen[id(it)] = struct{}{}
		out = append(out, it)
	}
	for _, it := range add {
		k := id(it)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
