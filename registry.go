package runloop

import "fmt"

// registry holds the ordered queue names fixed at scheduler construction.
// The order is total and defines the flush order; no runtime mutation.
type registry struct {
	names []string
	index map[string]int
}

func newRegistry(names []string) (*registry, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("at least one queue is required")
	}
	index := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("queue name cannot be empty")
		}
		if _, ok := index[name]; ok {
			return nil, fmt.Errorf("duplicate queue %q", name)
		}
		index[name] = i
	}
	return &registry{names: append([]string(nil), names...), index: index}, nil
}

// indexOf returns the flush position of the supplied queue name.
func (r *registry) indexOf(name string) (int, error) {
	i, ok := r.index[name]
	if !ok {
		return 0, &UnknownQueueError{Queue: name}
	}
	return i, nil
}

func (r *registry) size() int {
	return len(r.names)
}
