package wrobuild

// resolveTracer tracks the groups being resolved on the current
// resolution path.
type resolveTracer struct {
	trace []string
	m     map[string]bool
}

func newResolveTracer() *resolveTracer {
	return &resolveTracer{
		m: make(map[string]bool),
	}
}

// push returns false if name is already on the path.
func (t *resolveTracer) push(name string) bool {
	if t.m[name] {
		return false
	}
	t.trace = append(t.trace, name)
	t.m[name] = true
	return true
}

func (t *resolveTracer) pop() {
	n := len(t.trace)
	if n == 0 {
		return
	}
	last := t.trace[n-1]
	delete(t.m, last)
	t.trace = t.trace[:n-1]
}

// cycle returns the part of the path that loops back to name, with name
// appended to close it.
func (t *resolveTracer) cycle(name string) []string {
	for i, s := range t.trace {
		if s == name {
			var ret []string
			ret = append(ret, t.trace[i:]...)
			return append(ret, name)
		}
	}
	return []string{name, name}
}
