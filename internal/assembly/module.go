// SPDX-License-Identifier: MPL-2.0

package assembly

type (
	// Module is a referenced module that was located on disk.
	Module struct {
		// Name is the logical name as it appeared in the referencing module's
		// metadata, after normalization (e.g. "UrhoDotNet" or "Foo.exe").
		Name string
		// Path is the resolved absolute file path.
		Path string
	}

	// Closure is the ordered, deduplicated set of modules reachable from an
	// entry module. Modules appear in first-discovery order. Each logical name
	// and each file path appears at most once.
	Closure struct {
		modules []Module
		index   map[string]int
		paths   map[string]struct{}
	}
)

func newClosure() *Closure {
	return &Closure{
		index: make(map[string]int),
		paths: make(map[string]struct{}),
	}
}

// add appends m unless a module with the same logical name or path is
// already present.
func (c *Closure) add(m Module) bool {
	key := LogicalName(m.Name)
	if _, ok := c.index[key]; ok {
		return false
	}
	if _, ok := c.paths[m.Path]; ok {
		return false
	}
	c.index[key] = len(c.modules)
	c.paths[m.Path] = struct{}{}
	c.modules = append(c.modules, m)
	return true
}

// Len returns the number of modules in the closure.
func (c *Closure) Len() int {
	return len(c.modules)
}

// Contains reports whether a module with the given logical name was resolved.
// "Foo", "Foo.dll" and "Foo.exe" name the same module.
func (c *Closure) Contains(name string) bool {
	_, ok := c.index[LogicalName(name)]
	return ok
}

// Lookup returns the module with the given logical name.
func (c *Closure) Lookup(name string) (Module, bool) {
	i, ok := c.index[LogicalName(name)]
	if !ok {
		return Module{}, false
	}
	return c.modules[i], true
}

// Modules returns a copy of the resolved modules in discovery order.
func (c *Closure) Modules() []Module {
	out := make([]Module, len(c.modules))
	copy(out, c.modules)
	return out
}

// Names returns the logical names in discovery order.
func (c *Closure) Names() []string {
	out := make([]string, len(c.modules))
	for i, m := range c.modules {
		out[i] = m.Name
	}
	return out
}

// Paths returns the resolved paths, index-aligned with Names.
func (c *Closure) Paths() []string {
	out := make([]string, len(c.modules))
	for i, m := range c.modules {
		out[i] = m.Path
	}
	return out
}
