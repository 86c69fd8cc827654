package runtime

import "maps"

// Context holds the tracked item counts and mode settings observed by requirements.
//
// Item counts are the sum of what the player owns and what collected prize sections
// contribute. Only owned counts are persisted; contributions are re-derived from
// section state.
type Context struct {
	owned        map[string]int
	contributed  map[string]int
	modes        map[string]string
	defaultItems map[string]int
	defaultModes map[string]string

	onItem func(name string)
	onMode func(key string)
}

func newContext() *Context {
	return &Context{
		owned:        make(map[string]int),
		contributed:  make(map[string]int),
		modes:        make(map[string]string),
		defaultItems: make(map[string]int),
		defaultModes: make(map[string]string),
	}
}

// Item returns the effective count of an item. Unknown items count as 0.
func (c *Context) Item(name string) int {
	return c.owned[name] + c.contributed[name]
}

// Owned returns the count the player owns, excluding prize contributions.
func (c *Context) Owned(name string) int {
	return c.owned[name]
}

// Mode returns the value of a mode setting. Unknown modes read as "".
func (c *Context) Mode(key string) string {
	return c.modes[key]
}

// Items returns a copy of the owned item counts.
func (c *Context) Items() map[string]int {
	return maps.Clone(c.owned)
}

// Modes returns a copy of the mode settings.
func (c *Context) Modes() map[string]string {
	return maps.Clone(c.modes)
}

// setDefaults records catalog defaults and applies them.
func (c *Context) setDefaults(items map[string]int, modes map[string]string) {
	for k, v := range items {
		if v < 0 {
			v = 0
		}
		c.defaultItems[k] = v
	}
	maps.Copy(c.defaultModes, modes)
	c.reset()
}

// reset restores the catalog defaults and notifies every touched key.
func (c *Context) reset() {
	for name := range c.owned {
		if _, ok := c.defaultItems[name]; !ok {
			c.setItem(name, 0)
		}
	}
	for name, n := range c.defaultItems {
		c.setItem(name, n)
	}
	for key := range c.modes {
		if _, ok := c.defaultModes[key]; !ok {
			c.setMode(key, "")
		}
	}
	for key, v := range c.defaultModes {
		c.setMode(key, v)
	}
}

// setItem stores an owned count, never below zero. It reports whether the count changed.
func (c *Context) setItem(name string, n int) bool {
	if n < 0 {
		n = 0
	}
	if c.owned[name] == n {
		return false
	}
	if n == 0 {
		delete(c.owned, name)
	} else {
		c.owned[name] = n
	}
	c.notifyItem(name)
	return true
}

func (c *Context) contribute(name string, delta int) {
	if delta == 0 {
		return
	}
	n := c.contributed[name] + delta
	if n <= 0 {
		delete(c.contributed, name)
	} else {
		c.contributed[name] = n
	}
	c.notifyItem(name)
}

func (c *Context) setMode(key, value string) bool {
	if c.modes[key] == value {
		return false
	}
	if value == "" {
		delete(c.modes, key)
	} else {
		c.modes[key] = value
	}
	if c.onMode != nil {
		c.onMode(key)
	}
	return true
}

func (c *Context) notifyItem(name string) {
	if c.onItem != nil {
		c.onItem(name)
	}
}
