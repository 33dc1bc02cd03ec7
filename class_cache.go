package descriptors

import (
	"reflect"
	"sync"
)

// ClassCache maps owner Go types to their Class. It is safe for concurrent
// use; entries are written once at registration and read on every lookup.
type ClassCache struct {
	cache sync.Map // map[reflect.Type]*Class
}

func NewClassCache() *ClassCache {
	return &ClassCache{}
}

// LoadOrStore returns the class already cached for t, or stores c and
// returns it. loaded reports whether an existing class was returned.
func (cc *ClassCache) LoadOrStore(t reflect.Type, c *Class) (actual *Class, loaded bool) {
	v, loaded := cc.cache.LoadOrStore(t, c)
	return v.(*Class), loaded
}

// Get returns the class cached for t.
func (cc *ClassCache) Get(t reflect.Type) (*Class, bool) {
	if v, ok := cc.cache.Load(t); ok {
		return v.(*Class), true
	}
	return nil, false
}

// Delete removes the entry for t.
func (cc *ClassCache) Delete(t reflect.Type) {
	cc.cache.Delete(t)
}

// Clear removes all entries.
func (cc *ClassCache) Clear() {
	cc.cache.Clear()
}

// Range calls fn for each entry until fn returns false.
func (cc *ClassCache) Range(fn func(t reflect.Type, c *Class) bool) {
	cc.cache.Range(func(k, v any) bool {
		return fn(k.(reflect.Type), v.(*Class))
	})
}

// Len returns the number of entries.
func (cc *ClassCache) Len() int {
	n := 0
	cc.cache.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
