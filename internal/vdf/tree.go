package vdf

import (
	"strings"
)

// Tree is a VDF object. It keeps keys in the order they were added.
// Each value is either a string or a *Tree.
type Tree struct {
	keys   []string
	values map[string]interface{}
}

func NewTree() *Tree {
	return &Tree{
		values: make(map[string]interface{}),
	}
}

// Set adds or replaces a value. A replaced key keeps its original
// position. Values other than string and *Tree are ignored.
func (o *Tree) Set(key string, value interface{}) {
	switch value.(type) {
	case string, *Tree:
	default:
		return
	}

	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.values[key] = value
}

// Keys returns the keys in insertion order.
func (o *Tree) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

func (o *Tree) Len() int {
	return len(o.keys)
}

// Get returns the value for key. VDF keys are matched exactly first and
// then case-insensitively.
func (o *Tree) Get(key string) (interface{}, bool) {
	v, ok := o.values[key]
	if ok {
		return v, true
	}

	for _, k := range o.keys {
		if strings.EqualFold(k, key) {
			return o.values[k], true
		}
	}

	return nil, false
}

func (o *Tree) String(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}

	s, ok := v.(string)
	return s, ok
}

func (o *Tree) Child(key string) (*Tree, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}

	t, ok := v.(*Tree)
	return t, ok
}

// Lookup descends through nested objects following path.
func (o *Tree) Lookup(path ...string) (*Tree, bool) {
	current := o

	for _, key := range path {
		next, ok := current.Child(key)
		if !ok {
			return nil, false
		}

		current = next
	}

	return current, true
}
