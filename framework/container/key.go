package container

import (
	"fmt"
	"sort"
	"strconv"
)

// Key names a registration. It is either a non-empty string or a *Symbol.
type Key = any

// Symbol is an opaque registration key. Two symbols are never equal, even
// with the same description.
//
//	var dbKey = container.NewSymbol("db")
//	c.Register(dbKey, container.AsValue(db))
type Symbol struct {
	description string
}

// NewSymbol creates a unique key.
func NewSymbol(description string) *Symbol {
	return &Symbol{description: description}
}

func (s *Symbol) String() string {
	return "Symbol(" + s.description + ")"
}

func checkKey(funcName string, key Key) error {
	switch k := key.(type) {
	case string:
		if k != "" {
			return nil
		}
	case *Symbol:
		if k != nil {
			return nil
		}
	}
	return &TypeError{Func: funcName, Param: "name", Expected: "a non-empty string or *Symbol", Given: key}
}

func keyString(key Key) string {
	switch k := key.(type) {
	case string:
		return k
	case *Symbol:
		return k.String()
	default:
		return fmt.Sprint(key)
	}
}

func quoteKey(key Key) string {
	if s, ok := key.(string); ok {
		return strconv.Quote(s)
	}
	return keyString(key)
}

// flightKey is a collision-free string form of key for singleflight.
func flightKey(key Key) string {
	if s, ok := key.(string); ok {
		return "s:" + s
	}
	return fmt.Sprintf("p:%p", key)
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		return keyString(keys[i]) < keyString(keys[j])
	})
}
