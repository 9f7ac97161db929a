package args

import (
	"context"
	"sort"
	"sync"
)

// TypeID names a value type in command definitions.
type TypeID string

const (
	TypeString       TypeID = "string"
	TypeText         TypeID = "text"
	TypeBool         TypeID = "bool"
	TypeChar         TypeID = "char"
	TypeInt          TypeID = "int"
	TypeInt8         TypeID = "int8"
	TypeInt16        TypeID = "int16"
	TypeInt32        TypeID = "int32"
	TypeInt64        TypeID = "int64"
	TypeUint         TypeID = "uint"
	TypeUint8        TypeID = "uint8"
	TypeUint16       TypeID = "uint16"
	TypeUint32       TypeID = "uint32"
	TypeUint64       TypeID = "uint64"
	TypeFloat32      TypeID = "float32"
	TypeFloat64      TypeID = "float64"
	TypeDuration     TypeID = "duration"
	TypeTimestamp    TypeID = "timestamp"
	TypeUser         TypeID = "user"
	TypeMember       TypeID = "member"
	TypeChannel      TypeID = "channel"
	TypeGuildChannel TypeID = "guild_channel"
	TypeRole         TypeID = "role"
)

// Resolver converts one raw value into a typed value. It may suspend on
// lookups through pc.Directory and should honour ctx cancellation.
type Resolver func(ctx context.Context, pc Context, raw Raw) (any, error)

// Registry maps type identifiers to resolvers. Register everything at
// startup; after that a Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[TypeID]Resolver
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[TypeID]Resolver)}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry holding every built-in type.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		RegisterBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

// RegisterBuiltins adds the primitive, time and Discord object resolvers to r.
func RegisterBuiltins(r *Registry) {
	registerPrimitives(r)
	registerTime(r)
	registerModels(r)
}

// Register adds or replaces the resolver for id.
func (r *Registry) Register(id TypeID, fn Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[id] = fn
}

// Lookup returns the resolver registered for id.
func (r *Registry) Lookup(id TypeID) (Resolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.resolvers[id]
	return fn, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id TypeID) bool {
	_, ok := r.Lookup(id)
	return ok
}

// Types returns all registered identifiers, sorted.
func (r *Registry) Types() []TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]TypeID, 0, len(r.resolvers))
	for id := range r.resolvers {
		list = append(list, id)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

// Clone returns an independent copy, handy for adding application types on
// top of the defaults without touching the shared registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := NewRegistry()
	for id, fn := range r.resolvers {
		c.resolvers[id] = fn
	}
	return c
}
