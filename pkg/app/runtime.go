package app

import (
	"sync"

	"github.com/robotalks/mwatch.go/pkg/abi"
)

// Runtime turns entry addresses into callables.
type Runtime interface {
	ResolveSetup(addr uint32) (abi.SetupFn, error)
	ResolveService(addr uint32) (abi.ServiceFn, error)
	ResolveInput(addr uint32) (abi.InputFn, error)
}

// Program is the native code behind one image header.
type Program struct {
	Setup   abi.SetupFn
	Service abi.ServiceFn
	Input   abi.InputFn
}

// Registry is a Runtime backed by a table of linked programs, keyed by address.
type Registry struct {
	lock     sync.RWMutex
	setups   map[uint32]abi.SetupFn
	services map[uint32]abi.ServiceFn
	inputs   map[uint32]abi.InputFn
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		setups:   make(map[uint32]abi.SetupFn),
		services: make(map[uint32]abi.ServiceFn),
		inputs:   make(map[uint32]abi.InputFn),
	}
}

// Register links the entry points of p at the addresses in hdr.
// A nil entry in p leaves the address unlinked.
func (r *Registry) Register(hdr Header, p Program) *Registry {
	r.lock.Lock()
	defer r.lock.Unlock()
	if p.Setup != nil {
		r.setups[hdr.Setup] = p.Setup
	}
	if p.Service != nil {
		r.services[hdr.Service] = p.Service
	}
	if p.Input != nil {
		r.inputs[hdr.Input] = p.Input
	}
	return r
}

// ResolveSetup implements Runtime.
func (r *Registry) ResolveSetup(addr uint32) (abi.SetupFn, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if fn := r.setups[addr]; fn != nil {
		return fn, nil
	}
	return nil, &UnresolvedError{Entry: "setup", Address: addr}
}

// ResolveService implements Runtime.
func (r *Registry) ResolveService(addr uint32) (abi.ServiceFn, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if fn := r.services[addr]; fn != nil {
		return fn, nil
	}
	return nil, &UnresolvedError{Entry: "service", Address: addr}
}

// ResolveInput implements Runtime.
func (r *Registry) ResolveInput(addr uint32) (abi.InputFn, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if fn := r.inputs[addr]; fn != nil {
		return fn, nil
	}
	return nil, &UnresolvedError{Entry: "input", Address: addr}
}
