// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

package caps

import (
	"sort"
	"strings"
	"sync"
)

// Set holds a set of capabilities. The runner uses one Set for the
// capabilities it has requested and one for those the server has
// acknowledged; the acknowledged set is only written during negotiation
// and is effectively read-only afterwards.
type Set struct {
	sync.RWMutex
	// capabilities holds the capabilities this set has.
	capabilities map[Capability]bool
}

// NewSet returns a new Set, with the given capabilities enabled.
func NewSet(capabs ...Capability) *Set {
	newSet := Set{
		capabilities: make(map[Capability]bool),
	}
	newSet.Enable(capabs...)

	return &newSet
}

// Enable enables the given capabilities.
func (s *Set) Enable(capabs ...Capability) {
	s.Lock()
	defer s.Unlock()

	for _, capab := range capabs {
		s.capabilities[capab] = true
	}
}

// Disable disables the given capabilities.
func (s *Set) Disable(capabs ...Capability) {
	s.Lock()
	defer s.Unlock()

	for _, capab := range capabs {
		delete(s.capabilities, capab)
	}
}

// Has returns true if this set has the given capabilities.
func (s *Set) Has(caps ...Capability) bool {
	s.RLock()
	defer s.RUnlock()

	for _, cap := range caps {
		if !s.capabilities[cap] {
			return false
		}
	}
	return true
}

// List returns a list of our enabled capabilities.
func (s *Set) List() []Capability {
	s.RLock()
	defer s.RUnlock()

	var allCaps []Capability
	for capab := range s.capabilities {
		allCaps = append(allCaps, capab)
	}

	return allCaps
}

// Count returns how many enabled caps this set has.
func (s *Set) Count() int {
	s.RLock()
	defer s.RUnlock()

	return len(s.capabilities)
}

// String returns all of our enabled capabilities as a space-separated string.
func (s *Set) String() string {
	s.RLock()
	defer s.RUnlock()

	var strs sort.StringSlice

	for capability := range s.capabilities {
		strs = append(strs, capability.Name())
	}

	// sort the cap string before we send it out
	sort.Sort(strs)

	return strings.Join(strs, " ")
}
