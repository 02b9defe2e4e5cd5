package store

import (
	"strings"
	"sync"

	"github.com/adityabima03/YuhuKopi/internal/domain"
)

// Placeholder strings shown when no address is set.
const (
	TextLoading        = "Getting location..."
	TextNotSet         = "Location not set"
	TextShortNotSet    = "Location"
	TextShortNoAddress = "Address"
)

// AddressResolutionState is a point-in-time copy of AddressStore.
// Revision counts SetAddress calls.
type AddressResolutionState struct {
	Loading  bool
	Err      string
	Address  *domain.DeliveryAddress
	Revision uint64
}

// AddressStore holds the current delivery address plus loading and error
// flags, and derives the strings screens display.
type AddressStore struct {
	mu      sync.RWMutex
	address *domain.DeliveryAddress
	rev     uint64
	loading bool
	err     string
}

func NewAddressStore() *AddressStore {
	return &AddressStore{}
}

// SetAddress replaces the address and clears any error. Coordinates are not
// validated here.
func (s *AddressStore) SetAddress(a domain.DeliveryAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = &a
	s.rev++
	s.err = ""
}

func (s *AddressStore) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

// SetError records msg; an empty msg clears the error. The address is kept.
func (s *AddressStore) SetError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

// Address returns a copy of the current address, or nil.
func (s *AddressStore) Address() *domain.DeliveryAddress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.address == nil {
		return nil
	}
	a := *s.address
	return &a
}

func (s *AddressStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *AddressStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Snapshot returns loading, error and address read under one lock.
func (s *AddressStore) Snapshot() AddressResolutionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := AddressResolutionState{Loading: s.loading, Err: s.err, Revision: s.rev}
	if s.address != nil {
		a := *s.address
		st.Address = &a
	}
	return st
}

// DisplayAddress is the full address, falling back to the street.
func (s *AddressStore) DisplayAddress() string {
	st := s.Snapshot()
	if st.Address == nil {
		if st.Loading {
			return TextLoading
		}
		return TextNotSet
	}
	if st.Address.FullAddress != "" {
		return st.Address.FullAddress
	}
	return st.Address.Street
}

// ShortAddress is the street, else the first comma segment of the full
// address, else a generic label.
func (s *AddressStore) ShortAddress() string {
	return shortAddress(s.Snapshot())
}

func shortAddress(st AddressResolutionState) string {
	if st.Address == nil {
		if st.Loading {
			return TextLoading
		}
		return TextShortNotSet
	}
	if st.Address.Street != "" {
		return st.Address.Street
	}
	if first := strings.SplitN(st.Address.FullAddress, ",", 2)[0]; first != "" {
		return first
	}
	return TextShortNoAddress
}

// LocationDisplay is "city, region" when both are known, else ShortAddress.
func (s *AddressStore) LocationDisplay() string {
	st := s.Snapshot()
	if st.Address != nil && st.Address.City != "" && st.Address.Region != "" {
		return st.Address.City + ", " + st.Address.Region
	}
	return shortAddress(st)
}
