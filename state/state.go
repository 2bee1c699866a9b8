// Copyright (c) 2025 The RealmGov developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/realmgov/registry/gov"
	"github.com/realmgov/registry/kv"
	"github.com/realmgov/registry/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr gov.Address
	key  gov.Bytes32
}

func (k storageKey) storeKey() []byte {
	return append(k.addr.Bytes(), k.key.Bytes()...)
}

// State manages the records of all registry entities.
// Values are keyed by (address, key) and kept in a journal stack, so that a
// batch of mutations either commits as a whole or reverts to a checkpoint.
type State struct {
	store kv.GetPutter
	cache map[storageKey]rlp.RawValue // read-through cache of the underlying store
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object backed by the given store.
func New(store kv.GetPutter) *State {
	state := State{
		store: store,
		cache: make(map[storageKey]rlp.RawValue),
	}
	state.sm = stackedmap.New(state.cachedRead)
	return &state
}

// cachedRead implements stackedmap.MapGetter.
// An absent key reads as the empty value.
func (s *State) cachedRead(k storageKey) (rlp.RawValue, bool, error) {
	if v, ok := s.cache[k]; ok {
		return v, true, nil
	}
	raw, err := s.store.Get(k.storeKey())
	if err != nil {
		if s.store.IsNotFound(err) {
			s.cache[k] = nil
			return nil, true, nil
		}
		return nil, false, err
	}
	s.cache[k] = raw
	return raw, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr gov.Address, key gov.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
// Empty raw value marks the record deleted.
func (s *State) SetRawStorage(addr gov.Address, key gov.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr gov.Address, key gov.Bytes32) (gov.Bytes32, error) {
	var v stgBytes32
	if err := s.DecodeStorage(addr, key, v.Decode); err != nil {
		return gov.Bytes32{}, err
	}
	return gov.Bytes32(v), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr gov.Address, key, value gov.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be wrapped into state Error.
func (s *State) EncodeStorage(addr gov.Address, key gov.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be wrapped into state Error.
func (s *State) DecodeStorage(addr gov.Address, key gov.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit writes all journaled changes through to the underlying store and
// collapses the checkpoint stack. Records with empty values are deleted.
func (s *State) Commit() error {
	// last write per key wins
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		changes[k] = v
		return true
	})

	batch := s.store.NewBatch()
	for k, v := range changes {
		if len(v) == 0 {
			if err := batch.Delete(k.storeKey()); err != nil {
				return &Error{err}
			}
		} else {
			if err := batch.Put(k.storeKey(), v); err != nil {
				return &Error{err}
			}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}

	for k, v := range changes {
		s.cache[k] = v
	}
	s.sm.PopTo(0)
	return nil
}
