/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"
	"sync"
)

// Storage is the non-generic handle the settings layer holds: it manages a
// collection of DataStore instances keyed by exposed entity name.
type Storage interface {
	// RegisterDataStore registers a DataStore under an entity name
	// (for example, "account" or "accountProfile").
	RegisterDataStore(entityName string, ds any) error
	// GetDataStore retrieves the registered DataStore for an entity name.
	// The caller must type-assert the returned value.
	GetDataStore(entityName string) (any, error)
}

// storageManager is a thread-safe implementation of the Storage interface.
type storageManager struct {
	mu     sync.RWMutex
	stores map[string]any
}

// NewStorageManager creates and returns a new Storage implementation.
func NewStorageManager() Storage {
	return &storageManager{
		stores: make(map[string]any),
	}
}

// RegisterDataStore stores the provided DataStore under the given entity name.
func (sm *storageManager) RegisterDataStore(entityName string, ds any) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.stores[entityName]; exists {
		return fmt.Errorf("datastore for entity %q already registered", entityName)
	}
	sm.stores[entityName] = ds
	return nil
}

// GetDataStore retrieves the DataStore associated with the given entity name.
func (sm *storageManager) GetDataStore(entityName string) (any, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ds, exists := sm.stores[entityName]
	if !exists {
		return nil, fmt.Errorf("datastore for entity %q not found", entityName)
	}
	return ds, nil
}
