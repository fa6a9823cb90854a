// Package storage keeps the partitions created through the HTTP API in memory.
package storage

import (
	"iter"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"tilepart/box"
	"tilepart/tiles"
)

var ErrPartitionNotFound = errors.New("partition not found")

// PartitionStore is a simple LRU (least recently used) registry of tile sets. It has an internal locking mechanism and
// can be used in concurrent goroutines. The recency of an entry only gets updated when it is inserted or read.
type PartitionStore struct {
	partitions      map[string]*tiles.TileSet[box.Box] // ID to partition
	lastAccessTicks map[string]uint64                  // ID to value of accessTick at the last access
	accessTick      uint64
	mutex           *sync.Mutex
	maxSize         int // Maximum number of partitions this store should hold
}

func NewPartitionStore(maxSize int) *PartitionStore {
	return &PartitionStore{
		partitions:      map[string]*tiles.TileSet[box.Box]{},
		lastAccessTicks: map[string]uint64{},
		mutex:           &sync.Mutex{},
		maxSize:         max(1, maxSize),
	}
}

// Insert stores the partition under a new random ID. If the store is full, the partition that hasn't been used
// longest will be evicted.
func (s *PartitionStore) Insert(tileSet *tiles.TileSet[box.Box]) string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.partitions) >= s.maxSize {
		// Store is full -> evict entry that has been unused the longest
		longestUnusedId := s.getMinEntry()
		delete(s.partitions, longestUnusedId)
		delete(s.lastAccessTicks, longestUnusedId)
		sigolo.Debugf("Evicted partition %s", longestUnusedId)
	}

	id := uuid.NewString()
	s.partitions[id] = tileSet
	s.touch(id)

	return id
}

func (s *PartitionStore) Get(id string) (*tiles.TileSet[box.Box], error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	tileSet, ok := s.partitions[id]
	if !ok {
		return nil, errors.Wrapf(ErrPartitionNotFound, "no partition with ID %s", id)
	}

	s.touch(id)
	return tileSet, nil
}

func (s *PartitionStore) Delete(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.partitions[id]; !ok {
		return errors.Wrapf(ErrPartitionNotFound, "no partition with ID %s", id)
	}

	delete(s.partitions, id)
	delete(s.lastAccessTicks, id)
	return nil
}

func (s *PartitionStore) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return len(s.partitions)
}

// IDs returns the IDs of all stored partitions in lexical order.
func (s *PartitionStore) IDs() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ids := make([]string, 0, len(s.partitions))
	for id := range s.partitions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// All yields a snapshot of all stored partitions ordered by ID. Unlike Get it does not change the recency of any
// entry, and the store is not locked while the caller processes the entries.
func (s *PartitionStore) All() iter.Seq2[string, *tiles.TileSet[box.Box]] {
	s.mutex.Lock()
	ids := make([]string, 0, len(s.partitions))
	for id := range s.partitions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	snapshot := make([]*tiles.TileSet[box.Box], len(ids))
	for i, id := range ids {
		snapshot[i] = s.partitions[id]
	}
	s.mutex.Unlock()

	return func(yield func(string, *tiles.TileSet[box.Box]) bool) {
		for i, id := range ids {
			if !yield(id, snapshot[i]) {
				return
			}
		}
	}
}

// touch marks the entry as most recently used. This function does NOT use locking.
func (s *PartitionStore) touch(id string) {
	s.accessTick++
	s.lastAccessTicks[id] = s.accessTick
}

// getMinEntry returns the entry that hasn't been used longest. This function does NOT use locking.
func (s *PartitionStore) getMinEntry() string {
	minTick := uint64(math.MaxUint64)
	minId := ""

	for id, tick := range s.lastAccessTicks {
		if tick < minTick {
			minTick = tick
			minId = id
		}
	}

	return minId
}
