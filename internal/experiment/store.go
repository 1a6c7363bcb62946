// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package experiment

import (
	"cmp"
	"slices"
)

// Store maps algorithm name -> cell key -> cell.
//
// The driver is the only writer. Cells are inserted fully populated, and the
// store must be treated as read-only once Driver.Run returns; after that it
// is safe for concurrent readers.
type Store struct {
	algorithms []string
	cells      map[string]map[CellKey]*Cell
}

// NewStore creates an empty store for the given algorithms, kept in the given
// order for iteration.
func NewStore(algorithms ...string) *Store {
	s := &Store{cells: make(map[string]map[CellKey]*Cell, len(algorithms))}
	for _, name := range algorithms {
		s.addAlgorithm(name)
	}
	return s
}

func (s *Store) addAlgorithm(name string) map[CellKey]*Cell {
	m, ok := s.cells[name]
	if !ok {
		m = make(map[CellKey]*Cell)
		s.cells[name] = m
		s.algorithms = append(s.algorithms, name)
	}
	return m
}

// Put stores a populated cell, replacing any previous cell with the same key.
func (s *Store) Put(algorithm string, key CellKey, c *Cell) {
	s.addAlgorithm(algorithm)[key] = c
}

// Cell looks up a cell.
func (s *Store) Cell(algorithm string, key CellKey) (*Cell, bool) {
	c, ok := s.cells[algorithm][key]
	return c, ok
}

// Algorithms returns the algorithm names in insertion order.
func (s *Store) Algorithms() []string { return slices.Clone(s.algorithms) }

// Keys returns the cell keys of an algorithm ordered by regime (large first),
// ordering, then size.
func (s *Store) Keys(algorithm string) []CellKey {
	m := s.cells[algorithm]
	keys := make([]CellKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

// Len returns the total number of cells across all algorithms.
func (s *Store) Len() int {
	n := 0
	for _, m := range s.cells {
		n += len(m)
	}
	return n
}

func compareKeys(a, b CellKey) int {
	return cmp.Or(
		cmp.Compare(slices.Index(Regimes(), a.Regime), slices.Index(Regimes(), b.Regime)),
		cmp.Compare(slices.Index(Orderings(), a.Ordering), slices.Index(Orderings(), b.Ordering)),
		cmp.Compare(a.Size, b.Size),
	)
}
