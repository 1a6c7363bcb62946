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

package sortbench

// Insertion is a textbook insertion sort.
type Insertion struct {
	counter
}

// NewInsertion returns an insertion sort with a zeroed counter.
func NewInsertion() *Insertion { return &Insertion{} }

func (*Insertion) Name() string { return InsertionName }

func (*Insertion) SortTimed(a []int) []int {
	for i := 1; i < len(a); i++ {
		key := a[i]
		j := i - 1
		for j >= 0 && a[j] > key {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = key
	}
	return a
}

// SortCounted counts every key-vs-element test, including the one that stops
// the shift loop. No test is made (or counted) once j runs off the front.
func (s *Insertion) SortCounted(a []int) []int {
	for i := 1; i < len(a); i++ {
		key := a[i]
		j := i - 1
		for j >= 0 {
			s.comparisons++
			if a[j] <= key {
				break
			}
			a[j+1] = a[j]
			j--
		}
		a[j+1] = key
	}
	return a
}
