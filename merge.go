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

// Merge is a top-down merge sort. Ties take the left element, so the merge
// is stable. Recursion depth is log2(n); one scratch buffer is allocated per
// call and reused by every merge.
type Merge struct {
	counter
}

// NewMerge returns a merge sort with a zeroed counter.
func NewMerge() *Merge { return &Merge{} }

func (*Merge) Name() string { return MergeName }

func (*Merge) SortTimed(a []int) []int {
	if len(a) < 2 {
		return a
	}
	buf := make([]int, len(a))
	mergeSort(a, buf, 0, len(a)-1)
	return a
}

func (m *Merge) SortCounted(a []int) []int {
	if len(a) < 2 {
		return a
	}
	buf := make([]int, len(a))
	m.mergeSortCounted(a, buf, 0, len(a)-1)
	return a
}

func mergeSort(a, buf []int, left, right int) {
	if left >= right {
		return
	}
	mid := (left + right) / 2
	mergeSort(a, buf, left, mid)
	mergeSort(a, buf, mid+1, right)
	merge(a, buf, left, mid, right)
}

// merge combines a[left:mid+1] and a[mid+1:right+1] using buf as scratch.
func merge(a, buf []int, left, mid, right int) {
	copy(buf[left:right+1], a[left:right+1])
	i, j, k := left, mid+1, left
	for i <= mid && j <= right {
		if buf[i] <= buf[j] {
			a[k] = buf[i]
			i++
		} else {
			a[k] = buf[j]
			j++
		}
		k++
	}
	k += copy(a[k:], buf[i:mid+1])
	copy(a[k:], buf[j:right+1])
}

func (m *Merge) mergeSortCounted(a, buf []int, left, right int) {
	if left >= right {
		return
	}
	mid := (left + right) / 2
	m.mergeSortCounted(a, buf, left, mid)
	m.mergeSortCounted(a, buf, mid+1, right)
	m.mergeCounted(a, buf, left, mid, right)
}

// mergeCounted counts one comparison per iteration of the interleaved loop.
// Draining the remaining half costs nothing.
func (m *Merge) mergeCounted(a, buf []int, left, mid, right int) {
	copy(buf[left:right+1], a[left:right+1])
	i, j, k := left, mid+1, left
	for i <= mid && j <= right {
		m.comparisons++
		if buf[i] <= buf[j] {
			a[k] = buf[i]
			i++
		} else {
			a[k] = buf[j]
			j++
		}
		k++
	}
	k += copy(a[k:], buf[i:mid+1])
	copy(a[k:], buf[j:right+1])
}
