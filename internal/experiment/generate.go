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
	"fmt"
	"math/rand/v2"
)

// Generator produces benchmark inputs: permutations of 0..size-1 arranged by
// ordering. Random permutations come from a seeded PCG stream, so two
// generators with the same seed yield the same sequence of inputs.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, 0x9e3779b97f4a7c15))}
}

// Generate returns size distinct integers 0..size-1 in the given ordering.
// A zero size yields an empty slice.
func (g *Generator) Generate(size int, o Ordering) ([]int, error) {
	if size < 0 {
		return nil, fmt.Errorf("generate: negative size %d", size)
	}
	data := make([]int, size)
	for i := range data {
		data[i] = i
	}
	switch o {
	case Ascending:
	case Descending:
		for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
			data[i], data[j] = data[j], data[i]
		}
	case Random:
		// Shuffle is Fisher-Yates.
		g.rnd.Shuffle(len(data), func(i, j int) { data[i], data[j] = data[j], data[i] })
	default:
		return nil, fmt.Errorf("generate: unknown ordering %q", o)
	}
	return data, nil
}
