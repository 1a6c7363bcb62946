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

import "time"

// Observer receives run events for telemetry. Implementations are called
// from the driver goroutine only.
type Observer interface {
	ObserveSort(algorithm string, mode Mode, elapsed time.Duration, comparisons int64)
	ObserveVerifyFailure(algorithm string, mode Mode)
	ObserveCell(algorithm string, key CellKey)
	ObserveMissing(algorithm string, key CellKey)
}

type nopObserver struct{}

func (nopObserver) ObserveSort(string, Mode, time.Duration, int64) {}
func (nopObserver) ObserveVerifyFailure(string, Mode)               {}
func (nopObserver) ObserveCell(string, CellKey)                     {}
func (nopObserver) ObserveMissing(string, CellKey)                  {}
