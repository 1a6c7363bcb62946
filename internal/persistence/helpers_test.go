package persistence

import (
	"sortbench"
	"sortbench/internal/experiment"
)

func sampleStore() *experiment.Store {
	s := experiment.NewStore(sortbench.InsertionName, sortbench.QuickName)
	s.Put(sortbench.InsertionName,
		experiment.CellKey{Ordering: experiment.Random, Size: 1000, Regime: experiment.Large},
		&experiment.Cell{Times: []float64{1.5, 2.5}, Comparisons: []int64{250000, 250010}})
	s.Put(sortbench.InsertionName,
		experiment.CellKey{Ordering: experiment.Ascending, Size: 10, Regime: experiment.Small},
		&experiment.Cell{Times: []float64{0.001, 0.001}, Comparisons: []int64{9, 9}})
	s.Put(sortbench.QuickName,
		experiment.CellKey{Ordering: experiment.Descending, Size: 10, Regime: experiment.Small},
		&experiment.Cell{Times: []float64{0.002, 0.003}, Comparisons: []int64{45, 45}})
	return s
}
