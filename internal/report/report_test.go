package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortbench"
	"sortbench/internal/experiment"
)

func constCell(ms float64, comps int64, n int) *experiment.Cell {
	c := &experiment.Cell{}
	for range n {
		c.Times = append(c.Times, ms)
		c.Comparisons = append(c.Comparisons, comps)
	}
	return c
}

func testConfig() experiment.Config {
	cfg := experiment.DefaultConfig()
	cfg.LargeSizes = []int{1000, 2000}
	cfg.SmallSizes = []int{10}
	return cfg
}

func TestResults_RowLayout(t *testing.T) {
	cfg := testConfig()
	store := experiment.NewStore(sortbench.Names()...)
	store.Put(sortbench.InsertionName, experiment.CellKey{Ordering: experiment.Random, Size: 1000, Regime: experiment.Large}, constCell(1.5, 99, 10))
	store.Put(sortbench.MergeName, experiment.CellKey{Ordering: experiment.Random, Size: 10, Regime: experiment.Small}, constCell(0.25, 19, 10))

	var buf bytes.Buffer
	require.NoError(t, New(&buf, cfg).Results(store))
	out := buf.String()

	assert.Contains(t, out, "\nLarge Lists (1000-2000 elements):\n")
	assert.Contains(t, out, "\nSmall Lists (10-10 elements):\n")
	assert.Contains(t, out, "\nOrder: Random\n")
	assert.Contains(t, out, "\nOrder: Descending\n")
	assert.Contains(t, out,
		"Size       Algorithm       Avg Time (ms)   Time StdDev     Time CI (95%)        Avg Comparisons Comp StdDev     Comp CI (95%)       \n")
	assert.Contains(t, out,
		"1000       Insertion Sort  1.50            0.00            [1.50, 1.50]         99              0               [99, 99]            \n")
	assert.Contains(t, out,
		"10         Merge Sort      0.2500          0.0000          [0.2500, 0.2500]     19              0               [19, 19]            \n")
}

func TestResults_SkipsMissingCells(t *testing.T) {
	cfg := testConfig()
	store := experiment.NewStore(sortbench.Names()...)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, cfg).Results(store))

	for _, line := range strings.Split(buf.String(), "\n") {
		assert.False(t, strings.HasPrefix(line, "1000 ") || strings.HasPrefix(line, "10 "),
			"no data rows expected: %q", line)
	}
}

func TestResults_OmitsEmptyRegime(t *testing.T) {
	cfg := testConfig()
	cfg.SmallSizes = nil
	var buf bytes.Buffer
	require.NoError(t, New(&buf, cfg).Results(experiment.NewStore()))
	assert.NotContains(t, buf.String(), "Small Lists")
}

func TestResults_SpecialCases(t *testing.T) {
	cfg := testConfig()
	store := experiment.NewStore(sortbench.Names()...)
	large := func(o experiment.Ordering, size int) experiment.CellKey {
		return experiment.CellKey{Ordering: o, Size: size, Regime: experiment.Large}
	}
	store.Put(sortbench.InsertionName, large(experiment.Ascending, 1000), constCell(1.5, 999, 10))
	store.Put(sortbench.InsertionName, large(experiment.Descending, 1000), constCell(3, 499500, 10))
	store.Put(sortbench.QuickName, large(experiment.Random, 2000), constCell(0.5, 25000, 10))

	var buf bytes.Buffer
	require.NoError(t, New(&buf, cfg).Results(store))
	out := buf.String()

	_, special, ok := strings.Cut(out, "\nSpecial Case Comparisons:\n")
	require.True(t, ok)
	insertion, quick, ok := strings.Cut(special, "\nQuick Sort Pivot Impact:\n")
	require.True(t, ok)

	header := "Size       Order           Avg Time (ms)   Time StdDev     Time CI (95%)       \n"
	assert.Contains(t, insertion, "\nInsertion Sort Best vs Worst Case:\n"+header)
	assert.Contains(t, insertion, "1000       Ascending       1.50            0.00            [1.50, 1.50]        \n")
	assert.Contains(t, insertion, "1000       Descending      3.00            0.00            [3.00, 3.00]        \n")
	assert.Less(t, strings.Index(insertion, "Ascending"), strings.Index(insertion, "Descending"))

	assert.True(t, strings.HasPrefix(quick, header))
	assert.Contains(t, quick, "2000       Random          0.50            0.00            [0.50, 0.50]        \n")
	assert.NotContains(t, quick, "Ascending")
}

func TestSummary_ParametersSorted(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, testConfig())
	f.SetParamInt("trials", 10)
	f.SetParamBool("strict", false)
	f.SetParam("run_id", "abc")
	f.SetParamDuration("timeout", 2*time.Second)

	require.NoError(t, f.Summary(Totals{Cells: 180, Sorts: 3600, Elapsed: 1500 * time.Millisecond}))
	out := buf.String()

	assert.Contains(t, out, "Metric                    Value\n")
	assert.Contains(t, out, "Cells                       180\n")
	assert.Contains(t, out, "Sorts                      3600\n")
	assert.Contains(t, out, "Elapsed                    1.5s\n")
	assert.Contains(t, out, "Configured parameters\n")

	iRun := strings.Index(out, "run_id")
	iStrict := strings.Index(out, "strict")
	iTimeout := strings.Index(out, "timeout")
	iTrials := strings.Index(out, "trials")
	assert.True(t, iRun < iStrict && iStrict < iTimeout && iTimeout < iTrials, "parameters are printed in name order")
}

func TestSummary_NoParameters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, testConfig()).Summary(Totals{}))
	assert.NotContains(t, buf.String(), "Configured parameters")
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.n++
	return 0, errors.New("disk full")
}

func TestResults_StopsOnWriteError(t *testing.T) {
	w := &failingWriter{}
	err := New(w, testConfig()).Results(experiment.NewStore())
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 1, w.n, "no writes after the first failure")
}
