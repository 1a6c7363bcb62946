package experiment

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sortbench"
)

// broken sorts correctly and then swaps the first two elements, so every
// output with two or more distinct values is unsorted.
type broken struct{ n int64 }

func (b *broken) Name() string { return "Broken Sort" }
func (b *broken) SortTimed(seq []int) []int {
	slices.Sort(seq)
	if len(seq) > 1 {
		seq[0], seq[1] = seq[1], seq[0]
	}
	return seq
}
func (b *broken) SortCounted(seq []int) []int { b.n++; return b.SortTimed(seq) }
func (b *broken) Comparisons() int64          { return b.n }
func (b *broken) ResetComparisons()           { b.n = 0 }

type countingObserver struct {
	timed, counted int
	failures       int
	cells          int
	missing        int
}

func (c *countingObserver) ObserveSort(_ string, mode Mode, _ time.Duration, _ int64) {
	if mode == ModeTimed {
		c.timed++
	} else {
		c.counted++
	}
}
func (c *countingObserver) ObserveVerifyFailure(string, Mode) { c.failures++ }
func (c *countingObserver) ObserveCell(string, CellKey)       { c.cells++ }
func (c *countingObserver) ObserveMissing(string, CellKey)    { c.missing++ }

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.LargeSizes = []int{50, 100}
	cfg.SmallSizes = []int{0, 1, 10}
	cfg.Trials = 4
	return cfg
}

func TestDriver_RunFillsEveryCell(t *testing.T) {
	cfg := smallConfig()
	obs := &countingObserver{}
	d := NewDriver(cfg, sortbench.All(), WithObserver(obs))

	store, err := d.Run()
	require.NoError(t, err)
	require.Same(t, store, d.Store())

	assert.Equal(t, sortbench.Names(), store.Algorithms())
	assert.Equal(t, cfg.Cells()*3, store.Len())
	assert.Empty(t, d.Verify())
	assert.Zero(t, d.Failures())

	for _, name := range store.Algorithms() {
		keys := store.Keys(name)
		require.Len(t, keys, cfg.Cells())
		for _, k := range keys {
			c, ok := store.Cell(name, k)
			require.True(t, ok)
			assert.Len(t, c.Times, cfg.Trials, "%s %s", name, k)
			assert.Len(t, c.Comparisons, cfg.Trials, "%s %s", name, k)
			for _, ms := range c.Times {
				assert.GreaterOrEqual(t, ms, 0.0)
			}
		}
	}

	sorts := cfg.Cells() * 3 * cfg.Trials
	assert.Equal(t, sorts, obs.timed)
	assert.Equal(t, sorts, obs.counted)
	assert.Equal(t, cfg.Cells()*3, obs.cells)
	assert.Zero(t, obs.failures)
}

func TestDriver_ComparisonCountsAreDeterministic(t *testing.T) {
	cfg := smallConfig()
	store, err := NewDriver(cfg, sortbench.All()).Run()
	require.NoError(t, err)

	for _, name := range store.Algorithms() {
		for _, k := range store.Keys(name) {
			c, _ := store.Cell(name, k)
			for _, n := range c.Comparisons {
				assert.Equal(t, c.Comparisons[0], n, "%s %s: same input must count the same", name, k)
			}
		}
	}

	// Closed forms for the ordered inputs.
	k := CellKey{Ordering: Ascending, Size: 100, Regime: Large}
	c, _ := store.Cell(sortbench.InsertionName, k)
	assert.Equal(t, int64(99), c.Comparisons[0])
	c, _ = store.Cell(sortbench.QuickName, k)
	assert.Equal(t, int64(100*99/2), c.Comparisons[0])

	k.Ordering = Descending
	c, _ = store.Cell(sortbench.InsertionName, k)
	assert.Equal(t, int64(100*99/2), c.Comparisons[0])

	k = CellKey{Ordering: Random, Size: 1, Regime: Small}
	for _, name := range store.Algorithms() {
		c, _ = store.Cell(name, k)
		assert.Equal(t, []int64{0, 0, 0, 0}, c.Comparisons, name)
	}
}

func TestDriver_SameSeedSameCounts(t *testing.T) {
	cfg := smallConfig()
	a, err := NewDriver(cfg, sortbench.All()).Run()
	require.NoError(t, err)
	b, err := NewDriver(cfg, sortbench.All()).Run()
	require.NoError(t, err)

	for _, name := range a.Algorithms() {
		for _, k := range a.Keys(name) {
			ca, _ := a.Cell(name, k)
			cb, _ := b.Cell(name, k)
			assert.Equal(t, ca.Comparisons, cb.Comparisons, "%s %s", name, k)
		}
	}
}

func TestDriver_UnsortedOutputIsLoggedAndRunContinues(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := smallConfig()
	cfg.LargeSizes = nil
	cfg.SmallSizes = []int{1, 5}
	cfg.Trials = 2
	obs := &countingObserver{}

	d := NewDriver(cfg, []sortbench.Algorithm{&broken{}}, WithLogger(zap.New(core)), WithObserver(obs))
	store, err := d.Run()
	require.NoError(t, err)
	assert.Equal(t, cfg.Cells(), store.Len(), "cells are recorded despite failures")

	// Size 1 passes. Size 5 fails both checks of every trial in every ordering.
	wantFailures := len(Orderings()) * 2 * cfg.Trials
	assert.Equal(t, wantFailures, d.Failures())
	assert.Equal(t, wantFailures, obs.failures)

	failed := logs.FilterMessage("algorithm failed to sort")
	require.Equal(t, wantFailures, failed.Len())
	entry := failed.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "Broken Sort", entry.ContextMap()["algorithm"])
	assert.Equal(t, int64(5), entry.ContextMap()["size"])
	assert.Equal(t, "small", entry.ContextMap()["regime"])
}

func TestDriver_StrictAbortsOnUnsortedOutput(t *testing.T) {
	cfg := smallConfig()
	cfg.Strict = true
	store, err := NewDriver(cfg, []sortbench.Algorithm{&broken{}}).Run()
	require.Error(t, err)
	assert.Nil(t, store)
	assert.True(t, errors.Is(err, ErrNotSorted))
	assert.Contains(t, err.Error(), "Broken Sort timed sort of random_50")
}

func TestDriver_RunTwiceFails(t *testing.T) {
	cfg := smallConfig()
	d := NewDriver(cfg, sortbench.All())
	_, err := d.Run()
	require.NoError(t, err)
	_, err = d.Run()
	assert.ErrorContains(t, err, "already run")
}

func TestDriver_InvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Trials = 0
	_, err := NewDriver(cfg, sortbench.All()).Run()
	assert.ErrorContains(t, err, "invalid config")
}

func TestDriver_DuplicateSizesRejected(t *testing.T) {
	cfg := smallConfig()
	cfg.LargeSizes = []int{20, 20}
	cfg.SmallSizes = nil
	cfg.Trials = 2
	d := NewDriver(cfg, sortbench.All())
	_, err := d.Run()
	assert.ErrorContains(t, err, "duplicate size 20")
	assert.Nil(t, d.Store())
}

func TestDriver_LogsProgress(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := smallConfig()
	_, err := NewDriver(cfg, sortbench.All(), WithLogger(zap.New(core))).Run()
	require.NoError(t, err)

	assert.Equal(t, 2, logs.FilterMessage("starting experiments").Len())
	assert.Equal(t, cfg.Cells()*3, logs.FilterMessage("completed experiments").Len())
	assert.Equal(t, 1, logs.FilterMessage("experiments finished").Len())
}

func TestVerify_ReportsMissingCells(t *testing.T) {
	cfg := smallConfig()
	store := NewStore(sortbench.Names()...)
	present := CellKey{Ordering: Random, Size: 50, Regime: Large}
	store.Put(sortbench.MergeName, present, &Cell{})

	missing := FindMissing(cfg, store, sortbench.Names())
	assert.Len(t, missing, cfg.Cells()*3-1)
	assert.NotContains(t, missing, MissingCell{Algorithm: sortbench.MergeName, Key: present})
	assert.Contains(t, missing, MissingCell{Algorithm: sortbench.QuickName, Key: present})
}

func TestVerify_BeforeRunWarnsForEverything(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := smallConfig()
	obs := &countingObserver{}
	d := NewDriver(cfg, sortbench.All(), WithLogger(zap.New(core)), WithObserver(obs))

	missing := d.Verify()
	assert.Len(t, missing, cfg.Cells()*3)
	assert.Equal(t, len(missing), obs.missing)
	assert.Equal(t, len(missing), logs.FilterMessage("missing results").Len())
}

func TestDriver_DefaultMatrix(t *testing.T) {
	if testing.Short() {
		t.Skip("full matrix sorts 10k-element inputs 3600 times")
	}
	cfg := DefaultConfig()
	obs := &countingObserver{}
	d := NewDriver(cfg, sortbench.All(), WithObserver(obs))
	store, err := d.Run()
	require.NoError(t, err)

	assert.Equal(t, 180, store.Len())
	assert.Equal(t, 1800, obs.timed)
	assert.Equal(t, 1800, obs.counted)
	assert.Empty(t, d.Verify())
}
