package datasets

import (
	"io"
	"math"
	"testing"
)

// TestNewDiskDatasetGeneration verifies raw coordinates stay on [0,1]^2 and
// that labels follow the disk-membership rule.
func TestNewDiskDatasetGeneration(t *testing.T) {
	ds, err := NewDiskDataset(DefaultN, 7)
	if err != nil {
		t.Fatalf("NewDiskDataset error: %v", err)
	}
	if ds.Len() != DefaultN {
		t.Fatalf("unexpected length: want %d got %d", DefaultN, ds.Len())
	}

	inside := 0
	for i, pt := range ds.RawPoints() {
		x, y := pt[0], pt[1]
		if x < 0 || x > 1 || y < 0 || y > 1 {
			t.Fatalf("point %d outside unit square: (%v, %v)", i, x, y)
		}
		dx := x - 0.5
		dy := y - 0.5
		want := 0
		if dx*dx+dy*dy < DiskRadius2 {
			want = 1
			inside++
		}
		if got := ds.Classes()[i]; got != want {
			t.Fatalf("point %d (%v, %v): class %d, want %d", i, x, y, got, want)
		}
	}

	// The disk has area 1/2, so roughly half the points should be inside.
	frac := float64(inside) / float64(ds.Len())
	if frac < 0.4 || frac > 0.6 {
		t.Fatalf("inside fraction %v too far from 0.5", frac)
	}
}

// TestDiskDatasetOneHotLabels verifies each label row is a valid indicator
// row matching the integer class.
func TestDiskDatasetOneHotLabels(t *testing.T) {
	ds, err := NewDiskDataset(200, 3)
	if err != nil {
		t.Fatalf("NewDiskDataset error: %v", err)
	}
	for i := 0; i < ds.Len(); i++ {
		_, label, err := ds.Example(i)
		if err != nil {
			t.Fatalf("Example(%d) error: %v", i, err)
		}
		if len(label) != 2 {
			t.Fatalf("label %d has %d columns, want 2", i, len(label))
		}
		var sum float32
		for _, v := range label {
			sum += v
		}
		if sum != 1 {
			t.Fatalf("label %d row sums to %v, want 1", i, sum)
		}
		if label[ds.Classes()[i]] != 1 {
			t.Fatalf("label %d does not indicate class %d: %v", i, ds.Classes()[i], label)
		}
	}
}

// TestDiskDatasetDeterminism verifies the same seed reproduces the same data.
func TestDiskDatasetDeterminism(t *testing.T) {
	a, err := NewDiskDataset(100, 99)
	if err != nil {
		t.Fatalf("NewDiskDataset error: %v", err)
	}
	b, err := NewDiskDataset(100, 99)
	if err != nil {
		t.Fatalf("NewDiskDataset error: %v", err)
	}
	for i := 0; i < a.Len(); i++ {
		pa, la, _ := a.Example(i)
		pb, lb, _ := b.Example(i)
		if pa[0] != pb[0] || pa[1] != pb[1] {
			t.Fatalf("points diverge at %d: %v vs %v", i, pa, pb)
		}
		if la[0] != lb[0] || la[1] != lb[1] {
			t.Fatalf("labels diverge at %d: %v vs %v", i, la, lb)
		}
	}
}

// TestDiskDatasetSingleClassLabels verifies label rows stay two columns wide
// even when a tiny sample only observes one of the two classes.
func TestDiskDatasetSingleClassLabels(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		ds, err := NewDiskDataset(n, 42)
		if err != nil {
			t.Fatalf("NewDiskDataset(%d) error: %v", n, err)
		}
		for i := 0; i < ds.Len(); i++ {
			_, label, err := ds.Example(i)
			if err != nil {
				t.Fatalf("Example(%d) error: %v", i, err)
			}
			if len(label) != 2 {
				t.Fatalf("n=%d: label %d has %d columns, want 2", n, i, len(label))
			}
			if label[ds.Classes()[i]] != 1 {
				t.Fatalf("n=%d: label %d does not indicate class %d: %v", n, i, ds.Classes()[i], label)
			}
		}
	}
}

func TestNewDiskDatasetRejectsBadSize(t *testing.T) {
	if _, err := NewDiskDataset(0, 1); err == nil {
		t.Fatal("expected error for n=0")
	}
	if _, err := NewDiskDataset(-5, 1); err == nil {
		t.Fatal("expected error for negative n")
	}
}

// TestDiskDatasetShuffle verifies shuffling permutes examples while keeping
// points, labels and classes aligned.
func TestDiskDatasetShuffle(t *testing.T) {
	ds, err := NewDiskDataset(300, 11)
	if err != nil {
		t.Fatalf("NewDiskDataset error: %v", err)
	}

	type entry struct {
		x, y  float32
		class int
	}
	before := make(map[entry]int)
	for i, pt := range ds.Points() {
		before[entry{pt[0], pt[1], ds.Classes()[i]}]++
	}

	ds.Shuffle(5)

	after := make(map[entry]int)
	moved := false
	for i, pt := range ds.Points() {
		e := entry{pt[0], pt[1], ds.Classes()[i]}
		after[e]++
		if ds.labels[i][ds.Classes()[i]] != 1 {
			t.Fatalf("label misaligned after shuffle at %d", i)
		}
		if ds.raw[i][0] != pt[0] || ds.raw[i][1] != pt[1] {
			t.Fatalf("raw points misaligned after shuffle at %d", i)
		}
	}
	for e, c := range before {
		if after[e] != c {
			t.Fatalf("shuffle changed multiset of examples at %+v", e)
		}
	}
	// shuffle of 300 examples should move at least one
	orig, _ := NewDiskDataset(300, 11)
	for i, pt := range ds.Points() {
		if pt[0] != orig.Points()[i][0] {
			moved = true
			break
		}
	}
	if !moved {
		t.Fatal("shuffle left every example in place")
	}
}

func TestDiskDatasetBatchBounds(t *testing.T) {
	ds, err := NewDiskDataset(10, 1)
	if err != nil {
		t.Fatalf("NewDiskDataset error: %v", err)
	}
	if _, _, err := ds.Batch([]int{0, 10}); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if _, _, err := ds.Batch([]int{-1}); err == nil {
		t.Fatal("expected out-of-range error for negative index")
	}
	pts, labels, err := ds.Batch([]int{0, 3, 9})
	if err != nil {
		t.Fatalf("Batch error: %v", err)
	}
	if len(pts) != 3 || len(labels) != 3 {
		t.Fatalf("batch sizes wrong: %d points %d labels", len(pts), len(labels))
	}
	// empty index sets cannot be turned into tensors
	if _, _, err := ds.Tensors(nil); err == nil {
		t.Fatal("expected error for empty tensor batch")
	}
}

// TestLoadSplitsStandardization verifies the train split ends up with ~zero
// mean and ~unit variance, and that the test split uses the train statistics.
func TestLoadSplitsStandardization(t *testing.T) {
	train, test, std, err := LoadSplits(DefaultN, 21)
	if err != nil {
		t.Fatalf("LoadSplits error: %v", err)
	}
	if std.Std <= 0 {
		t.Fatalf("fitted std not positive: %v", std.Std)
	}

	mean, variance := stats(train.Points())
	if math.Abs(mean) > 1e-4 {
		t.Fatalf("train mean %v not ~0", mean)
	}
	if math.Abs(variance-1) > 1e-2 {
		t.Fatalf("train variance %v not ~1", variance)
	}

	// test coordinates must be the raw ones transformed with train stats
	for i, pt := range test.Points() {
		raw := test.RawPoints()[i]
		for j := range pt {
			want := (raw[j] - std.Mean) / std.Std
			if math.Abs(float64(pt[j]-want)) > 1e-6 {
				t.Fatalf("test point %d coordinate %d: got %v want %v", i, j, pt[j], want)
			}
		}
	}
}

func stats(points [][]float32) (mean, variance float64) {
	var sum float64
	var count int
	for _, p := range points {
		for _, v := range p {
			sum += float64(v)
			count++
		}
	}
	mean = sum / float64(count)
	var sumSq float64
	for _, p := range points {
		for _, v := range p {
			d := float64(v) - mean
			sumSq += d * d
		}
	}
	variance = sumSq / float64(count-1)
	return mean, variance
}

// TestDiskDatasetYield walks a full epoch through the gomlx Dataset interface.
func TestDiskDatasetYield(t *testing.T) {
	ds, err := NewDiskDataset(70, 2)
	if err != nil {
		t.Fatalf("NewDiskDataset error: %v", err)
	}
	ds.BatchSize = 32

	total := 0
	batches := 0
	for {
		_, points, labels, err := ds.Yield()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Yield error: %v", err)
		}
		if len(points) != 1 || len(labels) != 1 {
			t.Fatalf("Yield returned %d point tensors and %d label tensors, want 1 each", len(points), len(labels))
		}
		dims := points[0].Shape().Dimensions
		if len(dims) != 2 || dims[1] != 2 {
			t.Fatalf("unexpected point tensor dims: %v", dims)
		}
		total += dims[0]
		batches++
	}
	if total != 70 {
		t.Fatalf("epoch yielded %d examples, want 70", total)
	}
	if batches != 3 {
		t.Fatalf("epoch yielded %d batches, want 3", batches)
	}

	// After Restart the dataset serves a fresh epoch.
	if err := ds.Restart(); err != nil {
		t.Fatalf("Restart error: %v", err)
	}
	_, points, _, err := ds.Yield()
	if err != nil {
		t.Fatalf("Yield after Restart error: %v", err)
	}
	if got := points[0].Shape().Dimensions[0]; got != 32 {
		t.Fatalf("first batch after Restart has %d examples, want 32", got)
	}
}
