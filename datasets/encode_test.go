package datasets

import (
	"math"
	"testing"
)

func TestOneHot(t *testing.T) {
	encoded, err := OneHot([]int{0, 1, 1, 0})
	if err != nil {
		t.Fatalf("OneHot error: %v", err)
	}
	want := [][]float32{{1, 0}, {0, 1}, {0, 1}, {1, 0}}
	for i := range want {
		if len(encoded[i]) != 2 {
			t.Fatalf("row %d width %d, want 2", i, len(encoded[i]))
		}
		for j := range want[i] {
			if encoded[i][j] != want[i][j] {
				t.Fatalf("row %d: got %v want %v", i, encoded[i], want[i])
			}
		}
	}
}

func TestOneHotSizedByObservedClasses(t *testing.T) {
	encoded, err := OneHot([]int{0, 1, 2, 0})
	if err != nil {
		t.Fatalf("OneHot error: %v", err)
	}
	for i, row := range encoded {
		if len(row) != 3 {
			t.Fatalf("row %d width %d, want 3", i, len(row))
		}
		var sum float32
		for _, v := range row {
			sum += v
		}
		if sum != 1 {
			t.Fatalf("row %d sums to %v, want 1", i, sum)
		}
	}
}

func TestOneHotRejectsOutOfRangeLabels(t *testing.T) {
	// two distinct classes observed, but 2 is not a valid index into a
	// two-column indicator
	if _, err := OneHot([]int{0, 2}); err == nil {
		t.Fatal("expected error for non-consecutive labels")
	}
	if _, err := OneHot([]int{-1, 0}); err == nil {
		t.Fatal("expected error for negative label")
	}
}

func TestFitStandardizer(t *testing.T) {
	points := [][]float32{{1, 2}, {3, 4}}
	std, err := FitStandardizer(points)
	if err != nil {
		t.Fatalf("FitStandardizer error: %v", err)
	}
	if math.Abs(float64(std.Mean)-2.5) > 1e-6 {
		t.Fatalf("mean %v, want 2.5", std.Mean)
	}
	// sample std of {1,2,3,4} is sqrt(5/3)
	want := math.Sqrt(5.0 / 3.0)
	if math.Abs(float64(std.Std)-want) > 1e-6 {
		t.Fatalf("std %v, want %v", std.Std, want)
	}
}

func TestFitStandardizerRejectsTooFewCoordinates(t *testing.T) {
	if _, err := FitStandardizer(nil); err == nil {
		t.Fatal("expected error for empty point set")
	}
	if _, err := FitStandardizer([][]float32{{1}}); err == nil {
		t.Fatal("expected error for a single coordinate")
	}
}

func TestStandardizerApplyInPlace(t *testing.T) {
	points := [][]float32{{1, 2}, {3, 4}}
	std, err := FitStandardizer(points)
	if err != nil {
		t.Fatalf("FitStandardizer error: %v", err)
	}
	std.Apply(points)

	mean, variance := stats(points)
	if math.Abs(mean) > 1e-6 {
		t.Fatalf("standardized mean %v not ~0", mean)
	}
	if math.Abs(variance-1) > 1e-5 {
		t.Fatalf("standardized variance %v not ~1", variance)
	}

	// applying train statistics to a different set must reuse them unchanged
	other := [][]float32{{2.5, 2.5}}
	std.Apply(other)
	if other[0][0] != 0 || other[0][1] != 0 {
		t.Fatalf("expected train mean to map to 0, got %v", other[0])
	}
}

func TestMakeBatchFlat(t *testing.T) {
	points := [][]float32{{1, 2}, {3, 4}, {5, 6}}
	labels := [][]float32{{1, 0}, {0, 1}, {0, 1}}
	flat, err := MakeBatchFlat(points, labels)
	if err != nil {
		t.Fatalf("MakeBatchFlat error: %v", err)
	}
	if flat.BatchSize != 3 || flat.PointDim != 2 || flat.LabelDim != 2 {
		t.Fatalf("unexpected flat dims: %+v", flat)
	}
	if flat.Points[2] != 3 || flat.Points[3] != 4 {
		t.Fatalf("flat point buffer not contiguous: %v", flat.Points)
	}

	if _, err := MakeBatchFlat(points, labels[:2]); err == nil {
		t.Fatal("expected error for mismatched batch sizes")
	}
	bad := [][]float32{{1, 2}, {3}}
	if _, err := MakeBatchFlat(bad, labels[:2]); err == nil {
		t.Fatal("expected error for inconsistent point dimensions")
	}
}

func TestBatchFlatToGomlxTensors(t *testing.T) {
	points := [][]float32{{1, 2}, {3, 4}}
	labels := [][]float32{{1, 0}, {0, 1}}
	flat, err := MakeBatchFlat(points, labels)
	if err != nil {
		t.Fatalf("MakeBatchFlat error: %v", err)
	}
	inT, laT, err := flat.ToGomlxTensors()
	if err != nil {
		t.Fatalf("ToGomlxTensors error: %v", err)
	}
	if dims := inT.Shape().Dimensions; len(dims) != 2 || dims[0] != 2 || dims[1] != 2 {
		t.Fatalf("unexpected point tensor dims: %v", dims)
	}
	if dims := laT.Shape().Dimensions; len(dims) != 2 || dims[0] != 2 || dims[1] != 2 {
		t.Fatalf("unexpected label tensor dims: %v", dims)
	}
}

// TestBatchFlatToGomlxTensorsRejectsEmptyBatch verifies an empty batch is
// reported as an error: gomlx cannot build a tensor from an empty slice.
func TestBatchFlatToGomlxTensorsRejectsEmptyBatch(t *testing.T) {
	flat, err := MakeBatchFlat(nil, nil)
	if err != nil {
		t.Fatalf("MakeBatchFlat error: %v", err)
	}
	if _, _, err := flat.ToGomlxTensors(); err == nil {
		t.Fatal("expected error for empty batch")
	}
}
