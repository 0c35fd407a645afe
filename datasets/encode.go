package datasets

import (
	"fmt"
	"math"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// OneHot encodes an integer class vector as an indicator matrix. The matrix
// width is the number of distinct observed classes, so every label must lie
// in [0, distinct). Each returned row contains a single 1.
func OneHot(labels []int) ([][]float32, error) {
	distinct := make(map[int]bool)
	for _, label := range labels {
		distinct[label] = true
	}
	numClasses := len(distinct)

	encoded := make([][]float32, len(labels))
	for i, label := range labels {
		if label < 0 || label >= numClasses {
			return nil, fmt.Errorf("label %d out of range for %d observed classes", label, numClasses)
		}
		row := make([]float32, numClasses)
		row[label] = 1
		encoded[i] = row
	}
	return encoded, nil
}

// Standardizer holds a single scalar mean and standard deviation computed
// over all coordinates of the training split.
type Standardizer struct {
	Mean float32
	Std  float32
}

// FitStandardizer computes the global mean and sample (n-1) standard
// deviation over every coordinate of the given point set.
func FitStandardizer(points [][]float32) (*Standardizer, error) {
	var sum float64
	var count int
	for _, p := range points {
		for _, v := range p {
			sum += float64(v)
			count++
		}
	}
	if count < 2 {
		return nil, fmt.Errorf("need at least 2 coordinates to fit standardizer, got %d", count)
	}
	mean := sum / float64(count)

	var sumSq float64
	for _, p := range points {
		for _, v := range p {
			d := float64(v) - mean
			sumSq += d * d
		}
	}
	std := math.Sqrt(sumSq / float64(count-1))

	return &Standardizer{Mean: float32(mean), Std: float32(std)}, nil
}

// Apply rescales every coordinate in place as (x-mean)/std. A zero Std is
// not guarded; it yields IEEE infinities.
func (s *Standardizer) Apply(points [][]float32) {
	for _, p := range points {
		for i := range p {
			p[i] = (p[i] - s.Mean) / s.Std
		}
	}
}

// BatchFlat stores a batch in flat contiguous buffers
type BatchFlat struct {
	Points    []float32
	Labels    []float32
	BatchSize int
	PointDim  int
	LabelDim  int
}

// MakeBatchFlat flattens a batch into contiguous buffers
func MakeBatchFlat(points, labels [][]float32) (*BatchFlat, error) {
	if len(points) != len(labels) {
		return nil, fmt.Errorf("points and labels batch sizes don't match: %d != %d", len(points), len(labels))
	}
	if len(points) == 0 {
		return &BatchFlat{BatchSize: 0, PointDim: 0, LabelDim: 0}, nil
	}

	batchSize := len(points)
	pointDim := len(points[0])
	labelDim := len(labels[0])

	flatPoints := make([]float32, batchSize*pointDim)
	flatLabels := make([]float32, batchSize*labelDim)

	for i := range batchSize {
		if len(points[i]) != pointDim {
			return nil, fmt.Errorf("inconsistent point dimensions at example %d: expected %d, got %d",
				i, pointDim, len(points[i]))
		}
		if len(labels[i]) != labelDim {
			return nil, fmt.Errorf("inconsistent label dimensions at example %d: expected %d, got %d",
				i, labelDim, len(labels[i]))
		}
		copy(flatPoints[i*pointDim:], points[i])
		copy(flatLabels[i*labelDim:], labels[i])
	}

	return &BatchFlat{
		Points:    flatPoints,
		Labels:    flatLabels,
		BatchSize: batchSize,
		PointDim:  pointDim,
		LabelDim:  labelDim,
	}, nil
}

// ToGomlxTensors converts BatchFlat to gomlx tensors
func (b *BatchFlat) ToGomlxTensors() (*tensors.Tensor, *tensors.Tensor, error) {
	// gomlx cannot infer inner dimensions from an empty slice, so an empty
	// batch is rejected up front.
	if b.BatchSize == 0 || b.PointDim == 0 || b.LabelDim == 0 {
		return nil, nil, fmt.Errorf("cannot convert empty batch to tensors (batch=%d, point dim=%d, label dim=%d)",
			b.BatchSize, b.PointDim, b.LabelDim)
	}
	// Reshape flat data into 2D slices
	points := make([][]float32, b.BatchSize)
	labels := make([][]float32, b.BatchSize)
	for i := range b.BatchSize {
		points[i] = b.Points[i*b.PointDim : (i+1)*b.PointDim]
		labels[i] = b.Labels[i*b.LabelDim : (i+1)*b.LabelDim]
	}
	inT := tensors.FromAnyValue(points)
	labT := tensors.FromAnyValue(labels)
	return inT, labT, nil
}
