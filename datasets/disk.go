package datasets

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// DefaultN is the number of points generated per split when no explicit
// count is requested.
const DefaultN = 1000

// DiskRadius2 is the squared radius 1/(2*pi) of the labeling disk. A disk
// with this squared radius has area 1/2, so about half of the uniformly
// sampled points land inside it.
const DiskRadius2 = float32(1.0 / (2.0 * math.Pi))

// Disk center coordinates.
const (
	diskCenterX = 0.5
	diskCenterY = 0.5
)

// DiskDataset holds one split of the synthetic disk-membership dataset.
// Points are sampled uniformly on [0,1]^2 and labeled by whether they fall
// inside the disk of area 1/2 centered at (0.5, 0.5).
type DiskDataset struct {
	// BatchSize for yielding batches
	BatchSize int

	// points holds the working coordinates. They start out equal to raw and
	// are rescaled in place by Standardizer.Apply.
	points [][]float32

	// raw keeps the coordinates exactly as sampled, before standardization,
	// for plotting.
	raw [][]float32

	// labels holds the one-hot rows aligned with points.
	labels [][]float32

	// classes holds the integer class per point (0 or 1), aligned with points.
	classes []int

	// Random generator for shuffling
	rand *rand.Rand

	// cursor tracks the next example Yield will serve.
	cursor int
}

// NewDiskDataset samples n labeled points using the given seed. A zero seed
// uses a time-based one.
func NewDiskDataset(n int, seed int64) (*DiskDataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("dataset size must be positive, got %d", n)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	points := make([][]float32, n)
	raw := make([][]float32, n)
	classes := make([]int, n)
	labels := make([][]float32, n)
	for i := 0; i < n; i++ {
		x := rng.Float32()
		y := rng.Float32()
		points[i] = []float32{x, y}
		raw[i] = []float32{x, y}

		dx := x - diskCenterX
		dy := y - diskCenterY
		if dx*dx+dy*dy < DiskRadius2 {
			classes[i] = 1
		}

		// The disk task has exactly two classes, so label rows are always
		// two columns wide even when a small sample only observes one class.
		row := make([]float32, 2)
		row[classes[i]] = 1
		labels[i] = row
	}

	return &DiskDataset{
		BatchSize: 32,
		points:    points,
		raw:       raw,
		labels:    labels,
		classes:   classes,
		rand:      rng,
	}, nil
}

// LoadSplits generates the train and test splits, fits a Standardizer on the
// training coordinates only and applies it to both splits in place. The
// returned Standardizer holds the train statistics used.
func LoadSplits(n int, seed int64) (train, test *DiskDataset, std *Standardizer, err error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	train, err = NewDiskDataset(n, seed)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate training split: %w", err)
	}
	test, err = NewDiskDataset(n, seed+1)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate test split: %w", err)
	}
	std, err = FitStandardizer(train.points)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fit standardizer: %w", err)
	}
	std.Apply(train.points)
	std.Apply(test.points)
	return train, test, std, nil
}

// Len returns the number of points in the split.
func (d *DiskDataset) Len() int {
	return len(d.points)
}

// Example returns a single point and its one-hot label by index.
func (d *DiskDataset) Example(i int) (point []float32, label []float32, err error) {
	if i < 0 || i >= len(d.points) {
		return nil, nil, fmt.Errorf("index %d out of range", i)
	}
	return d.points[i], d.labels[i], nil
}

// Batch returns points and one-hot labels for the provided indices.
func (d *DiskDataset) Batch(indices []int) (points [][]float32, labels [][]float32, err error) {
	points = make([][]float32, len(indices))
	labels = make([][]float32, len(indices))
	for bi, idx := range indices {
		if idx < 0 || idx >= len(d.points) {
			return nil, nil, fmt.Errorf("batch index %d out of range", idx)
		}
		points[bi] = d.points[idx]
		labels[bi] = d.labels[idx]
	}
	return points, labels, nil
}

// Classes returns the integer class per point, aligned with Points.
func (d *DiskDataset) Classes() []int {
	return d.classes
}

// Points returns the working (possibly standardized) coordinates.
func (d *DiskDataset) Points() [][]float32 {
	return d.points
}

// RawPoints returns the coordinates as sampled, before standardization.
// Useful for plotting the dataset on its original [0,1]^2 domain.
func (d *DiskDataset) RawPoints() [][]float32 {
	return d.raw
}

// Shuffle shuffles the order of examples, keeping points, raw coordinates,
// labels and classes aligned.
func (d *DiskDataset) Shuffle(seed int64) {
	d.rand.Seed(seed)
	d.rand.Shuffle(len(d.points), func(i, j int) {
		d.points[i], d.points[j] = d.points[j], d.points[i]
		d.raw[i], d.raw[j] = d.raw[j], d.raw[i]
		d.labels[i], d.labels[j] = d.labels[j], d.labels[i]
		d.classes[i], d.classes[j] = d.classes[j], d.classes[i]
	})
}

// Tensors reads a batch of examples and returns them as gomlx tensors.
func (d *DiskDataset) Tensors(indices []int) (points *tensors.Tensor, labels *tensors.Tensor, err error) {
	pts, labs, err := d.Batch(indices)
	if err != nil {
		return nil, nil, err
	}

	flat, err := MakeBatchFlat(pts, labs)
	if err != nil {
		return nil, nil, err
	}

	return flat.ToGomlxTensors()
}

// Name returns the name of the dataset.
func (d *DiskDataset) Name() string {
	return "DiskDataset"
}

// Yield returns the next batch of data for the gomlx Dataset interface.
// Batch size is determined by the BatchSize field. Returns io.EOF once the
// epoch is exhausted; Restart resets it.
func (d *DiskDataset) Yield() (spec any, points []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if d.cursor >= len(d.points) {
		return nil, nil, nil, io.EOF
	}
	end := d.cursor + d.BatchSize
	if end > len(d.points) {
		end = len(d.points)
	}
	indices := make([]int, 0, end-d.cursor)
	for i := d.cursor; i < end; i++ {
		indices = append(indices, i)
	}
	d.cursor = end

	in, la, err := d.Tensors(indices)
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, []*tensors.Tensor{in}, []*tensors.Tensor{la}, nil
}

// Restart resets the dataset for a new epoch.
func (d *DiskDataset) Restart() error {
	d.cursor = 0
	return nil
}
