package datasets

import "github.com/gomlx/gomlx/pkg/core/tensors"

// This package provides the synthetic 2-D classification dataset used by the
// disk-membership training exercise.
//
// DiskDataset
//   - Samples N points uniformly on [0, 1] x [0, 1]
//   - Labels each point 1 if it falls inside the disk of area 1/2 centered at
//     (0.5, 0.5), 0 otherwise
//   - Labels are stored one-hot encoded (two columns, one per class)
//   - Coordinates are standardized in place with statistics fit on the
//     training split; the raw coordinates are kept around for plotting
//
// Notes on gomlx tensors:
//   - Converting batches into gomlx tensors is a small, well-defined step.
//     Batches are first packed into contiguous float32 buffers plus shape
//     metadata (BatchFlat), which convert trivially into gomlx tensors. See
//     ToGomlxTensors.
//
// The dataset implements this interface in order to interact with GoMLX
// training loops and batching utilities.
type Dataset interface {
	Len() int
	Example(i int) (point []float32, label []float32, err error)
	Batch(indices []int) (points [][]float32, labels [][]float32, err error)
	Shuffle(seed int64)

	// To implement gomlx's train.Dataset interface
	Yield() (any, []*tensors.Tensor, []*tensors.Tensor, error)
}
