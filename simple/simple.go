package simple

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Config holds configurable hyperparameters for the MLP model and training.
type Config struct {
	// HiddenSizes is the list of hidden layer sizes. Example: []int{64, 32}
	// If empty, a single hidden layer of size 64 will be used.
	HiddenSizes []int

	// InputDim is the dimensionality of the input feature vector. If zero,
	// the 2-D point dimension (2) will be used by NewModel.
	InputDim int

	// LearningRate used by the optimizer (SGD or Adam).
	LearningRate float64

	// Epochs to train for (default if 0 will be set by NewModel to 10).
	Epochs int

	// BatchSize for mini-batch updates (default if 0 will be set by NewModel to 8).
	BatchSize int

	// Seed controls RNG for weight init and shuffling. If zero, time-based seed is used.
	Seed int64

	// Optimizer selects the optimizer to use: "adam" or "sgd". Default: "adam".
	Optimizer string

	// Adam hyperparameters (used when Optimizer == "adam"; defaults below if zero).
	Beta1   float64
	Beta2   float64
	Epsilon float64

	// ClipNorm is the per-layer gradient clipping threshold. Zero disables clipping.
	ClipNorm float32
}

// Dataset is the minimal interface this package requires from a classification
// dataset. This keeps simple decoupled from the concrete datasets package while
// allowing callers to pass the repository's DiskDataset (it matches these methods).
type Dataset interface {
	Len() int
	// Batch returns points and one-hot labels for the provided global indices.
	// Points: [][]float32 where each point has dimension 2 (x,y).
	// Labels: [][]float32 where each label is a one-hot row of length 2.
	Batch(indices []int) ([][]float32, [][]float32, error)
}

// Model is a small configurable MLP used for classifying 2-D points by disk
// membership. It uses a lightweight, self-contained trainer implemented in
// pure Go so tests run quickly and deterministically: ReLU hidden layers, a
// linear 2-unit output and a mean-squared-error loss against one-hot targets.
// The predicted class of a point is the argmax of the two output units.
type Model struct {
	// Config used for training / initialization.
	Config Config

	// layerSizes includes input size, hidden sizes, then output size.
	layerSizes []int

	// weights[l] is a matrix of shape [out][in] for layer l -> l+1
	weights [][][]float32

	// biases[l] is a vector of length out for layer l -> l+1
	biases [][]float32

	// Adam moment estimates, allocated lazily on the first Adam update.
	adamMW [][][]float32
	adamVW [][][]float32
	adamMB [][]float32
	adamVB [][]float32
	adamT  int

	// rng used for weight initialization and shuffling
	rng *rand.Rand
}

// NewModel creates a new Model instance with the provided configuration.
// It initializes weights (small random values) and is ready to train.
func NewModel(cfg Config) (*Model, error) {
	// defaults
	if len(cfg.HiddenSizes) == 0 {
		cfg.HiddenSizes = []int{64}
	}
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.001
	}
	if cfg.Epochs == 0 {
		cfg.Epochs = 10
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 8
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Optimizer == "" {
		cfg.Optimizer = "adam"
	}
	if cfg.Optimizer != "adam" && cfg.Optimizer != "sgd" {
		return nil, errors.New("optimizer must be \"adam\" or \"sgd\"")
	}
	if cfg.Beta1 == 0 {
		cfg.Beta1 = 0.9
	}
	if cfg.Beta2 == 0 {
		cfg.Beta2 = 0.999
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = 1e-8
	}

	m := &Model{
		Config: cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}

	// fixed output dim for the two-class disk labels (input dim configurable)
	inputDim := cfg.InputDim
	if inputDim == 0 {
		inputDim = 2
	}
	const outputDim = 2

	// build layer sizes
	sizes := make([]int, 0, 2+len(cfg.HiddenSizes))
	sizes = append(sizes, inputDim)
	sizes = append(sizes, cfg.HiddenSizes...)
	sizes = append(sizes, outputDim)
	m.layerSizes = sizes

	// allocate weights and biases
	L := len(sizes) - 1
	m.weights = make([][][]float32, L)
	m.biases = make([][]float32, L)
	for l := 0; l < L; l++ {
		in := sizes[l]
		out := sizes[l+1]
		mat := make([][]float32, out)
		for j := 0; j < out; j++ {
			row := make([]float32, in)
			for i := 0; i < in; i++ {
				// Xavier/Glorot uniform initialization heuristic
				limit := float32(math.Sqrt(6.0 / float64(in+out)))
				row[i] = (m.rng.Float32()*2.0 - 1.0) * limit * 0.5
			}
			mat[j] = row
		}
		m.weights[l] = mat
		m.biases[l] = make([]float32, out)
	}

	return m, nil
}

// activationReLU applies ReLU in-place over the slice.
func activationReLU(x []float32) {
	for i := range x {
		if x[i] < 0 {
			x[i] = 0
		}
	}
}

// activationReLUDeriv returns elementwise derivative of ReLU applied to preact.
// derivative is 1 where preact>0, else 0.
func activationReLUDeriv(preact []float32) []float32 {
	d := make([]float32, len(preact))
	for i := range preact {
		if preact[i] > 0 {
			d[i] = 1.0
		}
	}
	return d
}

// forwardSingle performs a forward pass for a single input vector, returning:
// - preActivations: list of pre-activation vectors per layer (len = L)
// - activations: list of activation vectors per layer (len = L+1, activations[0] = input)
// Note: L is number of layers (hidden+output)
func (m *Model) forwardSingle(input []float32) (preActs [][]float32, acts [][]float32, err error) {
	if len(input) != m.layerSizes[0] {
		return nil, nil, errors.New("input has incorrect dimension")
	}
	L := len(m.weights)
	acts = make([][]float32, L+1)
	acts[0] = make([]float32, len(input))
	copy(acts[0], input)

	preActs = make([][]float32, L)
	for l := 0; l < L; l++ {
		inVec := acts[l]
		outDim := len(m.biases[l])
		inDim := len(inVec)
		pre := make([]float32, outDim)
		W := m.weights[l]
		b := m.biases[l]
		for j := 0; j < outDim; j++ {
			sum := float32(0.0)
			row := W[j]
			for i := 0; i < inDim; i++ {
				sum += row[i] * inVec[i]
			}
			sum += b[j]
			pre[j] = sum
		}
		preActs[l] = pre

		// Activation: ReLU for hidden, linear for last layer
		act := make([]float32, outDim)
		copy(act, pre)
		if l < L-1 {
			activationReLU(act)
		}
		acts[l+1] = act
	}
	return preActs, acts, nil
}

// PredictBatch returns model scores for a batch of points.
// It does a purely forward pass (no training). The returned [][]float32 has
// shape [batch][2], one score per class.
func (m *Model) PredictBatch(points [][]float32) ([][]float32, error) {
	out := make([][]float32, len(points))
	for i, in := range points {
		_, acts, err := m.forwardSingle(in)
		if err != nil {
			return nil, err
		}
		// last activation is output
		last := acts[len(acts)-1]
		pred := make([]float32, len(last))
		copy(pred, last)
		out[i] = pred
	}
	return out, nil
}

// PredictClasses returns the argmax class (0 or 1) per point.
func (m *Model) PredictClasses(points [][]float32) ([]int, error) {
	scores, err := m.PredictBatch(points)
	if err != nil {
		return nil, err
	}
	classes := make([]int, len(scores))
	for i, s := range scores {
		best := 0
		for j := 1; j < len(s); j++ {
			if s[j] > s[best] {
				best = j
			}
		}
		classes[i] = best
	}
	return classes, nil
}

// TrainWithDataset trains the model with mini-batch gradient descent and
// returns the mean loss per epoch, in epoch order. The loss is the mean
// squared error between the linear outputs and the one-hot targets.
// Gradients are averaged over the minibatch and applied with the configured
// optimizer (SGD or Adam), with optional per-layer norm clipping.
func (m *Model) TrainWithDataset(ds Dataset) ([]float64, error) {
	if ds == nil {
		return nil, errors.New("dataset is nil")
	}
	n := ds.Len()
	if n == 0 {
		return nil, errors.New("dataset has no examples")
	}

	epochs := m.Config.Epochs
	if epochs <= 0 {
		epochs = 10
	}
	batchSize := m.Config.BatchSize
	if batchSize <= 0 {
		batchSize = 8
	}
	lr := float32(m.Config.LearningRate)
	if lr <= 0 {
		lr = 0.001
	}

	// Build initial index slice
	indices := make([]int, n)
	for i := 0; i < n; i++ {
		indices[i] = i
	}

	losses := make([]float64, 0, epochs)

	// training loop
	for ep := 0; ep < epochs; ep++ {
		// shuffle indices
		m.rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		// per-epoch loss accumulators
		var epochSumSq float64
		var epochCount int

		// iterate minibatches (gradients are accumulated over the minibatch and applied as an averaged update)
		for bstart := 0; bstart < n; bstart += batchSize {
			bend := bstart + batchSize
			if bend > n {
				bend = n
			}
			batchIdx := indices[bstart:bend]

			// fetch the whole minibatch in one call
			inputs, labels, err := ds.Batch(batchIdx)
			if err != nil {
				return nil, err
			}
			batchN := len(inputs)
			if batchN == 0 {
				continue
			}

			// Initialize gradient accumulators (same shape as weights / biases)
			L := len(m.weights)
			gradW := make([][][]float32, L)
			gradB := make([][]float32, L)
			for l := 0; l < L; l++ {
				outDim := len(m.biases[l])
				inDim := len(m.weights[l][0])
				gradW[l] = make([][]float32, outDim)
				for j := 0; j < outDim; j++ {
					gradW[l][j] = make([]float32, inDim)
				}
				gradB[l] = make([]float32, outDim)
			}

			// Accumulate gradients for each example in the batch
			for ex := 0; ex < batchN; ex++ {
				in := inputs[ex]
				la := labels[ex]

				preacts, acts, err := m.forwardSingle(in)
				if err != nil {
					return nil, err
				}

				// dLoss/dOutput = 2*(pred - label)
				outAct := acts[len(acts)-1]
				if len(la) != len(outAct) {
					return nil, fmt.Errorf("label dimension %d does not match output dimension %d", len(la), len(outAct))
				}
				delta := make([]float32, len(outAct))
				for j := 0; j < len(outAct); j++ {
					d := outAct[j] - la[j]
					delta[j] = 2.0 * d
					epochSumSq += float64(d) * float64(d)
					epochCount++
				}

				// Backprop to compute gradients, accumulate into gradW/gradB
				for l := len(m.weights) - 1; l >= 0; l-- {
					inAct := acts[l]
					outDim := len(delta)
					inDim := len(inAct)

					// accumulate bias gradients and weight gradients
					for j := 0; j < outDim; j++ {
						gradB[l][j] += delta[j]
						for i := 0; i < inDim; i++ {
							gradW[l][j][i] += delta[j] * inAct[i]
						}
					}

					// propagate delta to previous layer if needed
					if l > 0 {
						prevLen := len(m.weights[l][0])
						newDelta := make([]float32, prevLen)
						for i := 0; i < prevLen; i++ {
							sum := float32(0.0)
							for j := 0; j < outDim; j++ {
								sum += m.weights[l][j][i] * delta[j]
							}
							newDelta[i] = sum
						}
						deriv := activationReLUDeriv(preacts[l-1])
						for i := 0; i < prevLen; i++ {
							newDelta[i] *= deriv[i]
						}
						delta = newDelta
					}
				}
			}

			// Average gradients over the minibatch, clip, then apply the optimizer.
			bInv := float32(1.0 / float64(batchN))
			for l := 0; l < L; l++ {
				outDim := len(m.biases[l])
				inDim := len(m.weights[l][0])
				for j := 0; j < outDim; j++ {
					gradB[l][j] *= bInv
					for i := 0; i < inDim; i++ {
						gradW[l][j][i] *= bInv
					}
				}
			}
			m.clipGradients(gradW, gradB)
			if m.Config.Optimizer == "sgd" {
				m.applySGD(gradW, gradB, lr)
			} else {
				m.applyAdam(gradW, gradB, lr)
			}
		} // end batches

		losses = append(losses, epochSumSq/float64(epochCount))
	} // end epochs

	return losses, nil
}

// clipGradients rescales each layer's gradients so their joint L2 norm does
// not exceed Config.ClipNorm. A zero or negative ClipNorm disables clipping.
func (m *Model) clipGradients(gradW [][][]float32, gradB [][]float32) {
	clip := m.Config.ClipNorm
	if clip <= 0 {
		return
	}
	for l := range gradW {
		var sumSq float64
		for j := range gradW[l] {
			for i := range gradW[l][j] {
				g := float64(gradW[l][j][i])
				sumSq += g * g
			}
		}
		for j := range gradB[l] {
			g := float64(gradB[l][j])
			sumSq += g * g
		}
		norm := float32(math.Sqrt(sumSq))
		if norm <= clip {
			continue
		}
		scale := clip / norm
		for j := range gradW[l] {
			for i := range gradW[l][j] {
				gradW[l][j][i] *= scale
			}
		}
		for j := range gradB[l] {
			gradB[l][j] *= scale
		}
	}
}

// applySGD applies a plain gradient step.
func (m *Model) applySGD(gradW [][][]float32, gradB [][]float32, lr float32) {
	for l := range m.weights {
		for j := range m.weights[l] {
			m.biases[l][j] -= lr * gradB[l][j]
			for i := range m.weights[l][j] {
				m.weights[l][j][i] -= lr * gradW[l][j][i]
			}
		}
	}
}

// applyAdam applies an Adam step with bias-corrected moment estimates.
func (m *Model) applyAdam(gradW [][][]float32, gradB [][]float32, lr float32) {
	if m.adamMW == nil {
		m.adamMW = zerosLikeWeights(m.weights)
		m.adamVW = zerosLikeWeights(m.weights)
		m.adamMB = zerosLikeBiases(m.biases)
		m.adamVB = zerosLikeBiases(m.biases)
	}
	m.adamT++
	beta1 := m.Config.Beta1
	beta2 := m.Config.Beta2
	eps := m.Config.Epsilon
	corr1 := 1.0 - math.Pow(beta1, float64(m.adamT))
	corr2 := 1.0 - math.Pow(beta2, float64(m.adamT))

	step := func(param, mom, vel *float32, grad float32) {
		g := float64(grad)
		mv := beta1*float64(*mom) + (1-beta1)*g
		vv := beta2*float64(*vel) + (1-beta2)*g*g
		*mom = float32(mv)
		*vel = float32(vv)
		mHat := mv / corr1
		vHat := vv / corr2
		*param -= lr * float32(mHat/(math.Sqrt(vHat)+eps))
	}

	for l := range m.weights {
		for j := range m.weights[l] {
			step(&m.biases[l][j], &m.adamMB[l][j], &m.adamVB[l][j], gradB[l][j])
			for i := range m.weights[l][j] {
				step(&m.weights[l][j][i], &m.adamMW[l][j][i], &m.adamVW[l][j][i], gradW[l][j][i])
			}
		}
	}
}

func zerosLikeWeights(w [][][]float32) [][][]float32 {
	out := make([][][]float32, len(w))
	for l := range w {
		out[l] = make([][]float32, len(w[l]))
		for j := range w[l] {
			out[l][j] = make([]float32, len(w[l][j]))
		}
	}
	return out
}

func zerosLikeBiases(b [][]float32) [][]float32 {
	out := make([][]float32, len(b))
	for l := range b {
		out[l] = make([]float32, len(b[l]))
	}
	return out
}
