package main

// Example command that demonstrates generating the synthetic disk dataset
// and converting small batches into gomlx tensors using the helpers provided
// in the package.
//
// Usage:
//   go run ./example

import (
	"fmt"
	"log"

	"github.com/Noofbiz/diskClass/datasets"
)

func main() {
	// Generate both splits with a fixed seed so runs are reproducible.
	train, test, std, err := datasets.LoadSplits(datasets.DefaultN, 42)
	if err != nil {
		log.Fatalf("failed to generate disk dataset: %v", err)
	}
	fmt.Printf("Generated %d train and %d test points\n", train.Len(), test.Len())
	fmt.Printf("Standardized with train statistics: mean=%.4f std=%.4f\n", std.Mean, std.Std)

	// Prepare a small batch (first N examples)
	n := min(8, train.Len())
	indices := make([]int, n)
	for i := range n {
		indices[i] = i
	}

	fmt.Printf("Loading batch of %d examples...\n", n)
	points, labels, err := train.Batch(indices)
	if err != nil {
		log.Fatalf("failed to build batch: %v", err)
	}

	// Convert to flat contiguous buffers and then to gomlx tensors
	flat, err := datasets.MakeBatchFlat(points, labels)
	if err != nil {
		log.Fatalf("failed to make batch flat: %v", err)
	}

	inT, laT, err := flat.ToGomlxTensors()
	if err != nil {
		log.Fatalf("failed to convert batch to gomlx tensors: %v", err)
	}

	// We don't depend on any particular tensor API here; just show we have tensors.
	fmt.Printf("Created tensors: points=%T labels=%T\n", inT, laT)
	fmt.Printf("  Point shape: [%d, %d]\n", flat.BatchSize, flat.PointDim)
	fmt.Printf("  Label shape: [%d, %d]\n", flat.BatchSize, flat.LabelDim)

	// Show first example's data
	if len(points) > 0 {
		fmt.Printf("  First example point: %v\n", points[0])
		fmt.Printf("  First example label: %v\n", labels[0])
	}

	fmt.Println("\nExample completed successfully!")
}
