package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Noofbiz/diskClass/datasets"
	"github.com/Noofbiz/diskClass/simple"
	"github.com/Noofbiz/diskClass/viz"
)

func main() {
	// CLI flags
	numPoints := flag.Int("n", datasets.DefaultN, "number of points to generate per split")
	outDir := flag.String("out", "fig", "output directory for generated plots")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	plotData := flag.Bool("plot-data", false, "plot the train/test datasets before standardization")

	// Training tunables for the simple model
	hidden := flag.String("hidden", "64,32", "comma-separated hidden layer sizes")
	optimizer := flag.String("optimizer", "adam", "optimizer to use for training: 'adam' or 'sgd'")
	learningRate := flag.Float64("learning-rate", 0.005, "learning rate for training")
	epochs := flag.Int("epochs", 25, "number of training epochs")
	batchSize := flag.Int("batch-size", 32, "training batch size")
	clipNorm := flag.Float64("clip-norm", 5.0, "gradient clipping norm (0 disables)")

	flag.Parse()

	hiddenSizes, err := parseHiddenSizes(*hidden)
	if err != nil {
		log.Fatalf("invalid -hidden value %q: %v", *hidden, err)
	}

	// Generate both splits and standardize them with train statistics.
	train, test, std, err := datasets.LoadSplits(*numPoints, *seed)
	if err != nil {
		log.Fatalf("failed to generate dataset: %v", err)
	}
	log.Printf("Generated %d train and %d test points (standardized with mean=%.4f std=%.4f)",
		train.Len(), test.Len(), std.Mean, std.Std)

	if *plotData {
		splits := []struct {
			name string
			ds   *datasets.DiskDataset
		}{
			{"train", train},
			{"test", test},
		}
		for _, split := range splits {
			path := filepath.Join(*outDir, split.name+".png")
			if err := viz.PlotDataset(split.ds.RawPoints(), split.ds.Classes(), path); err != nil {
				log.Fatalf("failed to plot %s data: %v", split.name, err)
			}
			log.Printf("Plot of %s data saved under %s", split.name, path)
		}
	}

	// Create and train the classifier.
	cfg := simple.Config{
		HiddenSizes:  hiddenSizes,
		LearningRate: *learningRate,
		Epochs:       *epochs,
		BatchSize:    *batchSize,
		Seed:         *seed,
		Optimizer:    *optimizer,
		ClipNorm:     float32(*clipNorm),
	}
	model, err := simple.NewModel(cfg)
	if err != nil {
		log.Fatalf("failed to create model: %v", err)
	}

	start := time.Now()
	log.Printf("Training on %d examples (epochs=%d, batch=%d, optimizer=%s)...",
		train.Len(), cfg.Epochs, cfg.BatchSize, cfg.Optimizer)
	losses, err := model.TrainWithDataset(train)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}
	log.Printf("Training completed in %v (final loss %.6f)", time.Since(start), losses[len(losses)-1])

	// Evaluate on the test split.
	pred, err := model.PredictClasses(test.Points())
	if err != nil {
		log.Fatalf("model prediction failed: %v", err)
	}
	truth := test.Classes()
	correct := 0
	for i := range pred {
		if pred[i] == truth[i] {
			correct++
		}
	}
	log.Printf("Test accuracy: %d/%d (%.1f%%)", correct, len(pred), 100*float64(correct)/float64(len(pred)))

	// Training plots: loss curve, confusion matrix, prediction scatter.
	lossPath := filepath.Join(*outDir, "loss.png")
	if err := viz.PlotLoss(losses, lossPath); err != nil {
		log.Fatalf("failed to plot training loss: %v", err)
	}
	log.Printf("Plot of training loss saved under %s", lossPath)

	counts, err := viz.Confusion(pred, truth)
	if err != nil {
		log.Fatalf("failed to compute confusion matrix: %v", err)
	}
	confPath := filepath.Join(*outDir, "confmat.png")
	if err := viz.PlotConfusion(counts, confPath); err != nil {
		log.Fatalf("failed to plot confusion matrix: %v", err)
	}
	log.Printf("Plot of confusion matrix saved under %s", confPath)

	predPath := filepath.Join(*outDir, "predictions.png")
	if err := viz.PlotPredictions(test.Points(), pred, truth, predPath); err != nil {
		log.Fatalf("failed to plot test predictions: %v", err)
	}
	log.Printf("Plot of test predictions saved under %s", predPath)
}

// parseHiddenSizes parses a comma-separated list like "64,32" into layer sizes.
func parseHiddenSizes(s string) ([]int, error) {
	var sizes []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, err
		}
		if v <= 0 {
			return nil, fmt.Errorf("layer size must be positive, got %d", v)
		}
		sizes = append(sizes, v)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no layer sizes given")
	}
	return sizes, nil
}
