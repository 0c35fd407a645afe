// Package viz renders the diagnostic plots for the disk-membership training
// exercise: dataset scatters, the training loss curve, the test confusion
// matrix and the scatter of correct vs. incorrect test predictions. All
// plots are written as PNG files.
package viz

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	class0Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	class1Color = color.RGBA{R: 20, G: 80, B: 200, A: 255}
	// faded variants used for correctly predicted points so errors stand out
	class0Faded = color.RGBA{R: 200, G: 30, B: 30, A: 60}
	class1Faded = color.RGBA{R: 20, G: 80, B: 200, A: 60}
	errorColor  = color.RGBA{A: 255}
)

// PlotDataset scatter-plots 2-D points colored by class (red for class 0,
// blue for class 1) and saves the result to path.
func PlotDataset(points [][]float32, classes []int, path string) error {
	if len(points) != len(classes) {
		return fmt.Errorf("points and classes lengths don't match: %d != %d", len(points), len(classes))
	}

	var class0, class1 plotter.XYs
	for i, pt := range points {
		if len(pt) < 2 {
			return fmt.Errorf("point %d has dimension %d, want 2", i, len(pt))
		}
		xy := plotter.XY{X: float64(pt[0]), Y: float64(pt[1])}
		if classes[i] == 0 {
			class0 = append(class0, xy)
		} else {
			class1 = append(class1, xy)
		}
	}

	p := plot.New()
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	s0, err := plotter.NewScatter(class0)
	if err != nil {
		return err
	}
	s0.GlyphStyle.Color = class0Color
	s0.GlyphStyle.Radius = vg.Points(1.8)
	p.Add(s0)
	p.Legend.Add("class 0", s0)

	s1, err := plotter.NewScatter(class1)
	if err != nil {
		return err
	}
	s1.GlyphStyle.Color = class1Color
	s1.GlyphStyle.Radius = vg.Points(1.8)
	p.Add(s1)
	p.Legend.Add("class 1", s1)

	return save(p, 6*vg.Inch, 6*vg.Inch, path)
}

// PlotLoss draws the per-epoch training loss as a dashed black line (epochs
// are 1-based on the X axis) and saves the result to path.
func PlotLoss(losses []float64, path string) error {
	if len(losses) == 0 {
		return fmt.Errorf("no losses to plot")
	}

	xys := make(plotter.XYs, len(losses))
	for i, l := range losses {
		xys[i] = plotter.XY{X: float64(i + 1), Y: l}
	}

	p := plot.New()
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = "Loss"

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = color.Black
	line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	p.Add(line, plotter.NewGrid())

	return save(p, 8*vg.Inch, 6*vg.Inch, path)
}

// PlotPredictions scatter-plots test points split by prediction outcome:
// correctly predicted class-0 points faded red, correctly predicted class-1
// points faded blue, and every mispredicted point black.
func PlotPredictions(points [][]float32, pred, truth []int, path string) error {
	if len(points) != len(pred) || len(points) != len(truth) {
		return fmt.Errorf("points/pred/truth lengths don't match: %d/%d/%d", len(points), len(pred), len(truth))
	}

	var correct0, correct1, errs plotter.XYs
	for i, pt := range points {
		if len(pt) < 2 {
			return fmt.Errorf("point %d has dimension %d, want 2", i, len(pt))
		}
		xy := plotter.XY{X: float64(pt[0]), Y: float64(pt[1])}
		switch {
		case pred[i] != truth[i]:
			errs = append(errs, xy)
		case truth[i] == 0:
			correct0 = append(correct0, xy)
		default:
			correct1 = append(correct1, xy)
		}
	}

	p := plot.New()
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	c0, err := plotter.NewScatter(correct0)
	if err != nil {
		return err
	}
	c0.GlyphStyle.Color = class0Faded
	c0.GlyphStyle.Radius = vg.Points(1.8)
	p.Add(c0)
	p.Legend.Add("class 0", c0)

	c1, err := plotter.NewScatter(correct1)
	if err != nil {
		return err
	}
	c1.GlyphStyle.Color = class1Faded
	c1.GlyphStyle.Radius = vg.Points(1.8)
	p.Add(c1)
	p.Legend.Add("class 1", c1)

	es, err := plotter.NewScatter(errs)
	if err != nil {
		return err
	}
	es.GlyphStyle.Color = errorColor
	es.GlyphStyle.Radius = vg.Points(2.2)
	p.Add(es)
	p.Legend.Add("errors", es)

	return save(p, 6*vg.Inch, 6*vg.Inch, path)
}

// save ensures the parent directory exists and writes the plot to path.
func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("failed to save plot to %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	// Attempt to create directory if it doesn't exist (silently succeed if present).
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
