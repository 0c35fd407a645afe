package viz

import (
	"fmt"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Confusion counts predicted-vs-true classes into a 2x2 matrix indexed as
// counts[predicted][true]. The entries sum to len(pred).
func Confusion(pred, truth []int) ([2][2]int, error) {
	var counts [2][2]int
	if len(pred) != len(truth) {
		return counts, fmt.Errorf("pred and truth lengths don't match: %d != %d", len(pred), len(truth))
	}
	for i := range pred {
		if pred[i] < 0 || pred[i] > 1 {
			return counts, fmt.Errorf("predicted class %d at index %d outside {0,1}", pred[i], i)
		}
		if truth[i] < 0 || truth[i] > 1 {
			return counts, fmt.Errorf("true class %d at index %d outside {0,1}", truth[i], i)
		}
		counts[pred[i]][truth[i]]++
	}
	return counts, nil
}

// confGrid adapts a 2x2 count matrix to plotter.GridXYZ. Columns are true
// classes, rows are predicted classes.
type confGrid [2][2]int

func (g confGrid) Dims() (c, r int)   { return 2, 2 }
func (g confGrid) X(c int) float64    { return float64(c) }
func (g confGrid) Y(r int) float64    { return float64(r) }
func (g confGrid) Z(c, r int) float64 { return float64(g[r][c]) }

// PlotConfusion renders the 2x2 confusion counts as a heatmap with the count
// written in each cell: X axis is the true class, Y axis the predicted class.
func PlotConfusion(counts [2][2]int, path string) error {
	p := plot.New()
	p.X.Label.Text = "True Class"
	p.Y.Label.Text = "Predicted Class"

	hm := plotter.NewHeatMap(confGrid(counts), palette.Heat(12, 1))
	p.Add(hm)

	// one count label centered in each cell
	var xys plotter.XYs
	var texts []string
	for pr := 0; pr < 2; pr++ {
		for tr := 0; tr < 2; tr++ {
			xys = append(xys, plotter.XY{X: float64(tr), Y: float64(pr)})
			texts = append(texts, strconv.Itoa(counts[pr][tr]))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	ticks := []plot.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)

	return save(p, 6*vg.Inch, 6*vg.Inch, path)
}
