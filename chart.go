package bsm

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/golang/glog"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// CurvePoint is the option valued at one spot level of a sweep.
type CurvePoint struct {
	Spec   OptionSpec
	Spot   float64
	Result PricingResult
	Payoff float64
}

// SweepSpot reprices spec at n evenly spaced spot levels from lo to hi
// inclusive.
func SweepSpot(
	model PricingModel,
	spec OptionSpec,
	lo float64,
	hi float64,
	n int) ([]CurvePoint, error) {

	if n < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 points, got %d", n)
	}
	if !(lo > 0) {
		return nil, newSpecError("spot-from", lo, ErrInvalidPrice)
	}
	if !(hi > lo) {
		return nil, newSpecError("spot-to", hi, ErrInvalidPrice)
	}

	step := (hi - lo) / float64(n-1)
	points := make([]CurvePoint, 0, n)
	for ii := 0; ii < n; ii++ {
		spot := lo + float64(ii)*step
		if ii == n-1 {
			spot = hi
		}
		shifted, err := spec.WithSpot(spot)
		if err != nil {
			return nil, err
		}
		result, err := model.Evaluate(shifted)
		if err != nil {
			return nil, err
		}
		points = append(points, CurvePoint{
			Spec:   shifted,
			Spot:   spot,
			Result: result,
			Payoff: Payoff(spec.Kind(), spot, spec.Strike()),
		})
	}
	return points, nil
}

// RenderPricePNG plots the theoretical price against the expiry payoff. The
// image format follows the file extension.
func RenderPricePNG(points []CurvePoint, title string, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Spot"
	p.Y.Label.Text = "Value"

	price := make(plotter.XYs, len(points))
	payoff := make(plotter.XYs, len(points))
	for ii, point := range points {
		price[ii].X = point.Spot
		price[ii].Y = point.Result.Price
		payoff[ii].X = point.Spot
		payoff[ii].Y = point.Payoff
	}
	if err := plotutil.AddLines(p, "Price", price, "Payoff", payoff); err != nil {
		return err
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		msg := fmt.Sprintf("Saving chart %s failed with error=%s", path, err)
		glog.Error(msg)
		return err
	}
	glog.Infof("Wrote price chart to %s", path)
	return nil
}

// RenderGreeksHTML writes one line chart per Greek into a single HTML page.
func RenderGreeksHTML(points []CurvePoint, title string, path string) error {
	spots := make([]string, len(points))
	for ii, point := range points {
		spots[ii] = fmt.Sprintf("%.2f", point.Spot)
	}

	greeks := []struct {
		name  string
		value func(PricingResult) float64
	}{
		{"Delta", func(r PricingResult) float64 { return r.Delta }},
		{"Gamma", func(r PricingResult) float64 { return r.Gamma }},
		{"Vega", func(r PricingResult) float64 { return r.Vega }},
		{"Theta", func(r PricingResult) float64 { return r.Theta }},
	}

	page := components.NewPage()
	for _, greek := range greeks {
		data := make([]opts.LineData, len(points))
		for ii, point := range points {
			data[ii] = opts.LineData{Value: greek.value(point.Result)}
		}
		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: greek.name, Subtitle: title}),
			charts.WithXAxisOpts(opts.XAxis{Name: "Spot"}),
		)
		line.SetXAxis(spots).AddSeries(greek.name, data)
		page.AddCharts(line)
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := page.Render(file); err != nil {
		msg := fmt.Sprintf("Rendering %s failed with error=%s", path, err)
		glog.Error(msg)
		return err
	}
	glog.Infof("Wrote Greeks chart to %s", path)
	return nil
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
