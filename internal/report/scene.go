package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"pathPlanner/internal/planner"
	"pathPlanner/internal/sim"
)

// circleSegments is the polygon resolution used to draw obstacle circles.
const circleSegments = 64

var (
	obstacleFill  = color.RGBA{R: 128, G: 128, B: 128, A: 150}
	plannedColor  = color.RGBA{B: 255, A: 255}
	executedColor = color.RGBA{R: 255, G: 140, A: 255}
	startColor    = color.RGBA{G: 160, A: 255}
	goalColor     = color.RGBA{R: 220, A: 255}
)

// RenderScene writes a PNG with the obstacles at their base centers, the planned
// path, the executed trace (optional) and the start/goal markers.
func RenderScene(file string, sess *planner.Session, trace *sim.Trace) error {
	if sess == nil || sess.Scene == nil {
		return fmt.Errorf("no session to render")
	}
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	sc := sess.Scene
	p := plot.New()
	if sess.Result.Found() {
		p.Title.Text = fmt.Sprintf("Path Cost: %.2f @ Iter %d", sess.Result.Cost, sess.Result.Iteration)
	} else {
		p.Title.Text = "No valid path found"
	}
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(plotter.NewGrid())

	for i, o := range sc.Field.Obstacles() {
		poly, err := plotter.NewPolygon(circleXYs(o.Center, o.Radius))
		if err != nil {
			return fmt.Errorf("obstacle %d: %w", i, err)
		}
		poly.Color = obstacleFill
		poly.LineStyle.Width = 0
		p.Add(poly)
		if i == 0 {
			p.Legend.Add("Obstacle", poly)
		}
	}

	if sess.Result.Found() {
		line, err := plotter.NewLine(lineXYs(sess.Result.Path))
		if err != nil {
			return fmt.Errorf("planned path: %w", err)
		}
		line.Color = plannedColor
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("Path", line)
	}

	if trace != nil && len(trace.Visited) > 1 {
		line, err := plotter.NewLine(lineXYs(trace.Visited))
		if err != nil {
			return fmt.Errorf("executed path: %w", err)
		}
		line.Color = executedColor
		line.Width = vg.Points(1)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("Executed (%s, replans=%d)", trace.Outcome, len(trace.Replans)), line)
	}

	for _, m := range []struct {
		name string
		pt   orb.Point
		c    color.Color
	}{
		{"Start", sc.Start, startColor},
		{"End", sc.End, goalColor},
	} {
		s, err := plotter.NewScatter(plotter.XYs{{X: m.pt.X(), Y: m.pt.Y()}})
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = m.c
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(4)
		p.Add(s)
		p.Legend.Add(m.name, s)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(6*vg.Inch, 6*vg.Inch, file); err != nil {
		return fmt.Errorf("save scene plot: %w", err)
	}
	return nil
}

func circleXYs(c orb.Point, r float64) plotter.XYs {
	pts := make(plotter.XYs, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = plotter.XY{X: c.X() + r*math.Cos(a), Y: c.Y() + r*math.Sin(a)}
	}
	return pts
}

func lineXYs(ls orb.LineString) plotter.XYs {
	pts := make(plotter.XYs, len(ls))
	for i, p := range ls {
		pts[i] = plotter.XY{X: p.X(), Y: p.Y()}
	}
	return pts
}
