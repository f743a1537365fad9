package worker

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/avelarq/neo-tracker/internal/jobs"
)

// Renderer turns a filtered series into the job's output artifact. It is an
// interface so the plotting backend can change without touching the job
// protocol.
type Renderer interface {
	Render(job *jobs.Job, series *Series) ([]byte, error)
}

// PlotRenderer renders PNG plots with gonum/plot.
type PlotRenderer struct{}

var _ Renderer = PlotRenderer{}

// Render produces the artifact for the job's kind.
func (PlotRenderer) Render(job *jobs.Job, series *Series) ([]byte, error) {
	switch job.Kind {
	case jobs.KindDistanceVelocity:
		return renderDistanceVelocity(job, series)
	case jobs.KindMonthly:
		return renderMonthly(job, series)
	default:
		return nil, fmt.Errorf("%w: %q", jobs.ErrUnknownKind, job.Kind)
	}
}

// renderDistanceVelocity plots close-approach distance against relative
// velocity for every record in range.
func renderDistanceVelocity(job *jobs.Job, series *Series) ([]byte, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("NEO Close Approach Distance vs Relative Velocity: %s to %s", job.Start, job.End)
	p.X.Label.Text = "Close Approach Distance (AU)"
	p.Y.Label.Text = "Relative Velocity (km/s)"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, series.Len())
	for i := range pts {
		pts[i].X = series.Distances[i]
		pts[i].Y = series.Velocities[i]
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(2.5)
	scatter.GlyphStyle.Color = color.RGBA{R: 0x44, G: 0x7c, B: 0x69, A: 0xff}
	p.Add(scatter)

	return encodePNG(p)
}

// renderMonthly plots approaches across the days of a single month: point
// radius scales with normalized magnitude, shade with rarity.
func renderMonthly(job *jobs.Job, series *Series) ([]byte, error) {
	start, err := time.Parse(jobs.DateLayout, job.Start)
	if err != nil {
		return nil, fmt.Errorf("malformed start date: %w", err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("NEOs Approaching %d/%d", start.Month(), start.Year())
	p.X.Label.Text = "Day of Month"
	p.Y.Label.Text = "Relative Velocity (km/s)"
	p.X.Min, p.X.Max = 0, 31
	p.Y.Min, p.Y.Max = 0, 30
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, series.Len())
	for i := range pts {
		pts[i].X = float64(series.Days[i])
		pts[i].Y = series.Velocities[i]
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}

	minMag, maxMag := bounds(series.Magnitudes)
	minRar, maxRar := bounds(series.Rarities)

	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		radius := vg.Points(2)
		if maxMag > minMag {
			radius = vg.Points(2 + 6*(series.Magnitudes[i]-minMag)/(maxMag-minMag))
		}
		shade := 0.0
		if maxRar > minRar {
			shade = (series.Rarities[i] - minRar) / (maxRar - minRar)
		}
		return draw.GlyphStyle{
			Color:  color.RGBA{R: uint8(0x44 + shade*0x99), G: 0x60, B: uint8(0xa0 - shade*0x60), A: 0xff},
			Radius: radius,
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(scatter)

	return encodePNG(p)
}

func bounds(values []float64) (min, max float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func encodePNG(p *plot.Plot) ([]byte, error) {
	writer, err := p.WriterTo(12*vg.Inch, 7*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create png writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
