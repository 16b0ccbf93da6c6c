package layout

import (
	"bufio"
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"math"
	"os"
	"sync"

	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/llgcode/draw2d/draw2dsvg"
	"github.com/pkg/errors"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

const (
	SizeSVG = 800.0
	SizePNG = 600.0
	margin  = 40.0
)

var (
	ErrNotEnoughPoints = errors.New("not enough points to draw a track")
	ErrNoMetadata      = errors.New("svg file does not have the track metadata")

	mu = sync.Mutex{}
)

// Metadata maps provider coordinates onto the drawing. It is appended to SVG
// files as a trailing XML comment.
type Metadata struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	Scale  float64 `json:"scale"`
	Margin float64 `json:"margin"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Project converts provider coordinates into drawing coordinates. The Y axis
// is flipped so that north stays up.
func (m Metadata) Project(x, y float64) (float64, float64) {
	px := (x-m.MinX)*m.Scale + m.Margin
	py := m.Height - ((y-m.MinY)*m.Scale + m.Margin)
	return px, py
}

func (m Metadata) Rect() image.Rectangle {
	return image.Rect(0, 0, int(math.Ceil(m.Width)), int(math.Ceil(m.Height)))
}

// NewMetadata fits the bounding box of points in a square of size pixels.
func NewMetadata(points []Point, size float64) (Metadata, error) {
	if len(points) < 2 {
		return Metadata{}, ErrNotEnoughPoints
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	spanX, spanY := maxX-minX, maxY-minY
	span := math.Max(spanX, spanY)
	if span == 0 {
		return Metadata{}, ErrNotEnoughPoints
	}
	scale := (size - 2*margin) / span
	return Metadata{
		MinX:   minX,
		MinY:   minY,
		Scale:  scale,
		Margin: margin,
		Width:  spanX*scale + 2*margin,
		Height: spanY*scale + 2*margin,
	}, nil
}

func BuildLayoutPNG(path string, points []Point) (Metadata, error) {
	mu.Lock()
	defer mu.Unlock()
	md, err := NewMetadata(points, SizePNG)
	if err != nil {
		return md, err
	}

	dest := image.NewRGBA(md.Rect())
	gc := draw2dimg.NewGraphicContext(dest)
	gc.SetFillColor(color.RGBA{0x11, 0x11, 0x11, 0xff})
	draw2dkit.Rectangle(gc, 0, 0, md.Width, md.Height)
	gc.Fill()

	drawTrack(gc, points, md, color.RGBA{0xee, 0xee, 0xee, 0xff}, 6)
	return md, draw2dimg.SaveToPngFile(path, dest)
}

func BuildLayoutSVG(path string, points []Point) (Metadata, error) {
	mu.Lock()
	defer mu.Unlock()
	md, err := NewMetadata(points, SizeSVG)
	if err != nil {
		return md, err
	}

	dest := draw2dsvg.NewSvg()
	gc := draw2dsvg.NewGraphicContext(dest)
	drawTrack(gc, points, md, color.RGBA{0x00, 0x00, 0x00, 0xff}, 14)
	if err := draw2dsvg.SaveToSvgFile(path, dest); err != nil {
		return md, err
	}

	jsonBytes, err := json.Marshal(md)
	if err != nil {
		return md, err
	}
	buffer := new(bytes.Buffer)
	if err := json.Compact(buffer, jsonBytes); err != nil {
		return md, err
	}

	// append metadata to svg file as comments in the xml
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return md, err
	}
	defer f.Close()
	_, _ = f.Write([]byte("\n<!--\n"))
	_, _ = f.Write(buffer.Bytes())
	_, err = f.Write([]byte("\n-->"))

	return md, err
}

// ReadSvgMetadata reads back the metadata written by BuildLayoutSVG.
func ReadSvgMetadata(path string) (Metadata, error) {
	var md Metadata
	f, err := os.Open(path)
	if err != nil {
		return md, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lastLine, secondLastLine string
	for scanner.Scan() {
		secondLastLine = lastLine
		lastLine = scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		return md, err
	}
	if secondLastLine == "" || lastLine != "-->" {
		return md, ErrNoMetadata
	}
	if err := json.Unmarshal([]byte(secondLastLine), &md); err != nil {
		return md, errors.Wrap(err, "decoding svg metadata")
	}
	return md, nil
}

func drawTrack(gc draw2d.GraphicContext, points []Point, md Metadata, c color.Color, width float64) {
	gc.Save()
	gc.SetStrokeColor(c)
	gc.SetLineWidth(width)
	gc.SetLineCap(draw2d.RoundCap)
	gc.SetLineJoin(draw2d.RoundJoin)

	for i, p := range points {
		x, y := md.Project(p.X, p.Y)
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
	gc.Close()
	gc.Stroke()
	gc.Restore()
}
