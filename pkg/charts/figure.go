// Package charts builds plotly.js figures (data, layout and animation frames)
// for the driver comparison views.
package charts

// Figure is marshalled as the argument of Plotly.newPlot.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Frames []Frame `json:"frames,omitempty"`
}

type Trace struct {
	Type         string    `json:"type"`
	Mode         string    `json:"mode,omitempty"`
	Name         string    `json:"name,omitempty"`
	X            []float64 `json:"x"`
	Y            []float64 `json:"y"`
	Text         []string  `json:"text,omitempty"`
	TextPosition string    `json:"textposition,omitempty"`
	HoverText    []string  `json:"hovertext,omitempty"`
	Line         *Line     `json:"line,omitempty"`
	Marker       *Marker   `json:"marker,omitempty"`
	ShowLegend   *bool     `json:"showlegend,omitempty"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type Marker struct {
	Size  float64 `json:"size,omitempty"`
	Color string  `json:"color,omitempty"`
	Line  *Line   `json:"line,omitempty"`
}

// Frame is one state of an animation. Traces lists the indices of the figure
// traces the frame data replaces.
type Frame struct {
	Name   string  `json:"name"`
	Data   []Trace `json:"data"`
	Traces []int   `json:"traces,omitempty"`
}

type Layout struct {
	Title        Title        `json:"title"`
	XAxis        Axis         `json:"xaxis"`
	YAxis        Axis         `json:"yaxis"`
	PaperBGColor string       `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string       `json:"plot_bgcolor,omitempty"`
	Font         *Font        `json:"font,omitempty"`
	UpdateMenus  []UpdateMenu `json:"updatemenus,omitempty"`
	Sliders      []Slider     `json:"sliders,omitempty"`
	Transition   *Transition  `json:"transition,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Axis struct {
	Title     Title     `json:"title"`
	Range     []float64 `json:"range,omitempty"`
	GridColor string    `json:"gridcolor,omitempty"`
}

type Font struct {
	Color string  `json:"color,omitempty"`
	Size  float64 `json:"size,omitempty"`
}

type Transition struct {
	Duration int    `json:"duration"`
	Easing   string `json:"easing,omitempty"`
}

type FrameOptions struct {
	Duration int  `json:"duration"`
	Redraw   bool `json:"redraw"`
}

// AnimateOptions is the second argument of Plotly.animate.
type AnimateOptions struct {
	Frame       FrameOptions `json:"frame"`
	Mode        string       `json:"mode"`
	FromCurrent bool         `json:"fromcurrent,omitempty"`
	Transition  *Transition  `json:"transition,omitempty"`
}

type UpdateMenu struct {
	Type       string   `json:"type"`
	ShowActive bool     `json:"showactive"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Buttons    []Button `json:"buttons"`
}

type Button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

type Slider struct {
	Steps        []SliderStep `json:"steps"`
	Transition   Transition   `json:"transition"`
	X            float64      `json:"x"`
	Y            float64      `json:"y"`
	CurrentValue CurrentValue `json:"currentvalue"`
}

type SliderStep struct {
	Args   []any  `json:"args"`
	Label  string `json:"label"`
	Method string `json:"method"`
}

type CurrentValue struct {
	Prefix string `json:"prefix"`
	Font   Font   `json:"font"`
}

const (
	darkPaper = "#111111"
	darkPlot  = "#111111"
	darkFont  = "#f2f5fa"
	darkGrid  = "#283442"

	colorDriver1 = "#1f77b4"
	colorDriver2 = "#ff7f0e"
)

func boolPtr(b bool) *bool {
	return &b
}

func darkLayout(title, xTitle, yTitle string) Layout {
	return Layout{
		Title:        Title{Text: title},
		XAxis:        Axis{Title: Title{Text: xTitle}, GridColor: darkGrid},
		YAxis:        Axis{Title: Title{Text: yTitle}, GridColor: darkGrid},
		PaperBGColor: darkPaper,
		PlotBGColor:  darkPlot,
		Font:         &Font{Color: darkFont},
	}
}

// animationControls adds play and pause buttons and a slider with one step
// per frame.
func animationControls(l *Layout, frames []Frame, prefix string, frameDuration int) {
	play := AnimateOptions{
		Frame:       FrameOptions{Duration: frameDuration, Redraw: true},
		Mode:        "immediate",
		FromCurrent: true,
		Transition:  &Transition{Duration: 0},
	}
	pause := AnimateOptions{
		Frame: FrameOptions{Duration: 0, Redraw: false},
		Mode:  "immediate",
	}
	l.UpdateMenus = []UpdateMenu{{
		Type: "buttons",
		X:    0,
		Y:    1.15,
		Buttons: []Button{
			{Label: "Play", Method: "animate", Args: []any{nil, play}},
			{Label: "Pause", Method: "animate", Args: []any{[]any{nil}, pause}},
		},
	}}

	steps := make([]SliderStep, 0, len(frames))
	for _, f := range frames {
		steps = append(steps, SliderStep{
			Args: []any{[]string{f.Name}, AnimateOptions{
				Frame: FrameOptions{Duration: frameDuration, Redraw: true},
				Mode:  "immediate",
			}},
			Label:  f.Name,
			Method: "animate",
		})
	}
	l.Sliders = []Slider{{
		Steps:        steps,
		Transition:   Transition{Duration: 0},
		X:            0,
		Y:            -0.2,
		CurrentValue: CurrentValue{Prefix: prefix, Font: Font{Size: 16}},
	}}
}
