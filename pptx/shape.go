package pptx

import "strings"

// Element is anything placed on a slide's shape tree.
// Kind is one of "shape", "textbox" or "picture".
type Element interface {
	Kind() string
}

// Geometry is a DrawingML preset geometry.
type Geometry string

const (
	Rectangle Geometry = "rect"
	Oval      Geometry = "ellipse"
)

func (g Geometry) label() string {
	switch g {
	case Rectangle:
		return "Rectangle"
	case Oval:
		return "Oval"
	default:
		return "Shape"
	}
}

// Alignment is the horizontal alignment of a paragraph.
type Alignment string

const (
	AlignLeft   Alignment = "l"
	AlignCenter Alignment = "ctr"
	AlignRight  Alignment = "r"
)

// Anchor is the vertical anchoring of text in its box.
type Anchor string

const (
	AnchorTop    Anchor = "t"
	AnchorMiddle Anchor = "ctr"
	AnchorBottom Anchor = "b"
)

// Shape is an auto shape with a preset geometry.
type Shape struct {
	ID       int
	Name     string
	Geometry Geometry
	Frame
	// Fill is the solid fill; nil keeps the theme fill.
	Fill *Color
}

func (*Shape) Kind() string { return "shape" }

// SetFill sets a solid fill.
func (s *Shape) SetFill(c Color) {
	s.Fill = &c
}

// Font is the character formatting of a run.
type Font struct {
	Name  string
	Size  EMU
	Bold  bool
	Color Color
}

// Run is a span of text, or a line break when Break is set.
type Run struct {
	Text  string
	Break bool
	Font  Font
}

// TextBox is a text shape holding a single paragraph.
type TextBox struct {
	ID   int
	Name string
	Frame
	Anchor Anchor
	Align  Alignment
	// LineSpacing is an exact line pitch; zero leaves it to the renderer.
	LineSpacing EMU
	Runs        []Run
}

func (*TextBox) Kind() string { return "textbox" }

// SetText replaces the text of the box. Each "\n" becomes a line break
// within the paragraph, so alignment and line spacing cover every line.
func (t *TextBox) SetText(text string, font Font) {
	t.Runs = t.Runs[:0]
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			t.Runs = append(t.Runs, Run{Break: true, Font: font})
		}
		if line == "" {
			continue
		}
		t.Runs = append(t.Runs, Run{Text: line, Font: font})
	}
}

// Text returns the text of the box, line breaks as "\n".
func (t *TextBox) Text() string {
	var sb strings.Builder
	for _, r := range t.Runs {
		if r.Break {
			sb.WriteByte('\n')
		} else {
			sb.WriteString(r.Text)
		}
	}
	return sb.String()
}

// Font returns the font of the first run, or the zero Font.
func (t *TextBox) Font() Font {
	if len(t.Runs) == 0 {
		return Font{}
	}
	return t.Runs[0].Font
}

// Picture is an embedded image.
type Picture struct {
	ID    int
	Name  string
	Descr string
	Frame
	RelID string
}

func (*Picture) Kind() string { return "picture" }
