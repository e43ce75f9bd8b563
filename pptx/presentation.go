// Package pptx writes PowerPoint decks (Office Open XML PresentationML).
//
// It covers what a generated deck needs: blank slides holding preset
// shapes, single-paragraph text boxes and pictures. Decks are built in
// memory and serialized with Write or SaveFile.
//
//	pres := pptx.New(pptx.Cm(25.4), pptx.Cm(19.05))
//	slide := pres.AddSlide()
//	box := slide.AddTextBox(0, 0, pptx.Cm(10), pptx.Cm(1))
//	box.SetText("Hello", pptx.Font{Name: "Calibri", Size: pptx.Pt(28)})
//	err := pres.SaveFile("hello.pptx")
package pptx

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
)

// ContentType is the MIME type of a .pptx file.
const ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// ErrUnsupportedImage is returned for pictures that are not PNG, JPEG or GIF.
var ErrUnsupportedImage = errors.New("unsupported image")

// Presentation is an in-memory deck.
type Presentation struct {
	Title   string
	Creator string

	width, height EMU
	slides        []*Slide
	media         []*mediaPart
	mediaByHash   map[string]*mediaPart
}

// New returns an empty deck whose slides are width x height.
func New(width, height EMU) *Presentation {
	return &Presentation{
		width:       width,
		height:      height,
		mediaByHash: make(map[string]*mediaPart),
	}
}

func (p *Presentation) Width() EMU  { return p.width }
func (p *Presentation) Height() EMU { return p.height }

func (p *Presentation) Slides() []*Slide { return p.slides }

// AddSlide appends a blank slide.
func (p *Presentation) AddSlide() *Slide {
	s := &Slide{
		pres:   p,
		number: len(p.slides) + 1,
		nextID: 2, // 1 is the shape tree itself
	}
	p.slides = append(p.slides, s)
	return s
}

// mediaPart is one file under ppt/media, shared by every slide showing it.
type mediaPart struct {
	name string // image1.png
	ext  string
	data []byte
}

func (p *Presentation) addMedia(data []byte, ext string) *mediaPart {
	sum := sha1.Sum(data)
	key := hex.EncodeToString(sum[:])
	if m, ok := p.mediaByHash[key]; ok {
		return m
	}

	m := &mediaPart{
		name: fmt.Sprintf("image%d.%s", len(p.media)+1, ext),
		ext:  ext,
		data: data,
	}
	p.media = append(p.media, m)
	p.mediaByHash[key] = m
	return m
}

// Slide is one slide of a Presentation.
type Slide struct {
	pres     *Presentation
	number   int
	nextID   int
	elements []Element
	images   []*mediaPart
}

// Number is the 1-based position of the slide in the deck.
func (s *Slide) Number() int { return s.number }

// Elements returns the shapes of the slide, back to front.
func (s *Slide) Elements() []Element { return s.elements }

func (s *Slide) takeID() int {
	id := s.nextID
	s.nextID++
	return id
}

// AddShape places an auto shape.
func (s *Slide) AddShape(geom Geometry, x, y, cx, cy EMU) *Shape {
	id := s.takeID()
	sh := &Shape{
		ID:       id,
		Name:     fmt.Sprintf("%s %d", geom.label(), id-1),
		Geometry: geom,
		Frame:    Frame{X: x, Y: y, CX: cx, CY: cy},
	}
	s.elements = append(s.elements, sh)
	return sh
}

// AddTextBox places an empty, left aligned, top anchored text box.
func (s *Slide) AddTextBox(x, y, cx, cy EMU) *TextBox {
	id := s.takeID()
	tb := &TextBox{
		ID:     id,
		Name:   fmt.Sprintf("TextBox %d", id-1),
		Frame:  Frame{X: x, Y: y, CX: cx, CY: cy},
		Anchor: AnchorTop,
		Align:  AlignLeft,
	}
	s.elements = append(s.elements, tb)
	return tb
}

// AddPicture places the image file at path with its top-left corner at
// (x, y), at its native size: pixels at the resolution recorded in the
// file, 72 dpi when there is none.
func (s *Slide) AddPicture(path string, x, y EMU) (*Picture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("AddPicture: ReadFile failed: %w", err)
	}
	return s.AddPictureData(filepath.Base(path), data, x, y)
}

// AddPictureData is AddPicture for an image already in memory.
// name is stored as the picture's description.
func (s *Slide) AddPictureData(name string, data []byte, x, y EMU) (*Picture, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("AddPicture: %s: %w: %v", name, ErrUnsupportedImage, err)
	}

	var ext string
	switch format {
	case "png", "jpeg", "gif":
		ext = format
	default:
		return nil, fmt.Errorf("AddPicture: %s: %w: %s", name, ErrUnsupportedImage, format)
	}

	horzDPI, vertDPI := imageDPI(data, format)
	m := s.pres.addMedia(data, ext)

	id := s.takeID()
	pic := &Picture{
		ID:    id,
		Name:  fmt.Sprintf("Picture %d", id-1),
		Descr: name,
		Frame: Frame{
			X:  x,
			Y:  y,
			CX: pixelsToEMU(cfg.Width, horzDPI),
			CY: pixelsToEMU(cfg.Height, vertDPI),
		},
		RelID: s.imageRelID(m),
	}
	s.elements = append(s.elements, pic)
	return pic, nil
}

// imageRelID returns the relationship id of m in this slide's rels,
// adding it on first use. rId1 is always the slide layout.
func (s *Slide) imageRelID(m *mediaPart) string {
	for i, img := range s.images {
		if img == m {
			return fmt.Sprintf("rId%d", i+2)
		}
	}
	s.images = append(s.images, m)
	return fmt.Sprintf("rId%d", len(s.images)+1)
}
