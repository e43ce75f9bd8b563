package pptx

import (
	"archive/zip"
	"embed"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"
)

// this file serializes a Presentation into the zip package PowerPoint reads.

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

var templates = template.Must(
	template.New("pptx").
		Funcs(template.FuncMap{"xml": escapeXML}).
		ParseFS(embeddedTemplates, "templates/*.tmpl"),
)

func escapeXML(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// presentation.xml.rels: rId1 master, rId2 theme, rId3..5 props, then slides
const firstSlideRel = 6

type packageView struct {
	Title   string
	Creator string
	Width   EMU
	Height  EMU
	Slides  []slideView
	Media   []mediaView
	// image extensions in use, for [Content_Types].xml
	Extensions []string
}

type slideView struct {
	Number   int
	SldID    int
	RelID    string
	Elements []Element
	Images   []mediaView
}

type mediaView struct {
	RelID       string
	Name        string
	ContentType string
}

func imageContentType(ext string) string {
	return "image/" + ext
}

func (p *Presentation) view() packageView {
	v := packageView{
		Title:   p.Title,
		Creator: p.Creator,
		Width:   p.width,
		Height:  p.height,
	}

	exts := make(map[string]bool)
	for _, m := range p.media {
		v.Media = append(v.Media, mediaView{Name: m.name, ContentType: imageContentType(m.ext)})
		if !exts[m.ext] {
			exts[m.ext] = true
			v.Extensions = append(v.Extensions, m.ext)
		}
	}
	sort.Strings(v.Extensions)

	for i, s := range p.slides {
		sv := slideView{
			Number:   s.number,
			SldID:    256 + i,
			RelID:    fmt.Sprintf("rId%d", firstSlideRel+i),
			Elements: s.elements,
		}
		for j, m := range s.images {
			sv.Images = append(sv.Images, mediaView{
				RelID: fmt.Sprintf("rId%d", j+2),
				Name:  m.name,
			})
		}
		v.Slides = append(v.Slides, sv)
	}

	return v
}

type part struct {
	name string
	tmpl string
	data any
}

// Write serializes the deck as a .pptx zip package.
func (p *Presentation) Write(w io.Writer) error {
	v := p.view()

	parts := []part{
		{"[Content_Types].xml", "content_types.tmpl", v},
		{"_rels/.rels", "rels.tmpl", v},
		{"docProps/core.xml", "core.tmpl", v},
		{"docProps/app.xml", "app.tmpl", v},
		{"ppt/presentation.xml", "presentation.tmpl", v},
		{"ppt/_rels/presentation.xml.rels", "presentation_rels.tmpl", v},
		{"ppt/presProps.xml", "pres_props.tmpl", v},
		{"ppt/viewProps.xml", "view_props.tmpl", v},
		{"ppt/tableStyles.xml", "table_styles.tmpl", v},
		{"ppt/theme/theme1.xml", "theme.tmpl", v},
		{"ppt/slideMasters/slideMaster1.xml", "slide_master.tmpl", v},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", "slide_master_rels.tmpl", v},
		{"ppt/slideLayouts/slideLayout1.xml", "slide_layout.tmpl", v},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", "slide_layout_rels.tmpl", v},
	}
	for _, s := range v.Slides {
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", s.Number), "slide.tmpl", s},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", s.Number), "slide_rels.tmpl", s},
		)
	}

	zw := zip.NewWriter(w)

	for _, pt := range parts {
		fw, err := zw.Create(pt.name)
		if err != nil {
			return fmt.Errorf("Write: create %s failed: %w", pt.name, err)
		}
		if err := templates.ExecuteTemplate(fw, pt.tmpl, pt.data); err != nil {
			return fmt.Errorf("Write: render %s failed: %w", pt.name, err)
		}
	}

	for _, m := range p.media {
		name := "ppt/media/" + m.name
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("Write: create %s failed: %w", name, err)
		}
		if _, err := fw.Write(m.data); err != nil {
			return fmt.Errorf("Write: write %s failed: %w", name, err)
		}
	}

	return zw.Close()
}

// SaveFile writes the deck to path, replacing any existing file.
func (p *Presentation) SaveFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("SaveFile: Create failed: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("SaveFile: Close failed: %w", cerr)
		}
	}()

	return p.Write(f)
}
