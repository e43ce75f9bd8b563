package deckstore

import (
	"unicode/utf8"

	"harpadeck/pptx"
)

// Fixed layout of every slide. Slides are 4:3, 25.4cm x 19.05cm.
var (
	SlideWidth  = pptx.Cm(25.4)
	SlideHeight = pptx.Cm(19.05)

	headerColor = pptx.RGB(0xAC, 0xCA, 0xFF)
	badgeColor  = pptx.RGB(0xFF, 0xFF, 0xFF)
	textColor   = pptx.RGB(0x00, 0x00, 0x00)
	creditColor = pptx.RGB(0xD3, 0xD3, 0xD3)
)

const (
	fontName = "Calibri"

	// titles longer than this are shifted right, clear of the badge
	longTitle = 30

	// stanzas with at least this many lines get the small font
	denseLines = 9

	// DefaultCredit is the footer printed on every slide.
	DefaultCredit = "Harpa Cristã - v0.1\newerton@ewerton.com.br"
)

func headerFont() pptx.Font {
	return pptx.Font{Name: fontName, Size: pptx.Pt(28), Bold: true, Color: textColor}
}

func creditFont() pptx.Font {
	return pptx.Font{Name: fontName, Size: pptx.Pt(14), Bold: true, Color: creditColor}
}

// titleFrame places the title box: full width, or shifted right when the
// title is long enough to run into the badge.
func titleFrame(title string) pptx.Frame {
	if utf8.RuneCountInString(title) > longTitle {
		return pptx.Frame{X: pptx.Cm(3.5), Y: pptx.Cm(0.5), CX: SlideWidth - pptx.Cm(3), CY: pptx.Cm(1)}
	}
	return pptx.Frame{X: 0, Y: pptx.Cm(0.5), CX: SlideWidth, CY: pptx.Cm(1)}
}

// stanzaStyle returns the stanza font size and line spacing for a song
// whose longest stanza is maxLines long. Zero spacing means none forced.
func stanzaStyle(maxLines int) (size, spacing pptx.EMU) {
	if maxLines < denseLines {
		return pptx.Pt(28), pptx.Pt(48)
	}
	return pptx.Pt(22), 0
}
