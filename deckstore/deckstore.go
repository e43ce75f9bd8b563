// Package deckstore renders songs into slide decks and stores them in a
// local directory.
// Exposure a DeckStore with the following methods:
//   - Render: build the deck of a song in memory
//   - WriteDeck: load a song and write its deck to FileDir
//   - BuildRange: WriteDeck for every id in a range
//
// Exposure Routes:
//   - /decks/:id: render and download the deck of a song
//   - /files: static generated decks
package deckstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"harpadeck/logging"
	"harpadeck/model"
	"harpadeck/pptx"

	"github.com/gin-gonic/gin"
)

var logger = logging.ZoneLogger("harpadeck/deckstore")

// SongSource loads songs by id. *metadata.Store is one.
type SongSource interface {
	GetSong(ctx context.Context, id uint) (*model.Song, error)
}

// DeckStore writes one deck per song into FileDir.
type DeckStore struct {
	Source   SongSource
	FileDir  string
	LogoPath string
	Credit   string

	// ContinueOnError makes BuildRange log a failed song and go on,
	// instead of stopping at the first failure.
	ContinueOnError bool
}

func NewDeckStore(source SongSource, fileDir, logoPath, credit string, router gin.IRouter) *DeckStore {
	if fileDir == "" {
		fileDir = model.DeckDirname
	}
	if credit == "" {
		credit = DefaultCredit
	}

	d := &DeckStore{
		Source:   source,
		FileDir:  fileDir,
		LogoPath: logoPath,
		Credit:   credit,
	}

	if router != nil {
		d.registerRoutes(router)
	}

	return d
}

// Render builds the deck of the song: one slide per stanza, in the order
// given by Song.Reorder. A song without verses gives a deck without slides.
//
// The logo is read only when there is a slide to put it on.
func (d *DeckStore) Render(song *model.Song) (*pptx.Presentation, error) {
	stanzas, maxLines := song.Reorder()

	pres := pptx.New(SlideWidth, SlideHeight)
	pres.Title = song.Title
	pres.Creator = firstLine(d.Credit)

	if len(stanzas) == 0 {
		return pres, nil
	}

	logo, err := os.ReadFile(d.LogoPath)
	if err != nil {
		return nil, fmt.Errorf("Render: read logo failed: %w", err)
	}

	for i, stanza := range stanzas {
		slide := pres.AddSlide()
		// the chorus sits on even slides: make it bold
		bold := song.HasChorus() && slide.Number()%2 == 0

		if err := d.renderSlide(slide, song, stanza, maxLines, bold, logo); err != nil {
			return nil, fmt.Errorf("Render: slide %d failed: %w", i+1, err)
		}
	}

	return pres, nil
}

func (d *DeckStore) renderSlide(slide *pptx.Slide, song *model.Song, stanza string, maxLines int, bold bool, logo []byte) error {
	// header bar & badge
	slide.AddShape(pptx.Rectangle, 0, 0, SlideWidth, pptx.Cm(2.5)).SetFill(headerColor)
	slide.AddShape(pptx.Oval, pptx.Cm(0.25), pptx.Cm(0.25), pptx.Cm(3.5), pptx.Cm(2)).SetFill(badgeColor)

	// title
	tf := titleFrame(song.Title)
	title := slide.AddTextBox(tf.X, tf.Y, tf.CX, tf.CY)
	title.Name = "Title"
	title.Align = pptx.AlignCenter
	title.SetText(strings.ToUpper(song.Title), headerFont())

	// number
	number := slide.AddTextBox(pptx.Cm(0.5), pptx.Cm(0.5), pptx.Cm(3), pptx.Cm(1))
	number.Name = "Number"
	number.Align = pptx.AlignCenter
	number.SetText(strconv.FormatUint(uint64(song.ID), 10), headerFont())

	// stanza
	size, spacing := stanzaStyle(maxLines)
	lyrics := slide.AddTextBox(0, pptx.Cm(2.5), SlideWidth, SlideHeight-pptx.Cm(3))
	lyrics.Name = "Stanza"
	lyrics.Anchor = pptx.AnchorMiddle
	lyrics.Align = pptx.AlignCenter
	lyrics.LineSpacing = spacing
	lyrics.SetText(strings.ToUpper(stanza), pptx.Font{
		Name:  fontName,
		Size:  size,
		Bold:  bold,
		Color: textColor,
	})

	// logo
	if _, err := slide.AddPictureData(filepath.Base(d.LogoPath), logo, SlideWidth-pptx.Cm(4), SlideHeight-pptx.Cm(3)); err != nil {
		return err
	}

	// credits
	credit := slide.AddTextBox(0, SlideHeight-pptx.Cm(1.5), pptx.Cm(1), pptx.Cm(1))
	credit.Name = "Credits"
	credit.Align = pptx.AlignLeft
	credit.SetText(d.Credit, creditFont())

	return nil
}

// WriteDeck loads the song and writes its deck to:
//
//	{FileDir}/{id}. {title}.pptx
//
// FileDir is created if needed. An existing file with that name is
// overwritten. It returns the path.
func (d *DeckStore) WriteDeck(ctx context.Context, id uint) (string, error) {
	if err := d.ensureFileDir(); err != nil {
		return "", err
	}
	return d.writeDeck(ctx, id)
}

// writeDeck is WriteDeck for a FileDir known to exist.
func (d *DeckStore) writeDeck(ctx context.Context, id uint) (string, error) {
	song, err := d.Source.GetSong(ctx, id)
	if err != nil {
		return "", fmt.Errorf("WriteDeck: GetSong failed: %w", err)
	}

	pres, err := d.Render(song)
	if err != nil {
		return "", fmt.Errorf("WriteDeck: Render failed: %w", err)
	}

	path := song.DeckFilePath(d.FileDir)
	if err := pres.SaveFile(path); err != nil {
		return "", fmt.Errorf("WriteDeck: SaveFile failed: %w", err)
	}

	logger.WithField("ID", song.ID).
		WithField("Title", song.Title).
		WithField("slides", len(pres.Slides())).
		WithField("path", path).
		Info("WriteDeck: success")

	return path, nil
}

// BuildRange writes the decks of songs first..last, inclusive, in order.
//
// It stops at the first failure and returns it, unless ContinueOnError is
// set, in which case all failures are returned joined at the end. Decks
// written before a failure are kept.
func (d *DeckStore) BuildRange(ctx context.Context, first, last uint) error {
	logger.WithField("FileDir", d.FileDir).
		WithField("first", first).
		WithField("last", last).
		Info("BuildRange: start")

	if err := d.ensureFileDir(); err != nil {
		return err
	}

	var errs []error
	written := 0
	for id := first; id <= last && id >= first; id++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("BuildRange: stopped before %d: %w", id, err)
		}

		if _, err := d.writeDeck(ctx, id); err != nil {
			if !d.ContinueOnError {
				return fmt.Errorf("BuildRange: song %d: %w", id, err)
			}
			logger.WithField("ID", id).WithError(err).Error("BuildRange: WriteDeck failed")
			errs = append(errs, fmt.Errorf("song %d: %w", id, err))
			continue
		}
		written++
	}

	logger.WithField("written", written).
		WithField("failed", len(errs)).
		Info("BuildRange: done")

	return errors.Join(errs...)
}

// ensureFileDir creates FileDir if it does not exist.
func (d *DeckStore) ensureFileDir() error {
	if err := os.MkdirAll(d.FileDir, 0755); err != nil {
		return fmt.Errorf("ensureFileDir: MkdirAll failed: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
