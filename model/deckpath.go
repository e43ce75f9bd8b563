package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// this file defines where the generated decks go.

const (
	// DeckDirname is the default output directory, relative to the cwd.
	DeckDirname = "Harpa Cristã"
	DeckExt     = ".pptx"
)

// -------- file name --------

// DeckFileName returns "{id}. {title}.pptx".
//
// Path separators in the title are replaced with "-" so that a title
// never escapes the output directory.
func DeckFileName(id uint, title string) string {
	return fmt.Sprintf("%d. %s%s", id, guardTitle(title), DeckExt)
}

func (s *Song) DeckFileName() string {
	return DeckFileName(s.ID, s.Title)
}

// -------- dir + file name --------

// DeckFilePath returns the path of the deck of a song:
//
//	{dir}/{id}. {title}.pptx
//
// dir defaults to DeckDirname when empty.
func DeckFilePath(dir string, id uint, title string) string {
	if dir == "" {
		dir = DeckDirname
	}
	return filepath.Join(dir, DeckFileName(id, title))
}

func (s *Song) DeckFilePath(dir string) string {
	return DeckFilePath(dir, s.ID, s.Title)
}

func guardTitle(title string) string {
	title = strings.ReplaceAll(title, "/", "-")
	if os.PathSeparator != '/' {
		title = strings.ReplaceAll(title, string(os.PathSeparator), "-")
	}
	return title
}
