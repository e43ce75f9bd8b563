package deckstore

import (
	"errors"
	"mime"
	"net/http"

	"harpadeck/metadata"
	"harpadeck/pptx"

	"github.com/gin-gonic/gin"
)

func (d *DeckStore) registerRoutes(r gin.IRouter) {
	// render on demand
	r.GET("/decks/:id", d.GetDeck)

	// decks written by BuildRange
	r.Static("/files", d.FileDir)
}

// GetDeck handles: GET /decks/:id
//
// Renders the deck of the song and sends it as an attachment named
// "{id}. {title}.pptx". Nothing is written to FileDir.
//
// Response:
//
//   - 200: OK: the .pptx file
//   - 400: Bad Request: id is not a positive integer
//   - 404: Not Found: no such song
//   - 500: Internal Server Error: e.g. the logo is missing
func (d *DeckStore) GetDeck(c *gin.Context) {
	id, err := metadata.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	song, err := d.Source.GetSong(c, id)
	switch {
	case errors.Is(err, metadata.ErrAnthemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pres, err := d.Render(song)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", pptx.ContentType)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": song.DeckFileName(),
	}))
	c.Status(http.StatusOK)

	if err := pres.Write(c.Writer); err != nil {
		logger.WithContext(c).
			WithField("ID", id).
			WithError(err).
			Error("GetDeck: Write failed")
	}
}
