package main

import (
	"harpadeck/deckstore"
	"harpadeck/logging"
	"harpadeck/metadata"

	"github.com/gin-gonic/gin"
)

// MakeRouter opens the hymnal and builds the preview server on it: anthem
// JSON, on-demand decks and the decks already written to the output dir.
// The caller closes the returned store.
func MakeRouter(c *HarpaConfig) (*gin.Engine, *metadata.Store, error) {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(logging.Logger.Writer()), gin.Recovery())

	// anthems
	store, err := metadata.Start(c.Metadata.DB, r)
	if err != nil {
		return nil, nil, err
	}

	// decks
	d := deckstore.NewDeckStore(store, c.Deck.OutputDir, c.Deck.LogoPath, c.Deck.Credit, r)
	d.ContinueOnError = c.Deck.ContinueOnError

	return r, store, nil
}
