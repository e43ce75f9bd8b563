package metadata

import (
	"errors"
	"net/http"
	"strconv"

	"harpadeck/model"

	"github.com/gin-gonic/gin"
)

// AnthemResponse is the body of GET /anthems/:id.
type AnthemResponse struct {
	model.Song
	Slides   []string `json:"slides"`
	MaxLines int      `json:"maxLines"`
	FileName string   `json:"fileName"`
}

// RegisterRoutes exposes the read-only anthem routes.
func (s *Store) RegisterRoutes(r gin.IRouter) {
	r.GET("/anthems", s.GetAnthems)
	r.GET("/anthems/:id", s.GetAnthem)
}

// GetAnthems handles: GET /anthems
//
// Response:
//
//   - 200: OK: {anthems: [{id, title}, ...]}
//   - 500: Internal Server Error: {error: "..."}
func (s *Store) GetAnthems(c *gin.Context) {
	anthems, err := s.ListAnthems(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"anthems": anthems})
}

// GetAnthem handles: GET /anthems/:id
//
// Response:
//
//   - 200: OK: AnthemResponse, with the stanzas in slide order
//   - 400: Bad Request: id is not a positive integer
//   - 404: Not Found: no such anthem
//   - 500: Internal Server Error
func (s *Store) GetAnthem(c *gin.Context) {
	id, err := ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	song, err := s.GetSong(c, id)
	switch {
	case errors.Is(err, ErrAnthemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slides, maxLines := song.Reorder()
	c.JSON(http.StatusOK, AnthemResponse{
		Song:     *song,
		Slides:   slides,
		MaxLines: maxLines,
		FileName: song.DeckFileName(),
	})
}

// ParseID parses a positive anthem id.
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.New("id should be a positive integer")
	}
	if id == 0 {
		return 0, errors.New("id should be a positive integer")
	}
	return uint(id), nil
}
