package deckstore

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"harpadeck/metadata"
	"harpadeck/model"
	"harpadeck/pptx"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// songMap is an in-memory SongSource.
type songMap map[uint]*model.Song

func (m songMap) GetSong(_ context.Context, id uint) (*model.Song, error) {
	song, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("song %d: %w", id, metadata.ErrAnthemNotFound)
	}
	return song, nil
}

var exemplo = &model.Song{
	ID:      1,
	Title:   "Exemplo",
	Stanzas: []string{"Primeira\nestrofe", "Segunda"},
	Chorus:  "Coro",
}

func writeLogo(t *testing.T, dir string) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 120, 80))))

	path := filepath.Join(dir, "logo2.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func newTestDeckStore(t *testing.T, songs songMap) *DeckStore {
	t.Helper()
	dir := t.TempDir()
	return NewDeckStore(songs, filepath.Join(dir, "Harpa Cristã"), writeLogo(t, dir), "", nil)
}

func textBox(t *testing.T, slide *pptx.Slide, name string) *pptx.TextBox {
	t.Helper()
	for _, el := range slide.Elements() {
		if tb, ok := el.(*pptx.TextBox); ok && tb.Name == name {
			return tb
		}
	}
	t.Fatalf("slide %d has no text box %q", slide.Number(), name)
	return nil
}

func TestRender(t *testing.T) {
	d := newTestDeckStore(t, nil)

	pres, err := d.Render(exemplo)
	require.NoError(t, err)
	require.Len(t, pres.Slides(), 4)
	assert.Equal(t, SlideWidth, pres.Width())
	assert.Equal(t, SlideHeight, pres.Height())

	want := []string{"PRIMEIRA\nESTROFE", "CORO", "SEGUNDA", "CORO"}
	for i, slide := range pres.Slides() {
		els := slide.Elements()
		require.Len(t, els, 7)
		assert.Equal(t, pptx.Rectangle, els[0].(*pptx.Shape).Geometry)
		assert.Equal(t, pptx.Oval, els[1].(*pptx.Shape).Geometry)
		assert.IsType(t, &pptx.Picture{}, els[5])

		stanza := textBox(t, slide, "Stanza")
		assert.Equal(t, want[i], stanza.Text())
		assert.Equal(t, strings.ToUpper(stanza.Text()), stanza.Text())
		// chorus slides are the even ones
		assert.Equal(t, i%2 == 1, stanza.Font().Bold, "slide %d", i+1)
		assert.Equal(t, pptx.AnchorMiddle, stanza.Anchor)

		assert.Equal(t, "EXEMPLO", textBox(t, slide, "Title").Text())
		assert.Equal(t, "1", textBox(t, slide, "Number").Text())
		assert.Equal(t, DefaultCredit, textBox(t, slide, "Credits").Text())
	}
}

func TestRenderLayout(t *testing.T) {
	d := newTestDeckStore(t, nil)

	pres, err := d.Render(exemplo)
	require.NoError(t, err)
	els := pres.Slides()[1].Elements()
	require.Len(t, els, 7)

	white := pptx.RGB(0xFF, 0xFF, 0xFF)
	header := pptx.RGB(0xAC, 0xCA, 0xFF)

	shapes := []struct {
		name  string
		el    pptx.Element
		geom  pptx.Geometry
		frame pptx.Frame
		fill  pptx.Color
	}{
		{"header", els[0], pptx.Rectangle, pptx.Frame{X: 0, Y: 0, CX: pptx.Cm(25.4), CY: pptx.Cm(2.5)}, header},
		{"badge", els[1], pptx.Oval, pptx.Frame{X: pptx.Cm(0.25), Y: pptx.Cm(0.25), CX: pptx.Cm(3.5), CY: pptx.Cm(2)}, white},
	}
	for _, c := range shapes {
		sh, ok := c.el.(*pptx.Shape)
		require.True(t, ok, c.name)
		assert.Equal(t, c.geom, sh.Geometry, c.name)
		assert.Equal(t, c.frame, sh.Frame, c.name)
		require.NotNil(t, sh.Fill, c.name)
		assert.Equal(t, c.fill, *sh.Fill, c.name)
	}

	black := pptx.RGB(0, 0, 0)
	boxes := []struct {
		name  string
		el    pptx.Element
		frame pptx.Frame
		align pptx.Alignment
		font  pptx.Font
	}{
		{"Title", els[2], pptx.Frame{X: 0, Y: pptx.Cm(0.5), CX: pptx.Cm(25.4), CY: pptx.Cm(1)}, pptx.AlignCenter,
			pptx.Font{Name: "Calibri", Size: pptx.Pt(28), Bold: true, Color: black}},
		{"Number", els[3], pptx.Frame{X: pptx.Cm(0.5), Y: pptx.Cm(0.5), CX: pptx.Cm(3), CY: pptx.Cm(1)}, pptx.AlignCenter,
			pptx.Font{Name: "Calibri", Size: pptx.Pt(28), Bold: true, Color: black}},
		{"Stanza", els[4], pptx.Frame{X: 0, Y: pptx.Cm(2.5), CX: pptx.Cm(25.4), CY: pptx.Cm(19.05) - pptx.Cm(3)}, pptx.AlignCenter,
			pptx.Font{Name: "Calibri", Size: pptx.Pt(28), Bold: true, Color: black}},
		{"Credits", els[6], pptx.Frame{X: 0, Y: pptx.Cm(19.05) - pptx.Cm(1.5), CX: pptx.Cm(1), CY: pptx.Cm(1)}, pptx.AlignLeft,
			pptx.Font{Name: "Calibri", Size: pptx.Pt(14), Bold: true, Color: pptx.RGB(0xD3, 0xD3, 0xD3)}},
	}
	for _, c := range boxes {
		tb, ok := c.el.(*pptx.TextBox)
		require.True(t, ok, c.name)
		assert.Equal(t, c.name, tb.Name)
		assert.Equal(t, c.frame, tb.Frame, c.name)
		assert.Equal(t, c.align, tb.Align, c.name)
		assert.Equal(t, c.font, tb.Font(), c.name)
	}

	pic, ok := els[5].(*pptx.Picture)
	require.True(t, ok)
	// 120 x 80 px logo without a recorded resolution: 72 dpi
	assert.Equal(t, pptx.Frame{
		X:  pptx.Cm(25.4) - pptx.Cm(4),
		Y:  pptx.Cm(19.05) - pptx.Cm(3),
		CX: 120 * 12700,
		CY: 80 * 12700,
	}, pic.Frame)
	assert.Equal(t, "logo2.png", pic.Descr)
}

func TestRenderWithoutChorusNeverBold(t *testing.T) {
	d := newTestDeckStore(t, nil)

	pres, err := d.Render(&model.Song{ID: 2, Title: "Sem Coro", Stanzas: []string{"a", "b", "c"}})
	require.NoError(t, err)
	require.Len(t, pres.Slides(), 3)

	for _, slide := range pres.Slides() {
		assert.False(t, textBox(t, slide, "Stanza").Font().Bold)
	}
}

func TestRenderStanzaStyle(t *testing.T) {
	d := newTestDeckStore(t, nil)

	short, err := d.Render(&model.Song{ID: 3, Title: "Curto", Stanzas: []string{strings.Repeat("l\n", 7) + "l"}})
	require.NoError(t, err)
	tb := textBox(t, short.Slides()[0], "Stanza")
	assert.Equal(t, pptx.Pt(28), tb.Font().Size)
	assert.Equal(t, pptx.Pt(48), tb.LineSpacing)

	long, err := d.Render(&model.Song{ID: 4, Title: "Longo", Stanzas: []string{strings.Repeat("l\n", 8) + "l"}})
	require.NoError(t, err)
	tb = textBox(t, long.Slides()[0], "Stanza")
	assert.Equal(t, pptx.Pt(22), tb.Font().Size)
	assert.Equal(t, pptx.EMU(0), tb.LineSpacing)
}

func TestRenderLongTitle(t *testing.T) {
	d := newTestDeckStore(t, nil)

	exact := strings.Repeat("ã", 30)
	pres, err := d.Render(&model.Song{ID: 5, Title: exact, Stanzas: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, pptx.EMU(0), textBox(t, pres.Slides()[0], "Title").X)

	pres, err = d.Render(&model.Song{ID: 5, Title: exact + "!", Stanzas: []string{"x"}})
	require.NoError(t, err)
	title := textBox(t, pres.Slides()[0], "Title")
	assert.Equal(t, pptx.Cm(3.5), title.X)
	assert.Equal(t, SlideWidth-pptx.Cm(3), title.CX)
}

func TestRenderEmptySong(t *testing.T) {
	d := newTestDeckStore(t, nil)
	d.LogoPath = filepath.Join(t.TempDir(), "missing.png")

	pres, err := d.Render(&model.Song{ID: 6, Title: "Vazio"})
	require.NoError(t, err)
	assert.Empty(t, pres.Slides())
}

func TestRenderMissingLogo(t *testing.T) {
	d := newTestDeckStore(t, nil)
	d.LogoPath = filepath.Join(t.TempDir(), "missing.png")

	_, err := d.Render(exemplo)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteDeck(t *testing.T) {
	d := newTestDeckStore(t, songMap{1: exemplo})
	assert.NoDirExists(t, d.FileDir)

	path, err := d.WriteDeck(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.FileDir, "1. Exemplo.pptx"), path)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	slides := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") {
			slides++
		}
	}
	assert.Equal(t, 4, slides)
}

func TestBuildRange(t *testing.T) {
	songs := songMap{
		1: exemplo,
		2: {ID: 2, Title: "Dois", Stanzas: []string{"x"}},
		4: {ID: 4, Title: "Quatro", Stanzas: []string{"y"}},
	}

	t.Run("stops at the first missing song", func(t *testing.T) {
		d := newTestDeckStore(t, songs)

		err := d.BuildRange(context.Background(), 1, 4)
		assert.ErrorIs(t, err, metadata.ErrAnthemNotFound)

		assert.FileExists(t, filepath.Join(d.FileDir, "1. Exemplo.pptx"))
		assert.FileExists(t, filepath.Join(d.FileDir, "2. Dois.pptx"))
		assert.NoFileExists(t, filepath.Join(d.FileDir, "4. Quatro.pptx"))
	})

	t.Run("continue on error", func(t *testing.T) {
		d := newTestDeckStore(t, songs)
		d.ContinueOnError = true

		err := d.BuildRange(context.Background(), 1, 4)
		assert.ErrorIs(t, err, metadata.ErrAnthemNotFound)
		assert.FileExists(t, filepath.Join(d.FileDir, "4. Quatro.pptx"))
	})

	t.Run("output dir is created once up front", func(t *testing.T) {
		d := newTestDeckStore(t, songs)
		require.NoError(t, os.WriteFile(d.FileDir, nil, 0o644))

		err := d.BuildRange(context.Background(), 1, 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ensureFileDir")
		assert.NotErrorIs(t, err, metadata.ErrAnthemNotFound)
	})

		t.Run("canceled", func(t *testing.T) {
		d := newTestDeckStore(t, songs)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := d.BuildRange(ctx, 1, 2)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NoFileExists(t, filepath.Join(d.FileDir, "1. Exemplo.pptx"))
	})
}

func TestBuildRangeFromStore(t *testing.T) {
	s, err := metadata.Open(filepath.Join(t.TempDir(), "harpa.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate())

	require.NoError(t, s.DB().Create(&model.Anthem{ID: 1, Title: "Exemplo"}).Error)
	require.NoError(t, s.DB().Create(&[]model.Verse{
		{AnthemID: 1, Order: 1, Text: "1. \nPrimeira\n"},
		{AnthemID: 1, Order: 2, Text: "Coro\n", IsChorus: true},
		{AnthemID: 1, Order: 3, Text: "2. \nSegunda\n"},
	}).Error)

	dir := t.TempDir()
	d := NewDeckStore(s, filepath.Join(dir, "out"), writeLogo(t, dir), "", nil)
	require.NoError(t, d.BuildRange(context.Background(), 1, 1))
	assert.FileExists(t, filepath.Join(dir, "out", "1. Exemplo.pptx"))
}

func TestGetDeckHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	dir := t.TempDir()
	NewDeckStore(songMap{1: exemplo}, filepath.Join(dir, "out"), writeLogo(t, dir), "", r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/decks/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pptx.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	body := w.Body.Bytes()
	_, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	assert.NoError(t, err)

	for path, code := range map[string]int{
		"/decks/9":   http.StatusNotFound,
		"/decks/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, w.Code, path)
	}
}
