package metadata

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	newTestStore(t).RegisterRoutes(r)
	return r
}

func TestGetAnthemHandler(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anthems/1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp AnthemResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Exemplo", resp.Title)
	assert.Equal(t, []string{"Primeira estrofe", "Coro\nfinal", "Segunda\nestrofe", "Coro\nfinal"}, resp.Slides)
	assert.Equal(t, 2, resp.MaxLines)
	assert.Equal(t, "1. Exemplo.pptx", resp.FileName)
}

func TestGetAnthemHandlerErrors(t *testing.T) {
	r := newTestRouter(t)

	cases := map[string]int{
		"/anthems/999": http.StatusNotFound,
		"/anthems/0":   http.StatusBadRequest,
		"/anthems/abc": http.StatusBadRequest,
		"/anthems/-1":  http.StatusBadRequest,
	}
	for path, code := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, w.Code, path)
	}
}

func TestGetAnthemsHandler(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anthems", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Anthems []struct {
			ID    uint   `json:"id"`
			Title string `json:"title"`
		} `json:"anthems"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Anthems, 3)
	assert.Equal(t, "Sem Coro", resp.Anthems[1].Title)
}
