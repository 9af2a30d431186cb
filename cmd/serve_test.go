package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jsphweid/harp/model"
	"github.com/jsphweid/harp/util"
	"github.com/stretchr/testify/assert"
)

const twoBarsPath = "../chart/testdata/two_bars.json"

type scoreResponse struct {
	Notes     []json.RawMessage      `json:"notes"`
	ChangeBPM []model.BPMChangeEvent `json:"change_bpm"`
}

func resetStore() {
	store = &chartStore{
		cache:   make(map[string]*loadedChart),
		uploads: make(map[string]*loadedChart),
	}
	store.setCatalog([]model.ChartSummary{
		{ID: "two-bars", Path: twoBarsPath, Title: "Two Bars"},
		{ID: "gone", Path: "../chart/testdata/gone.json"},
	})
}

func request(method string, target string, body io.Reader) *http.Response {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	NewRouter().ServeHTTP(w, req)
	return w.Result()
}

func decode[A any](t *testing.T, resp *http.Response) A {
	var res A
	respBody, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(respBody, &res); err != nil {
		t.Fatalf("could not decode %s: %v", respBody, err)
	}
	return res
}

func TestTickAndElapsedQueries(t *testing.T) {
	resetStore()
	assert := assert.New(t)

	resp := request(http.MethodGet, "/charts/two-bars/tick?elapsed=4.0", nil)
	assert.Equal(200, resp.StatusCode)
	assert.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(model.TickResponse{Tick: 53760, Elapsed: 4.0}, decode[model.TickResponse](t, resp))

	resp = request(http.MethodGet, "/charts/two-bars/elapsed?tick=53760", nil)
	assert.Equal(200, resp.StatusCode)
	tr := decode[model.TickResponse](t, resp)
	assert.Equal(53760, tr.Tick)
	assert.InDelta(3.4, tr.Elapsed, 1e-9)

	resp = request(http.MethodGet, "/charts/two-bars/elapsed?tick=0", nil)
	assert.Equal(0.0, decode[model.TickResponse](t, resp).Elapsed)
}

func TestBadQueries(t *testing.T) {
	resetStore()
	assert := assert.New(t)

	resp := request(http.MethodGet, "/charts/two-bars/tick?elapsed=abc", nil)
	assert.Equal(400, resp.StatusCode)
	assert.NotEmpty(decode[model.ErrorResponse](t, resp).Error)

	resp = request(http.MethodGet, "/charts/two-bars/elapsed?tick=1.5", nil)
	assert.Equal(400, resp.StatusCode)

	resp = request(http.MethodGet, "/charts/nope/tick?elapsed=1", nil)
	assert.Equal(404, resp.StatusCode)

	resp = request(http.MethodGet, "/charts/gone/score", nil)
	assert.Equal(500, resp.StatusCode)
}

func TestGetChartAndScore(t *testing.T) {
	resetStore()
	assert := assert.New(t)

	resp := request(http.MethodGet, "/charts/two-bars", nil)
	assert.Equal(200, resp.StatusCode)
	chart := decode[model.ChartResponse](t, resp)
	assert.Equal("Two Bars", chart.Title)
	assert.Equal(5, chart.NoteCount)
	assert.Equal(240.0, chart.MaxBPM)
	assert.Nil(chart.Metadata)

	resp = request(http.MethodGet, "/charts/two-bars/score", nil)
	assert.Equal(200, resp.StatusCode)
	score := decode[scoreResponse](t, resp)
	assert.Len(score.Notes, 7)
	assert.Equal([]model.BPMChangeEvent{{Tick: 13440, Value: 150}, {Tick: 53760, Value: 240}}, score.ChangeBPM)
}

func TestUploadChart(t *testing.T) {
	resetStore()
	assert := assert.New(t)

	body := []byte(`{"header": {"title": "Uploaded"}, "measures": [{"index": 0, "channels": {"11": "0101"}}]}`)
	resp := request(http.MethodPost, "/charts", bytes.NewReader(body))
	assert.Equal(201, resp.StatusCode)
	summary := decode[model.ChartSummary](t, resp)
	assert.NotEmpty(summary.ID)
	assert.Equal("Uploaded", summary.Title)
	assert.Equal(2, summary.NoteCount)
	assert.Equal(128.0, summary.InitialBPM)

	resp = request(http.MethodGet, "/charts", nil)
	list := decode[[]model.ChartSummary](t, resp)
	assert.Len(list, 3)
	assert.Equal(summary.ID, list[2].ID)

	resp = request(http.MethodGet, "/charts/"+summary.ID+"/elapsed?tick=6720", nil)
	assert.InDelta(0.46875, decode[model.TickResponse](t, resp).Elapsed, 1e-12)

	resp = request(http.MethodPost, "/charts", bytes.NewReader([]byte("{")))
	assert.Equal(400, resp.StatusCode)
}

func TestReindexNeedsChartDir(t *testing.T) {
	t.Setenv("CHART_PATH", "")
	resp := request(http.MethodPost, "/reindex", nil)
	assert.Equal(t, 400, resp.StatusCode)
}

// runReindexNow skips the debounce delay so the rebuild has finished when the
// handler returns.
func runReindexNow(t *testing.T) {
	debounced := reindexDebounced
	reindexDebounced = func(f func()) { f() }
	t.Cleanup(func() { reindexDebounced = debounced })
}

func TestReindexMissingChartDirKeepsCatalog(t *testing.T) {
	resetStore()
	runReindexNow(t)
	t.Setenv("CHART_PATH", filepath.Join(t.TempDir(), "not-here"))
	t.Setenv("INDEX_PATH", t.TempDir())

	assert := assert.New(t)
	resp := request(http.MethodPost, "/reindex", nil)
	assert.Equal(202, resp.StatusCode)

	charts := decode[[]model.ChartSummary](t, request(http.MethodGet, "/charts", nil))
	if assert.Len(charts, 2) {
		assert.Equal("two-bars", charts[0].ID)
		assert.Equal("gone", charts[1].ID)
	}
	assert.Error(reindex())
	assert.NoFileExists(util.GetCatalogPath())
}

func TestReindexReplacesCatalog(t *testing.T) {
	resetStore()
	runReindexNow(t)
	t.Setenv("CHART_PATH", "../chart/testdata")
	t.Setenv("INDEX_PATH", t.TempDir())

	assert := assert.New(t)
	resp := request(http.MethodPost, "/reindex", nil)
	assert.Equal(202, resp.StatusCode)

	charts := decode[[]model.ChartSummary](t, request(http.MethodGet, "/charts", nil))
	if assert.Len(charts, 2) {
		assert.Equal(twoBarsPath, charts[0].Path)
		assert.Equal("../chart/testdata/two_bars.yml", charts[1].Path)
		assert.Equal("Two Bars", charts[1].Title)
	}
	assert.FileExists(util.GetCatalogPath())

	stored, err := util.ReadBinary[[]model.ChartSummary](util.GetCatalogPath())
	assert.NoError(err)
	assert.Equal(charts, stored)
}
