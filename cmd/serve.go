package cmd

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/harp/catalog"
	"github.com/jsphweid/harp/chart"
	"github.com/jsphweid/harp/constants"
	"github.com/jsphweid/harp/db"
	"github.com/jsphweid/harp/model"
	"github.com/jsphweid/harp/timing"
	"github.com/jsphweid/harp/util"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

type loadedChart struct {
	summary model.ChartSummary
	score   model.ScoreData
	conv    *timing.Converter
}

// chartStore holds the catalog plus every chart decoded so far. Decoded
// charts are immutable, only the maps need the lock.
type chartStore struct {
	mu        sync.RWMutex
	summaries []model.ChartSummary
	cache     map[string]*loadedChart
	uploads   map[string]*loadedChart
}

var store = &chartStore{
	cache:   make(map[string]*loadedChart),
	uploads: make(map[string]*loadedChart),
}

var serveMetadata bool

var reindexDebounced = debounce.New(2 * time.Second)

func init() {
	serveCmd.Flags().BoolVar(&serveMetadata, "metadata", false, "look up chart metadata in DynamoDB")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serves",
	Long:  `Serves tick and elapsed time queries over the chart catalog.`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func (s *chartStore) setCatalog(summaries []model.ChartSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = summaries
	s.cache = make(map[string]*loadedChart)
}

func (s *chartStore) addUpload(c *loadedChart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[c.summary.ID] = c
}

func (s *chartStore) list() []model.ChartSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.ChartSummary, 0, len(s.summaries)+len(s.uploads))
	res = append(res, s.summaries...)
	for _, id := range util.SortedKeys(s.uploads) {
		res = append(res, s.uploads[id].summary)
	}
	return res
}

func (s *chartStore) lookup(id string) (*loadedChart, model.ChartSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.uploads[id]; ok {
		return c, c.summary, true
	}
	if c, ok := s.cache[id]; ok {
		return c, c.summary, true
	}
	summary, ok := catalog.Find(s.summaries, id)
	return nil, summary, ok
}

func (s *chartStore) get(id string) (*loadedChart, error) {
	c, summary, ok := s.lookup(id)
	if !ok {
		return nil, nil
	}
	if c != nil {
		return c, nil
	}

	parsed, err := chart.ReadChartFile(summary.Path)
	if err != nil {
		return nil, err
	}
	c = newLoadedChart(summary.ID, summary.Path, parsed)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[id] = c
	return c, nil
}

func newLoadedChart(id string, path string, c *chart.Chart) *loadedChart {
	s := c.Score()
	conv := c.Converter(s)
	return &loadedChart{
		summary: catalog.Summarize(id, path, c, s, conv),
		score:   s,
		conv:    conv,
	}
}

func LoadServeFiles() {
	store.setCatalog(util.ReadBinaryOrPanic[[]model.ChartSummary](util.GetCatalogPath()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

// chartOrError writes the error response itself when there is no chart.
func chartOrError(w http.ResponseWriter, r *http.Request) *loadedChart {
	id := mux.Vars(r)["id"]
	c, err := store.get(id)
	if err != nil {
		fmt.Printf("Could not load chart %v: %v\n", id, err)
		writeError(w, http.StatusInternalServerError, "Could not load chart")
		return nil
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "No chart with id "+id)
		return nil
	}
	return c
}

func HandleListCharts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, store.list())
}

func HandleGetChart(w http.ResponseWriter, r *http.Request) {
	c := chartOrError(w, r)
	if c == nil {
		return
	}

	res := model.ChartResponse{ChartSummary: c.summary}
	if serveMetadata && c.summary.Path != "" {
		metadatas, err := db.GetChartMetadatas([]string{c.summary.Path})
		if err != nil {
			fmt.Printf("Could not get metadata: %v\n", err)
		} else if m, ok := metadatas[c.summary.Path]; ok {
			res.Metadata = &m
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func HandleGetScore(w http.ResponseWriter, r *http.Request) {
	c := chartOrError(w, r)
	if c == nil {
		return
	}
	writeJSON(w, http.StatusOK, c.score)
}

func HandleTickAt(w http.ResponseWriter, r *http.Request) {
	elapsed, err := strconv.ParseFloat(r.URL.Query().Get("elapsed"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "elapsed must be a number of seconds")
		return
	}
	c := chartOrError(w, r)
	if c == nil {
		return
	}
	writeJSON(w, http.StatusOK, model.TickResponse{Tick: c.conv.TickAt(elapsed), Elapsed: elapsed})
}

func HandleElapsedAt(w http.ResponseWriter, r *http.Request) {
	tick, err := strconv.Atoi(r.URL.Query().Get("tick"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "tick must be an integer")
		return
	}
	c := chartOrError(w, r)
	if c == nil {
		return
	}
	writeJSON(w, http.StatusOK, model.TickResponse{Tick: tick, Elapsed: c.conv.ElapsedAt(tick)})
}

func HandleUpload(w http.ResponseWriter, r *http.Request) {
	reqBody, err := ioutil.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	parsed, err := chart.Decode(reqBody, chart.JSON)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not parse chart: "+err.Error())
		return
	}

	c := newLoadedChart(uuid.New().String(), "", parsed)
	store.addUpload(c)
	writeJSON(w, http.StatusCreated, c.summary)
}

func HandleReindex(w http.ResponseWriter, r *http.Request) {
	if !constants.HasChartDir() {
		writeError(w, http.StatusBadRequest, "CHART_PATH is not set")
		return
	}
	reindexDebounced(func() {
		defer func() {
			if err := recover(); err != nil {
				fmt.Printf("Reindex crashed: %v\n", err)
			}
		}()
		if err := reindex(); err != nil {
			fmt.Printf("Reindex failed, keeping the current catalog: %v\n", err)
		}
	})
	w.WriteHeader(http.StatusAccepted)
}

// reindex rebuilds the catalog from CHART_PATH and swaps it in. On failure
// the served catalog is left alone.
func reindex() error {
	if !constants.HasChartDir() {
		return errors.New("CHART_PATH is not set")
	}
	summaries, err := Index(0)
	if err != nil {
		return err
	}
	store.setCatalog(summaries)
	return nil
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/charts", HandleListCharts).Methods("GET")
	router.HandleFunc("/charts", HandleUpload).Methods("POST")
	router.HandleFunc("/charts/{id}", HandleGetChart).Methods("GET")
	router.HandleFunc("/charts/{id}/score", HandleGetScore).Methods("GET")
	router.HandleFunc("/charts/{id}/tick", HandleTickAt).Methods("GET")
	router.HandleFunc("/charts/{id}/elapsed", HandleElapsedAt).Methods("GET")
	router.HandleFunc("/reindex", HandleReindex).Methods("POST")
	return cors.Default().Handler(router)
}

func serve() {
	LoadServeFiles()
	port := constants.GetPort()
	fmt.Printf("Listening on :%v\n", port)
	log.Fatal(http.ListenAndServe(":"+port, NewRouter()))
}
