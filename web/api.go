// Package web provides the HTTP API to create partitions and to query them.
package web

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"tilepart/box"
	ownIo "tilepart/io"
	"tilepart/parser"
	"tilepart/query"
	"tilepart/storage"
	"tilepart/tiles"
)

const maxLengthOfPrintedQuery = 10000

var ErrDomainTooLarge = errors.New("domain too large")

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

type CreatePartitionRequest struct {
	Lower    []int `json:"lower"`
	Upper    []int `json:"upper"`
	TileSize []int `json:"tileSize"`
}

type PartitionResponse struct {
	ID       string `json:"id"`
	Domain   string `json:"domain"`
	Lower    []int  `json:"lower"`
	Upper    []int  `json:"upper"`
	TileSize []int  `json:"tileSize"`
	Shape    []int  `json:"shape"`
	Tiles    int    `json:"tiles"`
}

func newPartitionResponse(id string, tileSet *tiles.TileSet[box.Box]) PartitionResponse {
	domain := tileSet.Domain()
	return PartitionResponse{
		ID:       id,
		Domain:   domain.String(),
		Lower:    domain.Lower,
		Upper:    domain.Upper,
		TileSize: tileSet.TileSize(),
		Shape:    tileSet.Shape(),
		Tiles:    tileSet.Len(),
	}
}

func StartServer(port string, cacheSize int, workers int, maxCells int) {
	r := NewRouter(storage.NewPartitionStore(cacheSize), workers, maxCells)
	sigolo.Infof("Start server without TLS support on port %s", port)
	err := http.ListenAndServe(":"+port, r)
	sigolo.FatalCheck(err)
}

func StartServerTls(port string, certFile string, keyFile string, cacheSize int, workers int, maxCells int) {
	r := NewRouter(storage.NewPartitionStore(cacheSize), workers, maxCells)
	sigolo.Infof("Start server with TLS support on port %s", port)
	err := http.ListenAndServeTLS(":"+port, certFile, keyFile, r)
	sigolo.FatalCheck(err)
}

type api struct {
	store    *storage.PartitionStore
	workers  int
	maxCells int // Largest domain, in cells, a client may request
}

// NewRouter creates all routes of the API. Partitions are built with the given number of workers and may have at
// most maxCells cells.
func NewRouter(store *storage.PartitionStore, workers int, maxCells int) *mux.Router {
	a := &api{store: store, workers: workers, maxCells: maxCells}

	r := mux.NewRouter()
	r.Use(metricsMiddleware, corsMiddleware)

	r.HandleFunc("/health", a.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/partitions", a.handleListPartitions).Methods(http.MethodGet)
	r.HandleFunc("/partitions", a.handleCreatePartition).Methods(http.MethodPost)
	r.HandleFunc("/partitions/{id}", a.handleGetPartition).Methods(http.MethodGet)
	r.HandleFunc("/partitions/{id}", a.handleDeletePartition).Methods(http.MethodDelete)
	r.HandleFunc("/partitions/{id}/tiles", a.handleGetTiles).Methods(http.MethodGet)
	r.HandleFunc("/partitions/{id}/query", a.handleQuery).Methods(http.MethodPost)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(writer, request)
	})
}

func (a *api) handleHealth(writer http.ResponseWriter, request *http.Request) {
	writeJson(writer, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) handleListPartitions(writer http.ResponseWriter, request *http.Request) {
	responses := []PartitionResponse{}
	for id, tileSet := range a.store.All() {
		responses = append(responses, newPartitionResponse(id, tileSet))
	}
	writeJson(writer, http.StatusOK, responses)
}

func (a *api) handleCreatePartition(writer http.ResponseWriter, request *http.Request) {
	body, err := io.ReadAll(request.Body)
	if err != nil {
		writeError(writer, http.StatusInternalServerError, "Error reading HTTP body", err)
		return
	}

	var createRequest CreatePartitionRequest
	err = json.Unmarshal(body, &createRequest)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Error parsing partition request", err)
		return
	}

	domain := box.New(createRequest.Lower, createRequest.Upper)
	cells, err := tiles.CellCount(domain)
	if err != nil {
		writeError(writer, statusOf(err), "Error creating partition", err)
		return
	}
	if cells > a.maxCells {
		err = errors.Wrapf(ErrDomainTooLarge, "domain %s has %d cells but at most %d are allowed", domain, cells, a.maxCells)
		writeError(writer, statusOf(err), "Error creating partition", err)
		return
	}

	tileSet, err := tiles.NewBoxes(domain, createRequest.TileSize, tiles.WithWorkers(a.workers))
	if err != nil {
		writeError(writer, statusOf(err), "Error creating partition", err)
		return
	}

	id := a.store.Insert(tileSet)
	instrumentPartitions(a.store.Len(), tileSet.Len())
	sigolo.Infof("Created partition %s with %d tiles", id, tileSet.Len())

	writer.Header().Set("Location", "/partitions/"+id)
	writeJson(writer, http.StatusCreated, newPartitionResponse(id, tileSet))
}

func (a *api) handleGetPartition(writer http.ResponseWriter, request *http.Request) {
	id := mux.Vars(request)["id"]
	tileSet, err := a.store.Get(id)
	if err != nil {
		writeError(writer, statusOf(err), "Error getting partition", err)
		return
	}

	writeJson(writer, http.StatusOK, newPartitionResponse(id, tileSet))
}

func (a *api) handleDeletePartition(writer http.ResponseWriter, request *http.Request) {
	id := mux.Vars(request)["id"]
	err := a.store.Delete(id)
	if err != nil {
		writeError(writer, statusOf(err), "Error deleting partition", err)
		return
	}

	instrumentPartitions(a.store.Len(), 0)
	sigolo.Infof("Deleted partition %s", id)
	writer.WriteHeader(http.StatusNoContent)
}

func (a *api) handleGetTiles(writer http.ResponseWriter, request *http.Request) {
	tileSet, err := a.store.Get(mux.Vars(request)["id"])
	if err != nil {
		writeError(writer, statusOf(err), "Error getting partition", err)
		return
	}
	view := tileSet.MakeView()

	switch format := request.URL.Query().Get("format"); format {
	case "", "json":
		result, err := query.AllStatement{}.Execute(view)
		if err != nil {
			writeError(writer, statusOf(err), "Error listing tiles", err)
			return
		}
		writeJson(writer, http.StatusOK, result.Matches)
	case "geojson":
		if view.Dim() != 2 {
			err = errors.Wrapf(tiles.ErrUnsupportedDimension, "partition has %d dimensions", view.Dim())
			writeError(writer, statusOf(err), "Error writing GeoJSON", err)
			return
		}
		writer.Header().Set("Content-Type", "application/geo+json")
		err = ownIo.WriteTilesAsGeoJson(view, writer)
		if err != nil {
			sigolo.Errorf("Error writing GeoJSON: %+v", err)
		}
	default:
		writeError(writer, http.StatusBadRequest, "Unknown format", errors.Errorf("format '%s' is not one of: json, geojson", format))
	}
}

func (a *api) handleQuery(writer http.ResponseWriter, request *http.Request) {
	tileSet, err := a.store.Get(mux.Vars(request)["id"])
	if err != nil {
		writeError(writer, statusOf(err), "Error getting partition", err)
		return
	}

	queryBytes, err := io.ReadAll(request.Body)
	if err != nil {
		writeError(writer, http.StatusInternalServerError, "Error reading HTTP body", err)
		return
	}

	queryString := string(queryBytes)

	trimmedQueryString := queryString
	queryRunes := []rune(queryString)
	if len(queryRunes) > maxLengthOfPrintedQuery {
		trimmedQueryString = string(queryRunes[:maxLengthOfPrintedQuery]) + "... [truncated]"
	}
	sigolo.Infof("Query:\n%s", trimmedQueryString)

	queryObj, err := parser.ParseQueryString(queryString)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Error parsing query", err)
		return
	}

	results, err := queryObj.Execute(tileSet.MakeView())
	if err != nil {
		writeError(writer, statusOf(err), "Error executing query", err)
		return
	}
	instrumentQuery(len(results))

	writer.Header().Set("Content-Type", "application/json")
	err = ownIo.WriteResultsAsJson(results, writer)
	if err != nil {
		sigolo.Errorf("Error writing query result: %+v", err)
	}
}

// statusOf maps errors of the engine and the store to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, storage.ErrPartitionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDomainTooLarge),
		errors.Is(err, tiles.ErrInvalidDomain),
		errors.Is(err, tiles.ErrInvalidTileSize),
		errors.Is(err, tiles.ErrTileSizeTooLarge),
		errors.Is(err, tiles.ErrTileBoundsMismatch),
		errors.Is(err, tiles.ErrBorderUndefined),
		errors.Is(err, tiles.ErrUnsupportedDimension),
		errors.Is(err, query.ErrDimensionMismatch),
		errors.Is(err, query.ErrCellOutsideDomain):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(writer http.ResponseWriter, status int, message string, err error) {
	sigolo.Errorf("%s: %+v", message, err)
	writeJson(writer, status, ErrorResponse{
		Error:   message,
		Details: err.Error(),
	})
}

func writeJson(writer http.ResponseWriter, status int, value any) {
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		sigolo.Errorf("Error marshalling response: %+v", err)
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, err = writer.Write(jsonBytes)
	if err != nil {
		sigolo.Errorf("Error writing response: %+v", err)
	}
}
