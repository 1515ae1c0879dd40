package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/PeterBaptista/piano-midi/constants"
	"github.com/PeterBaptista/piano-midi/model"
	"github.com/PeterBaptista/piano-midi/notes"
	"github.com/PeterBaptista/piano-midi/smf"
	"github.com/PeterBaptista/piano-midi/util"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", constants.GetPort(), "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the decode HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// decoded files live in memory for the lifetime of the server
var (
	filesMu sync.RWMutex
	files   = make(map[string]model.DecodedFile)
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "healthy", Version: constants.Version})
}

// HandleDecode decodes the raw SMF bytes in the request body. An optional
// merge_gap query parameter runs repeated-note merging with that threshold.
func HandleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "could not read request body"})
		return
	}

	res, err := smf.Decode(body)
	if err != nil {
		logrus.Warnf("decode failed: %v", err)
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "failed to parse file, select another"})
		return
	}

	if v := r.URL.Query().Get("merge_gap"); v != "" {
		gap, err := strconv.ParseFloat(v, 64)
		if err != nil || gap < 0 {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "merge_gap must be a non-negative number"})
			return
		}
		res.Notes = notes.MergeRepeated(res.Notes, gap)
		res.Duration = notes.TotalDuration(res.Notes)
	}

	id := uuid.New().String()
	filesMu.Lock()
	files[id] = res
	filesMu.Unlock()

	logrus.Infof("decoded upload %v: %v notes, %.2fs", id, len(res.Notes), res.Duration)
	writeJSON(w, http.StatusOK, model.DecodeResponse{
		FileId:       id,
		Notes:        res.Notes,
		Duration:     res.Duration,
		TempoChanges: res.TempoChanges,
	})
}

func HandleGetFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	filesMu.RLock()
	res, ok := files[id]
	filesMu.RUnlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Error: "no such file"})
		return
	}
	writeJSON(w, http.StatusOK, model.DecodeResponse{
		FileId:       id,
		Notes:        res.Notes,
		Duration:     res.Duration,
		TempoChanges: res.TempoChanges,
	})
}

func HandleListFiles(w http.ResponseWriter, r *http.Request) {
	filesMu.RLock()
	ids := util.GetKeys(files)
	filesMu.RUnlock()

	sort.Strings(ids)
	writeJSON(w, http.StatusOK, ids)
}

func NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/health", HandleHealth).Methods("GET")
	router.HandleFunc("/decode", HandleDecode).Methods("POST")
	router.HandleFunc("/files", HandleListFiles).Methods("GET")
	router.HandleFunc("/files/{id}", HandleGetFile).Methods("GET")
	return router
}

func serve() {
	handler := cors.New(cors.Options{
		AllowedOrigins: constants.GetCorsOrigins(),
		AllowedMethods: []string{"GET", "POST"},
	}).Handler(NewRouter())

	addr := fmt.Sprintf(":%v", servePort)
	logrus.Infof("listening on %v", addr)
	logrus.Fatal(http.ListenAndServe(addr, handler))
}
