package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roadwatch/risk-cli/internal/analytics"
	"github.com/roadwatch/risk-cli/internal/ingest"
	"github.com/roadwatch/risk-cli/internal/predict"
	"github.com/roadwatch/risk-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the risk prediction HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		kv, err := openKV(ctx, "")
		if err != nil {
			return err
		}
		defer kv.Close()

		// The predictor reads the same store the upload handler swaps.
		history := store.NewMemory()
		app := &apiServer{
			history:   history,
			kv:        kv,
			predictor: predict.New(newGeocoder(), history),
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: app.mux(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// apiServer holds the shared state behind the HTTP handlers. uploadMu
// serializes dataset swaps so a swap never interleaves with the export
// rebuild that follows it.
type apiServer struct {
	history   *store.Memory
	kv        *store.KV
	predictor *predict.Predictor
	uploadMu  sync.Mutex
}

func (s *apiServer) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("POST /upload-predict", s.handleUploadPredict)
	mux.HandleFunc("GET /high-risk-areas", s.handleHighRiskAreas)
	mux.HandleFunc("GET /stats", s.handleStats)
	return mux
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predict.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.predictor.Predict(r.Context(), req)
	if err != nil {
		if eris.Is(err, predict.ErrMissingField) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("predict handler failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	if err := savePrediction(r.Context(), s.kv, result); err != nil {
		// Persistence is best effort; the prediction is still returned.
		zap.L().Warn("failed to persist prediction", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, result)
}

// handleUploadPredict ingests a dataset upload, replaces the in-memory
// history, rebuilds the high-risk export, and returns the dataset
// analytics.
func (s *apiServer) handleUploadPredict(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	format, err := ingest.DetectFormat(header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unsupported file format")
		return
	}

	records, err := ingest.Dataset(file, format)
	if err != nil {
		if eris.Is(err, ingest.ErrNoValidRecords) || eris.Is(err, ingest.ErrUnsupportedFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("upload ingest failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "ingest failed")
		return
	}

	s.uploadMu.Lock()
	defer s.uploadMu.Unlock()

	s.history.Replace(records)

	now := time.Now()
	areas := analytics.BuildExport(records, now)
	if err := analytics.PersistExport(r.Context(), s.kv, areas, now); err != nil {
		zap.L().Error("export persist failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	report, err := analytics.Analyze(records)
	if err != nil {
		zap.L().Error("upload analytics failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analytics failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records":         len(records),
		"high_risk_areas": len(areas),
		"stats":           report,
	})
}

func (s *apiServer) handleHighRiskAreas(w http.ResponseWriter, r *http.Request) {
	blob, err := s.kv.Get(r.Context(), analytics.KeyHighRiskData)
	if err != nil {
		if eris.Is(err, store.ErrKeyNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{
				"high_risk_areas": []any{},
				"last_updated":    nil,
			})
			return
		}
		zap.L().Error("export read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store read failed")
		return
	}

	var lastUpdated any
	if ts, err := s.kv.Get(r.Context(), analytics.KeyLastUpdated); err == nil {
		lastUpdated = ts
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"high_risk_areas": json.RawMessage(blob),
		"last_updated":    lastUpdated,
	})
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	report, err := analytics.Analyze(s.history.Records())
	if err != nil {
		if eris.Is(err, analytics.ErrEmptyDataset) {
			writeError(w, http.StatusNotFound, "no dataset uploaded")
			return
		}
		zap.L().Error("stats handler failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analytics failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	// Error strings from eris wrap chains can carry newlines.
	msg = strings.ReplaceAll(msg, "\n", " ")
	writeJSON(w, status, map[string]string{"error": msg})
}
