package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/roadwatch/risk-cli/internal/ingest"
	"github.com/roadwatch/risk-cli/internal/model"
	"github.com/roadwatch/risk-cli/internal/predict"
	"github.com/roadwatch/risk-cli/internal/store"
	"github.com/roadwatch/risk-cli/pkg/geocode"
)

// newGeocoder builds the Nominatim client from config.
func newGeocoder() geocode.Client {
	return geocode.NewClient(
		geocode.WithBaseURL(cfg.Geocoder.BaseURL),
		geocode.WithUserAgent(cfg.Geocoder.UserAgent),
		geocode.WithRateLimit(cfg.Geocoder.RatePerSec),
		geocode.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Geocoder.TimeoutSecs) * time.Second,
		}),
	)
}

// openKV opens the configured persistence backend and runs migrations.
func openKV(ctx context.Context, dbPath string) (*store.KV, error) {
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}
	kv, err := store.OpenKV(dbPath)
	if err != nil {
		return nil, err
	}
	if err := kv.Migrate(ctx); err != nil {
		kv.Close()
		return nil, err
	}
	return kv, nil
}

// savePrediction records the most recent prediction in the store.
func savePrediction(ctx context.Context, kv *store.KV, result *predict.Result) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "marshal prediction")
	}
	return kv.Put(ctx, predict.KeyLastPrediction, string(blob))
}

// loadDataset reads and validates a historical dataset file.
func loadDataset(path string) ([]model.HistoricalRecord, error) {
	format, err := ingest.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()

	return ingest.Dataset(f, format)
}
