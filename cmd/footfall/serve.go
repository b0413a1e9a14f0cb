package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mverdeja/footfall/internal/common"
	"github.com/mverdeja/footfall/internal/engine"
	"github.com/mverdeja/footfall/internal/metrics"
	"github.com/mverdeja/footfall/internal/model"
	"github.com/mverdeja/footfall/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve metrics over HTTP",
		Long: `Load the transaction feed and expose the computed metrics as a JSON API
for dashboard frontends.

Endpoints:
  GET  /api/metrics     metric bundle for the query's filter parameters
  GET  /api/businesses  distinct business names
  GET  /api/locations   distinct locations, optionally ?business=NAME
  GET  /api/export      the loaded dataset as CSV
  POST /api/reload      refetch the feed and rebuild the dataset`,
		RunE: runServe,
	}

	addSourceFlags(cmd)
	cmd.Flags().String("addr", ":8600", "Listen address")
	_ = viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

// metricsRequest is the validated query-parameter form of a filter
// context.
type metricsRequest struct {
	Business           string `validate:"required"`
	Location           string `validate:"required"`
	Start              string `validate:"omitempty,datetime=2006-01-02"`
	End                string `validate:"omitempty,datetime=2006-01-02"`
	Days               int    `validate:"gte=0"`
	Window             int    `validate:"gte=0"`
	FirstTimeThreshold int    `validate:"gte=0"`
}

// server serializes access to the engine: Recompute and Load never run
// concurrently.
type server struct {
	engine   *engine.Engine
	source   service.TransactionSource
	validate *validator.Validate
	mu       sync.Mutex
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	bindSourceFlags(cmd)

	src, err := newSource()
	if err != nil {
		return err
	}

	eng := engine.New()
	stats, err := eng.LoadFrom(ctx, src)
	if err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}
	slog.Info("Loaded transaction feed",
		"rows", stats.Rows,
		"transactions", stats.Transactions,
		"dropped", stats.Dropped)

	srv := &server{
		engine:   eng,
		source:   src,
		validate: validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/metrics", srv.handleMetrics)
	mux.HandleFunc("GET /api/businesses", srv.handleBusinesses)
	mux.HandleFunc("GET /api/locations", srv.handleLocations)
	mux.HandleFunc("GET /api/export", srv.handleExport)
	mux.HandleFunc("POST /api/reload", srv.handleReload)

	addr := viper.GetString("serve.addr")
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving metrics API", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	req, err := parseMetricsRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	fc, err := req.filterContext()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	bundle, err := s.engine.Recompute(fc)
	s.mu.Unlock()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrNoData) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}

	slog.Debug("Served metrics", "filter", describeFilter(fc), "months", len(bundle.Labels))
	writeJSON(w, http.StatusOK, bundle)
}

func (s *server) handleBusinesses(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	businesses := s.engine.Businesses()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string][]string{"businesses": businesses})
}

func (s *server) handleLocations(w http.ResponseWriter, r *http.Request) {
	business := r.URL.Query().Get("business")
	if business == "" {
		business = model.All
	}
	s.mu.Lock()
	locations := s.engine.LocationsFor(business)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string][]string{"locations": locations})
}

func (s *server) handleExport(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := s.engine.ExportCSV(w); err != nil {
		slog.Error("CSV export failed", "error", err)
	}
}

func (s *server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats, err := s.engine.LoadFrom(r.Context(), s.source)
	s.mu.Unlock()
	if err != nil {
		// A failed reload keeps the previous dataset queryable.
		writeError(w, http.StatusBadGateway, err)
		return
	}

	slog.Info("Reloaded transaction feed",
		"rows", stats.Rows,
		"transactions", stats.Transactions,
		"dropped", stats.Dropped)
	writeJSON(w, http.StatusOK, stats)
}

func parseMetricsRequest(r *http.Request) (*metricsRequest, error) {
	q := r.URL.Query()
	req := &metricsRequest{
		Business:           model.All,
		Location:           model.All,
		Start:              q.Get("start"),
		End:                q.Get("end"),
		Window:             1,
		FirstTimeThreshold: 1,
	}
	if b := q.Get("business"); b != "" {
		req.Business = b
	}
	if l := q.Get("location"); l != "" {
		req.Location = l
	}

	var err error
	if req.Days, err = intParam(q.Get("days"), 0); err != nil {
		return nil, fmt.Errorf("invalid days: %w", err)
	}
	if req.Window, err = intParam(q.Get("window"), 1); err != nil {
		return nil, fmt.Errorf("invalid window: %w", err)
	}
	if req.FirstTimeThreshold, err = intParam(q.Get("first_time_threshold"), 1); err != nil {
		return nil, fmt.Errorf("invalid first_time_threshold: %w", err)
	}

	return req, nil
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func (r *metricsRequest) filterContext() (model.FilterContext, error) {
	fc := model.NewFilterContext()
	fc.Business = r.Business
	fc.Location = r.Location
	fc.ReturningWindow = r.Window
	fc.FirstTimeThresholdDays = r.FirstTimeThreshold

	switch {
	case r.Start != "" && r.End != "":
		start, _ := time.Parse("2006-01-02", r.Start)
		end, _ := time.Parse("2006-01-02", r.End)
		if end.Before(start) {
			return fc, errors.New("end is before start")
		}
		dr := model.NewDateRange(start, end)
		fc.Current = &dr
	case r.Start != "" || r.End != "":
		return fc, errors.New("start and end must be set together")
	case r.Days > 0:
		dr := metrics.RangeEndingAt(time.Now(), r.Days)
		fc.Current = &dr
	}

	return fc, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
