package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keystone-claims/appliance-research/internal/match"
	"github.com/keystone-claims/appliance-research/internal/model"
	"github.com/keystone-claims/appliance-research/internal/research"
	"github.com/keystone-claims/appliance-research/internal/store"
)

const serviceVersion = "1.0.0"

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the appliance research REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		search := newSearchClient()
		api := &apiServer{
			resolver: newResolver(search),
			ranker:   newRanker(search),
			store:    st,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.router(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// apiServer exposes the research and replacement workflows over HTTP.
type apiServer struct {
	resolver *research.Resolver
	ranker   *match.Ranker
	store    store.Store
}

func (s *apiServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/research", s.handleResearch)
	r.Post("/api/replacements", s.handleReplacements)
	r.Post("/api/complete", s.handleComplete)

	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "appliance-research",
		"version": serviceVersion,
	})
}

func (s *apiServer) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.resolver.Research(r.Context(), req.Brand, req.Model, model.NormalizeCategory(req.ApplianceType), req.ForceAI)
	saveRun(r.Context(), s.store, model.RunKindResearch, req, result)

	writeJSON(w, http.StatusOK, result)
}

func (s *apiServer) handleReplacements(w http.ResponseWriter, r *http.Request) {
	var req replacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	filters, err := req.filters()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	original := req.original()
	report := s.ranker.FindReplacements(r.Context(), original)
	report = match.ApplyFilters(report, original.Brand, filters)
	saveRun(r.Context(), s.store, model.RunKindReplacement, req, report)

	writeJSON(w, http.StatusOK, report)
}

func (s *apiServer) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := runComplete(r.Context(), s.resolver, s.ranker, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saveRun(r.Context(), s.store, model.RunKindComplete, req, result)

	// A failed research stage is the caller's problem to inspect, mirrored
	// in the status code.
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
