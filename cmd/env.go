package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/keystone-claims/appliance-research/internal/match"
	"github.com/keystone-claims/appliance-research/internal/model"
	"github.com/keystone-claims/appliance-research/internal/research"
	"github.com/keystone-claims/appliance-research/internal/store"
	"github.com/keystone-claims/appliance-research/pkg/anthropic"
	"github.com/keystone-claims/appliance-research/pkg/websearch"
)

// initStore opens the configured run store. The "none" driver returns a
// NopStore so callers never branch on persistence being enabled.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DSN)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "none":
		st = store.NopStore{}
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// newSearchClient builds the Custom Search client from config.
func newSearchClient() websearch.Client {
	return websearch.NewClient(cfg.Search.Key, cfg.Search.EngineID,
		websearch.WithBaseURL(cfg.Search.BaseURL))
}

// newResolver builds the specification resolver, wiring the AI fallback only
// when it is enabled.
func newResolver(search websearch.Client) *research.Resolver {
	opts := []research.Option{
		research.WithQualityThreshold(cfg.Research.QualityThreshold),
		research.WithTimeouts(
			time.Duration(cfg.Search.TimeoutSecs)*time.Second,
			time.Duration(cfg.Anthropic.TimeoutSecs)*time.Second,
		),
	}
	if cfg.Research.UseAI {
		opts = append(opts, research.WithAI(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model))
	}
	return research.NewResolver(search, opts...)
}

// newRanker builds the replacement ranker over the configured retailer table.
func newRanker(search websearch.Client) *match.Ranker {
	retailers := make([]match.Retailer, 0, len(cfg.Replace.Retailers))
	for _, r := range cfg.Replace.Retailers {
		retailers = append(retailers, match.Retailer{Name: r.Name, Domain: r.Domain})
	}
	return match.NewRanker(search,
		match.WithRetailers(retailers),
		match.WithMaxConcurrent(cfg.Replace.MaxConcurrent),
		match.WithSearchTimeout(time.Duration(cfg.Search.TimeoutSecs)*time.Second))
}

// saveRun records an invocation. Persistence failures are logged and
// swallowed: a lost audit record never fails the request itself.
func saveRun(ctx context.Context, st store.Store, kind model.RunKind, request, result any) {
	reqJSON, err := json.Marshal(request)
	if err != nil {
		zap.L().Warn("marshal run request", zap.Error(err))
		return
	}
	resJSON, err := json.Marshal(result)
	if err != nil {
		zap.L().Warn("marshal run result", zap.Error(err))
		return
	}
	if _, err := st.SaveRun(ctx, kind, reqJSON, resJSON); err != nil {
		zap.L().Warn("persist run", zap.String("kind", string(kind)), zap.Error(err))
	}
}
