// Package api exposes the adapters over HTTP for the aggregator side.
package api

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"metasearch/client"
	"metasearch/search"
)

// Server fans queries out to the engine adapters and returns per-engine
// JSON. One failing engine contributes zero results; it never fails the
// whole response.
type Server struct {
	adapters map[search.Engine]search.Adapter
	client   *client.Client
	config   search.Config
	logger   *zap.Logger
	port     int
}

// NewServer creates the API server.
func NewServer(
	adapters map[search.Engine]search.Adapter,
	httpClient *client.Client,
	config search.Config,
	logger *zap.Logger,
	port int,
) *Server {
	return &Server{
		adapters: adapters,
		client:   httpClient,
		config:   config,
		logger:   logger,
		port:     port,
	}
}

// Start starts the API server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/search", s.searchHandler)
	mux.HandleFunc("/images", s.imagesHandler)
	mux.HandleFunc("/autocomplete", s.autocompleteHandler)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	s.logger.Info("starting api server", zap.Int("port", s.port))
	return http.ListenAndServe(":"+strconv.Itoa(s.port), mux)
}

// query builds the search.Query for one inbound request, honoring a
// per-request lang override.
func (s *Server) query(r *http.Request, text string) *search.Query {
	config := s.config
	if lang := r.URL.Query().Get("lang"); lang != "" {
		config.Language = lang
	}
	return &search.Query{Text: text, Config: config}
}
