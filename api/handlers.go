package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"metasearch/search"
)

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	if text == "" {
		http.Error(w, "missing q parameter", http.StatusBadRequest)
		return
	}
	query := s.query(r, text)

	results := make(map[search.Engine]*search.Response)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, adapter := range s.adapters {
		req := adapter.SearchRequest(query)
		if req == nil {
			s.logger.Debug("engine declined query",
				zap.String("engine", string(name)),
				zap.String("query", text))
			continue
		}

		wg.Add(1)
		go func(name search.Engine, adapter search.Adapter, req *search.Request) {
			defer wg.Done()
			body, err := s.client.Do(r.Context(), name, req)
			if err != nil {
				s.logger.Warn("engine fetch failed",
					zap.String("engine", string(name)), zap.Error(err))
				return
			}
			resp, err := adapter.ParseSearch(string(body))
			if err != nil {
				s.logger.Warn("engine parse failed",
					zap.String("engine", string(name)), zap.Error(err))
				return
			}
			mu.Lock()
			results[name] = resp
			mu.Unlock()
		}(name, adapter, req)
	}
	wg.Wait()

	writeJSON(w, results)
}

func (s *Server) imagesHandler(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	if text == "" {
		http.Error(w, "missing q parameter", http.StatusBadRequest)
		return
	}
	query := s.query(r, text)

	results := make(map[search.Engine]*search.ImagesResponse)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, adapter := range s.adapters {
		searcher, ok := adapter.(search.ImageSearcher)
		if !ok {
			continue
		}
		req := searcher.ImageRequest(query)
		if req == nil {
			continue
		}

		wg.Add(1)
		go func(name search.Engine, searcher search.ImageSearcher, req *search.Request) {
			defer wg.Done()
			body, err := s.client.Do(r.Context(), name, req)
			if err != nil {
				s.logger.Warn("engine image fetch failed",
					zap.String("engine", string(name)), zap.Error(err))
				return
			}
			resp, err := searcher.ParseImages(string(body))
			if err != nil {
				s.logger.Warn("engine image parse failed",
					zap.String("engine", string(name)), zap.Error(err))
				return
			}
			mu.Lock()
			results[name] = resp
			mu.Unlock()
		}(name, searcher, req)
	}
	wg.Wait()

	writeJSON(w, results)
}

func (s *Server) autocompleteHandler(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	if text == "" {
		http.Error(w, "missing q parameter", http.StatusBadRequest)
		return
	}
	query := s.query(r, text)

	suggestions := []string{}
	for name, adapter := range s.adapters {
		completer, ok := adapter.(search.Autocompleter)
		if !ok {
			continue
		}
		req := completer.AutocompleteRequest(query)
		if req == nil {
			continue
		}
		body, err := s.client.Do(r.Context(), name, req)
		if err != nil {
			s.logger.Warn("autocomplete fetch failed",
				zap.String("engine", string(name)), zap.Error(err))
			continue
		}
		parsed, err := completer.ParseAutocomplete(string(body))
		if err != nil {
			s.logger.Warn("autocomplete parse failed",
				zap.String("engine", string(name)), zap.Error(err))
			continue
		}
		suggestions = append(suggestions, parsed...)
	}

	writeJSON(w, suggestions)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
