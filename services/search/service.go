package search

import (
	"github.com/meghashyamc/notesapp/db/searchdb"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/notes"
)

// NoteSource provides the collection searches run over.
type NoteSource interface {
	Snapshot() []notes.Note
}

type Service struct {
	logger logger.Logger
	source NoteSource
	engine *Engine
	db     searchdb.DB
}

func New(logger logger.Logger, source NoteSource, engine *Engine, db searchdb.DB) *Service {
	if engine == nil {
		engine = NewEngine()
	}
	return &Service{
		logger: logger,
		source: source,
		engine: engine,
		db:     db,
	}
}

// Search ranks the current notes against query and filters.
func (s *Service) Search(query string, filters Filters) []Result {
	snapshot := s.source.Snapshot()
	results := s.engine.Search(snapshot, query, filters)
	s.logger.Debug("search completed", "query", query, "notes", len(snapshot), "results", len(results))
	return results
}

func (s *Service) Keywords() []string {
	return ExtractKeywords(s.source.Snapshot())
}

// Fulltext queries the bleve index instead of scoring the snapshot.
func (s *Service) Fulltext(query string, limit int, offset int) (*searchdb.Response, error) {
	response, err := s.db.Search(query, limit, offset)
	if err != nil {
		s.logger.Error("fulltext search failed", "query", query, "err", err.Error())
		return nil, err
	}
	return response, nil
}
