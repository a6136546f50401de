package index

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meghashyamc/notesapp/db/kvdb"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/notes"
)

var ErrIndexingInProgress = errors.New("indexing already in progress")

// Indexer is the fulltext index the rebuild writes to.
type Indexer interface {
	IndexNotes(notes []notes.Note) error
	DeleteDocuments(documentIDs []string) error
	DocumentIDs() ([]string, error)
}

// NoteSource yields the notes the index should contain.
type NoteSource interface {
	Snapshot() []notes.Note
}

// StatusStore keeps rebuild progress per request id.
type StatusStore interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
}

const (
	ProgressStatusQueued   = 0
	ProgressStatusStep1    = 10
	ProgressStatusStep2    = 20
	ProgressStatusComplete = 100
	ProgressStatusFailed   = -1

	notesPerBatch        = 100
	maxIndexWorkers      = 8
	maxIndexBuildingTime = 10 * time.Minute
)

type Service struct {
	logger      logger.Logger
	indexer     Indexer
	source      NoteSource
	statusStore StatusStore
	buildIndexC chan string
	busy        atomic.Bool
}

func New(ctx context.Context, logger logger.Logger, indexer Indexer, source NoteSource, statusStore StatusStore) *Service {
	indexService := &Service{
		logger:      logger,
		indexer:     indexer,
		source:      source,
		statusStore: statusStore,
		buildIndexC: make(chan string, 1),
	}

	go indexService.build(ctx)
	return indexService
}

// Build queues a rebuild of the fulltext index from the current notes.
// Only one rebuild runs at a time.
func (s *Service) Build(requestID string) error {
	if !s.busy.CompareAndSwap(false, true) {
		s.logger.Warn("request to index while indexing is already in progress", "request_id", requestID)
		return ErrIndexingInProgress
	}

	s.setRequestStatus(requestID, ProgressStatusQueued)
	s.buildIndexC <- requestID
	return nil
}

// GetStatus retrieves the progress of a rebuild request
func (s *Service) GetStatus(requestID string) (int, error) {
	value, err := s.statusStore.Get(kvdb.RequestsBucket, requestID)
	if err != nil {
		return 0, fmt.Errorf("request not found: %w", err)
	}

	status, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid status value: %w", err)
	}

	return status, nil
}

func (s *Service) build(ctx context.Context) {

	for {
		select {
		case requestID := <-s.buildIndexC:
			indexTimeoutCtx, cancel := context.WithTimeout(ctx, maxIndexBuildingTime)
			s.buildIndex(indexTimeoutCtx, requestID)
			cancel()
			s.busy.Store(false)
		case <-ctx.Done():
			s.logger.Info("index service stopped", "reason", ctx.Err())
			return
		}
	}
}

func (s *Service) buildIndex(ctx context.Context, requestID string) {
	snapshot := s.source.Snapshot()
	s.setRequestStatus(requestID, ProgressStatusStep1)

	if err := s.removeStaleDocuments(snapshot); err != nil {
		s.logger.Error("failed to rebuild index", "request_id", requestID, "err", err.Error())
		s.setRequestStatus(requestID, ProgressStatusFailed)
		return
	}
	s.setRequestStatus(requestID, ProgressStatusStep2)

	if err := s.indexInBatches(ctx, snapshot, requestID); err != nil {
		s.logger.Error("failed to rebuild index", "request_id", requestID, "err", err.Error())
		s.setRequestStatus(requestID, ProgressStatusFailed)
		return
	}

	s.logger.Info("index rebuilt", "request_id", requestID, "notes", len(snapshot))
	s.setRequestStatus(requestID, ProgressStatusComplete)
}

// removeStaleDocuments drops indexed ids that no longer belong to a note.
func (s *Service) removeStaleDocuments(snapshot []notes.Note) error {
	indexed, err := s.indexer.DocumentIDs()
	if err != nil {
		return fmt.Errorf("failed to list indexed documents: %w", err)
	}

	live := make(map[string]struct{}, len(snapshot))
	for _, note := range snapshot {
		live[note.ID] = struct{}{}
	}

	var stale []string
	for _, id := range indexed {
		if _, ok := live[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return nil
	}

	s.logger.Info("removing deleted notes from index", "deleted_notes", len(stale))
	if err := s.indexer.DeleteDocuments(stale); err != nil {
		return fmt.Errorf("failed to delete documents from search index: %w", err)
	}
	return nil
}

func (s *Service) indexInBatches(ctx context.Context, snapshot []notes.Note, requestID string) error {
	if len(snapshot) == 0 {
		return nil
	}

	batches := slices.Collect(slices.Chunk(snapshot, notesPerBatch))
	batchC := make(chan []notes.Note)
	errC := make(chan error, len(batches))
	var done atomic.Int64

	var wg sync.WaitGroup
	for range min(maxIndexWorkers, len(batches)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range batchC {
				if err := s.indexer.IndexNotes(batch); err != nil {
					errC <- err
					continue
				}
				indexed := int(done.Add(int64(len(batch))))
				s.setRequestStatus(requestID, getProgressPercentage(indexed, len(snapshot), ProgressStatusStep2, ProgressStatusComplete-1))
			}
		}()
	}

	go func() {
		defer close(batchC)
		for _, batch := range batches {
			select {
			case batchC <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(errC)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("indexing cancelled: %w", err)
	}
	var errs []error
	for err := range errC {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Service) setRequestStatus(requestID string, status int) {
	if err := s.statusStore.Set(kvdb.RequestsBucket, requestID, strconv.Itoa(status)); err != nil {
		s.logger.Error("failed to update request status", "request_id", requestID, "progress", status, "err", err.Error())
	}
}

func getProgressPercentage(done int, total int, initial int, final int) int {
	if done == 0 || total == 0 {
		return initial
	}

	if done >= total {
		return final
	}

	// Calculate the percentage between initial and final
	progress := float64(done) / float64(total)
	result := float64(initial) + progress*float64(final-initial)

	return int(result)

}
