package searchdb

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/meghashyamc/notesapp/config"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/notes"
)

const indexingBatchSize = 100

const (
	indexFieldTitle     = "title"
	indexFieldBody      = "body"
	indexFieldTags      = "tags"
	indexFieldCategory  = "category"
	indexFieldUpdatedAt = "updated_at"
)

type BleveDB struct {
	indexPath string
	logger    logger.Logger
	index     bleve.Index
}

func New(logger logger.Logger, cfg *config.Config) (*BleveDB, error) {
	mapping := createIndexMapping()
	indexPath := filepath.Join(cfg.GetStoragePath(), cfg.GetIndexPath())
	index, err := bleve.New(indexPath, mapping)
	if err != nil {
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Error("could not open index", "err", err.Error())
			return nil, err
		}
	}
	return &BleveDB{indexPath: indexPath, logger: logger, index: index}, nil
}

func (b *BleveDB) BuildIndex(documents []Document) error {
	return b.inBatches(len(documents), func(batch *bleve.Batch, i int) error {
		return batch.Index(documents[i].ID, documents[i])
	})
}

// inBatches calls add for items 0..n-1 and commits the batch every
// indexingBatchSize items.
func (b *BleveDB) inBatches(n int, add func(batch *bleve.Batch, i int) error) error {
	batch := b.index.NewBatch()
	for i := 0; i < n; i++ {
		if err := add(batch, i); err != nil {
			b.logger.Error("could not add to index batch", "err", err.Error())
			return err
		}
		if batch.Size() < indexingBatchSize && i < n-1 {
			continue
		}
		if err := b.index.Batch(batch); err != nil {
			b.logger.Error("could not commit index batch", "err", err.Error())
			return err
		}
		batch.Reset()
	}
	return nil
}

func (b *BleveDB) IndexNotes(ns []notes.Note) error {
	documents := make([]Document, len(ns))
	for i, note := range ns {
		documents[i] = NewDocument(note)
	}
	return b.BuildIndex(documents)
}

func createIndexMapping() mapping.IndexMapping {

	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = standard.Name
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(indexFieldTitle, titleFieldMapping)

	bodyFieldMapping := bleve.NewTextFieldMapping()
	bodyFieldMapping.Analyzer = standard.Name
	bodyFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(indexFieldBody, bodyFieldMapping)

	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(indexFieldTags, tagsFieldMapping)

	// Category is matched as a whole value
	categoryFieldMapping := bleve.NewTextFieldMapping()
	categoryFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(indexFieldCategory, categoryFieldMapping)

	updatedFieldMapping := bleve.NewDateTimeFieldMapping()
	docMapping.AddFieldMappingsAt(indexFieldUpdatedAt, updatedFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

func (b *BleveDB) Search(queryString string, limit int, offset int) (*Response, error) {
	start := time.Now()

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(queryString), limit, offset, false)

	searchRequest.Fields = []string{indexFieldTitle, indexFieldCategory, indexFieldUpdatedAt}

	searchRequest.Highlight = bleve.NewHighlight()
	searchRequest.Highlight.AddField(indexFieldTitle)
	searchRequest.Highlight.AddField(indexFieldBody)

	searchResult, err := b.index.Search(searchRequest)
	if err != nil {
		b.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, len(searchResult.Hits))
	for i, hit := range searchResult.Hits {
		results[i] = resultFromHit(hit)
	}

	response := &Response{
		Results:    results,
		Total:      searchResult.Total,
		MaxScore:   searchResult.MaxScore,
		SearchTime: time.Since(start).String(),
	}

	return response, nil
}

func resultFromHit(hit *search.DocumentMatch) Result {
	title, _ := hit.Fields[indexFieldTitle].(string)
	category, _ := hit.Fields[indexFieldCategory].(string)
	updatedAt, _ := hit.Fields[indexFieldUpdatedAt].(string)
	return Result{
		ID:        hit.ID,
		Title:     title,
		Category:  category,
		Score:     hit.Score,
		UpdatedAt: updatedAt,
		Fragments: hit.Fragments,
	}
}

// DocumentIDs lists every indexed note id, paging through a match-all query.
func (b *BleveDB) DocumentIDs() ([]string, error) {
	count, err := b.index.DocCount()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, count)
	for offset := 0; ; offset += indexingBatchSize {
		request := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), indexingBatchSize, offset, false)
		request.SortBy([]string{"_id"})
		result, err := b.index.Search(request)
		if err != nil {
			b.logger.Error("could not list indexed documents", "err", err.Error())
			return nil, fmt.Errorf("could not list indexed documents: %w", err)
		}
		for _, hit := range result.Hits {
			ids = append(ids, hit.ID)
		}
		if len(result.Hits) < indexingBatchSize {
			break
		}
	}
	return ids, nil
}

func (b *BleveDB) DeleteDocuments(documentIDs []string) error {
	return b.inBatches(len(documentIDs), func(batch *bleve.Batch, i int) error {
		batch.Delete(documentIDs[i])
		return nil
	})
}

func (b *BleveDB) GetDocCount() (uint64, error) {
	return b.index.DocCount()
}

func (b *BleveDB) Close() error {

	if b.index != nil {
		if err := b.index.Close(); err != nil {
			b.logger.Error("could not close search index", "err", err.Error())
			return err
		}
	}
	return nil
}
