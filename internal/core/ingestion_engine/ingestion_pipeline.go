package ingestion_engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/bharathi/internal/core"
	"github.com/markdave123-py/bharathi/internal/models"
)

// DocumentIngestor runs the ingestion pipeline for one company at a time:
//
// db:         company record read and embedding batch write.
// fetcher:    downloads the linked document.
// extractor:  document bytes to plain text.
// classifier: merged text to categories.
// chunker:    category text to overlapping fragments.
// embedder:   fragments to vectors, one call per category.
type DocumentIngestor struct {
	db         core.DbClient
	fetcher    core.ContentFetcher
	extractor  core.DocumentExtractor
	classifier *Classifier
	chunker    *Chunker
	embedder   core.EmbeddingProvider
	cfg        *IngestConfig
	log        *zap.Logger
	newID      func() string
}

var _ Ingestor = (*DocumentIngestor)(nil)

// IngestReport summarizes a successful ingestion call.
type IngestReport struct {
	CompanyID   string                  `json:"company_id"`
	CompanyName string                  `json:"company_name"`
	Rows        int                     `json:"rows"`
	Fragments   map[models.Category]int `json:"fragments"`
	Replaced    bool                    `json:"replaced"`
	Duration    time.Duration           `json:"duration"`
}

// categoryBatch carries one category through chunking and embedding.
type categoryBatch struct {
	category  models.Category
	fragments []string
	vectors   [][]float32
}

func NewDocumentIngestor(
	db core.DbClient,
	fetcher core.ContentFetcher,
	extractor core.DocumentExtractor,
	llm core.LLMProvider,
	emb core.EmbeddingProvider,
	cfg *IngestConfig,
	log *zap.Logger,
) (*DocumentIngestor, error) {
	if cfg == nil {
		cfg = DefaultIngestConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	chunker, err := NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	return &DocumentIngestor{
		db:         db,
		fetcher:    fetcher,
		extractor:  extractor,
		classifier: NewClassifier(llm),
		chunker:    chunker,
		embedder:   emb,
		cfg:        cfg,
		log:        log.Named("ingestor"),
		newID:      uuid.NewString,
	}, nil
}

// Ingest fetches, classifies, chunks, embeds and persists one company's
// profile. Rows are written in a single batch only after every category has
// been embedded; any failure returns an *IngestError and writes nothing.
//
// Once started, a call is not aborted by cancellation of ctx; every external
// call carries its own timeout instead.
func (i *DocumentIngestor) Ingest(ctx context.Context, companyID string, opts ...IngestOption) (*IngestReport, error) {
	o := ingestOptions{replace: i.cfg.ReplaceExisting}
	for _, opt := range opts {
		opt(&o)
	}

	proctx := context.WithoutCancel(ctx)
	started := time.Now()
	log := i.log.With(zap.String("company_id", companyID))

	fail := func(stage Stage, kind Kind, err error) (*IngestReport, error) {
		ie := &IngestError{Kind: kind, Stage: stage, CompanyID: companyID, Err: err}
		if kind == KindNotFound {
			log.Warn("company not found", zap.String("stage", string(stage)))
		} else {
			log.Error("ingestion failed",
				zap.String("stage", string(stage)),
				zap.Stringer("kind", kind),
				zap.Error(err))
		}
		return nil, ie
	}

	// 1) company record
	rec, err := i.loadRecord(proctx, companyID)
	if err != nil {
		return fail(StageFetchingRecord, KindPersistenceFailure, err)
	}
	if rec == nil {
		return fail(StageFetchingRecord, KindNotFound, fmt.Errorf("%w with id: %s", ErrCompanyNotFound, companyID))
	}

	// 2) linked document
	var documentText string
	if rec.ContentURL != "" {
		data, err := i.fetch(proctx, rec.ContentURL)
		if err != nil {
			return fail(StageExtractingText, KindRetrievalFailure, err)
		}
		documentText, err = i.extract(proctx, data, rec.ContentURL)
		if err != nil {
			return fail(StageExtractingText, KindExtractionFailure, err)
		}
		log.Info("document extracted",
			zap.Int("bytes", len(data)),
			zap.Int("text_len", len(documentText)))
	}

	// 3) merge
	merged := MergeFields(rec, documentText)
	if merged == "" {
		return fail(StageMergingFields, KindEmptyResult, ErrNothingToEmbed)
	}
	log.Debug("fields merged",
		zap.String("stage", string(StageMergingFields)),
		zap.Int("text_len", len(merged)))

	// 4) classify
	categorized, err := i.classify(proctx, merged)
	if err != nil {
		var fe *ClassificationFormatError
		if errors.As(err, &fe) {
			return fail(StageClassifying, KindClassificationFormat, err)
		}
		return fail(StageClassifying, KindClassificationFailure, err)
	}

	// 5) chunk, then embed each non-empty category
	if categorized.IsEmpty() {
		return fail(StageChunkingAndEmbedding, KindEmptyResult, ErrNothingToEmbed)
	}
	batches, total := i.chunkCategories(categorized)
	if err := i.embedBatches(proctx, batches); err != nil {
		return fail(StageChunkingAndEmbedding, KindEmbeddingFailure, err)
	}

	// 6) persist everything at once
	rows := i.assembleRows(rec, batches, total)
	if err := i.persist(proctx, companyID, rows, o.replace); err != nil {
		return fail(StagePersistingBatch, KindPersistenceFailure, err)
	}

	report := &IngestReport{
		CompanyID:   companyID,
		CompanyName: rec.CompanyName,
		Rows:        len(rows),
		Fragments:   make(map[models.Category]int, len(batches)),
		Replaced:    o.replace,
		Duration:    time.Since(started),
	}
	for _, b := range batches {
		report.Fragments[b.category] = len(b.fragments)
	}
	log.Info("stored successfully",
		zap.String("stage", string(StageDone)),
		zap.String("company_name", rec.CompanyName),
		zap.Int("rows", report.Rows),
		zap.Bool("replaced", o.replace),
		zap.Duration("took", report.Duration))
	return report, nil
}

// MergeFields builds the classifier input from the profile fields and the
// extracted document text. Empty parts are left out.
func MergeFields(rec *models.CompanyRecord, documentText string) string {
	var parts []string
	if name := strings.TrimSpace(rec.CompanyName); name != "" {
		parts = append(parts, "Company: "+name)
	}
	if desc := strings.TrimSpace(rec.Description); desc != "" {
		parts = append(parts, "Context: "+desc)
	}
	if doc := strings.TrimSpace(documentText); doc != "" {
		parts = append(parts, "Document:\n"+doc)
	}
	return strings.Join(parts, "\n\n")
}

func (i *DocumentIngestor) loadRecord(ctx context.Context, companyID string) (*models.CompanyRecord, error) {
	ctx, cancel := withTimeout(ctx, i.cfg.RecordTimeout)
	defer cancel()
	rec, err := i.db.GetCompanyContext(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load company record: %w", err)
	}
	return rec, nil
}

func (i *DocumentIngestor) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, i.cfg.FetchTimeout)
	defer cancel()
	return i.fetcher.Fetch(ctx, url)
}

func (i *DocumentIngestor) extract(ctx context.Context, data []byte, url string) (string, error) {
	ctx, cancel := withTimeout(ctx, i.cfg.ExtractTimeout)
	defer cancel()
	return i.extractor.ExtractText(ctx, data, url)
}

func (i *DocumentIngestor) classify(ctx context.Context, merged string) (models.CategorizedText, error) {
	ctx, cancel := withTimeout(ctx, i.cfg.ClassifyTimeout)
	defer cancel()
	return i.classifier.Classify(ctx, merged)
}

func (i *DocumentIngestor) chunkCategories(categorized models.CategorizedText) ([]categoryBatch, int) {
	batches := make([]categoryBatch, 0, len(models.Categories))
	total := 0
	for _, cat := range models.Categories {
		frags := i.chunker.Split(categorized[cat])
		if len(frags) == 0 {
			i.log.Debug("category empty, skipping", zap.String("category", string(cat)))
			continue
		}
		batches = append(batches, categoryBatch{category: cat, fragments: frags})
		total += len(frags)
	}
	return batches, total
}

// embedBatches embeds every category concurrently; the first failure cancels the rest.
func (i *DocumentIngestor) embedBatches(ctx context.Context, batches []categoryBatch) error {
	g, gctx := errgroup.WithContext(ctx)
	for idx := range batches {
		b := &batches[idx]
		g.Go(func() error {
			ectx, cancel := withTimeout(gctx, i.cfg.EmbedTimeout)
			defer cancel()

			vecs, err := i.embedder.EmbedTexts(ectx, b.fragments)
			if err != nil {
				return fmt.Errorf("embed %s: %w", b.category, err)
			}
			if len(vecs) != len(b.fragments) {
				return fmt.Errorf("embed %s: size mismatch: got %d want %d", b.category, len(vecs), len(b.fragments))
			}
			b.vectors = vecs
			i.log.Debug("category embedded",
				zap.String("category", string(b.category)),
				zap.Int("fragments", len(b.fragments)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return i.checkDimensions(batches)
}

// checkDimensions requires one non-empty vector size across the whole call.
func (i *DocumentIngestor) checkDimensions(batches []categoryBatch) error {
	dim := i.cfg.EmbedDim
	for _, b := range batches {
		for k, v := range b.vectors {
			if len(v) == 0 {
				return fmt.Errorf("embed %s: empty vector at %d", b.category, k)
			}
			if dim == 0 {
				dim = len(v)
			}
			if len(v) != dim {
				return fmt.Errorf("embed %s: vector %d has dimension %d, want %d", b.category, k, len(v), dim)
			}
		}
	}
	return nil
}

func (i *DocumentIngestor) assembleRows(rec *models.CompanyRecord, batches []categoryBatch, total int) []models.CompanyEmbedding {
	rows := make([]models.CompanyEmbedding, 0, total)
	for _, b := range batches {
		for k, frag := range b.fragments {
			rows = append(rows, models.CompanyEmbedding{
				ID:        i.newID(),
				CompanyID: rec.CompanyID,
				Content:   frag,
				Embedding: b.vectors[k],
				Metadata: models.EmbeddingMetadata{
					CompanyName: rec.CompanyName,
					Category:    b.category,
					ChunkIndex:  k,
					TotalChunks: len(b.fragments),
				},
			})
		}
	}
	return rows
}

func (i *DocumentIngestor) persist(ctx context.Context, companyID string, rows []models.CompanyEmbedding, replace bool) error {
	ctx, cancel := withTimeout(ctx, i.cfg.PersistTimeout)
	defer cancel()
	var err error
	if replace {
		err = i.db.ReplaceCompanyEmbeddings(ctx, companyID, rows)
	} else {
		err = i.db.InsertCompanyEmbeddings(ctx, rows)
	}
	if err != nil {
		return fmt.Errorf("insert embeddings: %w", err)
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
