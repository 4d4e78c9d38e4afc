package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"jobmatch-backend/internal/shared/storage/object"
	"jobmatch-backend/internal/shared/telemetry"
)

const defaultMaxBytes = 10 << 20

// Document identifies a stored résumé and its declared format.
type Document struct {
	ID         string
	StorageKey string
	Format     Format
	FileName   string
}

// Text is the normalized plain text of a document. It is never persisted.
type Text struct {
	DocumentID string
	Format     Format
	Content    string
}

type extractFunc func(data []byte) (string, error)

// extractors holds exactly one strategy per format.
var extractors = [formatCount]extractFunc{
	FormatPDF:  extractPDF,
	FormatDOCX: extractDOCX,
	FormatText: extractPlain,
}

// Extractor reads documents from an object store and turns them into text.
type Extractor struct {
	Store    object.ObjectStore
	MaxBytes int64
	Logger   *zap.Logger
}

// New returns an Extractor reading from store.
func New(store object.ObjectStore, logger *zap.Logger) *Extractor {
	return &Extractor{Store: store, MaxBytes: defaultMaxBytes, Logger: telemetry.OrNop(logger)}
}

// Extract resolves the document format, reads its bytes and returns normalized text.
// Unsupported formats fail before any read is attempted.
func (e *Extractor) Extract(ctx context.Context, doc Document) (Text, error) {
	format := doc.Format
	if format == FormatUnknown {
		format = FormatFromFileName(doc.FileName)
	}
	fn := lookup(format)
	if fn == nil {
		return Text{}, fmt.Errorf("extract document=%s name=%q: %w", doc.ID, doc.FileName, ErrUnsupportedFormat)
	}

	data, err := e.read(ctx, doc.StorageKey)
	if err != nil {
		return Text{}, fmt.Errorf("extract document=%s: %w", doc.ID, err)
	}

	content, err := run(fn, data)
	if err != nil {
		telemetry.OrNop(e.Logger).Info("extract.failed",
			zap.String("document_id", doc.ID),
			zap.Stringer("format", format),
			zap.Error(err),
		)
		return Text{}, fmt.Errorf("extract document=%s format=%s: %w", doc.ID, format, err)
	}
	return Text{DocumentID: doc.ID, Format: format, Content: content}, nil
}

// FromBytes extracts text from an in-memory payload of the given format.
func FromBytes(format Format, data []byte) (string, error) {
	fn := lookup(format)
	if fn == nil {
		return "", ErrUnsupportedFormat
	}
	return run(fn, data)
}

func lookup(format Format) extractFunc {
	if format <= FormatUnknown || format >= formatCount {
		return nil
	}
	return extractors[format]
}

func run(fn extractFunc, data []byte) (string, error) {
	raw, err := fn(data)
	if err != nil {
		if errors.Is(err, ErrCorruptDocument) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	content := normalize(raw)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: no extractable text", ErrCorruptDocument)
	}
	return content, nil
}

func (e *Extractor) read(ctx context.Context, storageKey string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	if e.Store == nil {
		return nil, fmt.Errorf("%w: no object store configured", ErrStorageRead)
	}
	body, err := e.Store.Open(ctx, storageKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrDocumentNotFound, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	defer body.Close()

	limit := e.MaxBytes
	if limit <= 0 {
		limit = defaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrCorruptDocument, limit)
	}
	return data, nil
}

func normalize(s string) string {
	s = strings.ToValidUTF8(s, "�")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
