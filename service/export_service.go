package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/BigDee2008/FAQForge/metrics"
	"github.com/BigDee2008/FAQForge/models"
	"github.com/BigDee2008/FAQForge/repository"
	"github.com/BigDee2008/FAQForge/storage"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
)

// ExportFormat is the document type produced by ExportService
type ExportFormat string

const (
	ExportFormatHTML     ExportFormat = "html"
	ExportFormatMarkdown ExportFormat = "markdown"
)

// ParseExportFormat accepts "html" (the default when empty), "markdown" or "md"
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html":
		return ExportFormatHTML, nil
	case "markdown", "md":
		return ExportFormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f ExportFormat) extension() string {
	if f == ExportFormatMarkdown {
		return "md"
	}
	return "html"
}

// ContentType returns the MIME type served for the format
func (f ExportFormat) ContentType() string {
	if f == ExportFormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "text/html; charset=utf-8"
}

// ExportResult describes an uploaded document
type ExportResult struct {
	StoragePath string       `json:"storagePath"`
	FileName    string       `json:"fileName"`
	ContentType string       `json:"contentType"`
	Format      ExportFormat `json:"format"`
	Size        int          `json:"size"`
}

// ExportService renders stored FAQs as standalone documents and keeps them in file storage
type ExportService struct {
	faqRepo  repository.FaqRepository
	storage  storage.Storage
	markdown *converter.Converter
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// ExportServiceOption is a functional option for ExportService
type ExportServiceOption func(*ExportService)

// ExportWithRepository sets the FAQ repository
func ExportWithRepository(repo repository.FaqRepository) ExportServiceOption {
	return func(s *ExportService) {
		s.faqRepo = repo
	}
}

// ExportWithStorage sets the file storage
func ExportWithStorage(store storage.Storage) ExportServiceOption {
	return func(s *ExportService) {
		s.storage = store
	}
}

// ExportWithLogger sets the logger
func ExportWithLogger(logger *slog.Logger) ExportServiceOption {
	return func(s *ExportService) {
		s.logger = logger
	}
}

// ExportWithMetrics sets the metrics registry
func ExportWithMetrics(m *metrics.Metrics) ExportServiceOption {
	return func(s *ExportService) {
		s.metrics = m
	}
}

// NewExportService creates a new export service
func NewExportService(opts ...ExportServiceOption) *ExportService {
	s := &ExportService{
		markdown: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "export")
	return s
}

// Export builds the document for FAQ id and uploads it to faqs/<id>/faq-<id>.<ext>
func (s *ExportService) Export(ctx context.Context, id int64, format ExportFormat) (*ExportResult, error) {
	if s.faqRepo == nil {
		return nil, errors.New("faq repository not set")
	}
	if s.storage == nil {
		return nil, errors.New("storage not set")
	}
	if format != ExportFormatHTML && format != ExportFormatMarkdown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	faq, err := s.faqRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFaqNotFound
		}
		return nil, fmt.Errorf("failed to load faq %d: %w", id, err)
	}

	var doc string
	switch format {
	case ExportFormatMarkdown:
		doc, err = s.buildMarkdown(faq)
		if err != nil {
			return nil, err
		}
	default:
		doc = buildHTMLDocument(faq)
	}

	fileName := fmt.Sprintf("faq-%d.%s", faq.ID, format.extension())
	storagePath, err := s.storage.Upload(ctx, fmt.Sprintf("faqs/%d", faq.ID), fileName, strings.NewReader(doc))
	if err != nil {
		if s.metrics != nil {
			s.metrics.Errors.WithLabelValues("export").Inc()
		}
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	if s.metrics != nil {
		s.metrics.Exports.WithLabelValues(string(format)).Inc()
	}
	s.logger.Info("faq exported", "faq_id", faq.ID, "format", format, "path", storagePath, "bytes", len(doc))

	return &ExportResult{
		StoragePath: storagePath,
		FileName:    fileName,
		ContentType: format.ContentType(),
		Format:      format,
		Size:        len(doc),
	}, nil
}

// Open streams a previously exported document
func (s *ExportService) Open(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	if s.storage == nil {
		return nil, errors.New("storage not set")
	}
	rc, err := s.storage.Download(ctx, storagePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	return rc, nil
}

// buildMarkdown converts the simple layout rather than the stored markup so
// accordion buttons and scripts never reach the Markdown output.
func (s *ExportService) buildMarkdown(faq *models.FaqRecord) (string, error) {
	md, err := s.markdown.ConvertString(renderSimpleHTML(faq.Questions))
	if err != nil {
		return "", fmt.Errorf("failed to convert faq %d to markdown: %w", faq.ID, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", strings.TrimSpace(faq.BusinessType))
	b.WriteString(strings.TrimSpace(md))
	b.WriteString("\n")
	return b.String(), nil
}

func buildHTMLDocument(faq *models.FaqRecord) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s - %s</title>\n", sanitizeText(faq.BusinessType), faqTitle)
	b.WriteString("<style>\n")
	b.WriteString(faq.CSSCode)
	b.WriteString("\n</style>\n</head>\n<body>\n")
	b.WriteString(faq.HTMLCode)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
