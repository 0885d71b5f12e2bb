package expense

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/snapledger/snapledger/internal/extract"
	"github.com/snapledger/snapledger/internal/vision"
)

// IDGenerator generates unique IDs for expenses.
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service runs the extraction pipeline and assembles expense records. It is
// stateless between invocations; concurrent scans are fully independent.
type Service struct {
	db          DB
	extractor   vision.Extractor
	storage     Storage
	normalizer  *extract.Normalizer
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with the production ID generator and clock.
func NewService(db DB, extractor vision.Extractor, storage Storage) *Service {
	return NewServiceWithDeps(db, extractor, storage,
		extract.NewNormalizer(extract.DefaultPolicy),
		&uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing.
func NewServiceWithDeps(db DB, extractor vision.Extractor, storage Storage, normalizer *extract.Normalizer, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		normalizer:  normalizer,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ScanExpense runs the full pipeline on a receipt image: vision call, parse,
// normalize, validate, build, persist. Only the vision call and the database
// write can fail; parsing and normalization always degrade to defaults.
func (s *Service) ScanExpense(ctx context.Context, imageData []byte, contentType string) (*Expense, error) {
	rawText, err := s.extractor.ExtractText(ctx, imageData, contentType)
	if err != nil {
		return nil, fmt.Errorf("extracting receipt text: %w", err)
	}

	ex := extract.Parse(rawText)
	if ex.Tier == extract.TierFallback {
		slog.Info("Structured extraction unavailable, used line matching")
	}

	draft := s.normalizer.Normalize(ex, extract.SourceScan)
	extract.Validate(&draft)

	record := s.buildExpense(draft, extract.SourceScan)

	// Keep the original upload so the record can link back to it
	filename := record.ID + imageExtension(contentType)
	savedPath, err := s.storage.Save(filename, imageData)
	if err != nil {
		return nil, fmt.Errorf("saving receipt image: %w", err)
	}
	record.ImagePath = savedPath
	record.ImageContentType = contentType

	if err := s.db.SaveExpense(record); err != nil {
		// No partial writes: the image is cleaned up when the record
		// cannot be persisted
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving expense: %w", err)
	}

	return record, nil
}

// CreateManualExpense builds an expense from caller-supplied fields. Manual
// entry bypasses extraction, not validation: the same normalization and
// schema rules apply as on the scan path.
func (s *Service) CreateManualExpense(ctx context.Context, fields map[string]any) (*Expense, error) {
	rawText, _ := fields["rawText"].(string)
	ex := extract.Extraction{
		Tier:    extract.TierStructured,
		Fields:  fields,
		RawText: rawText,
	}

	draft := s.normalizer.Normalize(ex, extract.SourceManual)
	extract.Validate(&draft)

	record := s.buildExpense(draft, extract.SourceManual)
	record.ImageURL = draft.ImageURL

	if err := s.db.SaveExpense(record); err != nil {
		return nil, fmt.Errorf("saving expense: %w", err)
	}

	return record, nil
}

// buildExpense assembles the final record from a validated draft, stamping
// provenance and timestamps.
func (s *Service) buildExpense(d extract.Draft, source extract.Source) *Expense {
	now := s.timeSource.Now()
	return &Expense{
		ID: s.idGenerator.Generate(),

		Vendor:        d.Vendor,
		VendorAddress: d.VendorAddress,
		VendorPhone:   d.VendorPhone,
		ReceiptNumber: d.ReceiptNumber,

		Date: d.Date,

		Subtotal: d.Subtotal,
		Tax:      d.Tax,
		Tip:      d.Tip,
		Discount: d.Discount,
		Total:    d.Total,
		Currency: d.Currency,

		Category:      d.Category,
		PaymentMethod: d.PaymentMethod,
		ExpenseType:   d.ExpenseType,

		LineItems: d.LineItems,

		Description: d.Description,
		Notes:       d.Notes,
		Tags:        d.Tags,

		IsRecurring:        d.IsRecurring,
		RecurringFrequency: d.RecurringFrequency,

		RawText: d.RawText,

		Confidence: d.Confidence,

		IsBusinessExpense: d.IsBusinessExpense,
		IsTaxDeductible:   d.IsTaxDeductible,

		Source: source,

		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetExpense retrieves an expense by ID.
func (s *Service) GetExpense(id string) (*Expense, error) {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return nil, fmt.Errorf("getting expense: %w", err)
	}
	return expense, nil
}

// ListExpenses returns all expenses, newest date first.
func (s *Service) ListExpenses() ([]*Expense, error) {
	expenses, err := s.db.ListExpenses()
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense and its stored image.
func (s *Service) DeleteExpense(id string) error {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return fmt.Errorf("getting expense for deletion: %w", err)
	}

	if expense.ImagePath != "" {
		if err := s.storage.Delete(expense.ImagePath); err != nil {
			slog.Warn("Failed to delete image", "path", expense.ImagePath, "error", err)
		}
	}

	if err := s.db.DeleteExpense(id); err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}
	return nil
}

// GetExpenseImage retrieves the stored receipt image for an expense.
func (s *Service) GetExpenseImage(id string) ([]byte, string, error) {
	expense, err := s.db.GetExpense(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting expense: %w", err)
	}
	if expense.ImagePath == "" {
		return nil, "", fmt.Errorf("expense has no image: %s", id)
	}

	data, err := s.storage.Get(expense.ImagePath)
	if err != nil {
		return nil, "", fmt.Errorf("getting expense image: %w", err)
	}

	return data, expense.ImageContentType, nil
}

// Summarize aggregates total spend and per-category totals across all
// stored expenses.
func (s *Service) Summarize() (*Summary, error) {
	expenses, err := s.db.ListExpenses()
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	byCategory := make(map[extract.Category]*CategoryTotal)
	summary := &Summary{Categories: []CategoryTotal{}}
	for _, e := range expenses {
		summary.TotalSpend += e.Total
		summary.Count++
		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category}
			byCategory[e.Category] = ct
		}
		ct.Amount += e.Total
		ct.Count++
	}

	for _, c := range extract.Categories() {
		if ct, ok := byCategory[c]; ok {
			summary.Categories = append(summary.Categories, *ct)
		}
	}

	return summary, nil
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/heic", "image/heif":
		return ".heic"
	case "application/pdf":
		return ".pdf"
	}
	return ""
}
