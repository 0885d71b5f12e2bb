package extract

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Defaults holds the normalization fallback policy. The exact values are
// policy choices, not correctness requirements, so they are configurable
// rather than baked into the normalizer.
type Defaults struct {
	Vendor           string
	ItemName         string
	Currency         string
	ScanConfidence   float64
	ManualConfidence float64
}

// DefaultPolicy is the fallback policy used in production.
var DefaultPolicy = Defaults{
	Vendor:           "Unknown Vendor",
	ItemName:         "Unknown Item",
	Currency:         "USD",
	ScanConfidence:   0.5,
	ManualConfidence: 1.0,
}

// LineItem is a single purchased item on a receipt. It has no identity beyond
// its position in the owning draft's item list.
type LineItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// Draft is a fully populated, pre-validation expense. Every field is present;
// normalization substitutes documented defaults for anything missing or
// malformed. Category, payment method and expense type still carry whatever
// the candidate said and are only trusted after Validate runs.
type Draft struct {
	Vendor        string
	VendorAddress string
	VendorPhone   string
	ReceiptNumber string

	Date time.Time

	Subtotal float64
	Tax      float64
	Tip      float64
	Discount float64
	Total    float64
	Currency string

	Category      Category
	PaymentMethod PaymentMethod
	ExpenseType   ExpenseType

	LineItems []LineItem

	Description string
	Notes       string
	Tags        []string

	IsRecurring        bool
	RecurringFrequency string

	RawText  string
	ImageURL string

	Confidence float64

	IsBusinessExpense bool
	IsTaxDeductible   bool
}

// Normalizer applies per-field coercion rules with absorbing defaults.
type Normalizer struct {
	Defaults Defaults

	// Now supplies the processing date used when a receipt date is missing
	// or unparseable. Defaults to time.Now.
	Now func() time.Time
}

// NewNormalizer returns a Normalizer using the given fallback policy.
func NewNormalizer(d Defaults) *Normalizer {
	return &Normalizer{Defaults: d, Now: time.Now}
}

// Normalize coerces every candidate field in ex into a complete Draft. Each
// field is handled independently; a malformed value never affects another
// field and never produces an error. The source decides the confidence
// fallback: scanned records default lower than manually entered ones.
func (n *Normalizer) Normalize(ex Extraction, source Source) Draft {
	f := ex.Fields

	confDefault := n.Defaults.ScanConfidence
	if source == SourceManual {
		confDefault = n.Defaults.ManualConfidence
	}

	d := Draft{
		Vendor:        stringField(f, "vendor", n.Defaults.Vendor),
		VendorAddress: stringField(f, "vendorAddress", ""),
		VendorPhone:   stringField(f, "vendorPhone", ""),
		ReceiptNumber: stringField(f, "receiptNumber", ""),

		Date: n.dateField(f, "date"),

		Subtotal: amountField(f, "subtotal", 0),
		Tax:      amountField(f, "tax", 0),
		Tip:      amountField(f, "tip", 0),
		Discount: amountField(f, "discount", 0),
		Total:    amountField(f, "total", 0),
		Currency: stringField(f, "currency", n.Defaults.Currency),

		Category:      Category(stringField(f, "category", string(CategoryOther))),
		PaymentMethod: PaymentMethod(stringField(f, "paymentMethod", string(PaymentOther))),
		ExpenseType:   ExpenseType(stringField(f, "expenseType", string(TypePersonal))),

		LineItems: n.lineItemsField(f, "lineItems"),

		Description: stringField(f, "description", ""),
		Notes:       stringField(f, "notes", ""),
		Tags:        stringSliceField(f, "tags"),

		IsRecurring:        boolField(f, "isRecurring"),
		RecurringFrequency: stringField(f, "recurringFrequency", ""),

		RawText:  ex.RawText,
		ImageURL: stringField(f, "imageUrl", ""),

		Confidence: clamp(numberField(f, "confidence", confDefault), 0, 1),

		IsBusinessExpense: boolField(f, "isBusinessExpense"),
		IsTaxDeductible:   boolField(f, "isTaxDeductible"),
	}

	return d
}

// dateFormats are tried in order when parsing a candidate date.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

func (n *Normalizer) dateField(f map[string]any, key string) time.Time {
	now := n.Now
	if now == nil {
		now = time.Now
	}
	fallback := truncateToDay(now())

	raw, ok := f[key]
	if !ok {
		return fallback
	}
	s, ok := raw.(string)
	if !ok {
		return fallback
	}
	s = strings.TrimSpace(s)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return truncateToDay(t)
		}
	}
	return fallback
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func stringField(f map[string]any, key, fallback string) string {
	raw, ok := f[key]
	if !ok {
		return fallback
	}
	s, ok := raw.(string)
	if !ok {
		return fallback
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

// amountField coerces a candidate monetary value or quantity. Negative
// candidates clamp to zero here so the normalizer's output already satisfies
// the non-negativity invariant; validation re-asserts it defensively.
func amountField(f map[string]any, key string, fallback float64) float64 {
	return max(numberField(f, key, fallback), 0)
}

// numberField coerces a candidate into a float64. Models return amounts as
// JSON numbers, quoted strings, or strings with currency noise ("$1,234.50");
// all of those parse. Anything else absorbs the fallback.
func numberField(f map[string]any, key string, fallback float64) float64 {
	raw, ok := f[key]
	if !ok {
		return fallback
	}
	v, ok := coerceNumber(raw)
	if !ok {
		return fallback
	}
	return v
}

func coerceNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		return parseAmount(v)
	}
	return 0, false
}

// parseAmount parses a textual amount, tolerating currency symbols and
// thousands separators.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func boolField(f map[string]any, key string) bool {
	raw, ok := f[key]
	if !ok {
		return false
	}
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	}
	return false
}

func stringSliceField(f map[string]any, key string) []string {
	raw, ok := f[key]
	if !ok {
		return []string{}
	}
	seq, ok := raw.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(seq))
	for _, el := range seq {
		if s, ok := el.(string); ok {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// lineItemsField normalizes the candidate item list. A candidate that is not
// an ordered sequence becomes an empty list; each element is normalized
// independently with the same per-field rules as the top-level draft.
func (n *Normalizer) lineItemsField(f map[string]any, key string) []LineItem {
	raw, ok := f[key]
	if !ok {
		return []LineItem{}
	}
	seq, ok := raw.([]any)
	if !ok {
		return []LineItem{}
	}

	items := make([]LineItem, 0, len(seq))
	for _, el := range seq {
		fields, ok := el.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, LineItem{
			Name:       stringField(fields, "name", n.Defaults.ItemName),
			Quantity:   amountField(fields, "quantity", 1),
			UnitPrice:  amountField(fields, "unitPrice", 0),
			TotalPrice: amountField(fields, "totalPrice", 0),
		})
	}
	return items
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
