package expense

import (
	"time"

	"github.com/snapledger/snapledger/internal/extract"
)

// Expense is the persisted financial record built from a scanned receipt or a
// manual entry. It is created once by the service and is immutable afterwards
// except for the UpdatedAt refresh the store performs on rewrite.
type Expense struct {
	ID string `json:"id"`

	Vendor        string `json:"vendor"`
	VendorAddress string `json:"vendorAddress,omitempty"`
	VendorPhone   string `json:"vendorPhone,omitempty"`
	ReceiptNumber string `json:"receiptNumber,omitempty"`

	Date time.Time `json:"date"`

	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Tip      float64 `json:"tip,omitempty"`
	Discount float64 `json:"discount,omitempty"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`

	Category      extract.Category      `json:"category"`
	PaymentMethod extract.PaymentMethod `json:"paymentMethod"`
	ExpenseType   extract.ExpenseType   `json:"expenseType"`

	LineItems []extract.LineItem `json:"lineItems"`

	Description string   `json:"description,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Tags        []string `json:"tags"`

	IsRecurring        bool   `json:"isRecurring"`
	RecurringFrequency string `json:"recurringFrequency,omitempty"`

	RawText string `json:"rawText"`

	// ImagePath names a file under the storage root and is only ever set
	// by the scan path. ImageURL is caller-supplied display metadata for
	// manual entries and is never handed to Storage.
	ImagePath        string `json:"imagePath,omitempty"`
	ImageURL         string `json:"imageUrl,omitempty"`
	ImageContentType string `json:"imageContentType,omitempty"`

	Confidence float64 `json:"confidence"`

	IsBusinessExpense bool `json:"isBusinessExpense"`
	IsTaxDeductible   bool `json:"isTaxDeductible"`

	Source extract.Source `json:"source"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary aggregates stored expenses for reporting.
type Summary struct {
	TotalSpend float64         `json:"totalSpend"`
	Count      int             `json:"count"`
	Categories []CategoryTotal `json:"categories"`
}

// CategoryTotal is the spend within a single category.
type CategoryTotal struct {
	Category extract.Category `json:"category"`
	Amount   float64          `json:"amount"`
	Count    int              `json:"count"`
}
