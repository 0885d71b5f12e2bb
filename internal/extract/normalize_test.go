package extract

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Normalizer", func() {
	var (
		normalizer *Normalizer
		now        time.Time
		ex         Extraction
		source     Source
		draft      Draft
	)

	BeforeEach(func() {
		now = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
		normalizer = NewNormalizer(DefaultPolicy)
		normalizer.Now = func() time.Time { return now }
		ex = Extraction{Tier: TierStructured, Fields: map[string]any{}, RawText: "raw"}
		source = SourceScan
	})

	JustBeforeEach(func() {
		draft = normalizer.Normalize(ex, source)
	})

	When("the extraction is empty", func() {
		It("defaults the vendor", func() {
			Expect(draft.Vendor).To(Equal("Unknown Vendor"))
		})

		It("defaults the date to the processing day", func() {
			Expect(draft.Date).To(Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
		})

		It("defaults monetary fields to zero", func() {
			Expect(draft.Subtotal).To(BeZero())
			Expect(draft.Tax).To(BeZero())
			Expect(draft.Total).To(BeZero())
		})

		It("defaults the currency", func() {
			Expect(draft.Currency).To(Equal("USD"))
		})

		It("defaults confidence to the scan fallback", func() {
			Expect(draft.Confidence).To(Equal(0.5))
		})

		It("produces an empty line item list, not nil", func() {
			Expect(draft.LineItems).NotTo(BeNil())
			Expect(draft.LineItems).To(BeEmpty())
		})

		It("retains the raw text", func() {
			Expect(draft.RawText).To(Equal("raw"))
		})
	})

	When("the record is manually entered", func() {
		BeforeEach(func() {
			source = SourceManual
		})

		It("defaults confidence to the manual fallback", func() {
			Expect(draft.Confidence).To(Equal(1.0))
		})
	})

	When("amounts arrive as strings", func() {
		BeforeEach(func() {
			ex.Fields["total"] = "19.99"
			ex.Fields["subtotal"] = "$1,234.50"
		})

		It("coerces them to numbers", func() {
			Expect(draft.Total).To(Equal(19.99))
			Expect(draft.Subtotal).To(Equal(1234.50))
		})
	})

	When("amounts arrive as numbers", func() {
		BeforeEach(func() {
			ex.Fields["total"] = 42.75
		})

		It("passes them through", func() {
			Expect(draft.Total).To(Equal(42.75))
		})
	})

	When("amounts are negative", func() {
		BeforeEach(func() {
			ex.Fields["total"] = -10.0
			ex.Fields["tax"] = "-1.50"
			ex.Fields["lineItems"] = []any{
				map[string]any{"name": "Refund", "quantity": -2.0, "unitPrice": -3.0},
			}
		})

		It("clamps monetary fields to zero without waiting for validation", func() {
			Expect(draft.Total).To(BeZero())
			Expect(draft.Tax).To(BeZero())
		})

		It("clamps line item quantities and prices to zero", func() {
			Expect(draft.LineItems[0].Quantity).To(BeZero())
			Expect(draft.LineItems[0].UnitPrice).To(BeZero())
		})
	})

	When("an amount is garbage", func() {
		BeforeEach(func() {
			ex.Fields["tax"] = "n/a"
		})

		It("absorbs the default", func() {
			Expect(draft.Tax).To(BeZero())
		})
	})

	When("confidence is above the upper bound", func() {
		BeforeEach(func() {
			ex.Fields["confidence"] = 1.7
		})

		It("clamps to 1.0", func() {
			Expect(draft.Confidence).To(Equal(1.0))
		})
	})

	When("confidence is below the lower bound", func() {
		BeforeEach(func() {
			ex.Fields["confidence"] = -0.2
		})

		It("clamps to 0.0", func() {
			Expect(draft.Confidence).To(Equal(0.0))
		})
	})

	When("the date is unparseable", func() {
		BeforeEach(func() {
			ex.Fields["date"] = "sometime last week"
		})

		It("defaults to the processing day", func() {
			Expect(draft.Date).To(Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the date uses a slash format", func() {
		BeforeEach(func() {
			ex.Fields["date"] = "03/15/2024"
		})

		It("parses it as a calendar date", func() {
			Expect(draft.Date).To(Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("line items are present", func() {
		BeforeEach(func() {
			ex.Fields["lineItems"] = []any{
				map[string]any{"name": "Milk", "quantity": 2.0, "unitPrice": 3.49, "totalPrice": 6.98},
				map[string]any{"name": "", "unitPrice": "1.25"},
			}
		})

		It("normalizes each item independently", func() {
			Expect(draft.LineItems).To(HaveLen(2))
			Expect(draft.LineItems[0].Name).To(Equal("Milk"))
			Expect(draft.LineItems[0].Quantity).To(Equal(2.0))
			Expect(draft.LineItems[0].TotalPrice).To(Equal(6.98))
		})

		It("defaults missing item fields", func() {
			Expect(draft.LineItems[1].Name).To(Equal("Unknown Item"))
			Expect(draft.LineItems[1].Quantity).To(Equal(1.0))
			Expect(draft.LineItems[1].UnitPrice).To(Equal(1.25))
			Expect(draft.LineItems[1].TotalPrice).To(BeZero())
		})
	})

	When("line items are not a sequence", func() {
		BeforeEach(func() {
			ex.Fields["lineItems"] = "none"
		})

		It("substitutes an empty list", func() {
			Expect(draft.LineItems).To(BeEmpty())
		})
	})

	When("tags are present", func() {
		BeforeEach(func() {
			ex.Fields["tags"] = []any{"work", " lunch ", 7}
		})

		It("keeps trimmed string entries only", func() {
			Expect(draft.Tags).To(Equal([]string{"work", "lunch"}))
		})
	})

	When("all fields are supplied", func() {
		BeforeEach(func() {
			ex.Fields = map[string]any{
				"vendor":        "Joe's Deli",
				"vendorAddress": "12 Main St",
				"vendorPhone":   "555-0100",
				"receiptNumber": "R-881",
				"date":          "2024-03-01",
				"subtotal":      11.50,
				"tax":           1.00,
				"total":         12.50,
				"currency":      "EUR",
				"category":      "Dining",
				"paymentMethod": "Cash",
				"expenseType":   "Business",
				"confidence":    0.9,
				"tags":          []any{"deli"},
			}
		})

		It("passes every field through unchanged", func() {
			Expect(draft.Vendor).To(Equal("Joe's Deli"))
			Expect(draft.VendorAddress).To(Equal("12 Main St"))
			Expect(draft.VendorPhone).To(Equal("555-0100"))
			Expect(draft.ReceiptNumber).To(Equal("R-881"))
			Expect(draft.Date).To(Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
			Expect(draft.Subtotal).To(Equal(11.50))
			Expect(draft.Tax).To(Equal(1.00))
			Expect(draft.Total).To(Equal(12.50))
			Expect(draft.Currency).To(Equal("EUR"))
			Expect(draft.Category).To(Equal(CategoryDining))
			Expect(draft.PaymentMethod).To(Equal(PaymentCash))
			Expect(draft.ExpenseType).To(Equal(TypeBusiness))
			Expect(draft.Confidence).To(Equal(0.9))
			Expect(draft.Tags).To(Equal([]string{"deli"}))
		})
	})

	When("the JSON object is missing total but the text has a total line", func() {
		BeforeEach(func() {
			ex = Parse("{\"vendor\": \"Acme\"}\nTOTAL: 42")
		})

		It("takes the total from the normalizer default, not the line match", func() {
			Expect(draft.Total).To(BeZero())
			Expect(draft.Vendor).To(Equal("Acme"))
		})
	})
})
