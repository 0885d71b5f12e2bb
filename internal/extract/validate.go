package extract

// Validate enforces the closed schema on a normalized draft. Enum candidates
// that are not exact members of their set are replaced with the designated
// Other (or Personal, for expense type) member; the extraction prompt asks
// for canonical labels, so anything else is untrusted rather than fuzzily
// matched. Numeric bounds already applied during normalization are asserted
// again here so no negative monetary value can reach the record builder.
//
// Validate is idempotent: running it on an already valid draft is a no-op.
func Validate(d *Draft) {
	if !d.Category.Valid() {
		d.Category = CategoryOther
	}
	if !d.PaymentMethod.Valid() {
		d.PaymentMethod = PaymentOther
	}
	if !d.ExpenseType.Valid() {
		d.ExpenseType = TypePersonal
	}

	d.Subtotal = max(d.Subtotal, 0)
	d.Tax = max(d.Tax, 0)
	d.Tip = max(d.Tip, 0)
	d.Discount = max(d.Discount, 0)
	d.Total = max(d.Total, 0)

	for i := range d.LineItems {
		d.LineItems[i].Quantity = max(d.LineItems[i].Quantity, 0)
		d.LineItems[i].UnitPrice = max(d.LineItems[i].UnitPrice, 0)
		d.LineItems[i].TotalPrice = max(d.LineItems[i].TotalPrice, 0)
	}

	d.Confidence = clamp(d.Confidence, 0, 1)
}
