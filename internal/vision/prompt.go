package vision

// extractionPrompt is the shared instruction template sent to every provider.
// It asks for JSON with canonical enum labels; the parser downstream does not
// trust the model to comply and degrades to line matching when it doesn't.
const extractionPrompt = `You are analyzing a purchase receipt image. Carefully read all text in the image and extract the purchase details.

Return ONLY valid JSON in this exact format:
{
  "vendor": "Store Name",
  "vendorAddress": "123 Main St",
  "vendorPhone": "555-0100",
  "receiptNumber": "R-12345",
  "date": "YYYY-MM-DD",
  "subtotal": 0.00,
  "tax": 0.00,
  "tip": 0.00,
  "discount": 0.00,
  "total": 0.00,
  "currency": "USD",
  "category": "one of: Groceries, Dining, Transportation, Travel, Entertainment, Utilities, Healthcare, Shopping, Education, Business, Personal Care, Home & Garden, Insurance, Subscriptions, Gifts & Donations, Taxes, Other",
  "paymentMethod": "one of: Cash, Credit Card, Debit Card, Check, Digital Wallet, Bank Transfer, Other",
  "lineItems": [
    {"name": "Item name", "quantity": 1, "unitPrice": 0.00, "totalPrice": 0.00}
  ],
  "confidence": 0.0
}

Important:
- The vendor is the merchant or business name, usually the largest text at the top of the receipt
- The date must be in YYYY-MM-DD format
- Amounts must be numbers (not strings), representing dollars and cents
- category and paymentMethod must be exactly one of the listed labels
- confidence is your certainty in the extraction, between 0.0 and 1.0
- If you cannot find a field, omit it from the JSON
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
