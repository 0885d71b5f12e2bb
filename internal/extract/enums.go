package extract

// Category is the closed set of expense categories. The extraction prompt asks
// the model for one of these canonical labels; anything else is corrected to
// CategoryOther during validation.
type Category string

const (
	CategoryGroceries      Category = "Groceries"
	CategoryDining         Category = "Dining"
	CategoryTransportation Category = "Transportation"
	CategoryTravel         Category = "Travel"
	CategoryEntertainment  Category = "Entertainment"
	CategoryUtilities      Category = "Utilities"
	CategoryHealthcare     Category = "Healthcare"
	CategoryShopping       Category = "Shopping"
	CategoryEducation      Category = "Education"
	CategoryBusiness       Category = "Business"
	CategoryPersonalCare   Category = "Personal Care"
	CategoryHomeGarden     Category = "Home & Garden"
	CategoryInsurance      Category = "Insurance"
	CategorySubscriptions  Category = "Subscriptions"
	CategoryGifts          Category = "Gifts & Donations"
	CategoryTaxes          Category = "Taxes"
	CategoryOther          Category = "Other"
)

// Valid reports whether c is a member of the closed category set.
// Membership is an exact match against the canonical labels.
func (c Category) Valid() bool {
	switch c {
	case CategoryGroceries, CategoryDining, CategoryTransportation,
		CategoryTravel, CategoryEntertainment, CategoryUtilities,
		CategoryHealthcare, CategoryShopping, CategoryEducation,
		CategoryBusiness, CategoryPersonalCare, CategoryHomeGarden,
		CategoryInsurance, CategorySubscriptions, CategoryGifts,
		CategoryTaxes, CategoryOther:
		return true
	}
	return false
}

// Categories returns every member of the category set, in display order.
func Categories() []Category {
	return []Category{
		CategoryGroceries, CategoryDining, CategoryTransportation,
		CategoryTravel, CategoryEntertainment, CategoryUtilities,
		CategoryHealthcare, CategoryShopping, CategoryEducation,
		CategoryBusiness, CategoryPersonalCare, CategoryHomeGarden,
		CategoryInsurance, CategorySubscriptions, CategoryGifts,
		CategoryTaxes, CategoryOther,
	}
}

// PaymentMethod is the closed set of payment methods.
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "Cash"
	PaymentCreditCard    PaymentMethod = "Credit Card"
	PaymentDebitCard     PaymentMethod = "Debit Card"
	PaymentCheck         PaymentMethod = "Check"
	PaymentDigitalWallet PaymentMethod = "Digital Wallet"
	PaymentBankTransfer  PaymentMethod = "Bank Transfer"
	PaymentOther         PaymentMethod = "Other"
)

// Valid reports whether p is a member of the closed payment method set.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentCheck,
		PaymentDigitalWallet, PaymentBankTransfer, PaymentOther:
		return true
	}
	return false
}

// ExpenseType classifies an expense for reporting purposes.
type ExpenseType string

const (
	TypePersonal      ExpenseType = "Personal"
	TypeBusiness      ExpenseType = "Business"
	TypeTaxDeductible ExpenseType = "Tax Deductible"
)

// Valid reports whether t is a member of the expense type set.
func (t ExpenseType) Valid() bool {
	switch t {
	case TypePersonal, TypeBusiness, TypeTaxDeductible:
		return true
	}
	return false
}

// Source records how an expense entered the system.
type Source string

const (
	SourceScan   Source = "scan"
	SourceManual Source = "manual"
)
