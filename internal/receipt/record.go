package receipt

// Category classifies an expense
type Category string

const (
	CategoryMeals         Category = "meals"
	CategoryTransport     Category = "transport"
	CategorySoftware      Category = "software"
	CategoryFuel          Category = "fuel"
	CategoryUncategorized Category = "uncategorized"
)

var validCategories = map[Category]bool{
	CategoryMeals:         true,
	CategoryTransport:     true,
	CategorySoftware:      true,
	CategoryFuel:          true,
	CategoryUncategorized: true,
}

// IsValid returns true if the category is a known expense category
func (c Category) IsValid() bool {
	return validCategories[c]
}

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// Status represents the review state of a receipt
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// DefaultCurrency is assumed when the backend omits a currency
const DefaultCurrency = "INR"

// Record is a receipt as exchanged with the backend. The id is assigned
// by the backend on creation and never fabricated on this side.
type Record struct {
	ID        string  `json:"id"`
	Vendor    string  `json:"vendor"`
	Date      string  `json:"date"` // YYYY-MM-DD canonical; extraction may return MM/DD/YYYY
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Category  string  `json:"category"`
	GSTIN     string  `json:"gstin"`
	TaxAmount float64 `json:"tax_amount"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
	Filename  string  `json:"filename"`
	MimeType  string  `json:"mime_type,omitempty"`
}
