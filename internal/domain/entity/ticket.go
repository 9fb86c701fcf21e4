package entity

// TicketHeader holds the store header printed at the top of a receipt.
type TicketHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// TicketLine is a single printed line item. Amounts are already formatted.
type TicketLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// Ticket is a printable receipt.
// It is not a database entity; it is composed from a stored receipt at print time.
type Ticket struct {
	Header      TicketHeader `json:"header"`
	Number      string       `json:"receipt_number"`
	Date        string       `json:"date"`
	Cashier     string       `json:"cashier,omitempty"`
	PaymentType string       `json:"payment_type,omitempty"`
	Manual      bool         `json:"is_manual"`
	Lines       []TicketLine `json:"lines"`
	Subtotal    string       `json:"subtotal"`
	Discount    string       `json:"discount,omitempty"`
	Total       string       `json:"total"`
}
