package request

// PrintReceiptRequest names the cashier printed on the ticket
type PrintReceiptRequest struct {
	Cashier string `json:"cashier" binding:"omitempty,max=100"`
}
