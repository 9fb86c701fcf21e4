package repository

// ProviderMode names where a provider keeps its data.
type ProviderMode string

const (
	// ModeLocal keeps everything in process memory for anonymous sessions.
	ModeLocal ProviderMode = "local"
	// ModeRemote persists to the database, scoped to one owner.
	ModeRemote ProviderMode = "remote"
)

// DataProvider bundles the storage a session works against. A session picks
// its provider once, when it is created.
type DataProvider interface {
	Mode() ProviderMode
	Products() ProductRepository
	Receipts() ReceiptRepository
	Invoices() InvoiceNumberGenerator
	Reconciliation() ReconciliationLog
}
