package repository

import (
	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	domainRepo "github.com/sangkips/kasir-api/internal/domain/repository"
	"github.com/sangkips/kasir-api/internal/infrastructure/memory"
	"gorm.io/gorm"
)

type remoteProvider struct {
	products domainRepo.ProductRepository
	receipts domainRepo.ReceiptRepository
	invoices domainRepo.InvoiceNumberGenerator
	drifts   domainRepo.ReconciliationLog
}

// NewRemoteProvider binds the database repositories to one owner.
func NewRemoteProvider(db *gorm.DB, ownerID uuid.UUID, invoices domainRepo.InvoiceNumberGenerator) domainRepo.DataProvider {
	return &remoteProvider{
		products: NewProductRepository(db, ownerID),
		receipts: NewReceiptRepository(db, ownerID),
		invoices: invoices,
		drifts:   NewStockDriftRepository(db, ownerID),
	}
}

func (p *remoteProvider) Mode() domainRepo.ProviderMode { return domainRepo.ModeRemote }
func (p *remoteProvider) Products() domainRepo.ProductRepository { return p.products }
func (p *remoteProvider) Receipts() domainRepo.ReceiptRepository { return p.receipts }
func (p *remoteProvider) Invoices() domainRepo.InvoiceNumberGenerator { return p.invoices }
func (p *remoteProvider) Reconciliation() domainRepo.ReconciliationLog { return p.drifts }

// ProviderFactory creates the provider for a new session.
type ProviderFactory struct {
	db       *gorm.DB
	invoices domainRepo.InvoiceNumberGenerator
	prefixes pos.InvoicePrefixes
}

func NewProviderFactory(db *gorm.DB, invoices domainRepo.InvoiceNumberGenerator, prefixes pos.InvoicePrefixes) *ProviderFactory {
	return &ProviderFactory{db: db, invoices: invoices, prefixes: prefixes}
}

// Local returns a fresh in-memory provider.
func (f *ProviderFactory) Local() domainRepo.DataProvider {
	return memory.NewStore(memory.WithPrefixes(f.prefixes))
}

// Remote returns the database provider of ownerID.
func (f *ProviderFactory) Remote(ownerID uuid.UUID) domainRepo.DataProvider {
	return NewRemoteProvider(f.db, ownerID, f.invoices)
}
