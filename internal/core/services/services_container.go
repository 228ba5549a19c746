package services

import (
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...LedgerOption) *portssvc.ServiceContainer {
	opts = append([]LedgerOption{WithDefaultCurrency(cfg.DefaultCurrency)}, opts...)

	return &portssvc.ServiceContainer{
		Folio:          NewFolioService(repos, opts...),
		Transaction:    NewTransactionService(repos, opts...),
		Assignment:     NewAssignmentService(repos, opts...),
		Void:           NewVoidService(repos, opts...),
		Totals:         NewTotalsService(repos, opts...),
		CompanyBilling: NewCompanyBillingService(repos, opts...),
		NightAudit:     NewNightAuditService(repos, opts...),
	}
}
