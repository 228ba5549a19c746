package services

// ServiceContainer holds instances of all the application services.
// It is the entry point handlers and background jobs use to reach the ledger.
type ServiceContainer struct {
	Folio          FolioSvcFacade
	Transaction    TransactionSvcFacade
	Assignment     AssignmentSvcFacade
	Void           VoidSvcFacade
	Totals         TotalsSvcFacade
	CompanyBilling CompanyBillingSvcFacade
	NightAudit     NightAuditSvc
}
