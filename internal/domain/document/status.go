package document

// DocumentStatus represents the lifecycle state of a document
type DocumentStatus string

const (
	DocumentStatusInProgress DocumentStatus = "IN_PROGRESS"
	DocumentStatusCreated    DocumentStatus = "CREATED"
	DocumentStatusCancelled  DocumentStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusInProgress, DocumentStatusCreated, DocumentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	switch s {
	case DocumentStatusInProgress:
		return target == DocumentStatusCreated
	case DocumentStatusCreated:
		return target == DocumentStatusCancelled
	case DocumentStatusCancelled:
		return false // terminal
	}
	return false
}

// DocumentType discriminates the business document variants
type DocumentType string

const (
	DocumentTypeInvoice            DocumentType = "INVOICE"
	DocumentTypeReceipt            DocumentType = "RECEIPT"
	DocumentTypeShipment           DocumentType = "SHIPMENT"
	DocumentTypePurchaseReturn     DocumentType = "PURCHASE_RETURN"
	DocumentTypeEntryAdjustment    DocumentType = "ENTRY_ADJUSTMENT"
	DocumentTypeWithdrawAdjustment DocumentType = "WITHDRAW_ADJUSTMENT"
)

// IsValid checks if the type is a valid DocumentType
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeInvoice,
		DocumentTypeReceipt,
		DocumentTypeShipment,
		DocumentTypePurchaseReturn,
		DocumentTypeEntryAdjustment,
		DocumentTypeWithdrawAdjustment:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}
