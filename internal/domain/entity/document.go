package entity

import (
	"time"

	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// Types de document valides.
const (
	DocTypeProformaInvoice = "PROFORMA_INVOICE"
	DocTypeCustomerID      = "CUSTOMER_ID"
	DocTypePurchaseOrder   = "PURCHASE_ORDER"
	DocTypeDeliveryNote    = "DELIVERY_NOTE"
	DocTypeFinalInvoice    = "FINAL_INVOICE"
	DocTypeOther           = "OTHER"
)

// ValidDocumentType indique si le type fait partie de l'ensemble fermé.
func ValidDocumentType(t string) bool {
	switch t {
	case DocTypeProformaInvoice, DocTypeCustomerID, DocTypePurchaseOrder,
		DocTypeDeliveryNote, DocTypeFinalInvoice, DocTypeOther:
		return true
	}
	return false
}

// Document fiche d'un fichier rattaché à une commande et à une étape.
// L'étape est une référence explicite posée à l'écriture, jamais déduite du nom
// de fichier. Les fiches sont immuables ; seule la suppression est permise.
type Document struct {
	ID           string
	OrderID      string
	Stage        workflow.Stage
	DocumentType string
	DocumentName string
	DocumentURL  string
	UploadedBy   string
	CreatedAt    time.Time
}
