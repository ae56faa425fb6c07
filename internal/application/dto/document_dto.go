package dto

import (
	"time"

	"github.com/oranauto/concession-api/internal/domain/workflow"
)

// CreateDocumentRequest fiche d'un fichier déjà déposé sur le stockage externe.
// L'étape est posée explicitement à l'écriture, jamais déduite du nom de fichier.
type CreateDocumentRequest struct {
	Stage        string `json:"stage" validate:"required"`
	DocumentType string `json:"document_type" validate:"required,oneof=PROFORMA_INVOICE CUSTOMER_ID PURCHASE_ORDER DELIVERY_NOTE FINAL_INVOICE OTHER"`
	DocumentName string `json:"document_name" validate:"required,max=255"`
	DocumentURL  string `json:"document_url" validate:"required,url"`
}

// DocumentResponse fiche document.
type DocumentResponse struct {
	ID           string         `json:"id"`
	OrderID      string         `json:"order_id"`
	Stage        workflow.Stage `json:"stage"`
	DocumentType string         `json:"document_type"`
	DocumentName string         `json:"document_name"`
	DocumentURL  string         `json:"document_url"`
	UploadedBy   string         `json:"uploaded_by"`
	CreatedAt    time.Time      `json:"created_at"`
}
