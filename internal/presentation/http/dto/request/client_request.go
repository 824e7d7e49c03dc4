package request

// LookupTaxIDRequest asks for a client by RUC
type LookupTaxIDRequest struct {
	TaxID string `json:"taxId" binding:"required"`
}

// ClientRequest represents the create and update client body
type ClientRequest struct {
	TaxID        string  `json:"tax_id" binding:"required,ruc"`
	LegalName    string  `json:"legal_name" binding:"required,max=255"`
	TradeName    *string `json:"trade_name" binding:"omitempty,max=255"`
	Address      string  `json:"address"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=255"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=50"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
}
