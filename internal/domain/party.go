package domain

import "errors"

// Party identifies one side of an invoice. Senders and recipients share
// the shape; which fields are required differs (the sender needs banking
// details for the footer, the recipient only an address block).
type Party struct {
	ID            string `json:"id,omitempty" yaml:"id"`
	Company       string `json:"company,omitempty" yaml:"company,omitempty"`
	Name          string `json:"name" yaml:"name"`
	Street        string `json:"street" yaml:"street"`
	Zip           string `json:"zip" yaml:"zip"`
	City          string `json:"city" yaml:"city"`
	Email         string `json:"email,omitempty" yaml:"email,omitempty"`
	ContactPerson string `json:"contactPerson,omitempty" yaml:"contact_person,omitempty"`
	TaxID         string `json:"taxId,omitempty" yaml:"tax_id,omitempty"`
	VatID         string `json:"vatId,omitempty" yaml:"vat_id,omitempty"`
	BankName      string `json:"bankName,omitempty" yaml:"bank_name,omitempty"`
	IBAN          string `json:"iban,omitempty" yaml:"iban,omitempty"`
	BIC           string `json:"bic,omitempty" yaml:"bic,omitempty"`
}

// DisplayName returns the company name if set, otherwise the personal name.
func (p Party) DisplayName() string {
	if p.Company != "" {
		return p.Company
	}
	return p.Name
}

// ValidateAsSender returns an error if the party cannot issue an invoice.
func (p Party) ValidateAsSender() error {
	if p.ID == "" {
		return errors.New("sender ID is required")
	}
	if p.Name == "" {
		return errors.New("sender name is required")
	}
	if p.Street == "" || p.Zip == "" || p.City == "" {
		return errors.New("sender address is incomplete")
	}
	if p.BankName == "" || p.IBAN == "" || p.BIC == "" {
		return errors.New("sender bank details are incomplete")
	}
	return nil
}

// ValidateAsRecipient returns an error if the party cannot be billed.
func (p Party) ValidateAsRecipient() error {
	if p.Company == "" && p.Name == "" {
		return errors.New("recipient name is required")
	}
	if p.Street == "" || p.Zip == "" || p.City == "" {
		return errors.New("recipient address is incomplete")
	}
	return nil
}
