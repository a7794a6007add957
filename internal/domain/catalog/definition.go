package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/catalog/field"
)

// CategoryDefinition is one entry of the categories catalog document.
type CategoryDefinition struct {
	Name          string           `json:"name"`
	DocumentTypes []TypeDefinition `json:"documentTypes"`
}

// TypeDefinition is a bare document type record inside a category.
type TypeDefinition struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"displayName"`
	DisplayNamePlural string   `json:"displayNamePlural"`
	HasOrganismField  bool     `json:"hasOrganismField"`
	Boost             *float64 `json:"boost,omitempty"`
	WdkSearchURLName  string   `json:"wdkSearchUrlName,omitempty"`
}

// FieldsDefinition is one entry of the fields catalog document.
type FieldsDefinition struct {
	DocumentType string             `json:"document-type"`
	Fields       []field.Definition `json:"fields"`
}

// ParseCategories decodes the json-blob of the categories document.
func ParseCategories(blob []byte) ([]CategoryDefinition, error) {
	var defs []CategoryDefinition
	if err := json.Unmarshal(blob, &defs); err != nil {
		return nil, fmt.Errorf("%w: decode categories document: %w", domain.ErrCatalogInvalid, err)
	}
	return defs, nil
}

// ParseFields decodes the json-blob of the fields document.
func ParseFields(blob []byte) ([]FieldsDefinition, error) {
	var defs []FieldsDefinition
	if err := json.Unmarshal(blob, &defs); err != nil {
		return nil, fmt.Errorf("%w: decode fields document: %w", domain.ErrCatalogInvalid, err)
	}
	return defs, nil
}
