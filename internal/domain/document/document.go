package document

import (
	"fmt"
	"slices"
)

// Backend field names shared by every indexed record.
const (
	FieldID            = "id"
	FieldDocumentType  = "document-type"
	FieldOrganism      = "organism"
	FieldProject       = "project"
	FieldPrimaryKey    = "primaryKey"
	FieldScore         = "score"
	FieldWdkPrimaryKey = "wdkPrimaryKeyString"
	FieldHyperlinkName = "hyperlinkName"
	FieldJSONBlob      = "json-blob"
)

// Internal document types: bookkeeping records that are never results.
const (
	TypeCategories = "document-categories"
	TypeFields     = "document-fields"
	TypeBatchMeta  = "batch-meta"
)

var internalTypes = []string{TypeBatchMeta, TypeCategories, TypeFields}

// IsInternalType reports whether a document type is a bookkeeping record.
func IsInternalType(docType string) bool {
	return slices.Contains(internalTypes, docType)
}

// Document is a raw backend record as decoded from JSON.
type Document map[string]any

// ID returns the unique backend id.
func (d Document) ID() string { return d.String(FieldID) }

// Type returns the document type id.
func (d Document) Type() string { return d.String(FieldDocumentType) }

// String returns a scalar string value. Single-element lists are unwrapped.
func (d Document) String(name string) string {
	switch v := d[name].(type) {
	case string:
		return v
	case []any:
		if len(v) == 1 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// Strings returns a list value. A scalar string becomes a one-element list.
func (d Document) Strings(name string) ([]string, bool) {
	switch v := d[name].(type) {
	case string:
		return []string{v}, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case []string:
		return v, true
	}
	return nil, false
}

// Float returns a numeric value.
func (d Document) Float(name string) (float64, bool) {
	switch v := d[name].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Score returns the relevance score (0 when absent).
func (d Document) Score() float64 {
	s, _ := d.Float(FieldScore)
	return s
}

// PrimaryKey returns the record's primary key values.
func (d Document) PrimaryKey() ([]string, error) {
	pk, ok := d.Strings(FieldPrimaryKey)
	if !ok {
		return nil, fmt.Errorf("document %q has no valid %s", d.ID(), FieldPrimaryKey)
	}
	return pk, nil
}
