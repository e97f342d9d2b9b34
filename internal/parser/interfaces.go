package parser

import "github.com/toyz/wsgen/internal/models"

// SchemaExtractor turns package syntax trees into controller descriptors
type SchemaExtractor interface {
	Extract(pkgs []SourcePackage) (*models.ExtractionResult, error)
}

var _ SchemaExtractor = (*Parser)(nil)
