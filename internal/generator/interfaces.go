package generator

import "github.com/bisgardo/reification/internal/models"

// CodeGenerator renders generated type descriptors into files
type CodeGenerator interface {
	Generate(desc *models.GeneratedTypeDescriptor) (*models.GeneratedFile, error)
	GenerateAll(descs []*models.GeneratedTypeDescriptor) ([]*models.GeneratedFile, error)
}

// SourceRenderer renders one descriptor as source text
type SourceRenderer interface {
	Render(desc *models.GeneratedTypeDescriptor) (string, error)
}
