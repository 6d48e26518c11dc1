package models

// GeneratedFile represents a rendered generated type ready to be written
type GeneratedFile struct {
	Path       string                   `json:"path"`    // output path relative to the output directory
	Content    string                   `json:"content"` // rendered source
	Descriptor *GeneratedTypeDescriptor `json:"-"`       // descriptor the file was rendered from
}
