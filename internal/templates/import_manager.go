package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bisgardo/reification/internal/models"
)

// ImportManager decides how each referenced type is spelled in a generated
// file and collects the imports that spelling requires
type ImportManager struct {
	filePackage string
	simpleNames map[string]string // simple name -> qualified name that owns it
	imports     map[string]bool   // qualified names to import
}

// NewImportManager creates an import manager for a file in filePackage
func NewImportManager(filePackage string) *ImportManager {
	return &ImportManager{
		filePackage: filePackage,
		simpleNames: make(map[string]string),
		imports:     make(map[string]bool),
	}
}

// Reserve claims a simple name for a type declared in the file itself
func (im *ImportManager) Reserve(simpleName string) {
	if _, taken := im.simpleNames[simpleName]; !taken {
		im.simpleNames[simpleName] = qualifiedIn(im.filePackage, simpleName)
	}
}

// AddImport registers a referenced name. The first name to claim a simple
// name gets it; later qualified names with the same simple name stay
// qualified. Unqualified names claim themselves.
func (im *ImportManager) AddImport(qualifiedName string) {
	simple, pkg, ok := splitQualified(qualifiedName)
	if _, taken := im.simpleNames[simple]; taken {
		return
	}
	im.simpleNames[simple] = qualifiedName
	if !ok {
		return
	}
	if pkg != im.filePackage && pkg != models.ImplicitPackage {
		im.imports[qualifiedName] = true
	}
}

// Name returns how qualifiedName is written in the file
func (im *ImportManager) Name(qualifiedName string) string {
	simple, _, ok := splitQualified(qualifiedName)
	if !ok {
		return qualifiedName
	}
	if im.simpleNames[simple] == qualifiedName {
		return simple
	}
	return qualifiedName
}

// Imports returns the imported qualified names, sorted
func (im *ImportManager) Imports() []string {
	out := make([]string, 0, len(im.imports))
	for q := range im.imports {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

// GenerateImports generates the import section
func (im *ImportManager) GenerateImports() string {
	imports := im.Imports()
	if len(imports) == 0 {
		return ""
	}
	var result strings.Builder
	for _, imp := range imports {
		result.WriteString(fmt.Sprintf("import %s;\n", imp))
	}
	return result.String()
}

func qualifiedIn(pkg, simple string) string {
	if pkg == "" {
		return simple
	}
	return pkg + "." + simple
}

// splitQualified splits "a.b.C" into ("C", "a.b"). ok is false for names
// without a qualifier.
func splitQualified(name string) (simple, pkg string, ok bool) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return name, "", false
	}
	return name[i+1:], name[:i], true
}
