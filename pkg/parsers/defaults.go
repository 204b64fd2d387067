package parsers

import (
	"github.com/charmbracelet/log"

	"github.com/classcanvas/classcanvas/pkg/parsers/cpp"
	"github.com/classcanvas/classcanvas/pkg/parsers/csharp"
	"github.com/classcanvas/classcanvas/pkg/parsers/ecmascript"
)

// DefaultRegistry builds a registry with every built-in language parser
// and its file extension claims.
func DefaultRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return NewRegistry(
		RegistryEntry{
			Parser:     ecmascript.New(ecmascript.WithLogger(logger)),
			Extensions: []string{".ts", ".tsx", ".js", ".jsx"},
		},
		RegistryEntry{
			Parser:     cpp.New(cpp.WithLogger(logger)),
			Extensions: []string{".cpp", ".cc", ".cxx", ".h", ".hpp", ".hxx"},
		},
		RegistryEntry{
			Parser:     csharp.New(csharp.WithLogger(logger)),
			Extensions: []string{".cs"},
		},
	)
}
