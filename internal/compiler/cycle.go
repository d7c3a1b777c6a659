package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/groqtype/internal/typesys"
)

// CycleWarning reports declarations that only alias each other.
//
// Cycles are warnings, not errors: the evaluator reads every member as
// unknown, which is sound but loses all type information.
type CycleWarning struct {
	Declarations []string `json:"declarations"` // sorted member names
	Message      string   `json:"message"`
	Level        string   `json:"level"` // "warning"
}

// AnalyzeCycles reports every alias cycle among the schema's declarations.
// A schema without cycles returns an empty list.
func AnalyzeCycles(s typesys.Schema) []CycleWarning {
	warnings := []CycleWarning{}
	for _, scc := range typesys.AliasComponents(s) {
		warnings = append(warnings, cycleWarning(scc))
	}
	return warnings
}

func cycleWarning(scc []string) CycleWarning {
	if len(scc) == 1 {
		return CycleWarning{
			Declarations: scc,
			Message:      fmt.Sprintf("type %s aliases itself and reads as unknown", scc[0]),
			Level:        "warning",
		}
	}
	return CycleWarning{
		Declarations: scc,
		Message:      fmt.Sprintf("types %s alias each other and read as unknown", strings.Join(scc, ", ")),
		Level:        "warning",
	}
}
