package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/groqtype/internal/ast"
	"github.com/roach88/groqtype/internal/compiler"
	"github.com/roach88/groqtype/internal/typesys"
	"github.com/roach88/groqtype/internal/value"
)

// LoadResult contains a loaded schema and where it came from.
type LoadResult struct {
	Schema    typesys.Schema
	Hash      string // schema content hash
	FileCount int    // number of source files read
}

// LoadError represents an error that occurred while loading an input file.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSchema loads a schema from a CUE package directory, a single .cue
// file, or a YAML/JSON schema document.
func LoadSchema(path string) (*LoadResult, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema: %v", err)}
	}

	var result *LoadResult
	switch {
	case info.IsDir():
		result, err = loadCUEPackage(path)
	case filepath.Ext(path) == ".cue":
		result, err = loadCUEFile(path)
	case isDocumentFile(path):
		result, err = loadSchemaDocument(path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported schema file %s: want a directory, .cue, .yaml, .yml or .json", path),
		}
	}
	if err != nil {
		return nil, err
	}

	hash, err := typesys.SchemaHash(result.Schema)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("hashing schema: %v", err)}
	}
	result.Hash = hash
	return result, nil
}

func loadCUEPackage(dir string) (*LoadResult, error) {
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}
	result, err := buildCUE(dir, ".")
	if err != nil {
		return nil, err
	}
	result.FileCount = len(cueFiles)
	return result, nil
}

func loadCUEFile(path string) (*LoadResult, error) {
	result, err := buildCUE(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	result.FileCount = 1
	return result, nil
}

func buildCUE(dir, arg string) (*LoadResult, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{arg}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	schema, err := compiler.CompileSchema(v)
	if err != nil {
		return nil, convertCompileError(err, "schema")
	}
	return &LoadResult{Schema: schema}, nil
}

func loadSchemaDocument(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading schema: %v", err)}
	}
	schema, err := typesys.ParseSchema(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	return &LoadResult{Schema: schema, FileCount: 1}, nil
}

// LoadQuery reads a query tree from a YAML or JSON file and validates it.
func LoadQuery(path string) (ast.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading query: %v", err)}
	}
	n, err := ast.Parse(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	if res := ast.Validate(n); !res.Valid {
		return nil, &LoadError{Code: ErrCodeInvalidQuery, Message: fmt.Sprintf("%s: %s", path, strings.Join(res.Problems, "; "))}
	}
	return n, nil
}

// LoadValue reads a JSON or YAML data value.
func LoadValue(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading value: %v", err)}
	}
	// YAML 1.2 is a superset of JSON, so one decoder reads both.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	v, err := value.FromAny(raw)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("%s: %v", path, err)}
	}
	return v, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func isDocumentFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No CUE files found
	ErrCodeLoadFailed   = "E004" // CUE load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeUnsupported  = "E008" // Unsupported file type
	ErrCodeInvalidInput = "E009" // Malformed YAML/JSON input
	ErrCodeInvalidQuery = "E010" // Query tree fails validation
	ErrCodeCache        = "E011" // Inference cache error
	ErrCodeEvaluate     = "E012" // Evaluator rejected the query
	ErrCodeNoConform    = "E013" // Value does not conform to the type

	// Schema compile errors. Validation codes E101-E106 come from the compiler.
	ErrCodeNoDocuments = "E120" // Schema defines no documents or types
	ErrCodeBadDocument = "E121" // Document is not a struct or has a bad attribute
	ErrCodeBadType     = "E122" // Type declaration cannot be compiled
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "documents":
		return ErrCodeNoDocuments
	case field == "cue":
		return ErrCodeBuildFailed
	case strings.HasPrefix(field, "documents."):
		return ErrCodeBadDocument
	case strings.HasPrefix(field, "types."):
		return ErrCodeBadType
	default:
		return ErrCodeGeneric
	}
}
