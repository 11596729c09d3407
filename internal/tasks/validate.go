package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gammazero/toposort"
	json "github.com/go-json-experiment/json"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location, e.g. tasks[2].dependencies
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is an external JSON Schema file. Empty uses the bundled schema.
	SchemaPath string
	// SkipSchema disables JSON Schema validation; structural and graph
	// checks still run.
	SkipSchema bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

func (r *ValidationResult) addError(path string, err error) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{Path: path, Err: err})
}

// Validate checks the file against the task schema, then checks ids and
// the dependency graph. Dangling dependencies and unrecognized priorities
// are warnings; duplicate ids, self-dependencies and cycles are errors.
func (f *File) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if !opts.SkipSchema {
		f.validateWithSchema(opts.SchemaPath, result)
		if !result.UsedSchema {
			result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
		}
	}
	if !result.UsedSchema {
		f.validateMinimal(result)
	}

	f.validateIDs(result)
	f.validateDependencies(result)
	return result
}

// validateMinimal performs structural checks without JSON Schema.
func (f *File) validateMinimal(result *ValidationResult) {
	for i := range f.Tasks {
		t := &f.Tasks[i]
		path := fmt.Sprintf("tasks[%d]", i)
		if t.ID <= 0 {
			result.addError(path+".id", fmt.Errorf("must be a positive integer, got %d", t.ID))
		}
		if strings.TrimSpace(t.Title) == "" {
			result.addError(path+".title", fmt.Errorf("missing required field"))
		}
		if t.Status == "" {
			result.addError(path+".status", fmt.Errorf("missing required field"))
		}
		for j := range t.Subtasks {
			s := &t.Subtasks[j]
			subPath := fmt.Sprintf("%s.subtasks[%d]", path, j)
			if s.ID <= 0 {
				result.addError(subPath+".id", fmt.Errorf("must be a positive integer, got %d", s.ID))
			}
			if strings.TrimSpace(s.Title) == "" {
				result.addError(subPath+".title", fmt.Errorf("missing required field"))
			}
		}
	}
}

// validateIDs checks id uniqueness for tasks and, per parent, subtasks.
func (f *File) validateIDs(result *ValidationResult) {
	seen := make(map[int]int, len(f.Tasks))
	for i := range f.Tasks {
		t := &f.Tasks[i]
		path := fmt.Sprintf("tasks[%d]", i)
		if first, dup := seen[t.ID]; dup {
			result.addError(path+".id", fmt.Errorf("duplicate task id %d (first at tasks[%d])", t.ID, first))
		} else {
			seen[t.ID] = i
		}
		if t.Priority != "" && !t.Priority.Known() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s.priority: unrecognized priority %q ranks lowest", path, t.Priority))
		}

		subSeen := make(map[int]bool, len(t.Subtasks))
		for j := range t.Subtasks {
			id := t.Subtasks[j].ID
			if subSeen[id] {
				result.addError(fmt.Sprintf("%s.subtasks[%d].id", path, j),
					fmt.Errorf("duplicate subtask id %d in task %d", id, t.ID))
			}
			subSeen[id] = true
		}
	}
}

// validateDependencies reports self-dependencies and dangling references,
// then runs a topological sort over the resolvable edges to find cycles.
func (f *File) validateDependencies(result *ValidationResult) {
	var edges []toposort.Edge
	for i := range f.Tasks {
		t := &f.Tasks[i]
		path := fmt.Sprintf("tasks[%d].dependencies", i)
		linked := false
		for _, depID := range t.Dependencies {
			switch {
			case depID == t.ID:
				result.addError(path, fmt.Errorf("task %d depends on itself", t.ID))
			case f.Task(depID) == nil:
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: task %d depends on missing task %d and can never become eligible", path, t.ID, depID))
			default:
				// Edge (dep, task) means dep must come before task
				edges = append(edges, toposort.Edge{depID, t.ID})
				linked = true
			}
		}
		if !linked {
			edges = append(edges, toposort.Edge{nil, t.ID})
		}
	}

	if _, err := toposort.Toposort(edges); err != nil {
		result.addError("tasks", fmt.Errorf("dependency cycle: %w", err))
	}
}

// validateWithSchema validates the file against a JSON Schema. A parsed
// file is checked as it was read, so members the decoder fills with zero
// values still count as missing.
func (f *File) validateWithSchema(schemaPath string, result *ValidationResult) {
	schema, err := compileSchema(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		return
	}
	result.UsedSchema = true

	data := f.raw
	if data == nil {
		data, err = json.Marshal(f)
		if err != nil {
			result.addError("", fmt.Errorf("failed to marshal file for validation: %w", err))
			return
		}
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		result.addError("", fmt.Errorf("failed to unmarshal file for validation: %w", err))
		return
	}

	if err := schema.Validate(doc); err != nil {
		appendSchemaErrors(result, err)
	}
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	if schemaPath == "" {
		schema, err := jsonschema.CompileString(bundledSchemaURL, bundledSchema)
		if err != nil {
			return nil, fmt.Errorf("invalid bundled schema: %v", err)
		}
		return schema, nil
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %v", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, fmt.Errorf("failed to read schema file: %v", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file: %v", err)
	}
	return schema, nil
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.addError("", err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.addError(jsonPointerToPath(err.InstanceLocation), fmt.Errorf("%s", err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath converts "/tasks/0/id" to "tasks[0].id".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
