package slo

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const (
	schemaURL         = "https://burncheck.dev/schemas/slo_check_v1.json"
	windowPlaceholder = "{{window}}"
)

//go:embed schema/slo_check_v1.json
var schemaJSON []byte

// Validator handles check definition validation
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator creates a validator with the embedded check schema
func NewValidator() (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema: %w", err)
	}

	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// ValidateDirectory loads and validates all check files in a directory.
// The loaded checks are returned along with every error found.
func (v *Validator) ValidateDirectory(dirPath string) ([]CheckWithFile, []ValidationError) {
	checks, loadErrors := LoadFromDirectory(dirPath)

	var allErrors []ValidationError
	allErrors = append(allErrors, loadErrors...)

	if len(checks) == 0 {
		return nil, allErrors
	}

	return checks, append(allErrors, v.ValidateChecks(checks)...)
}

// ValidateChecks validates loaded checks against the schema and the extra rules
func (v *Validator) ValidateChecks(checks []CheckWithFile) []ValidationError {
	var errors []ValidationError

	for _, c := range checks {
		errors = append(errors, v.validateSchema(c.File)...)
	}

	return append(errors, validateExtraRules(checks)...)
}

// validateSchema validates the raw document of a file against the JSON schema
func (v *Validator) validateSchema(file string) []ValidationError {
	data, err := os.ReadFile(file)
	if err != nil {
		return []ValidationError{{File: file, Message: fmt.Sprintf("failed to read file: %v", err)}}
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []ValidationError{{File: file, Message: fmt.Sprintf("failed to parse YAML: %v", err)}}
	}

	if err := v.schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			return extractSchemaErrors(file, validationErr)
		}
		return []ValidationError{{File: file, Message: err.Error()}}
	}

	return nil
}

// extractSchemaErrors converts JSON schema validation errors to ValidationErrors
func extractSchemaErrors(file string, err *jsonschema.ValidationError) []ValidationError {
	var errors []ValidationError

	path := strings.Join(err.InstanceLocation, ".")
	if path == "" {
		path = "(root)"
	}

	errors = append(errors, ValidationError{
		File:    file,
		Path:    path,
		Message: err.Error(),
	})

	for _, cause := range err.Causes {
		errors = append(errors, extractSchemaErrors(file, cause)...)
	}

	return errors
}

// validateExtraRules applies rules the schema cannot express
func validateExtraRules(checks []CheckWithFile) []ValidationError {
	var errors []ValidationError

	nameSeen := make(map[string]string)
	for _, c := range checks {
		name := c.Check.Metadata.Name
		if prevFile, exists := nameSeen[name]; exists {
			errors = append(errors, ValidationError{
				File:    c.File,
				Path:    "metadata.name",
				Message: fmt.Sprintf("duplicate name %q (also in %s)", name, filepath.Base(prevFile)),
			})
		} else {
			nameSeen[name] = c.File
		}

		errors = append(errors, ValidateCheck(c.File, c.Check)...)
	}

	return errors
}

// ValidateCheck checks a single definition for values the validation run cannot work with
func ValidateCheck(file string, c *Check) []ValidationError {
	var errors []ValidationError

	if !(c.Spec.Target > 0 && c.Spec.Target < 1) {
		errors = append(errors, ValidationError{
			File:    file,
			Path:    "spec.target",
			Message: fmt.Sprintf("target must be in (0,1), got %v", c.Spec.Target),
		})
	}

	if !c.TierFactor().Valid() {
		errors = append(errors, ValidationError{
			File:    file,
			Path:    "spec.factor",
			Message: fmt.Sprintf("factor must be one of 14, 7, 2 or 1, got %d", c.Spec.Factor),
		})
	}

	if !strings.Contains(c.Spec.AlertTotalQuery, windowPlaceholder) {
		errors = append(errors, ValidationError{
			File:    file,
			Path:    "spec.alertTotalQuery",
			Message: fmt.Sprintf("query must contain %s for the alert window", windowPlaceholder),
		})
	}

	sloWindow, err := c.SLOWindow()
	if err != nil {
		errors = append(errors, ValidationError{
			File:    file,
			Path:    "spec.window",
			Message: fmt.Sprintf("invalid duration: %v", err),
		})
		return errors
	}

	for _, w := range Windows(sloWindow) {
		if w.Short <= 0 || w.Long <= 0 {
			errors = append(errors, ValidationError{
				File:    file,
				Path:    "spec.window",
				Message: fmt.Sprintf("window %s too short: %s tier rounds to %s/%s", c.Spec.Window, w.Factor, FormatDuration(w.Short), FormatDuration(w.Long)),
			})
			break
		}
	}

	return errors
}
