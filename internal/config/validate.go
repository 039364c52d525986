package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError reports a config file or value janus cannot use.
// Line and Column are set for YAML syntax errors, Key for rejected values.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Key      string
	Message  string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Key != "":
		msg := fmt.Sprintf("%s: %s %s", e.FilePath, e.Key, e.Message)
		if schema, ok := KnownKeys[e.Key]; ok {
			msg += fmt.Sprintf(" (%s)", strings.ToLower(schema.Description[:1])+schema.Description[1:])
		}
		return msg
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

// ValidateYAMLSyntax checks that the config file at filePath parses as YAML.
// A missing or blank file is valid and leaves the defaults in place.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &ValidationError{FilePath: filePath, Message: err.Error()}
	}
	_, err = parseYAML(data, filePath)
	return err
}

// parseYAML decodes a config document into a node tree. Blank input yields
// a nil node. Syntax errors come back as *ValidationError with the position
// yaml.v3 reported.
func parseYAML(data []byte, filePath string) (*yaml.Node, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{FilePath: filePath, Message: strings.Join(typeErr.Errors, "; ")}
		}
		line, column := extractLineColumn(err.Error())
		return nil, &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
		}
	}
	return &root, nil
}

// validate reports struct fields by their koanf key so errors name the
// setting a user would write in config.yml.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		return name
	})
	return v
}()

// ValidateConfigValues checks the merged configuration. Every rejected key is
// reported, attributed to the layer that supplied its value.
func ValidateConfigValues(cfg *Configuration) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &ValidationError{
			FilePath: string(cfg.Source(fe.Field())) + " config",
			Key:      fe.Field(),
			Message:  fmt.Sprintf("= %v: %s", fe.Value(), describeTag(fe)),
		})
	}
	return errors.Join(errs...)
}

// extractLineColumn pulls the position out of a yaml.v3 message such as
// "yaml: line 5: could not find expected ':'". Returns 0, 0 if there is none.
func extractLineColumn(errMsg string) (line, column int) {
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError strips the "yaml: line X:" prefix.
func cleanYAMLError(errMsg string) string {
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 && strings.HasPrefix(errMsg, "yaml:") {
		return errMsg[idx+2:]
	}
	return errMsg
}

// describeTag turns the validate tags used on Configuration into prose.
func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed " + fe.Tag() + " check"
	}
}
