package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
	"github.com/meghashyamc/notesapp/logger"
	"github.com/meghashyamc/notesapp/notes"
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var (
	ErrInvalidPath     = errors.New("invalid path")
	ErrInvalidQuery    = errors.New("invalid query")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidColor    = errors.New("invalid color")
)

// customTag pairs a struct tag with its check and the error reported when
// the check fails.
type customTag struct {
	check func(*Validator, validator.FieldLevel) bool
	err   error
}

var customTags = map[string]customTag{
	"valid_path":     {check: (*Validator).isValidPath, err: ErrInvalidPath},
	"valid_query":    {check: (*Validator).isValidQuery, err: ErrInvalidQuery},
	"valid_priority": {check: (*Validator).isValidPriority, err: ErrInvalidPriority},
	"valid_color":    {check: (*Validator).isValidColor, err: ErrInvalidColor},
}

type Validator struct {
	validate *validator.Validate
	logger   logger.Logger
}

func New(logger logger.Logger) (*Validator, error) {
	v := &Validator{validate: validator.New(), logger: logger}
	v.validate.RegisterTagNameFunc(jsonFieldName)

	for tag, custom := range customTags {
		check := custom.check
		if err := v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return check(v, fl)
		}); err != nil {
			logger.Error("could not register validation tag", "tag", tag, "err", err.Error())
			return nil, err
		}
	}
	return v, nil
}

// Validate checks i against its validate tags and reports the first failing
// field by its JSON name.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	v.logger.Warn("validation failed", "err", err.Error())

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	if described := describe(fieldErrs[0]); described != nil {
		return described
	}
	return err
}

func describe(fieldErr validator.FieldError) error {
	field := fieldErr.Field()
	if custom, ok := customTags[fieldErr.Tag()]; ok {
		return fmt.Errorf("%w in field '%s'", custom.err, field)
	}
	switch fieldErr.Tag() {
	case "required":
		return fmt.Errorf("missing required field '%s'", field)
	case "min", "max":
		return fmt.Errorf("value or length of field '%s' is not in the expected range", field)
	case "url":
		return fmt.Errorf("field '%s' is not a valid url", field)
	}
	return nil
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// isValidPath accepts an absolute path to an existing directory.
func (v *Validator) isValidPath(fl validator.FieldLevel) bool {
	inputPath := fl.Field().String()
	if strings.TrimSpace(inputPath) == "" {
		v.logger.Warn("validation path is empty", "path", inputPath)
		return false
	}

	if strings.Contains(inputPath, "\x00") {
		v.logger.Warn("validation path has null byte", "path", inputPath)
		return false
	}

	if !filepath.IsAbs(inputPath) {
		v.logger.Warn("validation path is not absolute", "path", inputPath)
		return false
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		v.logger.Info("path does not exist", "path", inputPath)
		return false
	}
	if !info.IsDir() {
		v.logger.Info("path is not a directory", "path", inputPath)
		return false
	}

	return true
}

func (v *Validator) isValidQuery(fl validator.FieldLevel) bool {
	query := fl.Field().String()
	if strings.TrimSpace(query) == "" {
		v.logger.Warn("query is empty", "query", query)
		return false
	}

	return true
}

// isValidPriority accepts an empty value, which stands for the default.
func (v *Validator) isValidPriority(fl validator.FieldLevel) bool {
	_, ok := notes.ParsePriority(fl.Field().String())
	return ok
}

func (v *Validator) isValidColor(fl validator.FieldLevel) bool {
	color := fl.Field().String()
	return color == "" || colorPattern.MatchString(color)
}
