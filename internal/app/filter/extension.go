package filter

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// ExtensionConfig represents the configuration for ExtensionFilter.
type ExtensionConfig struct {
	Extensions []string `yaml:"extensions" mapstructure:"extensions" validate:"required,min=1,dive,startswith=."`
}

// ExtensionFilter rejects uploads whose file extension is not allowed.
type ExtensionFilter struct {
	allowed map[string]bool
}

// NewExtensionFilter creates a filter allowing the given extensions (".mp3").
func NewExtensionFilter(extensions ...string) *ExtensionFilter {
	f := &ExtensionFilter{}
	f.setAllowed(extensions)
	return f
}

func (f *ExtensionFilter) setAllowed(extensions []string) {
	f.allowed = make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		f.allowed[strings.ToLower(ext)] = true
	}
}

func (f *ExtensionFilter) Name() string {
	return "extension_filter"
}

func (f *ExtensionFilter) Description() string {
	return "Rejects uploaded files whose extension is not in the allowed list"
}

func (f *ExtensionFilter) ReturnCodes() []string {
	return []string{"unsupported_format"}
}

// ValidateConfig decodes and validates the settings, and applies them when
// they name an extension list.
func (f *ExtensionFilter) ValidateConfig(settings map[string]any) error {
	if len(settings) == 0 {
		return nil
	}

	var config ExtensionConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	f.setAllowed(config.Extensions)
	return nil
}

func (f *ExtensionFilter) AppliesTo(source Source) bool {
	return source == SourceUpload
}

func (f *ExtensionFilter) Check(ctx context.Context, c Candidate) Result {
	if len(f.allowed) == 0 {
		return Accept()
	}
	if !f.allowed[strings.ToLower(filepath.Ext(c.Location))] {
		return Reject("unsupported_format")
	}
	return Accept()
}

func init() {
	Register("extension_filter", func() Filter { return NewExtensionFilter() })
}
