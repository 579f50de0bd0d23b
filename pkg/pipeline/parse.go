package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/danmaku/pkg/errors"
)

// Config file formats accepted by [LoadOptions].
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// FormatOf returns the config format implied by a file name.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown config format for %q (want .toml, .yaml, .yml or .json)", path)
}

// LoadOptions reads options from path, applies defaults and validates.
func LoadOptions(path string) (Options, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Options{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	opts, err := ParseOptions(data, format)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return opts, nil
}

// ParseOptions decodes options in the given format, applies defaults and
// validates. Unknown keys are rejected.
func ParseOptions(data []byte, format string) (Options, error) {
	var opts Options
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &opts)
		if err != nil {
			return Options{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown option %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&opts); err != nil && err != io.EOF {
			return Options{}, err
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts); err != nil {
			return Options{}, err
		}
	default:
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config format %q", format)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// EncodeTOML writes opts as a TOML document.
func EncodeTOML(opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
