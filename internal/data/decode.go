package data

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format names a supported data file syntax.
type Format string

// Supported data formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	// FormatJSON accepts JSON extended with comments and trailing commas.
	FormatJSON Format = "json"
)

// Decode parses content as a key/value document. Empty documents decode to an
// empty map. Documents whose top level is not a mapping are rejected.
func Decode(content []byte, format Format) (map[string]any, error) {
	var (
		values map[string]any
		err    error
	)

	switch format {
	case FormatTOML:
		err = toml.Unmarshal(content, &values)
	case FormatJSON:
		values, err = decodeJSON(content)
	case FormatYAML:
		err = yaml.Unmarshal(content, &values)
	default:
		return nil, fmt.Errorf("unsupported data format %q", format)
	}

	if err != nil {
		return nil, err
	}

	if values == nil {
		values = map[string]any{}
	}

	return values, nil
}

func decodeJSON(content []byte) (map[string]any, error) {
	stripped := jsonc.ToJSON(content)
	if len(bytes.TrimSpace(stripped)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.UseNumber()

	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected content after top-level object")
	}

	return values, nil
}
