package tzi

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlSystemTime struct {
	Year         uint16 `yaml:"year"`
	Month        uint16 `yaml:"month"`
	DayOfWeek    uint16 `yaml:"day_of_week"`
	Day          uint16 `yaml:"day"`
	Hour         uint16 `yaml:"hour"`
	Minute       uint16 `yaml:"minute"`
	Second       uint16 `yaml:"second"`
	Milliseconds uint16 `yaml:"milliseconds"`
}

type yamlRecord struct {
	Bias         int32          `yaml:"bias"`
	StandardBias int32          `yaml:"standard_bias"`
	DaylightBias int32          `yaml:"daylight_bias"`
	StandardDate yamlSystemTime `yaml:"standard_date"`
	DaylightDate yamlSystemTime `yaml:"daylight_date"`
}

// UnmarshalYAML accepts either the hex encoding of the binary record or a
// mapping of its fields.
func (rec *Record) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var s string
		if err := n.Decode(&s); err != nil {
			return err
		}
		r, err := DecodeString(s)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*rec = r
		return nil
	case yaml.MappingNode:
		y, err := decodeMapping(n)
		if err != nil {
			return err
		}
		*rec = Record{
			Bias:         y.Bias,
			StandardBias: y.StandardBias,
			DaylightBias: y.DaylightBias,
			StandardDate: SystemTime(y.StandardDate),
			DaylightDate: SystemTime(y.DaylightDate),
		}
		return nil
	}
	return fmt.Errorf("line %d: tzi record must be a hex string or a mapping", n.Line)
}

// decodeMapping decodes n rejecting unknown fields. Node.Decode does not
// inherit KnownFields from the enclosing decoder, so n is decoded on its own.
func decodeMapping(n *yaml.Node) (yamlRecord, error) {
	var y yamlRecord
	b, err := yaml.Marshal(n)
	if err != nil {
		return y, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&y); err != nil {
		return y, fmt.Errorf("line %d: tzi record: %w", n.Line, err)
	}
	return y, nil
}

// MarshalYAML renders rec as its hex encoding.
func (rec Record) MarshalYAML() (any, error) {
	return rec.String(), nil
}
