package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type formatFn func(v any) ([]byte, error)

func formatter(format string) (formatFn, error) {
	switch format {
	case "json":
		return toJSON, nil
	case "yaml":
		return toYAML, nil
	}

	return nil, fmt.Errorf("unknown output format %q, want json or yaml", format)
}

func render(w io.Writer, format string, v any) error {
	fn, err := formatter(format)
	if err != nil {
		return err
	}

	b, err := fn(v)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}

	_, err = w.Write(b)
	return err
}

func toJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(b, '\n'), nil
}

// toYAML converts through the JSON encoding so numbers keep their
// exact literal form.
func toYAML(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)

	return yaml.Marshal(&node)
}

// blockStyle drops the flow and quoting styles carried over from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
