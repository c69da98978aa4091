// Package main generates the JSON schemas for the codescope config file and scan report.
package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/yeisme/codescope/pkg/utils/schema"
)

//go:generate go run github.com/yeisme/codescope/cmd/schema
func main() {
	docs := filepath.Join("..", "..", "docs")
	if err := os.MkdirAll(docs, 0o755); err != nil {
		panic(err)
	}

	gen := map[string]func(io.Writer) error{
		"config_schema.json": schema.GenConfigSchema,
		"report_schema.json": schema.GenReportSchema,
	}
	for name, fn := range gen {
		if err := writeSchema(filepath.Join(docs, name), fn); err != nil {
			panic(err)
		}
	}
}

func writeSchema(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return fn(f)
}
