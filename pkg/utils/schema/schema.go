// Package schema generates JSON schemas for the configuration file and the scan report.
package schema

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/yeisme/codescope/pkg/configs"
	"github.com/yeisme/codescope/pkg/models"
)

// GenConfigSchema generates the JSON schema for the entire application configuration and writes it to the provided writer.
func GenConfigSchema(out io.Writer) error {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "mapstructure",
	}
	return write(out, reflector.Reflect(configs.Config{}))
}

// GenReportSchema generates the JSON schema of the report printed by `codescope scan --format json`.
func GenReportSchema(out io.Writer) error {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             false,
	}
	return write(out, reflector.Reflect(&models.ScanResult{}))
}

func write(out io.Writer, s *jsonschema.Schema) error {
	schemaJSON, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(schemaJSON))
	return err
}
