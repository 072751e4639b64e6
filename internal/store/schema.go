package store

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/maruel/ksid"

	"github.com/maruel/palettedb/internal/color"
	"github.com/maruel/palettedb/internal/palette"
)

// documentSchema mirrors Document for reflection. History serializes through
// a custom marshaler so its shape is spelled out here.
type documentSchema struct {
	Version int              `json:"version" jsonschema:"description=Document format version"`
	Palette palette.Snapshot `json:"palette" jsonschema:"description=Cells and their secondary indices"`
	History *historySchema   `json:"history,omitempty" jsonschema:"description=Undo and redo log"`
}

type historySchema struct {
	Batches []palette.Batch `json:"batches" jsonschema:"description=Undo batches followed by redo batches"`
	Cursor  int             `json:"cursor" jsonschema:"description=Number of undo batches,minimum=0"`
}

// textTypes lists the types encoded as strings and their pattern.
var textTypes = map[reflect.Type]*jsonschema.Schema{
	reflect.TypeFor[color.Color](): {
		Type:        "string",
		Pattern:     `^#[0-9a-f]{6}$`,
		Description: "sRGB color",
	},
	reflect.TypeFor[palette.PositionSelector](): {
		Type:        "string",
		Pattern:     `^(\*|[0-9]+)\.(\*|[0-9]+)\.(\*|[0-9]+)$`,
		Description: "page.line.column with * for any value",
	},
	reflect.TypeFor[ksid.ID](): {
		Type:        "string",
		Description: "Sortable batch identifier",
	},
}

// Schema returns the JSON schema of the document format.
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if s, ok := textTypes[t]; ok {
				c := *s
				return &c
			}
			return nil
		},
	}
	s := r.ReflectFromType(reflect.TypeFor[documentSchema]())
	s.Title = "palettedb document"
	return json.MarshalIndent(s, "", "  ")
}
