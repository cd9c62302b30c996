package snapshot

import (
	"encoding/json"

	"github.com/styloxis/honeycomb/pkg/render"
)

// RenderJSON encodes s as indented JSON.
func RenderJSON(s render.Scene) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
