package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/shopsearch/internal/domain/product"
)

// productDTO is the on-disk product shape.
type productDTO struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Categories  stringList `json:"categories"`
	Features    stringList `json:"features"`
}

func (p productDTO) toRecord(id int) product.Record {
	return product.Record{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Categories:  []string(p.Categories),
		Features:    []string(p.Features),
	}
}

// stringList accepts either a JSON array of strings or a single string.
// Older exports store categories as one string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("string list: %w", err)
		}
		*l = items
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	if single == "" {
		*l = nil
		return nil
	}
	*l = []string{single}
	return nil
}
