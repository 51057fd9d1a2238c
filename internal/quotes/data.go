package quotes

import (
	"bytes"
	_ "embed"
)

//go:embed quotes.json
var bundledQuotesJSON []byte

// LoadEmbedded builds the store from the quotes bundled into the binary.
func LoadEmbedded() (*Store, error) {
	return LoadStore(bytes.NewReader(bundledQuotesJSON))
}
