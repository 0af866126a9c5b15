// Package jsonutil is the json codec seam for the storefront. The default
// build uses sonic, the stdjson build tag switches everything back to
// encoding/json for environments where the assembler paths are unwanted.
package jsonutil

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}
