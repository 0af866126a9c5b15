//go:build !stdjson

package jsonutil

import (
	"io"

	"github.com/bytedance/sonic"
)

func Marshal(v any) ([]byte, error) { return sonic.Marshal(v) }

func Unmarshal(data []byte, v any) error { return sonic.Unmarshal(data, v) }

func NewEncoder(w io.Writer) Encoder { return sonic.ConfigDefault.NewEncoder(w) }

func NewDecoder(r io.Reader) Decoder { return sonic.ConfigDefault.NewDecoder(r) }
