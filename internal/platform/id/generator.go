package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	publicIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	publicIDLength   = 16
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type NanoGenerator struct {
	prefix string
}

func NewNanoGenerator(prefix string) *NanoGenerator {
	return &NanoGenerator{prefix: prefix}
}

func (g *NanoGenerator) NewID() (string, error) {
	raw, err := gonanoid.Generate(publicIDAlphabet, publicIDLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return g.prefix + raw, nil
}
