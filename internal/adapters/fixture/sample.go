package fixture

import (
	_ "embed"

	"botree/internal/domain"
)

//go:embed sample.yaml
var sampleYAML []byte

// SampleYAML returns the built-in sample document
func SampleYAML() []byte {
	return sampleYAML
}

// Sample returns a fresh copy of the built-in sample graph: two
// organisations with their contact people and addresses.
func Sample() *domain.Graph {
	g, err := Parse(sampleYAML)
	if err != nil {
		panic("fixture: invalid embedded sample: " + err.Error())
	}
	return g
}
