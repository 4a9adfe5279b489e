// Package policy loads the versioned guardrails and confidence documents and
// holds the engines built from them. A Store is constructed once, validated
// eagerly (a malformed document fails the run before any detection happens),
// and injected wherever policy is consumed; nothing in this package is a
// process-wide singleton.
package policy

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"deadclick/internal/confidence"
	"deadclick/internal/guardrails"
)

// Store is the read-only policy state for a run.
type Store struct {
	Guardrails *guardrails.Engine
	Confidence *confidence.Engine

	guardrailsDoc guardrails.Policy
	confidenceDoc confidence.Policy
}

// Default builds a store from the embedded default documents.
func Default() (*Store, error) {
	return build(guardrails.DefaultPolicy(), confidence.DefaultPolicy())
}

// Load reads the policy documents from disk. An empty path selects the
// embedded default for that document.
func Load(guardrailsPath, confidencePath string) (*Store, error) {
	gdoc := guardrails.DefaultPolicy()
	if guardrailsPath != "" {
		if err := readDoc(guardrailsPath, &gdoc); err != nil {
			return nil, fmt.Errorf("guardrails policy %s: %w", guardrailsPath, err)
		}
	}
	cdoc := confidence.DefaultPolicy()
	if confidencePath != "" {
		if err := readDoc(confidencePath, &cdoc); err != nil {
			return nil, fmt.Errorf("confidence policy %s: %w", confidencePath, err)
		}
	}
	return build(gdoc, cdoc)
}

func build(gdoc guardrails.Policy, cdoc confidence.Policy) (*Store, error) {
	gengine, err := guardrails.NewEngine(gdoc)
	if err != nil {
		return nil, err
	}
	cengine, err := confidence.NewEngine(cdoc)
	if err != nil {
		return nil, err
	}
	return &Store{
		Guardrails:    gengine,
		Confidence:    cengine,
		guardrailsDoc: gdoc,
		confidenceDoc: cdoc,
	}, nil
}

func readDoc(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return nil
}

// Versions reports the loaded document versions for run metadata.
func (s *Store) Versions() (guardrailsVersion, confidenceVersion string) {
	return s.guardrailsDoc.Version, s.confidenceDoc.Version
}
