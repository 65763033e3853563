package epub

import (
	"fmt"

	"github.com/jubilate/versebinder/core/errors"
)

// Verify checks the internal consistency invariants the consuming reader
// depends on: unique manifest ids, a document behind every manifest item,
// every spine entry resolving to exactly one manifest item, and strictly
// increasing playOrder values over the pre-order navigation traversal.
// A violation is a programming error in the assembler, not bad input.
func (p *Package) Verify() error {
	docs := make(map[string]bool, len(p.Documents))
	for _, d := range p.Documents {
		if docs[d.Name] {
			return errors.NewValidation("documents", fmt.Sprintf("duplicate document %s", d.Name))
		}
		docs[d.Name] = true
	}

	ids := make(map[string]bool, len(p.Manifest))
	for _, m := range p.Manifest {
		if ids[m.ID] {
			return errors.NewValidation("manifest", fmt.Sprintf("duplicate item id %s", m.ID))
		}
		ids[m.ID] = true
		if !docs[m.Href] {
			return errors.NewValidation("manifest", fmt.Sprintf("item %s references missing document %s", m.ID, m.Href))
		}
	}
	if len(p.Manifest) != len(p.Documents) {
		return errors.NewValidation("manifest", fmt.Sprintf("%d items for %d documents", len(p.Manifest), len(p.Documents)))
	}

	seen := make(map[string]bool, len(p.Spine))
	for _, s := range p.Spine {
		if !ids[s.IDRef] {
			return errors.NewValidation("spine", fmt.Sprintf("entry references unknown item %s", s.IDRef))
		}
		if seen[s.IDRef] {
			return errors.NewValidation("spine", fmt.Sprintf("item %s listed twice", s.IDRef))
		}
		seen[s.IDRef] = true
	}
	if len(p.Spine) != len(p.Manifest) {
		return errors.NewValidation("spine", fmt.Sprintf("%d entries for %d manifest items", len(p.Spine), len(p.Manifest)))
	}

	last := 0
	var walk func(nodes []NavPoint) error
	walk = func(nodes []NavPoint) error {
		for _, n := range nodes {
			if n.PlayOrder <= last {
				return errors.NewValidation("nav", fmt.Sprintf("playOrder %d after %d at node %s", n.PlayOrder, last, n.ID))
			}
			last = n.PlayOrder
			if err := walk(n.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(p.Nav)
}
