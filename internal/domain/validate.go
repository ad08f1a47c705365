package domain

import (
	"errors"
	"fmt"
	"slices"
)

// ValidateQuest checks referential integrity: every target alias id resolves to an
// alias of the same quest, and every alias and objective is named.
// Violations are joined in a stable order; nil means the quest is sound.
func ValidateQuest(q *Quest) error {
	var errs []error
	label := q.Label()

	for _, o := range q.Objectives {
		if o.Name == "" {
			errs = append(errs, &StructuralIntegrityError{
				Record: label,
				Reason: fmt.Sprintf("objective %d is missing a name", o.Index),
			})
		}
	}
	for _, a := range q.Aliases {
		if a.Name == "" {
			errs = append(errs, &StructuralIntegrityError{
				Record: label,
				Reason: fmt.Sprintf("alias %d is missing a name", a.ID),
			})
		}
	}

	defined := make(map[FormID]bool, len(q.Aliases))
	for _, a := range q.Aliases {
		defined[a.ID] = true
	}
	missing := make(map[FormID]bool)
	for _, o := range q.Objectives {
		for _, t := range o.Targets {
			if !defined[t.AliasID] {
				missing[t.AliasID] = true
			}
		}
	}
	ids := make([]FormID, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		errs = append(errs, &StructuralIntegrityError{
			Record: label,
			Reason: fmt.Sprintf("objective target references non-existent alias %d", id),
		})
	}

	return errors.Join(errs...)
}

// ValidateForOutput runs ValidateQuest plus the checks a quest must pass before
// it is written: editor id present, declared alias count matching, alias ids and
// objective indices unique within the quest.
func ValidateForOutput(q *Quest) error {
	var errs []error
	label := q.Label()

	if q.EditorID() == "" {
		errs = append(errs, &StructuralIntegrityError{Record: label, Reason: "quest is missing an editor id"})
	}
	if err := ValidateQuest(q); err != nil {
		errs = append(errs, err)
	}

	declared, ok := q.DeclaredAliasCount()
	switch {
	case !ok && len(q.Aliases) > 0:
		errs = append(errs, &StructuralIntegrityError{Record: label, Reason: "quest has aliases but no alias count"})
	case ok && declared != len(q.Aliases):
		errs = append(errs, &StructuralIntegrityError{
			Record: label,
			Reason: fmt.Sprintf("declared alias count %d does not match %d aliases", declared, len(q.Aliases)),
		})
	}

	seenAlias := make(map[FormID]bool)
	for _, a := range q.Aliases {
		if seenAlias[a.ID] {
			errs = append(errs, &StructuralIntegrityError{Record: label, Reason: fmt.Sprintf("duplicate alias id %d", a.ID)})
		}
		seenAlias[a.ID] = true
	}
	seenObjective := make(map[int]bool)
	for _, o := range q.Objectives {
		if seenObjective[o.Index] {
			errs = append(errs, &StructuralIntegrityError{Record: label, Reason: fmt.Sprintf("duplicate objective index %d", o.Index)})
		}
		seenObjective[o.Index] = true
	}

	return errors.Join(errs...)
}

// StructuralErrors flattens a joined validation error into its individual violations
func StructuralErrors(err error) []*StructuralIntegrityError {
	var result []*StructuralIntegrityError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		var se *StructuralIntegrityError
		if errors.As(e, &se) {
			result = append(result, se)
		}
	}
	walk(err)
	return result
}

// CheckHeader verifies that the declared next object id equals the allocator's first free id
func CheckHeader(p *Plugin, alloc *Allocator) error {
	if p.Header() == nil {
		return &StructuralIntegrityError{Record: TagTES4, Reason: "plugin has no header"}
	}
	data, ok, err := p.Header().Data()
	if err != nil {
		return err
	}
	if !ok {
		return &StructuralIntegrityError{Record: TagTES4, Reason: "header has no HEDR"}
	}
	next, err := alloc.Peek()
	if err != nil {
		return err
	}
	if data.NextObjectID != next {
		return &StructuralIntegrityError{
			Record: TagTES4,
			Reason: fmt.Sprintf("next object id %s does not match first free id %s", data.NextObjectID, next),
		}
	}
	return nil
}

// ESLReport is the result of a light plugin compatibility check
type ESLReport struct {
	Compatible bool
	Count      int
	Problems   []string
}

// ESLCompatibility checks that every record id lies in 0x800-0xFFF and the
// plugin uses no more ids than a light plugin can hold
func (p *Plugin) ESLCompatibility() ESLReport {
	var report ESLReport
	seen := make(map[FormID]bool)

	for _, r := range p.Records() {
		raw, ok := r.Node().Attr("id")
		if !ok {
			continue
		}
		id, err := ParseFormID(raw)
		if err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("invalid form id format: %s", raw))
			continue
		}
		if !InESLRange(id) {
			report.Problems = append(report.Problems,
				fmt.Sprintf("form id %s for %s is outside ESL range 0x800-0xFFF", raw, r.Tag()))
		}
		seen[id] = true
	}

	report.Count = len(seen)
	if report.Count > ESLCapacity {
		report.Problems = append(report.Problems,
			fmt.Sprintf("plugin uses %d form ids, which exceeds ESL limit of %d", report.Count, ESLCapacity))
	}
	report.Compatible = len(report.Problems) == 0
	return report
}
