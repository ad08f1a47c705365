package codec

import (
	"fmt"
	"strconv"
	"strings"

	"esxforge/internal/domain"
)

// Reconstruct rebuilds a quest's Scripts, Aliases and Objectives from its
// flat child sequence.
//
// The sequence encodes ownership by adjacency: an ALST..ALED run is one alias,
// QOBJ opens an objective, QSTA adds a target to the open objective and CTDA
// belongs to the target just before it. Aliases and objectives are read by two
// independent passes, so the result does not depend on whether alias runs come
// before, after or between objective blocks.
func Reconstruct(q *domain.Quest) error {
	if err := readMetadata(q); err != nil {
		return err
	}
	aliases, err := readAliases(q)
	if err != nil {
		return err
	}
	objectives, err := readObjectives(q)
	if err != nil {
		return err
	}

	q.Aliases = aliases
	q.Objectives = objectives
	linkAliasScripts(q)
	return nil
}

// readMetadata is the structural pass: scripts, quest data and numeric fields
func readMetadata(q *domain.Quest) error {
	q.Scripts = nil
	n := q.Node()

	for _, child := range n.Children {
		switch child.Tag {
		case domain.TagVMAD:
			q.Scripts = append(q.Scripts, readScripts(child)...)
		case domain.TagANAM:
			if _, err := parseInt(child.Text); err != nil {
				return &domain.FormatError{Tag: domain.TagANAM, Value: child.Text, Err: err}
			}
		}
	}

	if _, _, err := q.Data(); err != nil {
		return err
	}
	return nil
}

func readScripts(vmad *domain.Node) []domain.ScriptAttachment {
	var scripts []domain.ScriptAttachment
	for _, child := range vmad.Children {
		switch child.Tag {
		case "script":
			scripts = append(scripts, domain.ScriptAttachment{
				Name:   child.AttrValue("name", ""),
				Status: child.AttrValue("status", ""),
			})
		case "fragments":
			for _, frag := range child.FindAll("alias") {
				object := frag.AttrValue("object", "")
				for _, s := range frag.FindAll("script") {
					scripts = append(scripts, domain.ScriptAttachment{
						Name:   s.AttrValue("name", ""),
						Status: s.AttrValue("status", ""),
						Object: object,
					})
				}
			}
		}
	}
	return scripts
}

// readAliases is the alias pass. Only runs closed by ALED that carry an ALID are emitted;
// CTDA elements inside a run are the alias's own conditions. A run still open when
// another ALST, a QOBJ or a QSTA arrives is an error: the objective pass would
// otherwise read that data as part of the alias.
func readAliases(q *domain.Quest) ([]*domain.Alias, error) {
	var (
		aliases []*domain.Alias
		open    *domain.Alias
		named   bool
	)

	for _, child := range q.Node().Children {
		switch child.Tag {
		case domain.TagALST, domain.TagQOBJ, domain.TagQSTA:
			if open != nil {
				return nil, &domain.StructuralIntegrityError{
					Record: q.Label(),
					Reason: fmt.Sprintf("alias %s has no ALED before %s", open.ID.Decimal(), child.Tag),
				}
			}
		}

		switch child.Tag {
		case domain.TagALST:
			id, err := domain.ParseDecimalFormID(child.Text)
			if err != nil {
				return nil, &domain.FormatError{Tag: domain.TagALST, Value: child.Text, Err: err}
			}
			open = &domain.Alias{ID: id}
			named = false
		case domain.TagALID:
			if open != nil && !named {
				open.Name = child.Text
				named = true
			}
		case domain.TagFNAM:
			if open != nil {
				open.Flags = child.Text
			}
		case domain.TagALFR:
			if open != nil {
				open.Reference = child.Text
			}
		case domain.TagCTDA:
			if open != nil {
				cond, err := readCondition(child)
				if err != nil {
					return nil, err
				}
				open.Conditions = append(open.Conditions, cond)
			}
		case domain.TagALED:
			if open != nil && named {
				aliases = append(aliases, open)
			}
			open = nil
		}
	}

	return aliases, nil
}

// readObjectives is the objective pass. Alias runs are skipped entirely so their
// FNAM and CTDA children never leak into objectives.
func readObjectives(q *domain.Quest) ([]*domain.Objective, error) {
	var (
		objectives []*domain.Objective
		current    *domain.Objective
		emitted    bool
		named      bool
		pending    []domain.Condition
		inAlias    bool
	)

	for _, child := range q.Node().Children {
		if child.Tag == domain.TagALST {
			inAlias = true
			continue
		}
		if inAlias {
			if child.Tag == domain.TagALED {
				inAlias = false
			}
			continue
		}

		switch child.Tag {
		case domain.TagQOBJ:
			index, err := parseInt(child.Text)
			if err != nil {
				return nil, &domain.FormatError{Tag: domain.TagQOBJ, Value: child.Text, Err: err}
			}
			if current != nil && !emitted {
				objectives = append(objectives, current)
			}
			current = &domain.Objective{Index: index}
			emitted, named = false, false
			pending = nil

		case domain.TagFNAM:
			if current != nil && !named {
				flags, err := parseInt(child.Text)
				if err != nil {
					return nil, &domain.FormatError{Tag: domain.TagFNAM, Value: child.Text, Err: err}
				}
				current.Flags = flags
			}

		case domain.TagNNAM:
			if current != nil && !named {
				current.Name = child.Text
				named = true
				if !emitted {
					objectives = append(objectives, current)
					emitted = true
				}
			}

		case domain.TagQSTA:
			if current == nil {
				return nil, &domain.StructuralIntegrityError{
					Record: q.Label(),
					Reason: "target data (QSTA) appears outside of an objective",
				}
			}
			aliasID, flags, err := readTarget(q, child)
			if err != nil {
				return nil, err
			}
			current.AddTarget(aliasID, flags, pending)
			pending = nil

		case domain.TagCTDA:
			if current == nil {
				continue
			}
			cond, err := readCondition(child)
			if err != nil {
				return nil, err
			}
			if len(current.Targets) > 0 {
				last := &current.Targets[len(current.Targets)-1]
				last.Conditions = append(last.Conditions, cond)
			} else {
				pending = append(pending, cond)
			}
		}
	}

	if current != nil && !emitted {
		objectives = append(objectives, current)
	}
	return objectives, nil
}

func readTarget(q *domain.Quest, qsta *domain.Node) (domain.FormID, uint32, error) {
	s := qsta.Find(domain.TagStruct)
	if s == nil {
		return 0, 0, &domain.StructuralIntegrityError{Record: q.Label(), Reason: "target data (QSTA) has no struct"}
	}

	raw, ok := s.Attr("alias")
	if !ok {
		return 0, 0, &domain.StructuralIntegrityError{Record: q.Label(), Reason: "target data (QSTA) has no alias"}
	}
	aliasID, err := domain.ParseDecimalFormID(raw)
	if err != nil {
		return 0, 0, &domain.FormatError{Tag: "QSTA alias", Value: raw, Err: err}
	}

	var flags uint32
	if rawFlags := s.AttrValue("flags", ""); rawFlags != "" {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(rawFlags), "0x"), 16, 32)
		if err != nil {
			return 0, 0, &domain.FormatError{Tag: "QSTA flags", Value: rawFlags, Err: err}
		}
		flags = uint32(v)
	}
	return aliasID, flags, nil
}

func readCondition(ctda *domain.Node) (domain.Condition, error) {
	var c domain.Condition
	for _, f := range ctda.Children {
		switch f.Tag {
		case "operator":
			c.Operator = f.Text
		case "unknown0":
			c.Unknown0 = f.Text
		case "comparisonValueFloat":
			if f.Text != "" {
				v, err := strconv.ParseFloat(strings.TrimSpace(f.Text), 64)
				if err != nil {
					return c, &domain.FormatError{Tag: "comparisonValueFloat", Value: f.Text, Err: err}
				}
				c.ComparisonValue = v
			}
		case "functionIndex":
			if f.Text != "" {
				v, err := strconv.Atoi(strings.TrimSpace(f.Text))
				if err != nil {
					return c, &domain.FormatError{Tag: "functionIndex", Value: f.Text, Err: err}
				}
				c.FunctionIndex = v
			}
		case "padding":
			c.Padding = f.Text
		case "param1":
			c.Param1 = f.Text
		case "param2":
			c.Param2 = f.Text
		case "runOnType":
			c.RunOnType = f.Text
		case "reference":
			c.Reference = f.Text
		case "unknown1":
			c.Unknown1 = f.Text
		}
	}
	return c, nil
}

// linkAliasScripts attaches alias fragment scripts to the alias named by their object
func linkAliasScripts(q *domain.Quest) {
	for _, s := range q.Scripts {
		if s.Object == "" {
			continue
		}
		for _, a := range q.Aliases {
			if s.Object == a.ID.Decimal() || strings.EqualFold(s.Object, a.ID.Hex()) || strings.EqualFold(s.Object, a.ID.String()) {
				a.Scripts = append(a.Scripts, s.Name)
			}
		}
	}
}

// parseInt reads an integer field; an empty field reads as zero
func parseInt(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	return strconv.Atoi(text)
}
