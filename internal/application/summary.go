package application

import (
	"fmt"
	"strings"

	"esxforge/internal/domain"
)

// Summarize renders a markdown overview of a plugin: header details, then each
// quest group with its quests, objectives, targets and aliases
func Summarize(p *domain.Plugin) string {
	var sb strings.Builder
	sb.WriteString("# Skyrim ESP Plugin Summary\n\n")

	if h := p.Header(); h != nil {
		sb.WriteString("## Plugin Header (TES4)\n\n")
		fmt.Fprintf(&sb, "- Version: %s\n", orNA(p.Version()))
		if hedr := h.Node().Find(domain.TagHEDR); hedr != nil {
			if s := hedr.Find(domain.TagStruct); s != nil {
				fmt.Fprintf(&sb, "- File Version: %s\n", s.AttrValue("version", "N/A"))
				fmt.Fprintf(&sb, "- Number of Records: %s\n", s.AttrValue("numRecords", "N/A"))
				fmt.Fprintf(&sb, "- Next Object ID: %s\n", s.AttrValue("nextObjectID", "N/A"))
			}
		}
		if author := h.Author(); author != "" {
			fmt.Fprintf(&sb, "- Creator: %s\n", author)
		}
		if masters := h.Masters(); len(masters) > 0 {
			sb.WriteString("- Master Files:\n")
			for _, m := range masters {
				fmt.Fprintf(&sb, "  - %s\n", m)
			}
		}
	}

	for _, g := range p.Groups() {
		if g.Label() != domain.QuestGroupLabel {
			continue
		}
		fmt.Fprintf(&sb, "\n## Quest Group (%d records)\n\n", g.Len())
		for _, q := range g.Quests() {
			writeQuestSummary(&sb, q)
		}
	}

	return sb.String()
}

func writeQuestSummary(sb *strings.Builder, q *domain.Quest) {
	fmt.Fprintf(sb, "### Quest: %s\n\n", q.FullName())
	fmt.Fprintf(sb, "- Editor ID: %s\n", q.EditorID())
	if script := q.Script(); script != "" {
		fmt.Fprintf(sb, "- Script: %s\n", script)
	}
	if data, ok, err := q.Data(); ok && err == nil {
		if data.Flags != "" {
			fmt.Fprintf(sb, "- Flags: %s\n", data.Flags)
		}
		if data.Priority != 0 {
			fmt.Fprintf(sb, "- Priority: %d\n", data.Priority)
		}
	}

	if len(q.Objectives) > 0 {
		sb.WriteString("\n#### Objectives:\n\n")
		for _, o := range q.Objectives {
			fmt.Fprintf(sb, "- **%d: %s**\n", o.Index, o.Name)
			if len(o.Targets) == 0 {
				continue
			}
			targets := make([]string, 0, len(o.Targets))
			for _, t := range o.Targets {
				targets = append(targets, describeTarget(t))
			}
			fmt.Fprintf(sb, "  - Targets: %s\n", strings.Join(targets, ", "))
		}
	}

	if len(q.Aliases) > 0 {
		sb.WriteString("\n#### Aliases:\n\n")
		for _, a := range q.Aliases {
			fmt.Fprintf(sb, "- **%d: %s**\n", a.ID, a.Name)
			if a.Flags != "" {
				fmt.Fprintf(sb, "  - Flags: %s\n", a.Flags)
			}
			if a.Reference != "" {
				fmt.Fprintf(sb, "  - Reference: %s\n", a.Reference)
			}
		}
	}
	sb.WriteString("\n")
}

func describeTarget(t domain.Target) string {
	s := fmt.Sprintf("Alias %d", t.AliasID)
	if len(t.Conditions) == 0 {
		return s
	}
	conds := make([]string, 0, len(t.Conditions))
	for _, c := range t.Conditions {
		cs := fmt.Sprintf("Function %d", c.FunctionIndex)
		if c.Param1 != "" {
			cs += " Param1=" + c.Param1
		}
		if c.Param2 != "" {
			cs += " Param2=" + c.Param2
		}
		conds = append(conds, cs)
	}
	return fmt.Sprintf("%s with conditions: [%s]", s, strings.Join(conds, ", "))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
