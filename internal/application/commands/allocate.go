package commands

import (
	"context"
	"fmt"

	"esxforge/internal/application"
	"esxforge/internal/domain"
	"esxforge/internal/ports"
)

// AllocateResult reports what an allocator would hand out
type AllocateResult struct {
	Skipped   []domain.FormID // plugin ids outside the range
	Reserved  []domain.FormID
	Range     []domain.FormID
	Next      domain.FormID
	HasNext   bool
	Used      int
	Remaining int
	Message   string
}

// AllocateCommand is a dry run of the form id allocator. It seeds an allocator
// from an optional plugin, reserves explicit ids, then takes Count consecutive
// ids. Nothing is written.
type AllocateCommand struct {
	store   ports.PluginStore
	Path    string
	Start   string // hex, defaults to 800
	End     string // hex, defaults to fff
	Reserve []string
	Count   int
}

// NewAllocateCommand creates a new AllocateCommand
func NewAllocateCommand(store ports.PluginStore) *AllocateCommand {
	return &AllocateCommand{store: store}
}

// Validate checks if the allocate operation is valid
func (c *AllocateCommand) Validate() error {
	if err := application.ValidateFormID("formID", c.Start); err != nil {
		return err
	}
	if err := application.ValidateFormID("formID", c.End); err != nil {
		return err
	}
	for _, r := range c.Reserve {
		if err := application.ValidateFormID("formID", r); err != nil {
			return err
		}
	}
	if c.Count < 0 {
		return &application.ValidationError{Field: "count", Message: fmt.Sprintf("count must not be negative, got: %d", c.Count)}
	}
	return nil
}

// Execute runs the allocate command
func (c *AllocateCommand) Execute(ctx context.Context) (*AllocateResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	start, end := domain.ESLStart, domain.ESLEnd
	if c.Start != "" {
		start, _ = domain.ParseFormID(c.Start)
	}
	if c.End != "" {
		end, _ = domain.ParseFormID(c.End)
	}
	alloc, err := domain.NewAllocator(start, end)
	if err != nil {
		return nil, err
	}

	result := &AllocateResult{}
	if c.Path != "" {
		p, err := c.store.Load(ctx, c.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load plugin: %w", err)
		}
		result.Skipped = application.SeedAllocator(alloc, p)
	}

	for _, r := range c.Reserve {
		id, err := alloc.ReserveString(r)
		if err != nil {
			return nil, err
		}
		result.Reserved = append(result.Reserved, id)
	}

	if c.Count > 0 {
		ids, err := alloc.Range(c.Count)
		if err != nil {
			return nil, err
		}
		result.Range = ids
	}

	result.Next, err = alloc.Peek()
	result.HasNext = err == nil
	result.Used = alloc.UsedCount()
	result.Remaining = alloc.Remaining()

	next := "none"
	if result.HasNext {
		next = result.Next.String()
	}
	result.Message = fmt.Sprintf("Range %s-%s: %d used, %d remaining, next %s",
		start, end, result.Used, result.Remaining, next)
	return result, nil
}
