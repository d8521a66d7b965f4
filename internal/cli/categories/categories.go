package categories

import (
	"errors"
	"fmt"

	"github.com/julianstephens/thrift/internal/cli"
	"github.com/julianstephens/thrift/internal/models"
	"github.com/julianstephens/thrift/internal/pipeline"
)

type CategoryAddCmd struct {
	Name string `arg:"" help:"Category label."`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	category, err := ctx.Validator.Category(c.Name)
	if err != nil {
		return fmt.Errorf("invalid category: %w", err)
	}
	if err := ctx.Store.AddCategory(category); err != nil {
		if errors.Is(err, models.ErrDuplicateCategory) {
			return fmt.Errorf("category %q already exists", category.Name)
		}
		return fmt.Errorf("failed to add category: %w", err)
	}

	fmt.Printf("Added category: %s\n", category.Name)
	return nil
}

// CategoryDeleteCmd removes a label from the registry. Entries keep their
// copy of the label.
type CategoryDeleteCmd struct {
	Name string `arg:"" help:"Category label to delete."`
}

func (c *CategoryDeleteCmd) Run(ctx *cli.Context) error {
	category, err := ctx.Store.GetCategoryByName(c.Name)
	if err != nil {
		return fmt.Errorf("failed to find category %q: %w", c.Name, err)
	}
	if err := ctx.Store.DeleteCategory(category.ID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	fmt.Printf("Deleted category: %s\n", category.Name)
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	categories, err := ctx.Store.GetAllCategories()
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	entries, err := ctx.Store.GetAllEntries()
	if err != nil {
		return fmt.Errorf("failed to get entries: %w", err)
	}
	if len(categories) == 0 {
		fmt.Println("No categories found")
		return nil
	}

	counts := make(map[string]int)
	for _, g := range pipeline.ByCategory(entries) {
		counts[g.Category] = g.Count
	}

	fmt.Println(cli.HeaderStyle.Render("Categories:"))
	for _, cat := range categories {
		fmt.Printf("  %-24s %s\n", cat.Name, cli.MutedStyle.Render(fmt.Sprintf("%d entries", counts[cat.Name])))
	}
	return nil
}
