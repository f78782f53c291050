package console

import (
	"context"
	"fmt"
)

// Sections.
const (
	SectionDashboard = "dashboard"
	SectionProducts  = "products"
	SectionOrders    = "orders"
	SectionExpiry    = "expiry"
)

// Section is one tab of the console.
type Section struct {
	Name    string
	Title   string
	loaders []string
}

var sections = []Section{
	{Name: SectionDashboard, Title: "DASHBOARD", loaders: []string{LoadDashboard}},
	{Name: SectionProducts, Title: "PRODUCTS", loaders: []string{LoadProducts}},
	{Name: SectionOrders, Title: "ORDERS", loaders: []string{LoadDrafts, LoadOrders}},
	{Name: SectionExpiry, Title: "EXPIRY TRACKING", loaders: []string{LoadExpiry}},
}

// Page is the result of activating a section.
type Page struct {
	Active Section
	Outcome
}

// Sections lists the sections available in this variant, in tab order.
func (c *Console) Sections() []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if s.Name == SectionDashboard && !c.auth {
			continue
		}
		out = append(out, s)
	}
	return out
}

// DefaultSection is the section a fresh viewer lands on.
func (c *Console) DefaultSection() string {
	if c.auth {
		return SectionDashboard
	}
	return SectionProducts
}

func (c *Console) section(name string) (Section, error) {
	for _, s := range c.Sections() {
		if s.Name == name {
			return s, nil
		}
	}
	return Section{}, fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// Active returns the viewer's active section.
func (c *Console) Active(viewer string) Section {
	c.mu.Lock()
	name, ok := c.active[viewer]
	c.mu.Unlock()
	if !ok {
		name = c.DefaultSection()
	}
	s, _ := c.section(name)
	return s
}

// Activate makes name the viewer's only active section and loads it.
func (c *Console) Activate(ctx context.Context, viewer, name string) (Page, error) {
	s, err := c.section(name)
	if err != nil {
		return Page{}, err
	}
	c.mu.Lock()
	c.active[viewer] = s.Name
	c.touch(viewer)
	c.mu.Unlock()

	panels, err := c.Load(ctx, viewer, s.loaders...)
	if err != nil {
		return Page{}, err
	}
	return Page{Active: s, Outcome: Outcome{Panels: panels}}, nil
}

// Refresh reloads a section without changing which one is active.
func (c *Console) Refresh(ctx context.Context, viewer, name string) (Outcome, error) {
	s, err := c.section(name)
	if err != nil {
		return Outcome{}, err
	}
	panels, err := c.Load(ctx, viewer, s.loaders...)
	return Outcome{Panels: panels}, err
}
