// internal/domain/plan_source.go
package domain

// PlanSource is the single read surface over the two shapes a mesocycle's
// plan can have: still bound to a shared template, or forked into private
// client days. Callers resolve it once and stop branching on IsForked.
type PlanSource interface {
	// Title of the plan as shown to the client.
	Title() string
	// Days returns the day tree in its client-owned shape. For a
	// template-based plan this is a fresh projection; mutating it does not
	// write through to the template.
	Days() []ClientDay
	// DayCount is the number of training days per week in the plan.
	DayCount() int
	// Forked reports which variant this is.
	Forked() bool
}

// TemplateBasedPlan is the PlanSource variant for an unforked mesocycle.
type TemplateBasedPlan struct {
	Template *Template
}

func (p TemplateBasedPlan) Title() string { return p.Template.Title }

func (p TemplateBasedPlan) Days() []ClientDay { return ForkDays(p.Template) }

func (p TemplateBasedPlan) DayCount() int { return p.Template.NumberOfDays }

func (p TemplateBasedPlan) Forked() bool { return false }

// ForkedPlan is the PlanSource variant for a mesocycle that owns its days.
type ForkedPlan struct {
	PlanTitle  string
	ClientDays []ClientDay
}

func (p ForkedPlan) Title() string { return p.PlanTitle }

func (p ForkedPlan) Days() []ClientDay { return p.ClientDays }

func (p ForkedPlan) DayCount() int { return len(p.ClientDays) }

func (p ForkedPlan) Forked() bool { return true }
