package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"onboardbot/internal/model"
)

// TaskTemplate describes one onboarding task before it is materialized for
// a specific user. DueDays is the offset from assignment time.
type TaskTemplate struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Category     string   `yaml:"category"`
	Priority     int      `yaml:"priority"`
	DueDays      int      `yaml:"due_days"`
	Instructions string   `yaml:"instructions"`
	Resources    []string `yaml:"resources"`
	Mandatory    bool     `yaml:"mandatory"`
	EstimatedMin int      `yaml:"estimated_minutes"`
}

// Catalog is the role → task-template mapping. Base templates apply to
// every role; Roles holds the per-role extensions.
type Catalog struct {
	Base  []TaskTemplate                  `yaml:"base_tasks"`
	Roles map[model.RoleTag][]TaskTemplate `yaml:"role_tasks"`
}

// TasksFor returns the base set concatenated with the role extension,
// pre-sorted by priority then due offset. The slice is freshly allocated,
// so callers may mutate it.
func (c *Catalog) TasksFor(role model.RoleTag) []TaskTemplate {
	tasks := make([]TaskTemplate, 0, len(c.Base)+len(c.Roles[role]))
	tasks = append(tasks, c.Base...)
	tasks = append(tasks, c.Roles[role]...)
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority != tasks[j].Priority {
			return tasks[i].Priority < tasks[j].Priority
		}
		return tasks[i].DueDays < tasks[j].DueDays
	})
	return tasks
}

// Provider loads the catalog for each assignment so that edits to the
// catalog file take effect without a restart. When the file is absent the
// built-in defaults are used.
type Provider struct {
	path string
}

func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

func (p *Provider) Load() (*Catalog, error) {
	if p.path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read task catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse task catalog: %w", err)
	}
	if len(c.Base) == 0 {
		c.Base = Default().Base
	}
	if c.Roles == nil {
		c.Roles = Default().Roles
	}
	return &c, nil
}

// Default returns the built-in catalog: a common baseline plus extensions
// for the roles that have dedicated onboarding tracks.
func Default() *Catalog {
	return &Catalog{
		Base: []TaskTemplate{
			{
				Name:         "Complete Profile Setup",
				Description:  "Ensure all profile information is complete and accurate",
				Category:     "profile",
				Priority:     1,
				DueDays:      1,
				Instructions: "Update your profile with photo, job title, department, and contact info",
				Resources:    []string{"Profile Guide"},
				Mandatory:    true,
				EstimatedMin: 15,
			},
			{
				Name:         "Read Employee Handbook",
				Description:  "Review company policies, procedures, and guidelines",
				Category:     "training",
				Priority:     1,
				DueDays:      3,
				Instructions: "Read through the complete employee handbook and acknowledge understanding",
				Resources:    []string{"Employee Handbook PDF", "Policy Portal"},
				Mandatory:    true,
				EstimatedMin: 60,
			},
			{
				Name:         "Complete Security Training",
				Description:  "Complete mandatory cybersecurity awareness training",
				Category:     "training",
				Priority:     1,
				DueDays:      5,
				Instructions: "Complete online security training modules and pass the assessment",
				Resources:    []string{"Security Training Portal"},
				Mandatory:    true,
				EstimatedMin: 45,
			},
		},
		Roles: map[model.RoleTag][]TaskTemplate{
			model.RoleSoftwareDeveloper: {
				{
					Name:         "Development Environment Setup",
					Description:  "Set up your development environment and tools",
					Category:     "setup",
					Priority:     1,
					DueDays:      2,
					Instructions: "Install IDE, Git, connect to VPN, clone repositories",
					Resources:    []string{"Dev Setup Guide", "GitHub Access", "VPN Instructions"},
					Mandatory:    true,
					EstimatedMin: 120,
				},
				{
					Name:         "Code Review Guidelines",
					Description:  "Learn about our code review process and standards",
					Category:     "training",
					Priority:     2,
					DueDays:      5,
					Instructions: "Read coding standards and participate in first code review",
					Resources:    []string{"Coding Standards Doc", "PR Template"},
					Mandatory:    true,
					EstimatedMin: 30,
				},
				{
					Name:         "Meet with Tech Lead",
					Description:  "Schedule and complete onboarding meeting with technical lead",
					Category:     "meeting",
					Priority:     1,
					DueDays:      3,
					Instructions: "Schedule 1-hour meeting to discuss projects and expectations",
					Resources:    []string{"Tech Lead Contact"},
					Mandatory:    true,
					EstimatedMin: 60,
				},
			},
			model.RoleHRAssociate: {
				{
					Name:         "HRIS System Training",
					Description:  "Complete training on HR Information System",
					Category:     "training",
					Priority:     1,
					DueDays:      3,
					Instructions: "Complete HRIS modules and practice common workflows",
					Resources:    []string{"HRIS Training Portal", "HR System Guide"},
					Mandatory:    true,
					EstimatedMin: 90,
				},
				{
					Name:         "Compliance Training",
					Description:  "Complete HR compliance and legal requirements training",
					Category:     "training",
					Priority:     1,
					DueDays:      5,
					Instructions: "Review employment law basics and company compliance procedures",
					Resources:    []string{"Compliance Training", "Legal Guidelines"},
					Mandatory:    true,
					EstimatedMin: 75,
				},
			},
			model.RoleSales: {
				{
					Name:         "CRM Setup and Training",
					Description:  "Set up CRM access and complete basic training",
					Category:     "setup",
					Priority:     1,
					DueDays:      2,
					Instructions: "Get CRM credentials, complete setup, and finish training modules",
					Resources:    []string{"CRM Guide", "Sales Training Portal"},
					Mandatory:    true,
					EstimatedMin: 90,
				},
				{
					Name:         "Product Knowledge Quiz",
					Description:  "Complete product knowledge assessment",
					Category:     "training",
					Priority:     1,
					DueDays:      7,
					Instructions: "Study product materials and pass knowledge quiz with 80% or higher",
					Resources:    []string{"Product Guide", "Feature Demos"},
					Mandatory:    true,
					EstimatedMin: 120,
				},
			},
		},
	}
}
