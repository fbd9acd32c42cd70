package role

import (
	"strings"

	"onboardbot/internal/model"
)

// Rule maps a set of job-title keywords to a role tag. Rules are evaluated
// in order and the first match wins, so specific categories ("ai engineer")
// must appear before the broader ones that would otherwise swallow them
// ("engineer" → software developer).
type Rule struct {
	Keywords []string
	Tag      model.RoleTag
}

// DefaultRules is the built-in classification table. Adding a role means
// adding a row; precedence is the slice order.
var DefaultRules = []Rule{
	{[]string{"ai engineer", "machine learning", "ml engineer", "nlp", "artificial intelligence"}, model.RoleAIEngineer},
	{[]string{"data scientist", "data analyst", "analytics"}, model.RoleDataScientist},
	{[]string{"software", "developer", "engineer", "programmer", "backend", "frontend", "fullstack"}, model.RoleSoftwareDeveloper},
	{[]string{"hr", "human resources", "recruiter", "people"}, model.RoleHRAssociate},
	{[]string{"product manager", "pm", "product owner"}, model.RoleProductManager},
	{[]string{"designer", "ux", "ui", "design"}, model.RoleDesigner},
	{[]string{"marketing", "marketer", "brand", "content"}, model.RoleMarketing},
	{[]string{"sales", "account", "business development", "bd"}, model.RoleSales},
}

type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify resolves a free-text job title to a role tag. Unmatched titles
// (including the empty string) fall through to RoleOther; there is no
// error path.
func (c *Classifier) Classify(jobTitle string) model.RoleTag {
	title := strings.ToLower(jobTitle)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(title, kw) {
				return rule.Tag
			}
		}
	}
	return model.RoleOther
}
