package search

import (
	"context"
	"strings"

	"github.com/stackcart/stackcart/internal/domain/catalog"
)

// Classifier assigns a catalog category to a remote package.
type Classifier interface {
	Classify(name, description string, keywords []string) string
}

// ContextClassifier is a Classifier that can be interrupted through ctx.
type ContextClassifier interface {
	ClassifyContext(ctx context.Context, name, description string, keywords []string) string
}

func classify(ctx context.Context, c Classifier, name, description string, keywords []string) string {
	if cc, ok := c.(ContextClassifier); ok {
		return cc.ClassifyContext(ctx, name, description, keywords)
	}
	return c.Classify(name, description, keywords)
}

// Rule maps any of its keywords to a category.
type Rule struct {
	Category string
	Keywords []string
}

// DefaultRules are checked in order; the first rule with a keyword contained
// in the package text wins.
var DefaultRules = []Rule{
	{Category: "frameworks", Keywords: []string{"react", "vue", "angular", "framework"}},
	{Category: "ui", Keywords: []string{"ui", "component", "css", "style"}},
	{Category: "state", Keywords: []string{"state", "redux", "store"}},
	{Category: "animation", Keywords: []string{"animation", "motion", "animate"}},
	{Category: "auth", Keywords: []string{"auth", "login", "session"}},
	{Category: "devtools", Keywords: []string{"lint", "test", "debug", "dev"}},
}

// RuleClassifier classifies by keyword rules over name, description and
// keywords, falling back to catalog.DefaultCategory.
type RuleClassifier struct {
	Rules []Rule
}

// NewRuleClassifier returns a classifier using DefaultRules.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{Rules: DefaultRules}
}

func (c *RuleClassifier) Classify(name, description string, keywords []string) string {
	text := strings.ToLower(name + " " + description + " " + strings.Join(keywords, " "))
	for _, rule := range c.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Category
			}
		}
	}
	return catalog.DefaultCategory
}
