package extras

// Classification is the outcome of classifying one extra.
type Classification struct {
	Category Category
	Label    string
	// Matched is the text the winning rule matched, "" for the fallback.
	Matched string
}

// Classifier evaluates rules in order; the first rule that matches wins.
type Classifier struct {
	rules    []Rule
	fallback Category
}

// NewClassifier builds a classifier. An unknown fallback category is coerced
// to DefaultCategory.
func NewClassifier(rules []Rule, fallback string) *Classifier {
	return &Classifier{
		rules:    rules,
		fallback: ValidateCategory(fallback),
	}
}

// Rules returns the rules in evaluation order.
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// Fallback returns the category used when no rule matches.
func (c *Classifier) Fallback() Category {
	return c.fallback
}

// Matches reports whether any rule matches name.
func (c *Classifier) Matches(name string) bool {
	for _, r := range c.rules {
		if _, ok := r.Find(name); ok {
			return true
		}
	}
	return false
}

// Classify maps a raw filename to a category and label.
func (c *Classifier) Classify(name string) Classification {
	for _, r := range c.rules {
		if m, ok := r.Find(name); ok {
			return Classification{
				Category: r.Category,
				Label:    r.LabelFor(m),
				Matched:  m,
			}
		}
	}
	return Classification{Category: c.fallback, Label: FallbackLabel}
}
