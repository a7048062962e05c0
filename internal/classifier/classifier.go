package classifier

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed category_rules.json
var embeddedRules []byte

// Category is one of the fixed farm vibe buckets.
type Category string

const (
	Cottage   Category = "cottage"
	Modern    Category = "modern"
	Rustic    Category = "rustic"
	Homestead Category = "homestead"
	Urban     Category = "urban"
)

// Descriptor is the styled answer returned for a farm vibe.
type Descriptor struct {
	Outfit string   `json:"outfit"`
	Place  string   `json:"place"`
	Items  []string `json:"items"`
	Notes  string   `json:"notes"`
}

// IsZero reports whether every field of the descriptor is empty.
func (d Descriptor) IsZero() bool {
	return strings.TrimSpace(d.Outfit) == "" &&
		strings.TrimSpace(d.Place) == "" &&
		strings.TrimSpace(d.Notes) == "" &&
		len(d.Items) == 0
}

func (d Descriptor) clone() Descriptor {
	if d.Items != nil {
		d.Items = append([]string(nil), d.Items...)
	}
	return d
}

type categoryRule struct {
	Name       Category   `json:"name"`
	Keywords   []string   `json:"keywords"`
	Descriptor Descriptor `json:"descriptor"`
}

type rules struct {
	DefaultCategory Category       `json:"default_category"`
	Categories      []categoryRule `json:"categories"`
}

// Rules are evaluated in file order; that order breaks ties.
var loadedRules = mustLoadRules()

func mustLoadRules() rules {
	var r rules
	if err := json.Unmarshal(embeddedRules, &r); err != nil {
		panic(err)
	}
	if len(r.Categories) == 0 {
		panic("classifier: no categories in embedded rules")
	}
	if strings.TrimSpace(string(r.DefaultCategory)) == "" {
		r.DefaultCategory = r.Categories[0].Name
	}
	seen := make(map[Category]bool, len(r.Categories))
	for i, rule := range r.Categories {
		if seen[rule.Name] {
			panic(fmt.Sprintf("classifier: duplicate category %q", rule.Name))
		}
		seen[rule.Name] = true
		for j, keyword := range rule.Keywords {
			r.Categories[i].Keywords[j] = strings.ToLower(strings.TrimSpace(keyword))
		}
	}
	if !seen[r.DefaultCategory] {
		panic(fmt.Sprintf("classifier: default category %q has no rule", r.DefaultCategory))
	}
	return r
}

// Classify maps free text to a category by counting keyword hits.
// The second return value explains how the category was chosen.
func Classify(input string) (Category, string) {
	if category, score, ok := detectKeywordScore(input); ok {
		return category, fmt.Sprintf("keyword_score:%s=%d", category, score)
	}

	return loadedRules.DefaultCategory, "fallback:no_keywords"
}

func detectKeywordScore(input string) (Category, int, bool) {
	text := strings.ToLower(input)
	if strings.TrimSpace(text) == "" {
		return "", 0, false
	}

	var (
		best      Category
		bestScore int
	)
	for _, rule := range loadedRules.Categories {
		total := 0
		for _, keyword := range rule.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(text, keyword) {
				total++
			}
		}
		// strictly greater keeps the earliest category on ties
		if total > bestScore {
			best = rule.Name
			bestScore = total
		}
	}

	if bestScore == 0 {
		return "", 0, false
	}
	return best, bestScore, true
}

// Lookup returns a copy of the static descriptor for a category.
func Lookup(category Category) (Descriptor, bool) {
	for _, rule := range loadedRules.Categories {
		if rule.Name == category {
			return rule.Descriptor.clone(), true
		}
	}
	return Descriptor{}, false
}

// Resolve classifies input and returns the matching static descriptor.
func Resolve(input string) (Category, Descriptor, string) {
	category, reason := Classify(input)
	descriptor, _ := Lookup(category)
	return category, descriptor, reason
}

// Categories lists every category in evaluation order.
func Categories() []Category {
	out := make([]Category, 0, len(loadedRules.Categories))
	for _, rule := range loadedRules.Categories {
		out = append(out, rule.Name)
	}
	return out
}

func DefaultCategory() Category {
	return loadedRules.DefaultCategory
}

// Keywords returns a copy of the keyword set for a category.
func Keywords(category Category) []string {
	for _, rule := range loadedRules.Categories {
		if rule.Name == category {
			return append([]string(nil), rule.Keywords...)
		}
	}
	return nil
}

// ParseCategory validates a category name.
func ParseCategory(name string) (Category, bool) {
	candidate := Category(strings.ToLower(strings.TrimSpace(name)))
	for _, rule := range loadedRules.Categories {
		if rule.Name == candidate {
			return candidate, true
		}
	}
	return "", false
}
