package challenge

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Catalog is the read-only set of challenges grouped by mood. It is safe for concurrent use.
type Catalog struct {
	moods  []Mood
	byMood map[Mood][]*Challenge
	byID   map[string]*Challenge
}

// NewCatalog validates doc and builds a Catalog from it. Challenge IDs must be unique
// across all categories.
func NewCatalog(doc Document) (*Catalog, error) {
	var problems []string

	c := &Catalog{
		byMood: make(map[Mood][]*Challenge, len(doc)),
		byID:   make(map[string]*Challenge),
	}

	for mood := range doc {
		if !mood.IsKnown() {
			problems = append(problems, fmt.Sprintf("unknown mood category %q", mood))
		}
	}

	for _, mood := range KnownMoods {
		list, ok := doc[mood]
		if !ok {
			continue
		}
		c.moods = append(c.moods, mood)

		records := make([]*Challenge, 0, len(list))
		for i := range list {
			ch := list[i]
			where := fmt.Sprintf("%s[%d]", mood, i)
			if p := challengeProblems(ch); p != "" {
				problems = append(problems, where+": "+p)
				continue
			}
			if prev, dup := c.byID[ch.ID]; dup {
				problems = append(problems, fmt.Sprintf("%s: duplicate id %q (already used by %q)", where, ch.ID, prev.Title))
				continue
			}
			rec := &ch
			c.byID[ch.ID] = rec
			records = append(records, rec)
		}
		c.byMood[mood] = records
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return c, nil
}

func challengeProblems(ch Challenge) string {
	err := validate.Struct(ch)
	if err == nil {
		return ""
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, strings.ToLower(fe.Field())+" is required")
		case "gte":
			parts = append(parts, strings.ToLower(fe.Field())+" must be non-negative")
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}

// Moods returns the categories present in the catalog in canonical order.
func (c *Catalog) Moods() []Mood {
	out := make([]Mood, len(c.moods))
	copy(out, c.moods)
	return out
}

// Challenges returns the ordered challenges for mood; nil when the category is absent.
func (c *Catalog) Challenges(mood Mood) []*Challenge {
	list := c.byMood[mood]
	if len(list) == 0 {
		return nil
	}
	out := make([]*Challenge, len(list))
	copy(out, list)
	return out
}

// All returns every challenge, category by category in canonical order.
func (c *Catalog) All() []*Challenge {
	out := make([]*Challenge, 0, len(c.byID))
	for _, mood := range c.moods {
		out = append(out, c.byMood[mood]...)
	}
	return out
}

// Lookup resolves a challenge by id.
func (c *Catalog) Lookup(id string) (*Challenge, bool) {
	ch, ok := c.byID[id]
	return ch, ok
}

// Len reports the number of challenges in the catalog.
func (c *Catalog) Len() int {
	return len(c.byID)
}
