package valueobject

import "fmt"

// Category groups risk factors by the kind of evidence that produced them.
type Category struct {
	value string
}

var (
	CategoryCarrier       = Category{"carrier"}
	CategoryCompliance    = Category{"compliance"}
	CategorySocialMedia   = Category{"social_media"}
	CategorySpamReports   = Category{"spam_reports"}
	CategoryFraudForum    = Category{"fraud_forum"}
	CategoryMessagingApps = Category{"messaging_apps"}
)

// validCategories is the set of all known categories.
var validCategories = map[string]Category{
	"carrier":        CategoryCarrier,
	"compliance":     CategoryCompliance,
	"social_media":   CategorySocialMedia,
	"spam_reports":   CategorySpamReports,
	"fraud_forum":    CategoryFraudForum,
	"messaging_apps": CategoryMessagingApps,
}

// NewCategory creates a Category from a string, returning an error for unknown categories.
func NewCategory(s string) (Category, error) {
	c, ok := validCategories[s]
	if !ok {
		return Category{}, fmt.Errorf("unknown risk category: %q", s)
	}
	return c, nil
}

// String returns the string representation of the category.
func (c Category) String() string {
	return c.value
}

// Equal returns true if two categories are the same.
func (c Category) Equal(other Category) bool {
	return c.value == other.value
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	cat, err := NewCategory(string(text))
	if err != nil {
		return err
	}
	*c = cat
	return nil
}
