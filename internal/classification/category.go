package classification

import (
	"strings"

	"golang.org/x/text/cases"
)

// Category names a regulated content category such as "Violence".
type Category string

const (
	ExplicitNudity        Category = "Explicit Nudity"
	SexualContent         Category = "Sexual Content"
	Violence              Category = "Violence"
	HateSpeech            Category = "Hate Speech"
	DrugUse               Category = "Drug Use"
	AlcoholUse            Category = "Alcohol Use"
	Smoking               Category = "Smoking"
	Profanity             Category = "Profanity"
	Gambling              Category = "Gambling"
	SelfHarm              Category = "Self-harm/Suicide"
	AnimalCruelty         Category = "Animal Cruelty"
	TerrorismExtremism    Category = "Terrorism/Extremism"
	DisturbingImagery     Category = "Disturbing/Graphic Imagery"
	ChildEndangerment     Category = "Child Endangerment"
	Weapons               Category = "Weapons"
	MatureThemes          Category = "Mature Themes"
	SuggestiveContent     Category = "Suggestive Content"
	DangerousActs         Category = "Dangerous Acts"
	MisleadingInformation Category = "Misleading Information"
)

var knownCategories = []Category{
	ExplicitNudity,
	SexualContent,
	Violence,
	HateSpeech,
	DrugUse,
	AlcoholUse,
	Smoking,
	Profanity,
	Gambling,
	SelfHarm,
	AnimalCruelty,
	TerrorismExtremism,
	DisturbingImagery,
	ChildEndangerment,
	Weapons,
	MatureThemes,
	SuggestiveContent,
	DangerousActs,
	MisleadingInformation,
}

var foldedCategories = func() map[string]Category {
	set := make(map[string]Category, len(knownCategories))
	for _, category := range knownCategories {
		set[foldName(string(category))] = category
	}
	return set
}()

// KnownCategories returns the categories the provider prompt asks about, in prompt order.
func KnownCategories() []Category {
	out := make([]Category, len(knownCategories))
	copy(out, knownCategories)
	return out
}

// IsKnown reports whether the category is spelled exactly like a known category.
func (c Category) IsKnown() bool {
	canonical, ok := foldedCategories[foldName(string(c))]
	return ok && canonical == c
}

func (c Category) String() string {
	return string(c)
}

// CanonicalCategory maps a name onto the known spelling when it matches one
// case-insensitively. Unknown names are returned trimmed but otherwise unchanged.
func CanonicalCategory(name string) Category {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := foldedCategories[foldName(trimmed)]; ok {
		return canonical
	}
	return Category(trimmed)
}

func foldName(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}
