package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderUnisex = "unisex"
)

const (
	DefaultLongevity = 50
	DefaultSillage   = 50

	maxPerfumeIDLength = 128
)

var (
	// perfumeIDPattern keeps ids usable as a single object-key segment.
	perfumeIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

	genders = map[string]struct{}{GenderMale: {}, GenderFemale: {}, GenderUnisex: {}}
	seasons = map[string]struct{}{"spring": {}, "summer": {}, "fall": {}, "winter": {}}
)

// Perfume is a catalog item.
type Perfume struct {
	ID              string
	Brand           string
	Name            string
	Description     string
	Image           string
	RatingAvg       float64
	Votes           int
	NotesTop        []string
	NotesMiddle     []string
	NotesBase       []string
	Gender          string
	Season          []string
	PopularityScore int
	ReleaseYear     int
	Longevity       int
	Sillage         int
	Accords         []string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// PerfumePatch carries a partial update. A nil field is left untouched.
type PerfumePatch struct {
	Brand           *string
	Name            *string
	Description     *string
	Image           *string
	RatingAvg       *float64
	Votes           *int
	NotesTop        *[]string
	NotesMiddle     *[]string
	NotesBase       *[]string
	Gender          *string
	Season          *[]string
	PopularityScore *int
	ReleaseYear     *int
	Longevity       *int
	Sillage         *int
	Accords         *[]string
}

// MergePerfume returns base with every field present in patch applied.
// base is not modified.
func MergePerfume(base Perfume, patch PerfumePatch) Perfume {
	merged := base
	merged.NotesTop = cloneStrings(base.NotesTop)
	merged.NotesMiddle = cloneStrings(base.NotesMiddle)
	merged.NotesBase = cloneStrings(base.NotesBase)
	merged.Season = cloneStrings(base.Season)
	merged.Accords = cloneStrings(base.Accords)

	setString(&merged.Brand, patch.Brand)
	setString(&merged.Name, patch.Name)
	setString(&merged.Description, patch.Description)
	setString(&merged.Image, patch.Image)
	setString(&merged.Gender, patch.Gender)
	setInt(&merged.Votes, patch.Votes)
	setInt(&merged.PopularityScore, patch.PopularityScore)
	setInt(&merged.ReleaseYear, patch.ReleaseYear)
	setInt(&merged.Longevity, patch.Longevity)
	setInt(&merged.Sillage, patch.Sillage)
	setStrings(&merged.NotesTop, patch.NotesTop)
	setStrings(&merged.NotesMiddle, patch.NotesMiddle)
	setStrings(&merged.NotesBase, patch.NotesBase)
	setStrings(&merged.Season, patch.Season)
	setStrings(&merged.Accords, patch.Accords)
	if patch.RatingAvg != nil {
		merged.RatingAvg = *patch.RatingAvg
	}
	return merged
}

// Normalize replaces nil lists with empty ones so they persist as [].
func (p *Perfume) Normalize() {
	for _, list := range []*[]string{&p.NotesTop, &p.NotesMiddle, &p.NotesBase, &p.Season, &p.Accords} {
		if *list == nil {
			*list = []string{}
		}
	}
}

// Validate checks the invariants enforced above the data layer.
func (p Perfume) Validate() error {
	if err := ValidatePerfumeID(p.ID); err != nil {
		return err
	}
	for _, f := range []struct{ name, value string }{
		{"brand", p.Brand},
		{"name", p.Name},
		{"description", p.Description},
		{"image", p.Image},
	} {
		if strings.TrimSpace(f.value) == "" {
			return Invalid(f.name, "is required")
		}
	}
	if _, ok := genders[p.Gender]; !ok {
		return Invalid("gender", "must be one of male, female, unisex")
	}
	for _, s := range p.Season {
		if _, ok := seasons[s]; !ok {
			return Invalid("season", "unknown season %q", s)
		}
	}
	if p.ReleaseYear <= 0 {
		return Invalid("releaseYear", "must be positive")
	}
	if p.Longevity < 0 || p.Longevity > 100 {
		return Invalid("longevity", "must be between 0 and 100")
	}
	if p.Sillage < 0 || p.Sillage > 100 {
		return Invalid("sillage", "must be between 0 and 100")
	}
	if p.RatingAvg < 0 {
		return Invalid("ratingAvg", "must not be negative")
	}
	if p.Votes < 0 {
		return Invalid("votes", "must not be negative")
	}
	return nil
}

// ValidatePerfumeID accepts letters, digits, '.', '_' and '-', starting with a
// letter or digit. Slashes and dot-only ids are rejected.
func ValidatePerfumeID(id string) error {
	if id == "" {
		return Invalid("id", "is required")
	}
	if len(id) > maxPerfumeIDLength {
		return Invalid("id", "must be at most %d characters", maxPerfumeIDLength)
	}
	if !perfumeIDPattern.MatchString(id) {
		return Invalid("id", "may only contain letters, digits, '.', '_' and '-', starting with a letter or digit")
	}
	return nil
}

// Validate checks the fields present in the patch.
func (p PerfumePatch) Validate() error {
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"brand", p.Brand},
		{"name", p.Name},
		{"description", p.Description},
		{"image", p.Image},
	} {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return Invalid(f.name, "must not be empty")
		}
	}
	if p.Gender != nil {
		if _, ok := genders[*p.Gender]; !ok {
			return Invalid("gender", "must be one of male, female, unisex")
		}
	}
	if p.Season != nil {
		for _, s := range *p.Season {
			if _, ok := seasons[s]; !ok {
				return Invalid("season", "unknown season %q", s)
			}
		}
	}
	if p.ReleaseYear != nil && *p.ReleaseYear <= 0 {
		return Invalid("releaseYear", "must be positive")
	}
	if p.Longevity != nil && (*p.Longevity < 0 || *p.Longevity > 100) {
		return Invalid("longevity", "must be between 0 and 100")
	}
	if p.Sillage != nil && (*p.Sillage < 0 || *p.Sillage > 100) {
		return Invalid("sillage", "must be between 0 and 100")
	}
	if p.RatingAvg != nil && *p.RatingAvg < 0 {
		return Invalid("ratingAvg", "must not be negative")
	}
	if p.Votes != nil && *p.Votes < 0 {
		return Invalid("votes", "must not be negative")
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setStrings(dst *[]string, v *[]string) {
	if v == nil {
		return
	}
	if *v == nil {
		*dst = []string{}
		return
	}
	*dst = cloneStrings(*v)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
