package http

import (
	"time"

	"perfume-catalog/internal/domain"
)

type PerfumeResponse struct {
	ID              string   `json:"id"`
	Brand           string   `json:"brand"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Image           string   `json:"image"`
	RatingAvg       float64  `json:"ratingAvg"`
	Votes           int      `json:"votes"`
	NotesTop        []string `json:"notesTop"`
	NotesMiddle     []string `json:"notesMiddle"`
	NotesBase       []string `json:"notesBase"`
	Gender          string   `json:"gender"`
	Season          []string `json:"season"`
	PopularityScore int      `json:"popularityScore"`
	ReleaseYear     int      `json:"releaseYear"`
	Longevity       int      `json:"longevity"`
	Sillage         int      `json:"sillage"`
	Accords         []string `json:"accords"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       *string  `json:"updatedAt"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

// createPerfumeRequest leaves numeric fields as pointers so omitted ones take defaults.
type createPerfumeRequest struct {
	ID              string   `json:"id"`
	Brand           string   `json:"brand"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Image           string   `json:"image"`
	RatingAvg       *float64 `json:"ratingAvg"`
	Votes           *int     `json:"votes"`
	NotesTop        []string `json:"notesTop"`
	NotesMiddle     []string `json:"notesMiddle"`
	NotesBase       []string `json:"notesBase"`
	Gender          string   `json:"gender"`
	Season          []string `json:"season"`
	PopularityScore *int     `json:"popularityScore"`
	ReleaseYear     int      `json:"releaseYear"`
	Longevity       *int     `json:"longevity"`
	Sillage         *int     `json:"sillage"`
	Accords         []string `json:"accords"`
}

func (r createPerfumeRequest) toDomain() domain.Perfume {
	p := domain.Perfume{
		ID:          r.ID,
		Brand:       r.Brand,
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
		NotesTop:    r.NotesTop,
		NotesMiddle: r.NotesMiddle,
		NotesBase:   r.NotesBase,
		Gender:      r.Gender,
		Season:      r.Season,
		ReleaseYear: r.ReleaseYear,
		Longevity:   domain.DefaultLongevity,
		Sillage:     domain.DefaultSillage,
		Accords:     r.Accords,
	}
	if r.RatingAvg != nil {
		p.RatingAvg = *r.RatingAvg
	}
	if r.Votes != nil {
		p.Votes = *r.Votes
	}
	if r.PopularityScore != nil {
		p.PopularityScore = *r.PopularityScore
	}
	if r.Longevity != nil {
		p.Longevity = *r.Longevity
	}
	if r.Sillage != nil {
		p.Sillage = *r.Sillage
	}
	return p
}

type updatePerfumeRequest struct {
	Brand           *string   `json:"brand"`
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	Image           *string   `json:"image"`
	RatingAvg       *float64  `json:"ratingAvg"`
	Votes           *int      `json:"votes"`
	NotesTop        *[]string `json:"notesTop"`
	NotesMiddle     *[]string `json:"notesMiddle"`
	NotesBase       *[]string `json:"notesBase"`
	Gender          *string   `json:"gender"`
	Season          *[]string `json:"season"`
	PopularityScore *int      `json:"popularityScore"`
	ReleaseYear     *int      `json:"releaseYear"`
	Longevity       *int      `json:"longevity"`
	Sillage         *int      `json:"sillage"`
	Accords         *[]string `json:"accords"`
}

func (r updatePerfumeRequest) toPatch() domain.PerfumePatch {
	return domain.PerfumePatch{
		Brand:           r.Brand,
		Name:            r.Name,
		Description:     r.Description,
		Image:           r.Image,
		RatingAvg:       r.RatingAvg,
		Votes:           r.Votes,
		NotesTop:        r.NotesTop,
		NotesMiddle:     r.NotesMiddle,
		NotesBase:       r.NotesBase,
		Gender:          r.Gender,
		Season:          r.Season,
		PopularityScore: r.PopularityScore,
		ReleaseYear:     r.ReleaseYear,
		Longevity:       r.Longevity,
		Sillage:         r.Sillage,
		Accords:         r.Accords,
	}
}

func perfumeToResponse(p domain.Perfume) PerfumeResponse {
	resp := PerfumeResponse{
		ID:              p.ID,
		Brand:           p.Brand,
		Name:            p.Name,
		Description:     p.Description,
		Image:           p.Image,
		RatingAvg:       p.RatingAvg,
		Votes:           p.Votes,
		NotesTop:        nonNil(p.NotesTop),
		NotesMiddle:     nonNil(p.NotesMiddle),
		NotesBase:       nonNil(p.NotesBase),
		Gender:          p.Gender,
		Season:          nonNil(p.Season),
		PopularityScore: p.PopularityScore,
		ReleaseYear:     p.ReleaseYear,
		Longevity:       p.Longevity,
		Sillage:         p.Sillage,
		Accords:         nonNil(p.Accords),
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
	if p.UpdatedAt != nil {
		v := p.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &v
	}
	return resp
}

func perfumesToResponse(perfumes []domain.Perfume) []PerfumeResponse {
	resp := make([]PerfumeResponse, len(perfumes))
	for i := range perfumes {
		resp[i] = perfumeToResponse(perfumes[i])
	}
	return resp
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
