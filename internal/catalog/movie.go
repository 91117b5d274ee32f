package catalog

import (
	"fmt"
	"strings"
)

// Movie is a catalog entry as returned by the API. Values pass through to
// the view unmodified; the helpers only format them.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	PosterPath       string  `json:"poster_path"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	OriginalLanguage string  `json:"original_language"`
	Popularity       float64 `json:"popularity"`
}

// PosterURL joins the image base with the poster path. Movies without a
// poster yield an empty string.
func (m Movie) PosterURL(imageBase string) string {
	if m.PosterPath == "" {
		return ""
	}
	return strings.TrimRight(imageBase, "/") + "/" + strings.TrimLeft(m.PosterPath, "/")
}

func (m Movie) PageURL(webBase string) string {
	return fmt.Sprintf("%s/%d", strings.TrimRight(webBase, "/"), m.ID)
}

func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return "N/A"
	}
	return m.ReleaseDate[:4]
}

func (m Movie) Rating() string {
	if m.VoteAverage <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", m.VoteAverage)
}

func (m Movie) Language() string {
	if m.OriginalLanguage == "" {
		return "N/A"
	}
	return m.OriginalLanguage
}
