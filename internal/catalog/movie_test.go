package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovieHelpers(t *testing.T) {
	m := Movie{
		ID:               603,
		Title:            "The Matrix",
		PosterPath:       "/matrix.jpg",
		ReleaseDate:      "1999-03-30",
		VoteAverage:      8.21,
		OriginalLanguage: "en",
	}

	assert.Equal(t, "https://image.tmdb.org/t/p/w500/matrix.jpg", m.PosterURL("https://image.tmdb.org/t/p/w500"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/matrix.jpg", m.PosterURL("https://image.tmdb.org/t/p/w500/"))
	assert.Equal(t, "https://www.themoviedb.org/movie/603", m.PageURL("https://www.themoviedb.org/movie"))
	assert.Equal(t, "1999", m.Year())
	assert.Equal(t, "8.2", m.Rating())
	assert.Equal(t, "en", m.Language())
}

func TestMovieHelpers_MissingValues(t *testing.T) {
	var m Movie

	assert.Empty(t, m.PosterURL("https://image.tmdb.org/t/p/w500"))
	assert.Equal(t, "N/A", m.Year())
	assert.Equal(t, "N/A", m.Rating())
	assert.Equal(t, "N/A", m.Language())
}
