package filter

import (
	"strings"
	"time"

	"github.com/s0up4200/postarr/tmdb"
)

// newEnvironment exposes a movie record and the helper functions to expressions
func newEnvironment(movie *tmdb.Movie) map[string]any {
	env := make(map[string]any, 32)

	addHelperFunctions(env)

	env["ID"] = movie.ID
	env["Title"] = movie.Title
	env["OriginalTitle"] = movie.OriginalTitle
	env["Language"] = movie.OriginalLanguage
	env["Year"] = movie.Year()
	env["ReleaseDate"] = parseDate(movie.ReleaseDate)
	env["Adult"] = movie.Adult
	env["Popularity"] = movie.Popularity
	env["Rating"] = movie.VoteAverage
	env["Votes"] = movie.VoteCount
	env["HasPoster"] = movie.Poster() != ""

	return env
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		if t.IsZero() {
			return 0
		}
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = parseDate
	// String helpers. contains, startsWith, endsWith and matches are operators
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Current time
	env["now"] = time.Now
}

// parseDate parses a TMDB date (YYYY-MM-DD); invalid or empty dates are zero
func parseDate(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}
