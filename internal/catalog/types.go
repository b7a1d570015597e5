package catalog

// Movie is one catalog entry. Genres keeps the order found in the source.
type Movie struct {
	ID     int
	Title  string
	Genres []string
}

// HasGenre reports whether the movie carries the given tag.
func (m Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Rating is a single user score for a movie.
type Rating struct {
	UserID    int
	MovieID   int
	Score     float64
	Timestamp int64
}
