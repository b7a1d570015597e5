package catalog

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	movieColumns  = 3 // movie_id, title, genres
	ratingColumns = 4 // user_id, movie_id, rating, timestamp
)

// ParseError reports a malformed dataset row. Load treats it as fatal.
type ParseError struct {
	Source string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
}

// Parser splits delimited dataset files into movies and ratings.
type Parser struct {
	Separator      string
	GenreSeparator string

	// Fallback decodes input that is not valid UTF-8. MovieLens style dumps
	// are commonly Latin-1.
	Fallback encoding.Encoding
}

// NewParser creates a parser for the given column and genre separators.
func NewParser(separator, genreSeparator string) *Parser {
	return &Parser{
		Separator:      separator,
		GenreSeparator: genreSeparator,
		Fallback:       charmap.Windows1252,
	}
}

// ParseMovies parses rows of movie_id, title, genres.
func (p *Parser) ParseMovies(source string, data []byte) ([]Movie, error) {
	var movies []Movie

	err := p.eachRow(source, data, movieColumns, func(line int, fields []string) error {
		id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return &ParseError{Source: source, Line: line, Reason: fmt.Sprintf("invalid movie id %q", fields[0])}
		}

		movies = append(movies, Movie{
			ID:     id,
			Title:  strings.TrimSpace(fields[1]),
			Genres: p.splitGenres(fields[2]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return movies, nil
}

// ParseRatings parses rows of user_id, movie_id, rating, timestamp.
func (p *Parser) ParseRatings(source string, data []byte) ([]Rating, error) {
	var ratings []Rating

	err := p.eachRow(source, data, ratingColumns, func(line int, fields []string) error {
		userID, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return &ParseError{Source: source, Line: line, Reason: fmt.Sprintf("invalid user id %q", fields[0])}
		}
		movieID, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return &ParseError{Source: source, Line: line, Reason: fmt.Sprintf("invalid movie id %q", fields[1])}
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return &ParseError{Source: source, Line: line, Reason: fmt.Sprintf("invalid rating %q", fields[2])}
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
		if err != nil {
			return &ParseError{Source: source, Line: line, Reason: fmt.Sprintf("invalid timestamp %q", fields[3])}
		}

		ratings = append(ratings, Rating{UserID: userID, MovieID: movieID, Score: score, Timestamp: ts})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ratings, nil
}

// eachRow decodes data and calls fn for every non-blank line, enforcing the
// column count. Line numbers are 1-based.
func (p *Parser) eachRow(source string, data []byte, columns int, fn func(line int, fields []string) error) error {
	content, err := p.decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", source, err)
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields := strings.Split(text, p.Separator)
		if len(fields) != columns {
			return &ParseError{
				Source: source,
				Line:   line,
				Reason: fmt.Sprintf("expected %d columns, got %d", columns, len(fields)),
			}
		}

		if err := fn(line, fields); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", source, err)
	}

	return nil
}

func (p *Parser) splitGenres(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}

	parts := strings.Split(field, p.GenreSeparator)
	genres := make([]string, 0, len(parts))
	for _, g := range parts {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// decode returns data as UTF-8, stripping a BOM and falling back to the
// configured single-byte encoding for invalid UTF-8.
func (p *Parser) decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if utf8.Valid(data) || p.Fallback == nil {
		return string(data), nil
	}

	decoded, _, err := transform.Bytes(p.Fallback.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
