package web

import (
	"fmt"
	"strings"

	"github.com/2beens/quotegen/internal/quotes"
)

const (
	EmptyQueryMessage = "Please enter a topic"
	IdleHint          = "Enter a topic above to get started!"
)

// NoMatchMessage names the query as the user typed it.
func NoMatchMessage(query string, suggestedTopics []string) string {
	return fmt.Sprintf(
		"No quotes found for \"%s\". Try topics like: %s",
		query, strings.Join(suggestedTopics, ", "),
	)
}

type pageData struct {
	Query       string
	Quotes      []quotes.Quote
	Error       string
	Suggestions []string
	Particles   []Particle
}

func (d pageData) Idle() bool {
	return d.Error == "" && len(d.Quotes) == 0
}

func (d pageData) IdleHint() string {
	return IdleHint
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type quotesResponse struct {
	Query  string         `json:"query"`
	Quotes []quotes.Quote `json:"quotes"`
}

type topicsResponse struct {
	Topics      []string `json:"topics"`
	Suggestions []string `json:"suggestions"`
}
