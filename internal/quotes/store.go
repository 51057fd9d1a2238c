package quotes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	log "github.com/sirupsen/logrus"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Store holds the quotes corpus. It is built once and never changes after
// NewStore returns, so it is safe to share between goroutines.
type Store struct {
	quotes      []Quote
	lowerTopics []string // lowerTopics[i] is the normalized topic of quotes[i]
	topics      []string
}

func NewStore(records []Quote) (*Store, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: store has no quotes", ErrInvalidRecord)
	}

	s := &Store{
		quotes:      make([]Quote, len(records)),
		lowerTopics: make([]string, len(records)),
	}
	copy(s.quotes, records)

	// id -> record position
	seenIDs := make(map[int]int, len(records))
	seenTopics := make(map[string]bool)
	for i, q := range s.quotes {
		if err := validateQuote(q); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if prev, ok := seenIDs[q.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate id %d in records %d and %d", ErrInvalidRecord, q.ID, prev, i)
		}
		seenIDs[q.ID] = i

		topic := normalize(q.Topic)
		s.lowerTopics[i] = topic
		if !seenTopics[topic] {
			seenTopics[topic] = true
			s.topics = append(s.topics, topic)
		}
	}
	sort.Strings(s.topics)

	log.Debugf("quotes store loaded: %d quotes, %d topics", len(s.quotes), len(s.topics))

	return s, nil
}

// LoadStore decodes a JSON array of quote records and builds a store from it.
func LoadStore(r io.Reader) (*Store, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var records []Quote
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode quotes json: %s", ErrInvalidRecord, err)
	}

	return NewStore(records)
}

func LoadFile(path string) (*Store, error) {
	log.Printf("reading quotes from [%s] ...", path)

	quotesFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer func() {
		if err := quotesFile.Close(); err != nil {
			log.Warnf("close quotes file: %s", err)
		}
	}()

	return LoadStore(quotesFile)
}

// All returns a copy of every stored quote, in load order.
func (s *Store) All() []Quote {
	all := make([]Quote, len(s.quotes))
	copy(all, s.quotes)
	return all
}

func (s *Store) Len() int {
	return len(s.quotes)
}

// Topics returns the distinct normalized topics, sorted.
func (s *Store) Topics() []string {
	topics := make([]string, len(s.topics))
	copy(topics, s.topics)
	return topics
}

// match returns the positions of all quotes whose normalized topic contains
// the (already normalized) needle.
func (s *Store) match(needle string) []int {
	var positions []int
	for i, topic := range s.lowerTopics {
		if strings.Contains(topic, needle) {
			positions = append(positions, i)
		}
	}
	return positions
}

func validateQuote(q Quote) error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, err)
	}

	fieldErrs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fieldErrs = append(fieldErrs, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: id %d: %s", ErrInvalidRecord, q.ID, strings.Join(fieldErrs, ", "))
}
