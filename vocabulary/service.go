package vocabulary

import (
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Financial-Times/go-logger/v2"
	"github.com/cockroachdb/errors"
	metrics "github.com/rcrowley/go-metrics"

	"github.com/montessori-glossary/vocabulary-service/skos"
)

// ErrConceptNotFound is returned by Get for an IRI the vocabulary does not define.
var ErrConceptNotFound = errors.New("concept not found")

// Service answers read-only queries over a loaded vocabulary. The graph is
// never mutated after construction.
type Service struct {
	graph           *skos.Graph
	baseIRI         string
	defaultLanguage string
	log             *logger.UPPLogger
	searches        metrics.Counter
}

func NewService(graph *skos.Graph, baseIRI string, defaultLanguage string, log *logger.UPPLogger) *Service {
	return &Service{
		graph:           graph,
		baseIRI:         skos.NormalizeBaseIRI(baseIRI),
		defaultLanguage: defaultLanguage,
		log:             log,
		searches:        metrics.GetOrRegisterCounter("concept_searches", metrics.DefaultRegistry),
	}
}

func (s *Service) DefaultLanguage() string {
	return s.defaultLanguage
}

func (s *Service) language(lang string) string {
	if lang == "" {
		return s.defaultLanguage
	}
	return lang
}

// List returns concepts ordered case-insensitively by preferred label. A blank
// query returns every concept; otherwise only concepts with a preferred or
// alternative label containing the query, ignoring case.
func (s *Service) List(query string, lang string) []skos.Concept {
	concepts := s.graph.Concepts(s.language(lang))

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle != "" {
		s.searches.Inc(1)
		matched := concepts[:0]
		for _, c := range concepts {
			if matches(c, needle) {
				matched = append(matched, c)
			}
		}
		concepts = matched
	}

	sort.SliceStable(concepts, func(i, j int) bool {
		li, lj := strings.ToLower(concepts[i].PrefLabel), strings.ToLower(concepts[j].PrefLabel)
		if li != lj {
			return li < lj
		}
		return concepts[i].IRI < concepts[j].IRI
	})
	return concepts
}

func matches(c skos.Concept, needle string) bool {
	if strings.Contains(strings.ToLower(c.PrefLabel), needle) {
		return true
	}
	for _, alt := range c.AltLabels {
		if strings.Contains(strings.ToLower(alt), needle) {
			return true
		}
	}
	return false
}

// Get looks up a concept by URL-encoded IRI. A value that is not an absolute IRI
// is also tried relative to the base IRI.
func (s *Service) Get(encodedIRI string, lang string) (skos.Concept, error) {
	iri, err := url.PathUnescape(encodedIRI)
	if err != nil {
		return skos.Concept{}, errors.Mark(errors.Wrapf(err, "malformed IRI %q", encodedIRI), ErrConceptNotFound)
	}

	if c, ok := s.graph.Concept(iri, s.language(lang)); ok {
		return c, nil
	}
	if !strings.Contains(iri, "://") {
		if c, ok := s.graph.Concept(s.baseIRI+iri, s.language(lang)); ok {
			return c, nil
		}
	}
	return skos.Concept{}, errors.Mark(errors.Newf("concept %s not found", iri), ErrConceptNotFound)
}

// Scheme describes the vocabulary itself. The zero value is returned for a graph
// without a concept scheme.
func (s *Service) Scheme(lang string) skos.Scheme {
	scheme, _ := s.graph.Scheme(s.language(lang))
	return scheme
}

func (s *Service) Count() int {
	return s.graph.ConceptCount()
}

// Serialize writes the whole graph in the given format.
func (s *Service) Serialize(w io.Writer, f skos.Format) error {
	start := time.Now()
	if err := s.graph.Serialize(w, f); err != nil {
		return err
	}
	metrics.GetOrRegisterTimer("export_"+f.String(), metrics.DefaultRegistry).UpdateSince(start)
	return nil
}
