package vocabulary

import (
	"net/url"

	"github.com/pborman/uuid"

	"github.com/montessori-glossary/vocabulary-service/skos"
)

// ConceptSummary is the API representation of a concept in list results.
type ConceptSummary struct {
	IRI        string   `json:"iri"`
	UUID       string   `json:"uuid"`
	PrefLabel  string   `json:"prefLabel"`
	AltLabels  []string `json:"altLabels"`
	Definition string   `json:"definition"`
}

// ConceptDetail adds links and SKOS relations to the summary.
type ConceptDetail struct {
	ConceptSummary
	APIURL    string   `json:"apiUrl"`
	PageURL   string   `json:"pageUrl"`
	InScheme  []string `json:"inScheme,omitempty"`
	Broader   []string `json:"broader,omitempty"`
	Narrower  []string `json:"narrower,omitempty"`
	Related   []string `json:"related,omitempty"`
	Notations []string `json:"notation,omitempty"`
}

type SchemeInfo struct {
	IRI      string `json:"iri"`
	Title    string `json:"title"`
	Concepts int    `json:"concepts"`
}

// conceptUUID derives a stable UUID from the concept IRI.
func conceptUUID(iri string) string {
	return uuid.NewMD5(uuid.NameSpace_URL, []byte(iri)).String()
}

func toSummary(c skos.Concept) ConceptSummary {
	alt := c.AltLabels
	if alt == nil {
		alt = []string{}
	}
	return ConceptSummary{
		IRI:        c.IRI,
		UUID:       conceptUUID(c.IRI),
		PrefLabel:  c.PrefLabel,
		AltLabels:  alt,
		Definition: c.Definition,
	}
}

func toSummaries(concepts []skos.Concept) []ConceptSummary {
	out := make([]ConceptSummary, 0, len(concepts))
	for _, c := range concepts {
		out = append(out, toSummary(c))
	}
	return out
}

func toDetail(c skos.Concept) ConceptDetail {
	escaped := url.PathEscape(c.IRI)
	return ConceptDetail{
		ConceptSummary: toSummary(c),
		APIURL:         "/concepts/" + escaped,
		PageURL:        "/c/" + escaped,
		InScheme:       c.InScheme,
		Broader:        c.Broader,
		Narrower:       c.Narrower,
		Related:        c.Related,
		Notations:      c.Notations,
	}
}
