package skos

import (
	"strings"

	"github.com/knakk/rdf"
)

// Concept is a language-resolved view of one skos:Concept.
type Concept struct {
	IRI        string
	PrefLabel  string
	AltLabels  []string
	Definition string
	Notations  []string
	InScheme   []string
	Broader    []string
	Narrower   []string
	Related    []string
}

// Scheme is the skos:ConceptScheme that owns the vocabulary.
type Scheme struct {
	IRI   string
	Title string
}

// Concepts returns every concept in the order it first appears in the graph.
func (g *Graph) Concepts(lang string) []Concept {
	iris := g.subjectsOfType(SKOSConcept)
	out := make([]Concept, 0, len(iris))
	for _, iri := range iris {
		out = append(out, g.concept(iri, lang))
	}
	return out
}

// Concept looks up one concept by exact IRI.
func (g *Graph) Concept(iri, lang string) (Concept, bool) {
	if !g.hasType(iri, SKOSConcept) {
		return Concept{}, false
	}
	return g.concept(iri, lang), true
}

// ConceptCount is the number of distinct skos:Concept subjects.
func (g *Graph) ConceptCount() int {
	return len(g.subjectsOfType(SKOSConcept))
}

// Scheme returns the first concept scheme in the graph, if any.
func (g *Graph) Scheme(lang string) (Scheme, bool) {
	schemes := g.subjectsOfType(SKOSConceptScheme)
	if len(schemes) == 0 {
		return Scheme{}, false
	}
	iri := schemes[0]
	title := selectLiteral(literals(g.objects(iri, DCTermsTitle)), lang)
	if title == "" {
		title = selectLiteral(literals(g.objects(iri, SKOSPrefLabel)), lang)
	}
	return Scheme{IRI: iri, Title: title}, true
}

func (g *Graph) concept(iri, lang string) Concept {
	return Concept{
		IRI:        iri,
		PrefLabel:  selectLiteral(literals(g.objects(iri, SKOSPrefLabel)), lang),
		AltLabels:  languageLiterals(literals(g.objects(iri, SKOSAltLabel)), lang),
		Definition: selectLiteral(literals(g.objects(iri, SKOSDefinition)), lang),
		Notations:  values(g.objects(iri, SKOSNotation)),
		InScheme:   values(g.objects(iri, SKOSInScheme)),
		Broader:    values(g.objects(iri, SKOSBroader)),
		Narrower:   values(g.objects(iri, SKOSNarrower)),
		Related:    values(g.objects(iri, SKOSRelated)),
	}
}

// Language tags are compared case-insensitively. A tag that only shares the
// primary subtag (en-GB and en) is a weaker match than an exact one.
const (
	noMatch = iota
	primaryMatch
	exactMatch
)

func languageMatch(tag, lang string) int {
	if tag == "" || lang == "" {
		return noMatch
	}
	if strings.EqualFold(tag, lang) {
		return exactMatch
	}
	if strings.EqualFold(primarySubtag(tag), primarySubtag(lang)) {
		return primaryMatch
	}
	return noMatch
}

func primarySubtag(tag string) string {
	if i := strings.IndexByte(tag, '-'); i >= 0 {
		return tag[:i]
	}
	return tag
}

// selectLiteral prefers a literal in lang, then one sharing its primary subtag,
// then an untagged one, then the first.
func selectLiteral(lits []rdf.Literal, lang string) string {
	best, bestMatch := -1, noMatch
	untagged := -1
	for i, l := range lits {
		if m := languageMatch(l.Lang(), lang); m > bestMatch {
			best, bestMatch = i, m
		}
		if l.Lang() == "" && untagged < 0 {
			untagged = i
		}
	}
	if best >= 0 {
		return lits[best].String()
	}
	if untagged >= 0 {
		return lits[untagged].String()
	}
	if len(lits) > 0 {
		return lits[0].String()
	}
	return ""
}

// languageLiterals keeps literals in lang or untagged, falling back to all of them
// when none match.
func languageLiterals(lits []rdf.Literal, lang string) []string {
	out := []string{}
	for _, l := range lits {
		if l.Lang() == "" || languageMatch(l.Lang(), lang) != noMatch {
			out = append(out, l.String())
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, l := range lits {
		out = append(out, l.String())
	}
	return out
}

func values(objects []rdf.Object) []string {
	var out []string
	for _, o := range objects {
		out = append(out, o.String())
	}
	return out
}
