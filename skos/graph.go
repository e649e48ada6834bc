package skos

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/knakk/rdf"
)

// Graph is an in-memory set of RDF triples. Triples keep the order in which they
// were first added, which makes every serialization of an unchanged graph
// byte-for-byte stable.
//
// A Graph is not safe for concurrent mutation. Once loaded it is only read, so
// concurrent readers need no locking.
type Graph struct {
	triples   []rdf.Triple
	seen      map[string]struct{}
	bySubject map[string][]int
	subjects  []string
}

func NewGraph() *Graph {
	return &Graph{
		seen:      make(map[string]struct{}),
		bySubject: make(map[string][]int),
	}
}

// LoadFile parses a Turtle file and checks the minimal SKOS shape of every concept.
// Any failure is reported as a *LoadError.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	g, err := Parse(f, Turtle)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if err := g.Validate(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return g, nil
}

// Add inserts a triple, returning false if it was already present.
func (g *Graph) Add(t rdf.Triple) bool {
	key := tripleKey(t)
	if _, ok := g.seen[key]; ok {
		return false
	}
	g.seen[key] = struct{}{}

	subj := termKey(t.Subj)
	if _, ok := g.bySubject[subj]; !ok {
		g.subjects = append(g.subjects, subj)
	}
	g.bySubject[subj] = append(g.bySubject[subj], len(g.triples))
	g.triples = append(g.triples, t)
	return true
}

// AddResource adds a triple whose object is an IRI.
func (g *Graph) AddResource(subject, predicate, object string) error {
	s, err := rdf.NewIRI(subject)
	if err != nil {
		return errors.Wrapf(err, "subject %q", subject)
	}
	p, err := rdf.NewIRI(predicate)
	if err != nil {
		return errors.Wrapf(err, "predicate %q", predicate)
	}
	o, err := rdf.NewIRI(object)
	if err != nil {
		return errors.Wrapf(err, "object %q", object)
	}
	g.Add(rdf.Triple{Subj: s, Pred: p, Obj: o})
	return nil
}

// AddLiteral adds a triple whose object is a literal, tagged with lang when lang
// is not empty.
func (g *Graph) AddLiteral(subject, predicate, value, lang string) error {
	s, err := rdf.NewIRI(subject)
	if err != nil {
		return errors.Wrapf(err, "subject %q", subject)
	}
	p, err := rdf.NewIRI(predicate)
	if err != nil {
		return errors.Wrapf(err, "predicate %q", predicate)
	}
	var o rdf.Literal
	if lang != "" {
		o, err = rdf.NewLangLiteral(value, lang)
	} else {
		o, err = rdf.NewLiteral(value)
	}
	if err != nil {
		return errors.Wrapf(err, "literal %q", value)
	}
	g.Add(rdf.Triple{Subj: s, Pred: p, Obj: o})
	return nil
}

func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns a copy of the triples in insertion order.
func (g *Graph) Triples() []rdf.Triple {
	out := make([]rdf.Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Has reports whether the graph describes subject with at least one triple.
func (g *Graph) Has(subject string) bool {
	_, ok := g.bySubject[iriKey(subject)]
	return ok
}

func (g *Graph) objects(subject, predicate string) []rdf.Object {
	var out []rdf.Object
	for _, i := range g.bySubject[iriKey(subject)] {
		t := g.triples[i]
		if t.Pred.String() == predicate {
			out = append(out, t.Obj)
		}
	}
	return out
}

func (g *Graph) hasType(subject, class string) bool {
	for _, o := range g.objects(subject, RDFType) {
		if iri, ok := o.(rdf.IRI); ok && iri.String() == class {
			return true
		}
	}
	return false
}

// subjectsOfType lists IRI subjects typed with class, in first-seen order.
func (g *Graph) subjectsOfType(class string) []string {
	var out []string
	for _, key := range g.subjects {
		first := g.triples[g.bySubject[key][0]]
		iri, ok := first.Subj.(rdf.IRI)
		if !ok {
			continue
		}
		if g.hasType(iri.String(), class) {
			out = append(out, iri.String())
		}
	}
	return out
}

// Validate checks that every concept has a preferred label and at most one
// preferred label per language.
func (g *Graph) Validate() error {
	for _, iri := range g.subjectsOfType(SKOSConcept) {
		labels := literals(g.objects(iri, SKOSPrefLabel))
		if len(labels) == 0 {
			return errors.Wrapf(errShape, "concept %s has no skos:prefLabel", iri)
		}
		langs := make(map[string]struct{}, len(labels))
		for _, l := range labels {
			if l.String() == "" {
				return errors.Wrapf(errShape, "concept %s has an empty skos:prefLabel", iri)
			}
			if _, dup := langs[l.Lang()]; dup {
				return errors.Wrapf(errShape, "concept %s has more than one skos:prefLabel for language %q", iri, l.Lang())
			}
			langs[l.Lang()] = struct{}{}
		}
	}
	return nil
}

func tripleKey(t rdf.Triple) string {
	return termKey(t.Subj) + " " + termKey(t.Pred) + " " + termKey(t.Obj)
}

func termKey(t rdf.Term) string {
	return t.Serialize(rdf.NTriples)
}

func iriKey(iri string) string {
	return "<" + iri + ">"
}

func literals(objects []rdf.Object) []rdf.Literal {
	var out []rdf.Literal
	for _, o := range objects {
		if l, ok := o.(rdf.Literal); ok {
			out = append(out, l)
		}
	}
	return out
}
