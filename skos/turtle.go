package skos

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/knakk/rdf"
)

// encodeTurtle writes one statement block per subject, in first-seen order.
// Subjects and objects are always full IRIs; only predicates and rdf:type classes
// from well known namespaces are abbreviated, and only when the local name is a
// plain identifier. The triples slice is never modified.
func encodeTurtle(w io.Writer, triples []rdf.Triple) error {
	bw := bufio.NewWriter(w)
	var err error
	write := func(s string) {
		if err == nil {
			_, err = bw.WriteString(s)
		}
	}

	namespaces := make([]string, 0, len(prefixes))
	for uri := range prefixes {
		namespaces = append(namespaces, uri)
	}
	sort.Slice(namespaces, func(i, j int) bool {
		return prefixes[namespaces[i]] < prefixes[namespaces[j]]
	})
	for _, uri := range namespaces {
		write("@prefix " + prefixes[uri] + ": <" + uri + "> .\n")
	}

	var subjects []string
	grouped := make(map[string][]rdf.Triple)
	for _, t := range triples {
		key := termKey(t.Subj)
		if _, ok := grouped[key]; !ok {
			subjects = append(subjects, key)
		}
		grouped[key] = append(grouped[key], t)
	}

	for _, key := range subjects {
		group := grouped[key]
		write("\n" + turtleTerm(group[0].Subj))
		for i, t := range group {
			if i == 0 {
				write(" ")
			} else {
				write(" ;\n\t")
			}
			pred := t.Pred.String()
			if pred == RDFType {
				write("a " + turtleName(t.Obj))
				continue
			}
			write(turtleName(t.Pred) + " " + turtleTerm(t.Obj))
		}
		write(" .\n")
	}

	if err != nil {
		return err
	}
	return bw.Flush()
}

func turtleTerm(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return "<" + v.String() + ">"
	case rdf.Literal:
		return v.Serialize(rdf.Turtle)
	}
	return t.Serialize(rdf.NTriples)
}

// turtleName abbreviates an IRI in a well known namespace to prefix:local.
func turtleName(t rdf.Term) string {
	iri, ok := t.(rdf.IRI)
	if !ok {
		return turtleTerm(t)
	}
	s := iri.String()
	i := strings.LastIndexAny(s, "#/")
	if i >= 0 {
		if prefix, known := prefixes[s[:i+1]]; known && plainLocalName(s[i+1:]) {
			return prefix + ":" + s[i+1:]
		}
	}
	return "<" + s + ">"
}

// plainLocalName accepts ASCII identifiers, a subset of Turtle PN_LOCAL that
// needs no escaping.
func plainLocalName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}

func decodeTurtle(r io.Reader) ([]rdf.Triple, error) {
	return rdf.NewTripleDecoder(r, rdf.Turtle).DecodeAll()
}

func decodeRDFXML(r io.Reader) ([]rdf.Triple, error) {
	return rdf.NewTripleDecoder(r, rdf.RDFXML).DecodeAll()
}
