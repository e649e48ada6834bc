package skos

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/knakk/rdf"
)

// encodeRDFXML writes one rdf:Description per subject, in first-seen order.
func encodeRDFXML(w io.Writer, triples []rdf.Triple) error {
	ns, err := collectNamespaces(triples)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	x := &xmlWriter{w: bw}

	x.raw(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	x.raw(`<rdf:RDF`)
	for _, uri := range ns.order {
		x.raw("\n  xmlns:" + ns.prefix[uri] + `="`)
		x.text(uri)
		x.raw(`"`)
	}
	x.raw(">\n")

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
		x.raw("  <rdf:Description ")
		x.nodeAttr("rdf:about", group[0].Subj)
		x.raw(">\n")
		for _, t := range group {
			qname := ns.qname(t.Pred.String())
			x.raw("    <" + qname)
			switch o := t.Obj.(type) {
			case rdf.Literal:
				if o.Lang() != "" {
					x.raw(` xml:lang="`)
					x.text(o.Lang())
					x.raw(`"`)
				} else if dt := o.DataType.String(); dt != "" && dt != XSDString {
					x.raw(` rdf:datatype="`)
					x.text(dt)
					x.raw(`"`)
				}
				x.raw(">")
				x.text(o.String())
				x.raw("</" + qname + ">\n")
			default:
				x.raw(" ")
				x.nodeAttr("rdf:resource", o)
				x.raw("/>\n")
			}
		}
		x.raw("  </rdf:Description>\n")
	}
	x.raw("</rdf:RDF>\n")

	if x.err != nil {
		return x.err
	}
	return bw.Flush()
}

type xmlWriter struct {
	w   *bufio.Writer
	err error
}

func (x *xmlWriter) raw(s string) {
	if x.err != nil {
		return
	}
	_, x.err = x.w.WriteString(s)
}

func (x *xmlWriter) text(s string) {
	if x.err != nil {
		return
	}
	x.err = xml.EscapeText(x.w, []byte(s))
}

// nodeAttr writes the reference to an IRI, or rdf:nodeID for a blank node.
func (x *xmlWriter) nodeAttr(iriAttr string, t rdf.Term) {
	if b, ok := t.(rdf.Blank); ok {
		x.raw(`rdf:nodeID="`)
		x.text(strings.TrimPrefix(b.String(), "_:"))
		x.raw(`"`)
		return
	}
	x.raw(iriAttr + `="`)
	x.text(t.String())
	x.raw(`"`)
}

type namespaces struct {
	prefix map[string]string
	order  []string
	local  map[string][2]string
}

func (n *namespaces) qname(predicate string) string {
	parts := n.local[predicate]
	return n.prefix[parts[0]] + ":" + parts[1]
}

// collectNamespaces splits every predicate into namespace and local name, and
// assigns a prefix to each namespace. Well known namespaces keep their usual
// prefix; others get ns1, ns2, ...
func collectNamespaces(triples []rdf.Triple) (*namespaces, error) {
	n := &namespaces{
		prefix: map[string]string{RDFNamespace: prefixes[RDFNamespace]},
		local:  make(map[string][2]string),
	}
	var extra []string
	for _, t := range triples {
		pred := t.Pred.String()
		if _, ok := n.local[pred]; ok {
			continue
		}
		uri, local, err := splitPredicate(pred)
		if err != nil {
			return nil, err
		}
		n.local[pred] = [2]string{uri, local}
		if _, ok := n.prefix[uri]; ok {
			continue
		}
		if p, ok := prefixes[uri]; ok {
			n.prefix[uri] = p
			continue
		}
		extra = append(extra, uri)
		n.prefix[uri] = fmt.Sprintf("ns%d", len(extra))
	}

	for uri := range n.prefix {
		n.order = append(n.order, uri)
	}
	sort.Slice(n.order, func(i, j int) bool {
		return n.prefix[n.order[i]] < n.prefix[n.order[j]]
	})
	return n, nil
}

// splitPredicate cuts an IRI after its last '#' or '/' so that the remainder is
// a valid XML local name.
func splitPredicate(iri string) (string, string, error) {
	i := strings.LastIndexAny(iri, "#/")
	if i < 0 || i == len(iri)-1 {
		return "", "", errors.Newf("predicate %s cannot be written as RDF/XML", iri)
	}
	local := iri[i+1:]
	for j, r := range local {
		ok := r == '_' || unicode.IsLetter(r)
		if j > 0 {
			ok = ok || r == '-' || r == '.' || unicode.IsDigit(r)
		}
		if !ok {
			return "", "", errors.Newf("predicate %s cannot be written as RDF/XML", iri)
		}
	}
	return iri[:i+1], local, nil
}
