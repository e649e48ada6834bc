package skos

import (
	"io"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/jsonld"
	"github.com/cockroachdb/errors"
	"github.com/knakk/rdf"
)

func jsonLDContext() map[string]interface{} {
	ctx := make(map[string]interface{}, len(prefixes))
	for ns, prefix := range prefixes {
		ctx[prefix] = ns
	}
	return ctx
}

func encodeJSONLD(w io.Writer, triples []rdf.Triple) error {
	jw := jsonld.NewWriter(w)
	jw.SetLdContext(jsonLDContext())
	for _, t := range triples {
		q, err := toQuad(t)
		if err != nil {
			return err
		}
		if err := jw.WriteQuad(q); err != nil {
			return err
		}
	}
	return jw.Close()
}

func decodeJSONLD(r io.Reader) ([]rdf.Triple, error) {
	jr := jsonld.NewReader(r)
	defer jr.Close()

	var out []rdf.Triple
	for {
		q, err := jr.ReadQuad()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		t, err := fromQuad(q)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
}

func toQuad(t rdf.Triple) (quad.Quad, error) {
	s, err := toQuadValue(t.Subj)
	if err != nil {
		return quad.Quad{}, err
	}
	p, err := toQuadValue(t.Pred)
	if err != nil {
		return quad.Quad{}, err
	}
	o, err := toQuadValue(t.Obj)
	if err != nil {
		return quad.Quad{}, err
	}
	return quad.Quad{Subject: s, Predicate: p, Object: o}, nil
}

func toQuadValue(term rdf.Term) (quad.Value, error) {
	switch v := term.(type) {
	case rdf.IRI:
		return quad.IRI(v.String()), nil
	case rdf.Blank:
		return quad.BNode(strings.TrimPrefix(v.String(), "_:")), nil
	case rdf.Literal:
		if v.Lang() != "" {
			return quad.LangString{Value: quad.String(v.String()), Lang: v.Lang()}, nil
		}
		dt := v.DataType.String()
		if dt == "" || dt == XSDString {
			return quad.String(v.String()), nil
		}
		return quad.TypedString{Value: quad.String(v.String()), Type: quad.IRI(dt)}, nil
	}
	return nil, errors.Newf("unsupported RDF term %T", term)
}

func fromQuad(q quad.Quad) (rdf.Triple, error) {
	subj, err := toTerm(q.Subject)
	if err != nil {
		return rdf.Triple{}, err
	}
	pred, err := toTerm(q.Predicate)
	if err != nil {
		return rdf.Triple{}, err
	}
	obj, err := toTerm(q.Object)
	if err != nil {
		return rdf.Triple{}, err
	}

	s, ok := subj.(rdf.Subject)
	if !ok {
		return rdf.Triple{}, errors.Newf("invalid subject %v", q.Subject)
	}
	p, ok := pred.(rdf.IRI)
	if !ok {
		return rdf.Triple{}, errors.Newf("invalid predicate %v", q.Predicate)
	}
	return rdf.Triple{Subj: s, Pred: p, Obj: obj}, nil
}

func toTerm(v quad.Value) (rdf.Object, error) {
	switch v := v.(type) {
	case quad.IRI:
		return rdf.NewIRI(string(v))
	case quad.BNode:
		return rdf.NewBlank(string(v))
	case quad.String:
		return rdf.NewLiteral(string(v))
	case quad.LangString:
		return rdf.NewLangLiteral(string(v.Value), v.Lang)
	case quad.TypedString:
		if string(v.Type) == XSDString {
			return rdf.NewLiteral(string(v.Value))
		}
		dt, err := rdf.NewIRI(string(v.Type))
		if err != nil {
			return nil, err
		}
		return rdf.NewTypedLiteral(string(v.Value), dt), nil
	case nil:
		return nil, errors.New("missing RDF term")
	}
	return rdf.NewLiteral(quad.NativeOf(v))
}
