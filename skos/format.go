package skos

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knakk/rdf"
)

// Format is one of the supported RDF serializations.
type Format int

const (
	Turtle Format = iota + 1
	JSONLD
	RDFXML
)

type encoder func(w io.Writer, triples []rdf.Triple) error

type decoder func(r io.Reader) ([]rdf.Triple, error)

var formats = map[Format]struct {
	token       string
	contentType string
	encode      encoder
	decode      decoder
}{
	Turtle: {token: "ttl", contentType: "text/turtle; charset=utf-8", encode: encodeTurtle, decode: decodeTurtle},
	JSONLD: {token: "jsonld", contentType: "application/ld+json", encode: encodeJSONLD, decode: decodeJSONLD},
	RDFXML: {token: "xml", contentType: "application/rdf+xml", encode: encodeRDFXML, decode: decodeRDFXML},
}

// Formats lists the supported formats in a stable order.
func Formats() []Format {
	return []Format{Turtle, JSONLD, RDFXML}
}

// ParseFormat maps a format token (ttl, jsonld, xml) to a Format.
func ParseFormat(token string) (Format, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	for _, f := range Formats() {
		if formats[f].token == t {
			return f, nil
		}
	}
	return 0, errors.Mark(errors.Newf("unsupported format %q: expected one of ttl, jsonld, xml", token), ErrUnsupportedFormat)
}

func (f Format) String() string {
	if codec, ok := formats[f]; ok {
		return codec.token
	}
	return "unknown"
}

// Extension is the file extension for downloads, without the dot.
func (f Format) Extension() string {
	return f.String()
}

func (f Format) ContentType() string {
	return formats[f].contentType
}

// Serialize writes every triple of the graph in the given format.
func (g *Graph) Serialize(w io.Writer, f Format) error {
	codec, ok := formats[f]
	if !ok {
		return errors.Mark(errors.Newf("unsupported format %d", int(f)), ErrUnsupportedFormat)
	}
	// encoders get a copy so that no codec can reorder the indexed triples
	if err := codec.encode(w, g.Triples()); err != nil {
		return errors.Wrapf(err, "serializing %s", codec.token)
	}
	return nil
}

// Parse reads a graph in the given format.
func Parse(r io.Reader, f Format) (*Graph, error) {
	codec, ok := formats[f]
	if !ok {
		return nil, errors.Mark(errors.Newf("unsupported format %d", int(f)), ErrUnsupportedFormat)
	}
	triples, err := codec.decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", codec.token)
	}
	g := NewGraph()
	for _, t := range triples {
		g.Add(t)
	}
	return g, nil
}
