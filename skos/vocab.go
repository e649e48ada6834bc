package skos

import "strings"

// Namespaces used by the vocabulary.
const (
	RDFNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	SKOSNamespace    = "http://www.w3.org/2004/02/skos/core#"
	DCTermsNamespace = "http://purl.org/dc/terms/"
	XSDNamespace     = "http://www.w3.org/2001/XMLSchema#"
)

const (
	RDFType = RDFNamespace + "type"

	SKOSConcept       = SKOSNamespace + "Concept"
	SKOSConceptScheme = SKOSNamespace + "ConceptScheme"
	SKOSPrefLabel     = SKOSNamespace + "prefLabel"
	SKOSAltLabel      = SKOSNamespace + "altLabel"
	SKOSDefinition    = SKOSNamespace + "definition"
	SKOSNotation      = SKOSNamespace + "notation"
	SKOSInScheme      = SKOSNamespace + "inScheme"
	SKOSHasTopConcept = SKOSNamespace + "hasTopConcept"
	SKOSBroader       = SKOSNamespace + "broader"
	SKOSNarrower      = SKOSNamespace + "narrower"
	SKOSRelated       = SKOSNamespace + "related"

	DCTermsTitle = DCTermsNamespace + "title"

	XSDString = XSDNamespace + "string"
)

// prefixes maps well known namespaces to the prefixes used by the JSON-LD context
// and the Turtle and RDF/XML writers.
var prefixes = map[string]string{
	RDFNamespace:     "rdf",
	SKOSNamespace:    "skos",
	DCTermsNamespace: "dcterms",
	XSDNamespace:     "xsd",
}

// NormalizeBaseIRI trims base and makes sure identifiers can be appended to it
// directly.
func NormalizeBaseIRI(base string) string {
	base = strings.TrimSpace(base)
	if base != "" && !strings.HasSuffix(base, "/") && !strings.HasSuffix(base, "#") {
		base += "/"
	}
	return base
}
