package importer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Financial-Times/go-logger/v2"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/knakk/rdf"

	"github.com/montessori-glossary/vocabulary-service/skos"
)

const (
	DefaultBaseIRI = "https://vocabulary.montessoriglossary.org/"
	DefaultTitle   = "Montessori Glossary Vocabulary"

	schemeSlug = "scheme"
)

// fieldColumns maps Row fields to the CSV column named in errors.
var fieldColumns = map[string]string{
	"PrefLabel": "prefLabel",
	"ID":        "id",
}

type Config struct {
	BaseIRI  string
	Language string
	Title    string
}

// Summary describes a completed import.
type Summary struct {
	Output   string
	Concepts int
	Triples  int
}

type Importer struct {
	baseIRI  string
	language string
	title    string
	validate *validator.Validate
	log      *logger.UPPLogger
}

func NewImporter(config Config, log *logger.UPPLogger) (*Importer, error) {
	base := config.BaseIRI
	if strings.TrimSpace(base) == "" {
		base = DefaultBaseIRI
	}
	base = skos.NormalizeBaseIRI(base)
	if _, err := rdf.NewIRI(base + schemeSlug); err != nil {
		return nil, &ValidationError{Field: "base IRI", Reason: err.Error()}
	}
	if strings.TrimSpace(config.Language) == "" {
		return nil, &ValidationError{Field: "language", Reason: "a language tag is required"}
	}
	if _, err := rdf.NewLangLiteral("", config.Language); err != nil {
		return nil, &ValidationError{Field: "language", Reason: "not a valid language tag: " + config.Language}
	}
	title := config.Title
	if title == "" {
		title = DefaultTitle
	}
	return &Importer{
		baseIRI:  base,
		language: config.Language,
		title:    title,
		validate: validator.New(),
		log:      log,
	}, nil
}

// SchemeIRI is the IRI of the concept scheme every imported concept belongs to.
func (im *Importer) SchemeIRI() string {
	return im.baseIRI + schemeSlug
}

// ImportFile converts the CSV at csvPath into a Turtle file at ttlPath. The
// destination is only replaced once every row has been validated and the whole
// graph serialized.
func (im *Importer) ImportFile(csvPath, ttlPath string) (Summary, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return Summary{}, errors.Wrapf(err, "failed to open %s", csvPath)
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return Summary{}, err
	}

	g, err := im.Build(rows)
	if err != nil {
		return Summary{}, err
	}

	var buf bytes.Buffer
	if err := g.Serialize(&buf, skos.Turtle); err != nil {
		return Summary{}, err
	}
	if err := verifyTurtle(buf.Bytes(), g); err != nil {
		return Summary{}, err
	}

	err = writeAtomically(ttlPath, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
	if err != nil {
		return Summary{}, errors.Wrapf(err, "failed to write %s", ttlPath)
	}

	summary := Summary{Output: ttlPath, Concepts: g.ConceptCount(), Triples: g.Len()}
	im.log.WithFields(map[string]interface{}{
		"output":   summary.Output,
		"concepts": summary.Concepts,
		"triples":  summary.Triples,
	}).Info("Wrote SKOS vocabulary")
	return summary, nil
}

// Build validates rows in order and turns them into a SKOS graph. It stops at
// the first invalid row.
func (im *Importer) Build(rows []Row) (*skos.Graph, error) {
	g := skos.NewGraph()
	scheme := im.SchemeIRI()
	if err := g.AddResource(scheme, skos.RDFType, skos.SKOSConceptScheme); err != nil {
		return nil, err
	}
	if err := g.AddLiteral(scheme, skos.DCTermsTitle, im.title, im.language); err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		im.log.Warn("CSV contains no rows; writing an empty vocabulary")
	}

	// line 0 marks the scheme
	assigned := map[string]int{scheme: 0}
	for _, row := range rows {
		if err := im.validateRow(row); err != nil {
			return nil, err
		}
		iri, err := im.conceptIRI(row)
		if err != nil {
			return nil, err
		}
		if first, dup := assigned[iri]; dup {
			return nil, &DuplicateIRIError{IRI: iri, Line: row.Line, FirstLine: first}
		}
		assigned[iri] = row.Line

		if err := im.addConcept(g, scheme, iri, row); err != nil {
			return nil, errors.Wrapf(err, "line %d", row.Line)
		}
		im.log.WithFields(map[string]interface{}{"line": row.Line, "iri": iri}).Debug("Mapped row to concept")
	}
	return g, nil
}

func (im *Importer) validateRow(row Row) error {
	err := im.validate.Struct(row)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Wrapf(err, "line %d", row.Line)
	}
	fe := fieldErrs[0]
	reason := "is required"
	if fe.Tag() != "required" {
		reason = "fails " + fe.Tag() + " " + fe.Param()
	}
	return &ValidationError{Line: row.Line, Field: fieldColumns[fe.Field()], Reason: reason}
}

// conceptIRI appends the explicit id, or the slug of the preferred label, to the
// base IRI.
func (im *Importer) conceptIRI(row Row) (string, error) {
	id, field := row.ID, "id"
	if id == "" {
		id, field = Slugify(row.PrefLabel), "prefLabel"
		if id == "" {
			return "", &ValidationError{Line: row.Line, Field: field, Reason: "no identifier can be derived from " + row.PrefLabel}
		}
	}
	iri := im.baseIRI + id
	if _, err := rdf.NewIRI(iri); err != nil {
		return "", &ValidationError{Line: row.Line, Field: field, Reason: "not a valid IRI: " + iri}
	}
	return iri, nil
}

func (im *Importer) addConcept(g *skos.Graph, scheme, iri string, row Row) error {
	if err := g.AddResource(iri, skos.RDFType, skos.SKOSConcept); err != nil {
		return err
	}
	if err := g.AddResource(iri, skos.SKOSInScheme, scheme); err != nil {
		return err
	}
	if err := g.AddResource(scheme, skos.SKOSHasTopConcept, iri); err != nil {
		return err
	}
	if err := g.AddLiteral(iri, skos.SKOSPrefLabel, row.PrefLabel, im.language); err != nil {
		return err
	}
	if row.Definition != "" {
		if err := g.AddLiteral(iri, skos.SKOSDefinition, row.Definition, im.language); err != nil {
			return err
		}
	}
	for _, alt := range row.AltLabels {
		if err := g.AddLiteral(iri, skos.SKOSAltLabel, alt, im.language); err != nil {
			return err
		}
	}
	return nil
}

// verifyTurtle parses the serialized vocabulary back and checks it loads as the
// service would load it, with every triple intact.
func verifyTurtle(data []byte, g *skos.Graph) error {
	parsed, err := skos.Parse(bytes.NewReader(data), skos.Turtle)
	if err != nil {
		return errors.Wrap(err, "serialized vocabulary does not parse")
	}
	if err := parsed.Validate(); err != nil {
		return errors.Wrap(err, "serialized vocabulary is invalid")
	}
	if parsed.Len() != g.Len() || parsed.ConceptCount() != g.ConceptCount() {
		return errors.Newf("serialized vocabulary has %d triples and %d concepts, expected %d and %d",
			parsed.Len(), parsed.ConceptCount(), g.Len(), g.ConceptCount())
	}
	return nil
}

// writeAtomically writes to a temporary file next to path and renames it into
// place, so a failed write never leaves a truncated destination.
func writeAtomically(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
