package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Financial-Times/go-logger/v2"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montessori-glossary/vocabulary-service/skos"
)

const testBase = "https://vocabulary.montessoriglossary.org/"

func createLogger() *logger.UPPLogger {
	return logger.NewUPPLogger("test-import-csv", "PANIC")
}

func newTestImporter(t *testing.T) *Importer {
	im, err := NewImporter(Config{BaseIRI: testBase, Language: "en"}, createLogger())
	require.NoError(t, err)
	return im
}

func writeCSV(t *testing.T, dir, content string) string {
	path := filepath.Join(dir, "glossary.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportFileThenLoad(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeCSV(t, dir, `prefLabel,altLabel,definition,id
Practical Life,Exercises of Practical Life|EPL,"Activities for the care of self, others and the environment.",practical-life
Prepared Environment,,An environment designed for the child.,
Sensorial,A|B| |C,,
`)
	ttlPath := filepath.Join(dir, "data", "vocabulary.ttl")

	summary, err := newTestImporter(t).ImportFile(csvPath, ttlPath)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Concepts)
	assert.Equal(t, ttlPath, summary.Output)

	g, err := skos.LoadFile(ttlPath)
	require.NoError(t, err)

	type testStruct struct {
		testName           string
		iri                string
		expectedPrefLabel  string
		expectedAltLabels  []string
		expectedDefinition string
	}

	explicitID := testStruct{testName: "explicitID", iri: testBase + "practical-life", expectedPrefLabel: "Practical Life", expectedAltLabels: []string{"Exercises of Practical Life", "EPL"}, expectedDefinition: "Activities for the care of self, others and the environment."}
	slugFromLabel := testStruct{testName: "slugFromLabel", iri: testBase + "prepared-environment", expectedPrefLabel: "Prepared Environment", expectedAltLabels: []string{}, expectedDefinition: "An environment designed for the child."}
	emptyAltSegmentDropped := testStruct{testName: "emptyAltSegmentDropped", iri: testBase + "sensorial", expectedPrefLabel: "Sensorial", expectedAltLabels: []string{"A", "B", "C"}, expectedDefinition: ""}

	testScenarios := []testStruct{explicitID, slugFromLabel, emptyAltSegmentDropped}

	for _, scenario := range testScenarios {
		c, ok := g.Concept(scenario.iri, "en")
		require.True(t, ok, "Scenario: "+scenario.testName+" failed")
		assert.Equal(t, scenario.expectedPrefLabel, c.PrefLabel, "Scenario: "+scenario.testName+" failed")
		assert.ElementsMatch(t, scenario.expectedAltLabels, c.AltLabels, "Scenario: "+scenario.testName+" failed")
		assert.Equal(t, scenario.expectedDefinition, c.Definition, "Scenario: "+scenario.testName+" failed")
		assert.Equal(t, []string{testBase + "scheme"}, c.InScheme, "Scenario: "+scenario.testName+" failed")
	}

	scheme, ok := g.Scheme("en")
	require.True(t, ok)
	assert.Equal(t, DefaultTitle, scheme.Title)
}

func TestImportFileFailuresLeaveDestinationUntouched(t *testing.T) {
	type testStruct struct {
		testName   string
		csv        string
		assertions func(t *testing.T, err error)
	}

	blankPrefLabel := testStruct{testName: "blankPrefLabel", csv: "prefLabel,definition\nPractical Life,ok\n   ,no label\n", assertions: func(t *testing.T, err error) {
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, 3, verr.Line)
		assert.Equal(t, "prefLabel", verr.Field)
	}}
	duplicateSlug := testStruct{testName: "duplicateSlug", csv: "prefLabel\nPractical Life\npractical   life!\n", assertions: func(t *testing.T, err error) {
		var derr *DuplicateIRIError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, testBase+"practical-life", derr.IRI)
		assert.Equal(t, 3, derr.Line)
		assert.Equal(t, 2, derr.FirstLine)
	}}
	duplicateExplicitID := testStruct{testName: "duplicateExplicitID", csv: "prefLabel,id\nOne,x\nTwo,x\n", assertions: func(t *testing.T, err error) {
		var derr *DuplicateIRIError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, testBase+"x", derr.IRI)
	}}
	collidesWithScheme := testStruct{testName: "collidesWithScheme", csv: "prefLabel\nScheme\n", assertions: func(t *testing.T, err error) {
		var derr *DuplicateIRIError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, 0, derr.FirstLine)
		assert.Contains(t, err.Error(), "concept scheme")
	}}
	invalidExplicitID := testStruct{testName: "invalidExplicitID", csv: "prefLabel,id\nOne,has space\n", assertions: func(t *testing.T, err error) {
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "id", verr.Field)
	}}
	noSlug := testStruct{testName: "noSlug", csv: "prefLabel\n!!!\n", assertions: func(t *testing.T, err error) {
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "prefLabel", verr.Field)
	}}
	missingColumn := testStruct{testName: "missingColumn", csv: "name,definition\nOne,two\n", assertions: func(t *testing.T, err error) {
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "header", verr.Field)
	}}

	testScenarios := []testStruct{blankPrefLabel, duplicateSlug, duplicateExplicitID, collidesWithScheme, invalidExplicitID, noSlug, missingColumn}

	for _, scenario := range testScenarios {
		dir := t.TempDir()
		ttlPath := filepath.Join(dir, "vocabulary.ttl")
		require.NoError(t, os.WriteFile(ttlPath, []byte("previous"), 0o644))

		_, err := newTestImporter(t).ImportFile(writeCSV(t, dir, scenario.csv), ttlPath)
		require.Error(t, err, "Scenario: "+scenario.testName+" failed")
		scenario.assertions(t, err)

		content, readErr := os.ReadFile(ttlPath)
		require.NoError(t, readErr)
		assert.Equal(t, "previous", string(content), "Scenario: "+scenario.testName+" failed")

		entries, readErr := os.ReadDir(dir)
		require.NoError(t, readErr)
		assert.Len(t, entries, 2, "Scenario: "+scenario.testName+" left temporary files behind")
	}
}

func TestImportFileMissingCSV(t *testing.T) {
	_, err := newTestImporter(t).ImportFile(filepath.Join(t.TempDir(), "nope.csv"), filepath.Join(t.TempDir(), "out.ttl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadRowsAliasesAndBOM(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("\ufeffterm,alt,desc\nNormalization, Normalisation | ,The process\nCosmic Education\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{Line: 2, PrefLabel: "Normalization", AltLabels: []string{"Normalisation"}, Definition: "The process"}, rows[0])
	assert.Equal(t, Row{Line: 3, PrefLabel: "Cosmic Education"}, rows[1])
}

func TestReadRowsEmptyFile(t *testing.T) {
	_, err := ReadRows(strings.NewReader(""))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestSplitAltLabels(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, splitAltLabels("A|B| |C"))
	assert.Nil(t, splitAltLabels(""))
	assert.Nil(t, splitAltLabels(" | "))
}

func TestNewImporterConfig(t *testing.T) {
	im, err := NewImporter(Config{BaseIRI: "https://example.org/vocab", Language: "fr"}, createLogger())
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/vocab/scheme", im.SchemeIRI())

	im, err = NewImporter(Config{BaseIRI: "https://example.org/vocab#", Language: "en"}, createLogger())
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/vocab#scheme", im.SchemeIRI())

	for _, lang := range []string{"", "  "} {
		_, err = NewImporter(Config{BaseIRI: testBase, Language: lang}, createLogger())
		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr), "language %q", lang)
		assert.Equal(t, "language", validationErr.Field)
	}

	_, err = NewImporter(Config{BaseIRI: testBase, Language: "-en"}, createLogger())
	assert.Error(t, err)
}

func TestImportFileExplicitIDsWithPunctuation(t *testing.T) {
	type testStruct struct {
		testName string
		id       string
		csvID    string
	}

	trailingDot := testStruct{testName: "trailingDot", id: "epl.", csvID: "epl."}
	parentheses := testStruct{testName: "parentheses", id: "a(b)", csvID: "a(b)"}
	comma := testStruct{testName: "comma", id: "a,b", csvID: `"a,b"`}
	semicolon := testStruct{testName: "semicolon", id: "a;b", csvID: "a;b"}
	tilde := testStruct{testName: "tilde", id: "a~b", csvID: "a~b"}
	apostrophe := testStruct{testName: "apostrophe", id: "a'b", csvID: "a'b"}
	bang := testStruct{testName: "bang", id: "a!b", csvID: "a!b"}
	leadingHyphen := testStruct{testName: "leadingHyphen", id: "-x", csvID: "-x"}

	testScenarios := []testStruct{trailingDot, parentheses, comma, semicolon, tilde, apostrophe, bang, leadingHyphen}

	for _, scenario := range testScenarios {
		dir := t.TempDir()
		csvPath := writeCSV(t, dir, "prefLabel,id\nPractical Life,"+scenario.csvID+"\n")
		ttlPath := filepath.Join(dir, "vocabulary.ttl")

		_, err := newTestImporter(t).ImportFile(csvPath, ttlPath)
		require.NoError(t, err, "Scenario: "+scenario.testName+" failed")

		g, err := skos.LoadFile(ttlPath)
		require.NoError(t, err, "Scenario: "+scenario.testName+" failed")
		c, ok := g.Concept(testBase+scenario.id, "en")
		require.True(t, ok, "Scenario: "+scenario.testName+" failed")
		assert.Equal(t, "Practical Life", c.PrefLabel, "Scenario: "+scenario.testName+" failed")
	}
}

func TestVerifyTurtle(t *testing.T) {
	g := skos.NewGraph()
	require.NoError(t, g.AddResource(testBase+"a", skos.RDFType, skos.SKOSConcept))
	require.NoError(t, g.AddLiteral(testBase+"a", skos.SKOSPrefLabel, "A", "en"))

	err := verifyTurtle([]byte("<"+testBase+"a> a <"+skos.SKOSConcept+"> ; <"+skos.SKOSPrefLabel+`> "A"@en .`), g)
	assert.NoError(t, err)

	err = verifyTurtle([]byte("<"+testBase+"a> a <"+skos.SKOSConcept), g)
	assert.Error(t, err)

	err = verifyTurtle([]byte("<"+testBase+"a> a <"+skos.SKOSConcept+"> ; <"+skos.SKOSPrefLabel+`> "A"@en , "B"@fr .`), g)
	assert.Error(t, err)
}

func TestBuildEmptyRows(t *testing.T) {
	g, err := newTestImporter(t).Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.ConceptCount())
	_, ok := g.Scheme("en")
	assert.True(t, ok)
}
