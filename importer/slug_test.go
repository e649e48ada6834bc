package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	type testStruct struct {
		testName string
		label    string
		expected string
	}

	simple := testStruct{testName: "simple", label: "Practical Life", expected: "practical-life"}
	punctuation := testStruct{testName: "punctuation", label: "Three-Period Lesson (3PL)", expected: "three-period-lesson-3pl"}
	diacritics := testStruct{testName: "diacritics", label: "Éducation cosmique", expected: "education-cosmique"}
	surroundingNoise := testStruct{testName: "surroundingNoise", label: "  --Sensitive   periods!! ", expected: "sensitive-periods"}
	sharpS := testStruct{testName: "sharpS", label: "Straße", expected: "strasse"}
	ligatures := testStruct{testName: "ligatures", label: "Œuvre Ærø", expected: "oeuvre-aero"}
	strokes := testStruct{testName: "strokes", label: "Łódź", expected: "lodz"}
	nonLatin := testStruct{testName: "nonLatin", label: "教具", expected: ""}
	empty := testStruct{testName: "empty", label: "", expected: ""}

	testScenarios := []testStruct{simple, punctuation, diacritics, sharpS, ligatures, strokes, surroundingNoise, nonLatin, empty}

	for _, scenario := range testScenarios {
		assert.Equal(t, scenario.expected, Slugify(scenario.label), "Scenario: "+scenario.testName+" failed")
	}
}
