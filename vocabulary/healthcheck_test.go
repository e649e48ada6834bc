package vocabulary

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/montessori-glossary/vocabulary-service/skos"
)

func newAdminMux(t *testing.T, service *Service, dataPath string) *http.ServeMux {
	serveMux := http.NewServeMux()
	router := NewRouter()
	h := NewHandler(service, dataPath, createLogger())
	h.RegisterHandlers(router)
	h.RegisterAdminHandlers(serveMux, router, "montessori-vocabulary", "Montessori Vocabulary", "Serves the Montessori glossary")
	return serveMux
}

func TestAdminHandler_Healthy(t *testing.T) {
	serveMux := newAdminMux(t, newTestService(t), testDataPath)

	type testStruct struct {
		endpoint           string
		expectedStatusCode int
		expectedBody       string
	}

	buildInfoChecker := testStruct{endpoint: "/__build-info", expectedStatusCode: 200, expectedBody: "Version  is not a semantic version"}
	gtgChecker := testStruct{endpoint: "/__gtg", expectedStatusCode: 200, expectedBody: ""}
	healthChecker := testStruct{endpoint: "/__health", expectedStatusCode: 200, expectedBody: "Check the vocabulary has concepts"}
	apiThroughMonitoringRouter := testStruct{endpoint: "/scheme", expectedStatusCode: 200, expectedBody: `"concepts":4`}

	testScenarios := []testStruct{buildInfoChecker, gtgChecker, healthChecker, apiThroughMonitoringRouter}

	for _, scenario := range testScenarios {
		rec := httptest.NewRecorder()
		serveMux.ServeHTTP(rec, newRequest("GET", scenario.endpoint, nil))
		assert.Equal(t, scenario.expectedStatusCode, rec.Code, "Endpoint: "+scenario.endpoint)
		assert.Contains(t, rec.Body.String(), scenario.expectedBody, "Endpoint: "+scenario.endpoint)
	}
}

func TestAdminHandler_GTGFailsWithoutDataFile(t *testing.T) {
	serveMux := newAdminMux(t, newTestService(t), filepath.Join(t.TempDir(), "missing.ttl"))

	rec := httptest.NewRecorder()
	serveMux.ServeHTTP(rec, newRequest("GET", "/__gtg", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminHandler_GTGFailsForEmptyVocabulary(t *testing.T) {
	service := NewService(skos.NewGraph(), testBase, "en", createLogger())
	serveMux := newAdminMux(t, service, testDataPath)

	rec := httptest.NewRecorder()
	serveMux.ServeHTTP(rec, newRequest("GET", "/__gtg", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthChecks(t *testing.T) {
	h := NewHandler(newTestService(t), testDataPath, createLogger())

	msg, err := h.checkVocabularyLoaded()
	assert.NoError(t, err)
	assert.Equal(t, "Vocabulary serves 4 concepts", msg)

	_, err = h.checkDataFile()
	assert.NoError(t, err)

	h = NewHandler(newTestService(t), t.TempDir(), createLogger())
	_, err = h.checkDataFile()
	assert.Error(t, err)
}
