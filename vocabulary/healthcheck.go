package vocabulary

import (
	"fmt"
	"net/http"
	"os"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	"github.com/Financial-Times/http-handlers-go/httphandlers"
	"github.com/Financial-Times/service-status-go/gtg"
	serviceStatus "github.com/Financial-Times/service-status-go/httphandlers"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	metrics "github.com/rcrowley/go-metrics"
)

const (
	panicGuideURL  = "https://github.com/montessori-glossary/vocabulary-service#runbook"
	businessImpact = "Glossary terms cannot be browsed, searched or downloaded"
)

// RegisterAdminHandlers mounts the admin endpoints on serveMux and serves
// everything else from router, wrapped with request logging and metrics.
func (h *VocabularyHandler) RegisterAdminHandlers(serveMux *http.ServeMux, router *mux.Router, appSystemCode string, appName string, appDescription string) {
	h.log.Info("Registering admin handlers")

	var monitoringRouter http.Handler = router
	monitoringRouter = httphandlers.TransactionAwareRequestLoggingHandler(h.log.Logger, monitoringRouter)
	monitoringRouter = httphandlers.HTTPMetricsHandler(metrics.DefaultRegistry, monitoringRouter)
	monitoringRouter = handlers.CompressHandler(monitoringRouter)

	var checks = []fthealth.Check{h.vocabularyLoadedHealthCheck(), h.dataFileHealthCheck()}

	timedHC := fthealth.TimedHealthCheck{
		HealthCheck: fthealth.HealthCheck{
			SystemCode:  appSystemCode,
			Description: appDescription,
			Name:        appName,
			Checks:      checks,
		},
		Timeout: 10 * time.Second,
	}

	serveMux.HandleFunc("/__health", fthealth.Handler(&timedHC))
	serveMux.HandleFunc(serviceStatus.GTGPath, serviceStatus.NewGoodToGoHandler(gtg.StatusChecker(h.gtg)))
	serveMux.HandleFunc(serviceStatus.BuildInfoPath, serviceStatus.BuildInfoHandler)

	serveMux.Handle("/", monitoringRouter)
}

func (h *VocabularyHandler) gtg() gtg.Status {
	vocabularyCheck := func() gtg.Status {
		return gtgCheck(h.checkVocabularyLoaded)
	}

	dataFileCheck := func() gtg.Status {
		return gtgCheck(h.checkDataFile)
	}

	return gtg.FailFastParallelCheck([]gtg.StatusChecker{
		vocabularyCheck,
		dataFileCheck,
	})()
}

func gtgCheck(handler func() (string, error)) gtg.Status {
	if _, err := handler(); err != nil {
		return gtg.Status{GoodToGo: false, Message: err.Error()}
	}
	return gtg.Status{GoodToGo: true}
}

func (h *VocabularyHandler) vocabularyLoadedHealthCheck() fthealth.Check {
	return fthealth.Check{
		BusinessImpact:   businessImpact,
		Name:             "Check the vocabulary has concepts",
		PanicGuide:       panicGuideURL,
		Severity:         2,
		TechnicalSummary: `The loaded vocabulary is empty; re-run import-csv against the glossary CSV and restart this service`,
		Checker:          h.checkVocabularyLoaded,
	}
}

func (h *VocabularyHandler) dataFileHealthCheck() fthealth.Check {
	return fthealth.Check{
		BusinessImpact:   "The service keeps serving the loaded vocabulary but will not start again",
		Name:             "Check the vocabulary file is readable",
		PanicGuide:       panicGuideURL,
		Severity:         3,
		TechnicalSummary: `Check DATA_TTL_PATH points at the Turtle file written by import-csv`,
		Checker:          h.checkDataFile,
	}
}

func (h *VocabularyHandler) checkVocabularyLoaded() (string, error) {
	count := h.service.Count()
	if count == 0 {
		return "Vocabulary has no concepts", errors.New("loaded vocabulary contains no concepts")
	}
	return fmt.Sprintf("Vocabulary serves %d concepts", count), nil
}

func (h *VocabularyHandler) checkDataFile() (string, error) {
	f, err := os.Open(h.dataPath)
	if err != nil {
		h.log.WithError(err).WithField("path", h.dataPath).Error("Vocabulary file is not readable")
		return fmt.Sprintf("Error opening %s", h.dataPath), errors.Wrap(err, "vocabulary file is not readable")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Sprintf("Error reading %s", h.dataPath), errors.Wrap(err, "vocabulary file is not readable")
	}
	if info.IsDir() {
		return fmt.Sprintf("%s is a directory", h.dataPath), errors.Newf("vocabulary path %s is a directory", h.dataPath)
	}
	return fmt.Sprintf("Vocabulary file %s is readable", h.dataPath), nil
}
