package vocabulary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Financial-Times/go-logger/v2"
	transactionidutils "github.com/Financial-Times/transactionid-utils-go"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/text/language"

	"github.com/montessori-glossary/vocabulary-service/skos"
)

const indexPageSize = 50

var errBadParameter = errors.New("bad request parameter")

type VocabularyHandler struct {
	service  *Service
	dataPath string
	log      *logger.UPPLogger
}

func NewHandler(service *Service, dataPath string, log *logger.UPPLogger) VocabularyHandler {
	return VocabularyHandler{
		service:  service,
		dataPath: dataPath,
		log:      log,
	}
}

// NewRouter keeps encoded path segments intact so that URL-encoded IRIs, which
// contain %2F, reach the handlers as a single variable.
func NewRouter() *mux.Router {
	return mux.NewRouter().UseEncodedPath().SkipClean(true)
}

func (h *VocabularyHandler) RegisterHandlers(router *mux.Router) {
	h.log.Info("Registering handlers")
	get := func(f http.HandlerFunc) http.Handler {
		return handlers.MethodHandler{"GET": f}
	}
	router.Handle("/concepts", get(h.ListConceptsHandler))
	router.Handle("/concepts/{iri:.+}", get(h.GetConceptHandler))
	router.Handle("/download.{format}", get(h.DownloadHandler))
	router.Handle("/scheme", get(h.SchemeHandler))
	router.Handle("/health", get(h.HealthHandler))
	router.Handle("/c/{iri:.+}", get(h.ConceptPageHandler))
	router.Handle("/", get(h.IndexHandler))
}

func (h *VocabularyHandler) ListConceptsHandler(rw http.ResponseWriter, req *http.Request) {
	tid := transactionidutils.GetTransactionIDFromRequest(req)
	rw.Header().Set("X-Request-Id", tid)

	query := req.URL.Query()
	limit, err := intParam(query.Get("limit"), -1)
	if err != nil {
		h.writeError(rw, tid, err)
		return
	}
	offset, err := intParam(query.Get("offset"), 0)
	if err != nil {
		h.writeError(rw, tid, err)
		return
	}

	concepts := h.service.List(query.Get("q"), h.requestLanguage(req))
	h.log.WithFields(map[string]interface{}{"transaction_id": tid, "query": query.Get("q"), "results": len(concepts)}).Debug("Listed concepts")

	rw.Header().Set("X-Total-Count", strconv.Itoa(len(concepts)))
	writeJSON(rw, http.StatusOK, toSummaries(paginate(concepts, limit, offset)))
}

func (h *VocabularyHandler) GetConceptHandler(rw http.ResponseWriter, req *http.Request) {
	tid := transactionidutils.GetTransactionIDFromRequest(req)
	rw.Header().Set("X-Request-Id", tid)

	concept, err := h.service.Get(mux.Vars(req)["iri"], h.requestLanguage(req))
	if err != nil {
		h.writeError(rw, tid, err)
		return
	}
	writeJSON(rw, http.StatusOK, toDetail(concept))
}

func (h *VocabularyHandler) DownloadHandler(rw http.ResponseWriter, req *http.Request) {
	tid := transactionidutils.GetTransactionIDFromRequest(req)
	rw.Header().Set("X-Request-Id", tid)

	format, err := skos.ParseFormat(mux.Vars(req)["format"])
	if err != nil {
		h.writeError(rw, tid, err)
		return
	}

	// buffered so that a failed serialization still gets an error status
	var buf bytes.Buffer
	if err := h.service.Serialize(&buf, format); err != nil {
		h.writeError(rw, tid, err)
		return
	}

	rw.Header().Set("Content-Type", format.ContentType())
	rw.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="vocabulary.%s"`, format.Extension()))
	rw.WriteHeader(http.StatusOK)
	if _, err := rw.Write(buf.Bytes()); err != nil {
		h.log.WithError(err).WithField("transaction_id", tid).Warn("Could not write download")
	}
}

func (h *VocabularyHandler) SchemeHandler(rw http.ResponseWriter, req *http.Request) {
	scheme := h.service.Scheme(h.requestLanguage(req))
	writeJSON(rw, http.StatusOK, SchemeInfo{IRI: scheme.IRI, Title: scheme.Title, Concepts: h.service.Count()})
}

func (h *VocabularyHandler) HealthHandler(rw http.ResponseWriter, _ *http.Request) {
	writeJSON(rw, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLanguage picks a well-formed ?lang=, then the first Accept-Language
// tag, then the configured default. Tags come back in canonical form.
func (h *VocabularyHandler) requestLanguage(req *http.Request) string {
	if lang := normalizeLanguage(req.URL.Query().Get("lang")); lang != "" {
		return lang
	}
	tags, _, err := language.ParseAcceptLanguage(req.Header.Get("Accept-Language"))
	if err == nil && len(tags) > 0 && tags[0] != language.Und {
		return tags[0].String()
	}
	return h.service.DefaultLanguage()
}

func normalizeLanguage(tag string) string {
	if tag == "" {
		return ""
	}
	t, err := language.Parse(tag)
	if err != nil || t == language.Und {
		return ""
	}
	return t.String()
}

func (h *VocabularyHandler) writeError(rw http.ResponseWriter, tid string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrConceptNotFound):
		status = http.StatusNotFound
	case errors.Is(err, skos.ErrUnsupportedFormat), errors.Is(err, errBadParameter):
		status = http.StatusBadRequest
	}

	entry := h.log.WithError(err).WithFields(map[string]interface{}{"transaction_id": tid, "status": status})
	if status == http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Info("Request rejected")
	}
	writeJSONError(rw, err.Error(), status)
}

func writeJSON(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(body)
}

func writeJSONError(rw http.ResponseWriter, errorMsg string, statusCode int) {
	writeJSON(rw, statusCode, map[string]string{"message": errorMsg})
}

func intParam(value string, def int) (int, error) {
	if value == "" {
		return def, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, errors.Mark(errors.Newf("invalid parameter value %q: expected a non-negative integer", value), errBadParameter)
	}
	return n, nil
}

// paginate applies offset then limit; a negative limit means no limit.
func paginate(concepts []skos.Concept, limit, offset int) []skos.Concept {
	if offset >= len(concepts) {
		return nil
	}
	concepts = concepts[offset:]
	if limit >= 0 && limit < len(concepts) {
		concepts = concepts[:limit]
	}
	return concepts
}
