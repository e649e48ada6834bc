package vocabulary

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	transactionidutils "github.com/Financial-Times/transactionid-utils-go"
	"github.com/cockroachdb/errors"
	"github.com/gorilla/mux"

	"github.com/montessori-glossary/vocabulary-service/skos"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("pages").ParseFS(templateFS, "templates/*.html"))

type indexPage struct {
	Scheme  skos.Scheme
	Query   string
	Results []ConceptDetail
	Total   int
}

type conceptPage struct {
	Scheme   skos.Scheme
	Concept  ConceptDetail
	Broader  []relatedLink
	Narrower []relatedLink
	Related  []relatedLink
}

type relatedLink struct {
	Label   string
	PageURL string
}

func (h *VocabularyHandler) IndexHandler(rw http.ResponseWriter, req *http.Request) {
	lang := h.requestLanguage(req)
	query := req.URL.Query().Get("q")

	concepts := h.service.List(query, lang)
	total := len(concepts)
	if query == "" {
		concepts = paginate(concepts, indexPageSize, 0)
	}

	results := make([]ConceptDetail, 0, len(concepts))
	for _, c := range concepts {
		results = append(results, toDetail(c))
	}
	h.render(rw, req, http.StatusOK, "index.html", indexPage{
		Scheme:  h.service.Scheme(lang),
		Query:   query,
		Results: results,
		Total:   total,
	})
}

func (h *VocabularyHandler) ConceptPageHandler(rw http.ResponseWriter, req *http.Request) {
	lang := h.requestLanguage(req)
	concept, err := h.service.Get(mux.Vars(req)["iri"], lang)
	if err != nil {
		if errors.Is(err, ErrConceptNotFound) {
			http.Error(rw, "Concept not found", http.StatusNotFound)
			return
		}
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}

	h.render(rw, req, http.StatusOK, "concept.html", conceptPage{
		Scheme:   h.service.Scheme(lang),
		Concept:  toDetail(concept),
		Broader:  h.relatedLinks(concept.Broader, lang),
		Narrower: h.relatedLinks(concept.Narrower, lang),
		Related:  h.relatedLinks(concept.Related, lang),
	})
}

// relatedLinks labels linked concepts, falling back to the IRI for concepts
// outside the vocabulary.
func (h *VocabularyHandler) relatedLinks(iris []string, lang string) []relatedLink {
	links := make([]relatedLink, 0, len(iris))
	for _, iri := range iris {
		label := iri
		if c, err := h.service.Get(url.PathEscape(iri), lang); err == nil {
			label = c.PrefLabel
		}
		links = append(links, relatedLink{Label: label, PageURL: "/c/" + url.PathEscape(iri)})
	}
	return links
}

func (h *VocabularyHandler) render(rw http.ResponseWriter, req *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.WithError(err).
			WithField("transaction_id", transactionidutils.GetTransactionIDFromRequest(req)).
			WithField("template", name).
			Error("Could not render page")
		http.Error(rw, "Could not render page", http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(status)
	_, _ = rw.Write(buf.Bytes())
}
