package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Financial-Times/go-logger/v2"
	"github.com/cockroachdb/errors"
	cli "github.com/jawher/mow.cli"

	"github.com/montessori-glossary/vocabulary-service/skos"
	"github.com/montessori-glossary/vocabulary-service/vocabulary"
)

const appDescription = "Service which serves the Montessori glossary as a SKOS vocabulary: browse, search and download in Turtle, JSON-LD and RDF/XML"

func main() {
	app := cli.App("montessori-vocabulary", appDescription)

	appSystemCode := app.String(cli.StringOpt{
		Name:   "app-system-code",
		Value:  "montessori-vocabulary",
		Desc:   "System Code of the application",
		EnvVar: "APP_SYSTEM_CODE",
	})
	appName := app.String(cli.StringOpt{
		Name:   "app-name",
		Value:  "Montessori Vocabulary",
		Desc:   "Application name",
		EnvVar: "APP_NAME",
	})
	port := app.String(cli.StringOpt{
		Name:   "port",
		Value:  "8080",
		Desc:   "Port to listen on",
		EnvVar: "APP_PORT",
	})
	logLevel := app.String(cli.StringOpt{
		Name:   "logLevel",
		Value:  "INFO",
		Desc:   "Log level",
		EnvVar: "LOG_LEVEL",
	})
	baseIRI := app.String(cli.StringOpt{
		Name:   "base-iri",
		Value:  "https://vocabulary.montessoriglossary.org/",
		Desc:   "Base IRI concept identifiers are minted under",
		EnvVar: "BASE_IRI",
	})
	dataPath := app.String(cli.StringOpt{
		Name:   "data-ttl-path",
		Value:  "./data/vocabulary.ttl",
		Desc:   "Turtle file written by import-csv",
		EnvVar: "DATA_TTL_PATH",
	})
	defaultLanguage := app.String(cli.StringOpt{
		Name:   "default-language",
		Value:  "en",
		Desc:   "Language used for labels when the request does not ask for one",
		EnvVar: "DEFAULT_LANGUAGE",
	})

	log := logger.NewUPPLogger(*appName, *logLevel)

	app.Action = func() {
		log.WithFields(map[string]interface{}{
			"DATA_TTL_PATH":    *dataPath,
			"BASE_IRI":         *baseIRI,
			"DEFAULT_LANGUAGE": *defaultLanguage,
		}).Infof("[Startup] %s is starting", *appName)

		log.Infof("System code: %s, App Name: %s, Port: %s", *appSystemCode, *appName, *port)

		graph, err := skos.LoadFile(*dataPath)
		if err != nil {
			log.WithError(err).Error("Could not load vocabulary")
			cli.Exit(1)
		}
		log.WithFields(map[string]interface{}{
			"concepts": graph.ConceptCount(),
			"triples":  graph.Len(),
		}).Info("Loaded vocabulary")

		service := vocabulary.NewService(graph, *baseIRI, *defaultLanguage, log)
		handler := vocabulary.NewHandler(service, *dataPath, log)

		serveMux := http.NewServeMux()
		router := vocabulary.NewRouter()
		handler.RegisterHandlers(router)
		handler.RegisterAdminHandlers(serveMux, router, *appSystemCode, *appName, appDescription)

		server := &http.Server{
			Addr:              ":" + *port,
			Handler:           serveMux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Fatal("Unable to start server")
			}
		}()

		waitForSignal()
		log.Info("Stopping application")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Could not shut down server cleanly")
		}
	}

	if runErr := app.Run(os.Args); runErr != nil {
		log.Errorf("App could not start, error=[%s]\n", runErr)
		return
	}
}

func waitForSignal() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
}
