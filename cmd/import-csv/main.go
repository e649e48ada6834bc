package main

import (
	"fmt"
	"os"

	"github.com/Financial-Times/go-logger/v2"
	cli "github.com/jawher/mow.cli"

	"github.com/montessori-glossary/vocabulary-service/importer"
)

const appDescription = "Converts a glossary CSV into the SKOS Turtle file served by the vocabulary service"

func main() {
	app := cli.App("import-csv", appDescription)
	app.Spec = "[OPTIONS] CSV [TTL]"

	csvPath := app.String(cli.StringArg{
		Name: "CSV",
		Desc: "Glossary CSV with a prefLabel column and optional altLabel, definition and id columns",
	})
	ttlPath := app.String(cli.StringArg{
		Name:   "TTL",
		Value:  "./data/vocabulary.ttl",
		Desc:   "Turtle file to write",
		EnvVar: "DATA_TTL_PATH",
	})
	baseIRI := app.String(cli.StringOpt{
		Name:   "base-iri",
		Value:  importer.DefaultBaseIRI,
		Desc:   "Base IRI concept identifiers are minted under",
		EnvVar: "BASE_IRI",
	})
	lang := app.String(cli.StringOpt{
		Name:   "lang",
		Value:  "en",
		Desc:   "Language tag of the labels and definitions",
		EnvVar: "DEFAULT_LANGUAGE",
	})
	title := app.String(cli.StringOpt{
		Name:  "title",
		Value: importer.DefaultTitle,
		Desc:  "Title of the concept scheme",
	})
	logLevel := app.String(cli.StringOpt{
		Name:   "logLevel",
		Value:  "INFO",
		Desc:   "Log level",
		EnvVar: "LOG_LEVEL",
	})

	log := logger.NewUPPLogger("import-csv", *logLevel)

	app.Action = func() {
		im, err := importer.NewImporter(importer.Config{
			BaseIRI:  *baseIRI,
			Language: *lang,
			Title:    *title,
		}, log)
		if err != nil {
			log.WithError(err).Error("Invalid import configuration")
			cli.Exit(1)
		}

		summary, err := im.ImportFile(*csvPath, *ttlPath)
		if err != nil {
			log.WithError(err).WithField("csv", *csvPath).Error("Import failed")
			cli.Exit(1)
		}
		fmt.Printf("Wrote %d concepts (%d triples) to %s\n", summary.Concepts, summary.Triples, summary.Output)
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("Import could not start")
		os.Exit(1)
	}
}
