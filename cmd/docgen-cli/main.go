package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-docgen/pkg/convert"
	"github.com/goliatone/go-docgen/pkg/convert/chromium"
	"github.com/goliatone/go-docgen/pkg/convert/wkhtml"
	"github.com/goliatone/go-docgen/pkg/docerr"
	"github.com/goliatone/go-docgen/pkg/orchestrator"
	"github.com/goliatone/go-docgen/pkg/payload"
)

func main() {
	template := flag.String("template", "", "template to generate from (interactive prompt if empty)")
	payloadPath := flag.String("payload", "", "payload JSON file (stdin if empty)")
	output := flag.String("output", "", "output PDF file (defaults to <template>.pdf)")
	engine := flag.String("engine", wkhtml.Name, "conversion engine: wkhtmltopdf or chromium")
	templates := flag.String("templates", "templates", "template root directory")
	describe := flag.Bool("describe", false, "print the template's required fields and example payload instead of generating")
	flag.Parse()

	ctx := context.Background()

	engines := convert.NewRegistry()
	engines.MustRegister(wkhtml.New())
	engines.MustRegister(chromium.New())

	gen := orchestrator.New(
		orchestrator.WithTemplateRoot(*templates),
		orchestrator.WithConverters(engines),
		orchestrator.WithDefaultEngine(*engine),
	)

	name := *template
	if name == "" {
		picked, err := pickTemplate(ctx, gen)
		if err != nil {
			log.Fatalf("Failed to pick template: %v", err)
		}
		name = picked
	}

	if *describe {
		info, err := gen.Schema(ctx, name)
		if err != nil {
			log.Fatalf("Failed to describe template: %v", err)
		}
		encoded, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode description: %v", err)
		}
		fmt.Println(string(encoded))
		return
	}

	data, err := readPayload(*payloadPath)
	if err != nil {
		log.Fatalf("Failed to read payload: %v", err)
	}

	result, err := gen.Generate(ctx, orchestrator.Request{
		Template: name,
		Payload:  data,
	})
	if err != nil {
		if verr, ok := docerr.IsValidation(err); ok {
			fmt.Fprintf(os.Stderr, "Payload rejected for template %q:\n", name)
			for _, msg := range verr.Messages() {
				fmt.Fprintf(os.Stderr, "  - %s\n", msg)
			}
			os.Exit(1)
		}
		log.Fatalf("Failed to generate document: %v", err)
	}

	target := *output
	if target == "" {
		target = result.Filename
	}
	if err := os.WriteFile(target, result.PDF, 0o644); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Printf("Document written to %s\n", target)
}

func pickTemplate(ctx context.Context, gen *orchestrator.Orchestrator) (string, error) {
	names, err := gen.ListTemplates(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no templates installed")
	}
	if len(names) == 1 {
		return names[0], nil
	}

	var picked string
	prompt := &survey.Select{
		Message: "Pick a template:",
		Options: names,
	}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return "", err
	}
	return picked, nil
}

func readPayload(path string) (payload.Map, error) {
	var raw []byte
	var err error
	if path == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return payload.Decode(raw)
}
