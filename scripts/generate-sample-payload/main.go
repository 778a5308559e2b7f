// generate-sample-payload writes a template's synthesized example payload to
// a JSON file, giving template authors a starting point for test data.
//
//	go run ./scripts/generate-sample-payload -template example_template
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	docgen "github.com/goliatone/go-docgen"
)

func main() {
	template := flag.String("template", "example_template", "template to sample")
	templates := flag.String("templates", "templates", "template root directory")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	gen := docgen.New(docgen.WithTemplateRoot(*templates))

	info, err := gen.Schema(context.Background(), *template)
	if err != nil {
		log.Fatalf("describe template: %v", err)
	}

	encoded, err := json.MarshalIndent(info.Payload, "", "  ")
	if err != nil {
		log.Fatalf("encode payload: %v", err)
	}
	encoded = append(encoded, '\n')

	if *output == "" {
		fmt.Print(string(encoded))
		return
	}
	if err := os.WriteFile(*output, encoded, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	fmt.Printf("wrote %s\n", *output)
}
