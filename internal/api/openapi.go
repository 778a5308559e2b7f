package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// handleOpenAPI serves the machine-readable API description. The document is
// assembled once and reused; it describes the transport surface only, not
// per-template payload schemas, which stay behind GET /generate/{name}/.
func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	doc, err := specJSON()
	if err != nil {
		s.writeDetail(w, http.StatusInternalServerError, "openapi document unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

var specOnce = sync.OnceValues(func() ([]byte, error) {
	return json.Marshal(buildSpec())
})

func specJSON() ([]byte, error) {
	return specOnce()
}

func buildSpec() *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "docgen",
			Description: "API to generate PDF documents with customizable templates",
			Version:     "1.0.0",
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/health", &openapi3.PathItem{
				Get: &openapi3.Operation{
					OperationID: "healthCheck",
					Summary:     "Health check",
					Responses:   responses(map[int]string{http.StatusOK: "Service is healthy"}),
				},
			}),
			openapi3.WithPath("/templates", &openapi3.PathItem{
				Get: &openapi3.Operation{
					OperationID: "listTemplates",
					Summary:     "List available templates",
					Description: "Returns every installed template with both a markup unit and a validation unit, in lexicographic order.",
					Responses:   responses(map[int]string{http.StatusOK: "Template names and count"}),
				},
			}),
			openapi3.WithPath("/generate/{name}/", &openapi3.PathItem{
				Get: &openapi3.Operation{
					OperationID: "getTemplateSchema",
					Summary:     "Describe a template's payload",
					Description: "Returns the template's required fields and a synthesized example payload.",
					Parameters:  openapi3.Parameters{templateNameParam()},
					Responses: responses(map[int]string{
						http.StatusOK:       "Required fields and example payload",
						http.StatusNotFound: "Template or validation unit not found",
					}),
				},
			}),
			openapi3.WithPath("/generate", &openapi3.PathItem{
				Post: &openapi3.Operation{
					OperationID: "generateDocument",
					Summary:     "Generate a PDF document",
					Description: "Validates the payload against the template's schema, renders the markup, and returns the converted PDF.",
					RequestBody: &openapi3.RequestBodyRef{
						Value: openapi3.NewRequestBody().
							WithRequired(true).
							WithJSONSchema(generateRequestSchema()),
					},
					Responses: responses(map[int]string{
						http.StatusOK:                  "PDF document",
						http.StatusBadRequest:          "Payload violates the template schema; every violation is listed",
						http.StatusNotFound:            "Template not found",
						http.StatusInternalServerError: "Rendering or conversion failed",
					}),
				},
			}),
		),
	}
}

func templateNameParam() *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: openapi3.NewPathParameter("name").
			WithSchema(openapi3.NewStringSchema()),
	}
}

func generateRequestSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("template", openapi3.NewStringSchema()).
		WithProperty("payload", openapi3.NewObjectSchema()).
		WithRequired([]string{"template", "payload"})
}

func responses(byStatus map[int]string) *openapi3.Responses {
	opts := make([]openapi3.NewResponsesOption, 0, len(byStatus))
	for status, description := range byStatus {
		desc := description
		opts = append(opts, openapi3.WithStatus(status, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(desc),
		}))
	}
	return openapi3.NewResponses(opts...)
}
