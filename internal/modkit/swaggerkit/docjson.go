package swaggerkit

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	perr "impactlog/internal/platform/errors"
	pnet "impactlog/internal/platform/net"
)

//go:embed openapi.json
var openapiDoc string

// docReader is a seam so tests can inject invalid JSON
var docReader = func() string { return openapiDoc }

type (
	object   = map[string]any
	document = object
)

// errorResponses are added to every operation that does not document them
// examples are real envelopes, rendered from the same errors the handlers return
var errorResponses = []struct {
	status string
	desc   string
	err    error
}{
	{"400", "malformed or invalid body", perr.WithField(perr.New(perr.ErrorCodeValidation, "bucket must be one of [day week daily weekly]"), "bucket")},
	{"500", "internal error", perr.PanicErrf("panic recovered")},
}

// serveDocJSON renders the document once and serves the bytes
func serveDocJSON(titleSuffix string) http.HandlerFunc {
	render := sync.OnceValues(func() ([]byte, error) {
		var doc document
		if err := json.Unmarshal([]byte(docReader()), &doc); err != nil {
			return nil, err
		}
		ensureServers(doc, "/api/v1")
		if info, ok := doc["info"].(object); ok && titleSuffix != "" {
			title, _ := info["title"].(string)
			info["title"] = strings.TrimSpace(title + " " + titleSuffix)
		}
		schemas := child(child(doc, "components"), "schemas")
		if _, ok := schemas["ErrorResponse"]; !ok {
			schemas["ErrorResponse"] = errorSchema()
		}
		for _, er := range errorResponses {
			_, env := pnet.Fail(er.err, "579f33bf50b1/abc-000001")
			addDefaultResponse(doc, er.status, er.desc, env)
		}
		var buf bytes.Buffer
		err := json.NewEncoder(&buf).Encode(doc)
		return buf.Bytes(), err
	})

	return func(w http.ResponseWriter, _ *http.Request) {
		body, err := render()
		if err != nil {
			http.Error(w, "openapi parse error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(body)
	}
}

// child returns m[key] as an object, creating it when missing
func child(m object, key string) object {
	c, ok := m[key].(object)
	if !ok {
		c = object{}
		m[key] = c
	}
	return c
}

// ensureServers pins the document to OAS 3.0.3 and sets servers
// the swagger ui build in use cannot render 3.1
func ensureServers(doc document, url string) {
	delete(doc, "swagger")
	if v, _ := doc["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		doc["openapi"] = "3.0.3"
	}
	if _, ok := doc["servers"]; !ok {
		doc["servers"] = []any{object{"url": url}}
	}
}

// errorSchema mirrors pnet.Wire
func errorSchema() object {
	prop := func(typ string) object { return object{"type": typ} }
	return object{
		"type":        "object",
		"description": "Error envelope",
		"properties": object{
			"status_code": prop("integer"),
			"status":      prop("string"),
			"code":        prop("integer"),
			"error":       prop("string"),
			"field":       prop("string"),
			"request_id":  prop("string"),
		},
		"required": []any{"status_code", "status", "code", "error"},
	}
}

func addDefaultResponse(doc document, status, desc string, example any) {
	paths, ok := doc["paths"].(object)
	if !ok {
		return
	}
	resp := object{
		"description": desc,
		"content": object{"application/json": object{
			"schema":  object{"$ref": "#/components/schemas/ErrorResponse"},
			"example": example,
		}},
	}
	for _, p := range paths {
		ops, _ := p.(object)
		for _, op := range ops {
			op, ok := op.(object)
			if !ok {
				continue
			}
			if _, exists := child(op, "responses")[status]; !exists {
				child(op, "responses")[status] = resp
			}
		}
	}
}
