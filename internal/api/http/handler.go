package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
)

// GraphQLHandler serves the /graphql endpoint. It accepts plain JSON
// requests and, for uploads, the GraphQL multipart request protocol
// (operations + map + file parts) that graphql-upload clients speak.
type GraphQLHandler struct {
	schema        graphql.Schema
	maxUploadSize int64
	logger        *logger.Logger
}

// NewGraphQLHandler creates a GraphQLHandler over the executable schema.
// maxUploadSize bounds the multipart body; 0 disables the bound.
func NewGraphQLHandler(schema graphql.Schema, maxUploadSize int64, logger *logger.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		schema:        schema,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// request is the standard GraphQL-over-HTTP request body.
type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req request
	var err error

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		req, err = h.parseMultipart(w, r)
	} else {
		err = json.NewDecoder(r.Body).Decode(&req)
	}
	if err != nil {
		h.logger.Info("graphql request rejected", "error", err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("failed to encode graphql response", "error", err.Error())
	}
}

// parseMultipart decodes the GraphQL multipart request protocol: an
// "operations" field with the request body, a "map" field binding form
// parts to variable paths, and one form part per file. Each mapped file
// part becomes a model.Upload injected at its variable path.
func (h *GraphQLHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (request, error) {
	if h.maxUploadSize > 0 {
		// Leave room for the non-file fields.
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1<<20)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return request{}, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	var req request
	if err := json.Unmarshal([]byte(r.FormValue("operations")), &req); err != nil {
		return request{}, fmt.Errorf("failed to parse operations: %w", err)
	}

	var pathMap map[string][]string
	if err := json.Unmarshal([]byte(r.FormValue("map")), &pathMap); err != nil {
		return request{}, fmt.Errorf("failed to parse map: %w", err)
	}

	if req.Variables == nil {
		req.Variables = map[string]interface{}{}
	}

	for part, paths := range pathMap {
		file, header, err := r.FormFile(part)
		if err != nil {
			return request{}, fmt.Errorf("failed to read file part %q: %w", part, err)
		}

		upload := model.Upload{
			Filename: header.Filename,
			Mimetype: header.Header.Get("Content-Type"),
			Content:  file,
		}

		for _, path := range paths {
			if err := setVariable(req.Variables, path, upload); err != nil {
				return request{}, err
			}
		}
	}

	return req, nil
}

// setVariable places v at a dotted variables path like "variables.file"
// or "variables.input.file", creating intermediate maps as needed.
func setVariable(vars map[string]interface{}, path string, v interface{}) error {
	segments := strings.Split(path, ".")
	if len(segments) < 2 || segments[0] != "variables" {
		return fmt.Errorf("invalid variable path %q", path)
	}

	current := vars
	for _, segment := range segments[1 : len(segments)-1] {
		next, ok := current[segment].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = v

	return nil
}
