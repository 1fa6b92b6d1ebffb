package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filevault/filevault-server/internal/model"
	"github.com/filevault/filevault-server/internal/testutil"
)

// echoSchema exposes one query returning a constant and one mutation
// echoing the injected upload's metadata, enough to exercise the
// transport without real services.
func echoSchema(t *testing.T) graphql.Schema {
	t.Helper()

	upload := graphql.NewScalar(graphql.ScalarConfig{
		Name:       "Upload",
		Serialize:  func(value interface{}) interface{} { return value },
		ParseValue: func(value interface{}) interface{} { return value },
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "Hello from server!", nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "mutation",
		Fields: graphql.Fields{
			"describeUpload": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"file": &graphql.ArgumentConfig{Type: graphql.NewNonNull(upload)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u, ok := p.Args["file"].(model.Upload)
					if !ok {
						return "no upload", nil
					}
					content, err := io.ReadAll(u.Content)
					if err != nil {
						return nil, err
					}
					return u.Filename + "|" + u.Mimetype + "|" + string(content), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
	require.NoError(t, err)
	return schema
}

func newHandler(t *testing.T, maxUploadSize int64) *GraphQLHandler {
	t.Helper()
	return NewGraphQLHandler(echoSchema(t), maxUploadSize, testutil.MakeNoopLogger())
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGraphQLHandler_JSONRequest(t *testing.T) {
	h := newHandler(t, 0)

	body, err := json.Marshal(map[string]interface{}{"query": `{ hello }`})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Hello from server!", data["hello"])
}

func TestGraphQLHandler_MethodNotAllowed(t *testing.T) {
	h := newHandler(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGraphQLHandler_MalformedJSON(t *testing.T) {
	h := newHandler(t, 0)

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// buildMultipart assembles a GraphQL multipart request: operations, map,
// and one file part named "0".
func buildMultipart(t *testing.T, operations, pathMap string, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("operations", operations))
	require.NoError(t, w.WriteField("map", pathMap))

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="0"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestGraphQLHandler_MultipartUpload(t *testing.T) {
	h := newHandler(t, 0)

	operations := `{"query":"mutation ($file: Upload!) { describeUpload(file: $file) }","variables":{"file":null}}`
	body, contentType := buildMultipart(t, operations, `{"0":["variables.file"]}`, "testfile.jpg", "image/jpeg", "hello, world!")

	req := httptest.NewRequest(http.MethodPost, "/graphql", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	require.Nil(t, result["errors"])
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "testfile.jpg|image/jpeg|hello, world!", data["describeUpload"])
}

func TestGraphQLHandler_MultipartMissingFilePart(t *testing.T) {
	h := newHandler(t, 0)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("operations", `{"query":"mutation ($file: Upload!) { describeUpload(file: $file) }","variables":{"file":null}}`))
	require.NoError(t, w.WriteField("map", `{"0":["variables.file"]}`))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/graphql", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphQLHandler_MultipartBadMap(t *testing.T) {
	h := newHandler(t, 0)

	body, contentType := buildMultipart(t,
		`{"query":"mutation ($file: Upload!) { describeUpload(file: $file) }"}`,
		`not json`, "testfile.jpg", "image/jpeg", "x")

	req := httptest.NewRequest(http.MethodPost, "/graphql", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphQLHandler_BodyCap(t *testing.T) {
	h := newHandler(t, 1) // effectively caps the body just above 1 MiB

	operations := `{"query":"mutation ($file: Upload!) { describeUpload(file: $file) }","variables":{"file":null}}`
	oversized := strings.Repeat("a", 2<<20)
	body, contentType := buildMultipart(t, operations, `{"0":["variables.file"]}`, "big.bin", "application/octet-stream", oversized)

	req := httptest.NewRequest(http.MethodPost, "/graphql", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetVariable(t *testing.T) {
	vars := map[string]interface{}{"input": map[string]interface{}{"name": "x"}}

	require.NoError(t, setVariable(vars, "variables.file", "top"))
	assert.Equal(t, "top", vars["file"])

	require.NoError(t, setVariable(vars, "variables.input.file", "nested"))
	input := vars["input"].(map[string]interface{})
	assert.Equal(t, "nested", input["file"])
	assert.Equal(t, "x", input["name"])

	// Intermediate maps are created on demand.
	require.NoError(t, setVariable(vars, "variables.a.b.c", 1))
	a := vars["a"].(map[string]interface{})
	b := a["b"].(map[string]interface{})
	assert.Equal(t, 1, b["c"])

	require.Error(t, setVariable(vars, "file", "v"))
	require.Error(t, setVariable(vars, "other.file", "v"))
}
