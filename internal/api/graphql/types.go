package graphql

import (
	"time"

	"github.com/graphql-go/graphql"

	"github.com/filevault/filevault-server/internal/model"
)

const (
	// FileMetadataType is the graphql type name for file metadata.
	FileMetadataType = "FileMetadata"
	// UserType is the graphql type name for users.
	UserType = "User"
	// LoginResponseType is the graphql type name for login results.
	LoginResponseType = "LoginResponse"
	// UploadScalar is the graphql scalar name for file uploads.
	UploadScalar = "Upload"

	// FieldID is a field name for id.
	FieldID = "id"
	// FieldFilename is a field name for the original filename.
	FieldFilename = "filename"
	// FieldMimetype is a field name for the declared content type.
	FieldMimetype = "mimetype"
	// FieldSize is a field name for the derived byte size.
	FieldSize = "size"
	// FieldURL is a field name for the retrieval URL.
	FieldURL = "url"
	// FieldUploadedAt is a field name for the creation timestamp.
	FieldUploadedAt = "uploadedAt"
	// FieldEmail is a field name for email.
	FieldEmail = "email"
	// FieldName is a field name for the user's display name.
	FieldName = "name"
	// FieldToken is a field name for the session token.
	FieldToken = "token"
	// FieldUser is a field name for the user object and for the nested
	// upload argument shape.
	FieldUser = "user"
	// FieldFile is the argument name for uploads.
	FieldFile = "file"
	// FieldPassword is a field name for password.
	FieldPassword = "password"
)

// TypeCreator builds and holds the graphql object types of the schema.
type TypeCreator struct {
	fileMetadata  *graphql.Object
	user          *graphql.Object
	loginResponse *graphql.Object
	upload        *graphql.Scalar
}

// Create builds all object types. It must be called before RootQuery or
// RootMutation.
func (c *TypeCreator) Create() error {
	c.upload = graphql.NewScalar(graphql.ScalarConfig{
		Name:        UploadScalar,
		Description: "An inbound file upload injected by the multipart request handler.",
		// The upload value is produced server-side from the multipart
		// body; it passes through the scalar unchanged.
		Serialize:  func(value interface{}) interface{} { return value },
		ParseValue: func(value interface{}) interface{} { return value },
	})

	c.fileMetadata = graphql.NewObject(graphql.ObjectConfig{
		Name: FileMetadataType,
		Fields: graphql.Fields{
			FieldID: &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(model.File).ID.String(), nil
				},
			},
			FieldFilename: &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(model.File).Filename, nil
				},
			},
			FieldURL: &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(model.File).URL, nil
				},
			},
			FieldMimetype: &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(model.File).Mimetype, nil
				},
			},
			FieldSize: &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(p.Source.(model.File).Size), nil
				},
			},
			FieldUploadedAt: &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					uploadedAt := p.Source.(model.File).UploadedAt
					if uploadedAt.IsZero() {
						return nil, nil
					}
					return uploadedAt.UTC().Format(time.RFC3339), nil
				},
			},
		},
	})

	// The stored password hash is deliberately not part of this type.
	c.user = graphql.NewObject(graphql.ObjectConfig{
		Name: UserType,
		Fields: graphql.Fields{
			FieldID: &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(model.User).ID.String(), nil
				},
			},
			FieldEmail: &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(model.User).Email, nil
				},
			},
			FieldName: &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(model.User).Name, nil
				},
			},
		},
	})

	c.loginResponse = graphql.NewObject(graphql.ObjectConfig{
		Name: LoginResponseType,
		Fields: graphql.Fields{
			FieldToken: &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(model.Session).Token, nil
				},
			},
			FieldUser: &graphql.Field{
				Type: graphql.NewNonNull(c.user),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(model.Session).User, nil
				},
			},
		},
	})

	return nil
}

// FileMetadata returns the file metadata type.
func (c *TypeCreator) FileMetadata() *graphql.Object {
	return c.fileMetadata
}

// User returns the user type.
func (c *TypeCreator) User() *graphql.Object {
	return c.user
}

// LoginResponse returns the login response type.
func (c *TypeCreator) LoginResponse() *graphql.Object {
	return c.loginResponse
}

// Upload returns the upload scalar.
func (c *TypeCreator) Upload() *graphql.Scalar {
	return c.upload
}

// uploadFromArg collapses the accepted upload argument shapes into the
// canonical model.Upload. The value may be the upload itself or nested one
// level deep under "file"; the top-level value wins when both are present.
func uploadFromArg(arg interface{}) (model.Upload, bool) {
	switch v := arg.(type) {
	case model.Upload:
		return v, true
	case *model.Upload:
		if v == nil {
			return model.Upload{}, false
		}
		return *v, true
	case map[string]interface{}:
		nested, ok := v[FieldFile]
		if !ok {
			return model.Upload{}, false
		}
		return uploadFromArg(nested)
	default:
		return model.Upload{}, false
	}
}
