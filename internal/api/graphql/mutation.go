package graphql

import (
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"github.com/filevault/filevault-server/internal/apperrors"
	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/service"
)

const (
	// Mutation is graphql request that modifies data.
	Mutation = "mutation"
	// LoginMutation is the mutation name for credential login.
	LoginMutation = "login"
	// UploadFileMutation is the mutation name for file upload.
	UploadFileMutation = "uploadFile"
	// DeleteFileMutation is the mutation name for file deletion.
	DeleteFileMutation = "deleteFile"
)

// rootMutation creates the root mutation object. uploadFile and
// deleteFile require an authenticated context; the services enforce that.
func rootMutation(log *logger.Logger, authService *service.Auth, fileService *service.File, types *TypeCreator) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: Mutation,
		Fields: graphql.Fields{
			LoginMutation: &graphql.Field{
				Type: graphql.NewNonNull(types.LoginResponse()),
				Args: graphql.FieldConfigArgument{
					FieldEmail: &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
					FieldPassword: &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					email, _ := p.Args[FieldEmail].(string)
					password, _ := p.Args[FieldPassword].(string)

					session, err := authService.Login(p.Context, email, password)
					if err != nil {
						return nil, err
					}

					return session, nil
				},
			},
			UploadFileMutation: &graphql.Field{
				Type: graphql.NewNonNull(types.FileMetadata()),
				Args: graphql.FieldConfigArgument{
					FieldFile: &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(types.Upload()),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					upload, ok := uploadFromArg(p.Args[FieldFile])
					if !ok {
						return nil, apperrors.ErrMissingMetadata.New("no file attached to the upload request")
					}

					file, err := fileService.Upload(p.Context, upload)
					if err != nil {
						log.Error("uploadFile mutation failed",
							"filename", upload.Filename,
							"error", err.Error())
						return nil, err
					}

					return file, nil
				},
			},
			DeleteFileMutation: &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					FieldID: &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.ID),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					inputID, _ := p.Args[FieldID].(string)

					id, err := uuid.Parse(inputID)
					if err != nil {
						// A malformed id is indistinguishable from an
						// unknown one.
						return nil, apperrors.ErrFileNotFound.New("no file with id %s", inputID)
					}

					if err := fileService.Delete(p.Context, id); err != nil {
						return nil, err
					}

					return true, nil
				},
			},
		},
	})
}
