package graphql

import (
	"errors"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"github.com/filevault/filevault-server/internal/model"
	"github.com/filevault/filevault-server/internal/service"
)

const (
	// Query is immutable graphql request.
	Query = "query"
	// HelloQuery is the greeting query name.
	HelloQuery = "hello"
	// GetFilesQuery is the query name for listing all files.
	GetFilesQuery = "getFiles"
	// GetFileQuery is the query name for fetching a single file.
	GetFileQuery = "getFile"
)

// rootQuery creates the root query object. All queries are available to
// anonymous contexts.
func rootQuery(fileService *service.File, types *TypeCreator) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: Query,
		Fields: graphql.Fields{
			HelloQuery: &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "Hello from server!", nil
				},
			},
			GetFilesQuery: &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(types.FileMetadata()))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					files, err := fileService.List(p.Context)
					if err != nil {
						return nil, err
					}
					if files == nil {
						files = []model.File{}
					}
					return files, nil
				},
			},
			GetFileQuery: &graphql.Field{
				Type: types.FileMetadata(),
				Args: graphql.FieldConfigArgument{
					FieldID: &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.ID),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					inputID, _ := p.Args[FieldID].(string)

					id, err := uuid.Parse(inputID)
					if err != nil {
						// Indistinguishable from an unknown id.
						return nil, nil
					}

					file, err := fileService.Get(p.Context, id)
					if errors.Is(err, model.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return file, nil
				},
			},
		},
	})
}
