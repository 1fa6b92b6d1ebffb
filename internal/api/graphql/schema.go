// Package graphql declares the inbound GraphQL schema: queries for
// listing and fetching files and mutations for login, upload and delete.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/service"
)

// CreateSchema builds the executable schema over the auth and file
// services.
func CreateSchema(log *logger.Logger, authService *service.Auth, fileService *service.File) (graphql.Schema, error) {
	creator := TypeCreator{}
	if err := creator.Create(); err != nil {
		return graphql.Schema{}, err
	}

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    rootQuery(fileService, &creator),
		Mutation: rootMutation(log, authService, fileService, &creator),
	})
}
