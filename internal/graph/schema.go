package graph

import (
	_ "embed"

	graphql "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

// SDL returns the schema definition.
func SDL() string { return schemaSDL }

// NewSchema parses the schema and binds it to the root resolver.
// It panics if resolvers and schema disagree.
func NewSchema() *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, &Resolver{},
		graphql.MaxDepth(8),
	)
}
