package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/geotz/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	// IDs exceed GraphQL's 32-bit Int, so they are exposed as strings.
	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"place_id":     &graphql.Field{Type: graphql.String},
			"osm_type":     &graphql.Field{Type: graphql.String},
			"osm_id":       &graphql.Field{Type: graphql.String},
			"lat":          &graphql.Field{Type: graphql.String},
			"lon":          &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"display_name": &graphql.Field{Type: graphql.String},
			"category":     &graphql.Field{Type: graphql.String},
			"type":         &graphql.Field{Type: graphql.String},
			"addresstype":  &graphql.Field{Type: graphql.String},
			"importance":   &graphql.Field{Type: graphql.Float},
			"boundingbox":  &graphql.Field{Type: graphql.NewList(graphql.String)},
			"bounds":       &graphql.Field{Type: boundsType},
		},
	})

	placeAndTimeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PlaceAndTime",
		Fields: graphql.Fields{
			"place":     &graphql.Field{Type: placeType},
			"time_zone": &graphql.Field{Type: graphql.String},
			"time_now": &graphql.Field{
				Type:        graphql.String,
				Description: "Current local time at the place, RFC 3339 with offset",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if res, ok := p.Source.(*domain.PlaceAndTime); ok {
						return res.TimeNow.Format(time.RFC3339), nil
					}
					return nil, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"timezone": &graphql.Field{
				Type:        graphql.String,
				Description: "IANA timezone at a coordinate",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Timezones.Resolve(p.Args["lat"].(string), p.Args["lon"].(string))
				},
			},
			"search": &graphql.Field{
				Type:        placeAndTimeType,
				Description: "Geocode a place and return its current local time",
				Args: graphql.FieldConfigArgument{
					"place": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Places.ResolvePlace(p.Context, p.Args["place"].(string))
				},
			},
			"timezones": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "Zones the active index can report",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if deps.Index == nil {
						return nil, nil
					}
					return deps.Index.Zones(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// Programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
