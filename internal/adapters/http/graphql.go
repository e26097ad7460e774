package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the read-only GraphQL schema wired to our services.
// Fields resolve through their json tags.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	waypointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Waypoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	citationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Citation",
		Fields: graphql.Fields{
			"title": &graphql.Field{Type: graphql.String},
			"uri":   &graphql.Field{Type: graphql.String},
		},
	})

	maintenanceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MaintenanceRecord",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"bike_id":     &graphql.Field{Type: graphql.String},
			"date":        &graphql.Field{Type: graphql.String},
			"type":        &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"mileage":     &graphql.Field{Type: graphql.Int},
			"cost":        &graphql.Field{Type: graphql.Float},
		},
	})

	fuelType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FuelRecord",
		Fields: graphql.Fields{
			"id":      &graphql.Field{Type: graphql.String},
			"bike_id": &graphql.Field{Type: graphql.String},
			"date":    &graphql.Field{Type: graphql.String},
			"mileage": &graphql.Field{Type: graphql.Int},
			"liters":  &graphql.Field{Type: graphql.Float},
			"cost":    &graphql.Field{Type: graphql.Float},
		},
	})

	consumptionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Consumption",
		Fields: graphql.Fields{
			"available":        &graphql.Field{Type: graphql.Boolean},
			"liters_per_100km": &graphql.Field{Type: graphql.Float},
			"distance_km":      &graphql.Field{Type: graphql.Int},
		},
	})

	bikeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bike",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.String},
			"brand":      &graphql.Field{Type: graphql.String},
			"model":      &graphql.Field{Type: graphql.String},
			"year":       &graphql.Field{Type: graphql.Int},
			"vin":        &graphql.Field{Type: graphql.String},
			"mileage":    &graphql.Field{Type: graphql.Int},
			"created_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	routeSummaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteSummary",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"origin":      &graphql.Field{Type: graphql.String},
			"preferences": &graphql.Field{Type: graphql.String},
			"text":        &graphql.Field{Type: graphql.String},
			"citations":   &graphql.Field{Type: graphql.NewList(citationType)},
			"waypoints":   &graphql.Field{Type: graphql.NewList(waypointType)},
			"created_at":  &graphql.Field{Type: graphql.DateTime},
		},
	})

	profileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"name":         &graphql.Field{Type: graphql.String},
			"home_base":    &graphql.Field{Type: graphql.String},
			"riding_style": &graphql.Field{Type: graphql.String},
			"language":     &graphql.Field{Type: graphql.String},
		},
	})

	bikeIDArg := graphql.FieldConfigArgument{
		"bikeId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"bikes": &graphql.Field{
				Type:        graphql.NewList(bikeType),
				Description: "All bikes in the garage",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Garage.ListBikes(p.Context)
				},
			},
			"bike": &graphql.Field{
				Type:        bikeType,
				Description: "A bike by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Garage.GetBike(p.Context, p.Args["id"].(string))
				},
			},
			"maintenance": &graphql.Field{
				Type:        graphql.NewList(maintenanceType),
				Description: "Maintenance and expense records of a bike",
				Args:        bikeIDArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Garage.ListMaintenance(p.Context, p.Args["bikeId"].(string))
				},
			},
			"fuel": &graphql.Field{
				Type:        graphql.NewList(fuelType),
				Description: "Refuellings of a bike, highest mileage first",
				Args:        bikeIDArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Logbook.ListFuel(p.Context, p.Args["bikeId"].(string))
				},
			},
			"consumption": &graphql.Field{
				Type:        consumptionType,
				Description: "Average consumption between the last two refuellings",
				Args:        bikeIDArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Logbook.Consumption(p.Context, p.Args["bikeId"].(string))
				},
			},
			"history": &graphql.Field{
				Type:        graphql.NewList(routeSummaryType),
				Description: "Recently planned routes, newest first",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Trips.History(p.Context, p.Args["limit"].(int))
				},
			},
			"profile": &graphql.Field{
				Type:        profileType,
				Description: "The rider profile",
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return deps.Profiles.Get(p.Context)
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
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string         `json:"query"`
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
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

		c.Set(fiber.HeaderCacheControl, "private, max-age=0")
		return c.JSON(result)
	}
}
