// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthcheck": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Service and database status",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/matches": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Schedule a match",
                "parameters": [{"description": "Fixture", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateMatchInput"}}],
                "responses": {
                    "201": {"description": "Match scheduled", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Malformed body or format mismatch", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Team or tournament not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Field validation failed", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/matches/{matchID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Match with teams and innings",
                "parameters": [{"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/matches/{matchID}/abandon": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Abandon the match",
                "parameters": [{"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Match already finished", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/matches/{matchID}/balls": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "The ball is queued behind earlier submissions for the same match.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Score one delivery",
                "parameters": [
                    {"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true},
                    {"description": "Delivery", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.BallEvent"}}
                ],
                "responses": {
                    "201": {"description": "Accepted ball, snapshot and commentary", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "State conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Rejected with a reason", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Ball could not be stored", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/matches/{matchID}/innings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Start the next innings",
                "parameters": [
                    {"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true},
                    {"description": "Batting side, openers and opening bowler", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.StartInningsInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid lineup", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Innings in progress or match finished", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/matches/{matchID}/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Current score of the match",
                "parameters": [{"type": "integer", "description": "Match ID", "name": "matchID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "No innings started", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/teams": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["teams"],
                "summary": "Create a team with its squad",
                "parameters": [{"description": "Team", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateTeamInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Name already taken", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/teams/{teamID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["teams"],
                "summary": "Team with its squad",
                "parameters": [{"type": "integer", "description": "Team ID", "name": "teamID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "List tournaments",
                "parameters": [
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Create a tournament",
                "parameters": [{"description": "Tournament", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateTournamentInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid date range", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Name already taken", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Tournament with its fixtures",
                "parameters": [{"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/fixtures": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Every listed team meets every other once per leg; all fixtures are stored or none.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Schedule a round robin league",
                "parameters": [
                    {"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true},
                    {"description": "Teams and schedule", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.GenerateFixturesInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Fixtures do not fit the tournament dates", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Tournament or team not found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/tournaments/{tournamentID}/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Live score of every match in progress",
                "parameters": [{"type": "integer", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "models.BallEvent": {
            "type": "object",
            "properties": {
                "over_number": {"type": "integer"},
                "runs": {"type": "integer"},
                "is_wicket": {"type": "boolean"},
                "wicket_type": {"type": "string", "enum": ["BOWLED", "CAUGHT", "LBW", "RUN_OUT", "STUMPED", "HIT_WICKET"]},
                "is_extra": {"type": "boolean"},
                "extra_type": {"type": "string", "enum": ["WIDE", "NO_BALL", "BYE", "LEG_BYE", "PENALTY"]},
                "extra_runs": {"type": "integer"},
                "striker_id": {"type": "integer"},
                "non_striker_id": {"type": "integer"},
                "bowler_id": {"type": "integer"},
                "dismissed_player_id": {"type": "integer"},
                "wicket_taker_id": {"type": "integer"},
                "location": {"type": "object", "additionalProperties": true}
            }
        },
        "services.CreateMatchInput": {
            "type": "object",
            "required": ["away_team_id", "home_team_id", "scheduled_at", "venue"],
            "properties": {
                "tournament_id": {"type": "integer"},
                "home_team_id": {"type": "integer"},
                "away_team_id": {"type": "integer"},
                "venue": {"type": "string", "maxLength": 150},
                "scheduled_at": {"type": "string", "format": "date-time"},
                "format": {"type": "string", "enum": ["T20", "ODI", "TEST"]},
                "overs_per_innings": {"type": "integer"},
                "players_per_side": {"type": "integer", "minimum": 2, "maximum": 11}
            }
        },
        "services.CreatePlayerInput": {
            "type": "object",
            "required": ["name", "role"],
            "properties": {
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["BATTER", "BOWLER", "ALL_ROUNDER", "WICKET_KEEPER"]}
            }
        },
        "services.CreateTeamInput": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "short_name": {"type": "string"},
                "players": {"type": "array", "items": {"$ref": "#/definitions/services.CreatePlayerInput"}}
            }
        },
        "services.CreateTournamentInput": {
            "type": "object",
            "required": ["end_date", "format", "name", "start_date"],
            "properties": {
                "name": {"type": "string"},
                "format": {"type": "string", "enum": ["T20", "ODI", "TEST"]},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"},
                "location": {"type": "string"}
            }
        },
        "services.GenerateFixturesInput": {
            "type": "object",
            "required": ["first_match_at", "team_ids", "venue"],
            "properties": {
                "team_ids": {"type": "array", "items": {"type": "integer"}, "minItems": 2, "maxItems": 32},
                "legs": {"type": "integer", "enum": [1, 2]},
                "venue": {"type": "string", "maxLength": 150},
                "first_match_at": {"type": "string", "format": "date-time"},
                "days_between_rounds": {"type": "integer", "minimum": 0, "maximum": 30},
                "overs_per_innings": {"type": "integer"}
            }
        },
        "services.StartInningsInput": {
            "type": "object",
            "required": ["batting_team_id", "bowler_id", "non_striker_id", "striker_id"],
            "properties": {
                "batting_team_id": {"type": "integer"},
                "striker_id": {"type": "integer"},
                "non_striker_id": {"type": "integer"},
                "bowler_id": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cricket Live API",
	Description:      "Ball-by-ball scoring with live websocket updates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
