// Package docs is generated by swag init -g cmd/api/main.go. Regenerate after changing handler annotations.
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
        "/teams/{team}/roster": {
            "get": {"tags": ["Roster"], "summary": "Get a team roster", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Roster not found"}}},
            "put": {"tags": ["Roster"], "summary": "Replace a team roster", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid roster"}, "409": {"description": "Roster frozen"}}}
        },
        "/teams/{team}/standup": {
            "get": {"tags": ["Standup"], "summary": "Current standup state", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "No standup for team"}}}
        },
        "/teams/{team}/standup/start": {
            "post": {"tags": ["Standup"], "summary": "Start a standup", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "Empty roster"}, "409": {"description": "Standup already running"}}}
        },
        "/teams/{team}/standup/done": {
            "post": {"tags": ["Standup"], "summary": "Finalize the current answer", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "409": {"description": "Not listening"}}}
        },
        "/teams/{team}/standup/end": {
            "post": {"tags": ["Standup"], "summary": "End the standup early", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/teams/{team}/standup/fragments": {
            "post": {"tags": ["Standup"], "summary": "Push recognized speech", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}], "responses": {"202": {"description": "Accepted"}}}
        },
        "/teams/{team}/standup/speech-ack": {
            "post": {"tags": ["Standup"], "summary": "Confirm prompt playback", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/teams/{team}/standup/audio": {
            "post": {"tags": ["Standup"], "summary": "Upload a recorded answer", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "502": {"description": "Transcription failed"}}}
        },
        "/teams/{team}/standup/summary": {
            "get": {"tags": ["Standup"], "summary": "Summary of the latest session", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}, {"type": "string", "name": "format", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/teams/{team}/standup/notify": {
            "post": {"tags": ["Standup"], "summary": "Send the summary", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "502": {"description": "Delivery failed"}}}
        },
        "/teams/{team}/standup/livekit-token": {
            "post": {"tags": ["Rooms"], "summary": "Join the team's live room", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/teams/{team}/standups": {
            "get": {"tags": ["Archive"], "summary": "Archived standups of a team", "parameters": [{"type": "string", "name": "team", "in": "path", "required": true}, {"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/standups/{id}": {
            "get": {"tags": ["Archive"], "summary": "Archived standup", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Standup not found"}}}
        },
        "/webhooks/livekit": {
            "post": {"tags": ["Webhooks"], "summary": "LiveKit Webhook", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid signature"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Standup Assistant API",
	Description:      "Round-robin standup facilitator with live speech rooms, summaries and archive.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
