// Package docs holds the swagger description of the bracket API.
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
        "/tournaments/{tournamentID}/bracket": {
            "get": {
                "description": "Возвращает все стадии сетки либо одну стадию при указании параметра stage.",
                "produces": ["application/json"],
                "tags": ["brackets"],
                "summary": "Сетка турнира",
                "parameters": [
                    {"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "string", "description": "winners, branch_a, branch_b, semifinal или final", "name": "stage", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Неверный ID или стадия", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "Турнир не найден", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Создаёт все матчи сетки для 16 подтверждённых участников и переводит турнир в статус ongoing.",
                "produces": ["application/json"],
                "tags": ["brackets"],
                "summary": "Сгенерировать сетку double elimination",
                "parameters": [
                    {"type": "string", "description": "Tournament ID", "name": "tournamentID", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": true}},
                    "403": {"description": "Нет прав", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Сетка уже создана или турнир уже идёт", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Неверное число участников", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/matches/{matchID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Матч с признаком готовности к вводу счёта",
                "parameters": [
                    {"type": "string", "description": "Match ID", "name": "matchID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Матч не найден", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/matches/{matchID}/score": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Счёт проверяется (без отрицательных значений, 0:0 и ничьих) и передаётся процедуре продвижения.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Отправить счёт матча",
                "parameters": [
                    {"type": "string", "description": "Match ID", "name": "matchID", "in": "path", "required": true},
                    {"description": "Счёт", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/scoreInput"}}
                ],
                "responses": {
                    "200": {"description": "Победитель продвинут или турнир завершён", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Матч не готов или счёт уже отправляется", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Недопустимый счёт или отказ бэкенда", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "502": {"description": "Бэкенд недоступен", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Победитель при исправлении измениться не может.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Исправить счёт завершённого матча",
                "parameters": [
                    {"type": "string", "description": "Match ID", "name": "matchID", "in": "path", "required": true},
                    {"description": "Счёт", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/scoreInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Матч не завершён или меняется победитель", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "422": {"description": "Недопустимый счёт", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "scoreInput": {
            "type": "object",
            "properties": {
                "player1_score": {"type": "integer"},
                "player2_score": {"type": "integer"}
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Billiards Bracket API",
	Description:      "Double elimination brackets and score submission for billiards club tournaments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
