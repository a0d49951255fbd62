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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/healthz": {
            "get": {"tags": ["system"], "summary": "Проверка сервиса и хранилища", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/auth/register": {
            "post": {"tags": ["auth"], "summary": "Регистрация нового пользователя", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/api/auth/login": {
            "post": {"tags": ["auth"], "summary": "Вход по имени пользователя или email", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/games": {
            "get": {"tags": ["games"], "summary": "Список игр", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["games"], "summary": "Создать игру (админ)", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/tournaments": {
            "get": {"tags": ["tournaments"], "summary": "Список турниров", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["tournaments"], "summary": "Создать турнир (админ)", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/tournaments/{tournamentID}/join": {
            "post": {
                "tags": ["tournaments"],
                "summary": "Вступить в турнир и оплатить взнос",
                "description": "Повторный запрос с тем же Idempotency-Key возвращает первый результат.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "integer", "name": "tournamentID", "in": "path", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {"200": {"description": "Replayed"}, "201": {"description": "Joined"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/tournaments/{tournamentID}/results": {
            "get": {"tags": ["tournaments"], "summary": "Результаты турнира", "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["tournaments"], "summary": "Внести результаты и выплатить призы (админ)", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "tournamentID", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/teams/join-by-code": {
            "post": {"tags": ["teams"], "summary": "Вступить в команду по коду приглашения", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/leaderboard": {
            "get": {"tags": ["leaderboard"], "summary": "Рейтинг пользователей по балансу и бонусным монетам", "parameters": [{"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/wallet/add-money": {
            "post": {"tags": ["wallet"], "summary": "Пополнить кошелек", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "Idempotency-Key", "in": "header"}], "responses": {"200": {"description": "Replayed"}, "201": {"description": "Created"}}}
        },
        "/api/wallet/withdraw": {
            "post": {"tags": ["wallet"], "summary": "Вывести деньги из кошелька", "security": [{"BearerAuth": []}], "parameters": [{"type": "string", "name": "Idempotency-Key", "in": "header"}], "responses": {"200": {"description": "Replayed"}, "201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/admin/stats": {
            "get": {"tags": ["admin"], "summary": "Статистика платформы (админ)", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Arena API",
	Description:      "Gaming tournament platform: tournaments, teams, wallet, leaderboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
