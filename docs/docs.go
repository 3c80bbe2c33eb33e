// Package docs holds the OpenAPI description served by Swagger UI.
package docs

import "github.com/swaggo/swag/v2"

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
        "/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List products",
                "operationId": "listProducts",
                "parameters": [
                    {"type": "string", "description": "Name search", "name": "search", "in": "query"},
                    {"type": "string", "description": "Category filter", "name": "category", "in": "query"},
                    {"type": "string", "description": "Brand filter", "name": "brand", "in": "query"},
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size", "name": "page_size", "in": "query"},
                    {"enum": ["name", "price", "rating", "count_in_stock", "created_at", "updated_at"], "type": "string", "name": "order_by", "in": "query"},
                    {"enum": ["asc", "desc"], "type": "string", "name": "order_dir", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/products/slug/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Get a product by slug",
                "operationId": "getProductBySlug",
                "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Get a product",
                "operationId": "getProduct",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/session": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Get the current session",
                "operationId": "getSession",
                "parameters": [{"$ref": "#/parameters/sessionHeader"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}}}
            }
        },
        "/session/cart": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Empty the cart",
                "operationId": "clearCart",
                "parameters": [{"$ref": "#/parameters/sessionHeader"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}}}
            }
        },
        "/session/cart/items": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Add a product to the cart",
                "operationId": "addCartItem",
                "parameters": [
                    {"$ref": "#/parameters/sessionHeader"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.AddCartItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/session/cart/items/{productId}": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Change a cart line quantity",
                "operationId": "updateCartItem",
                "parameters": [
                    {"$ref": "#/parameters/sessionHeader"},
                    {"type": "string", "name": "productId", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateCartItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Remove a product from the cart",
                "operationId": "removeCartItem",
                "parameters": [
                    {"$ref": "#/parameters/sessionHeader"},
                    {"type": "string", "name": "productId", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}}}
            }
        },
        "/session/shipping-address": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Save the shipping address",
                "operationId": "saveShippingAddress",
                "parameters": [
                    {"$ref": "#/parameters/sessionHeader"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ShippingAddressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/session/payment-method": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Save the payment method",
                "operationId": "savePaymentMethod",
                "parameters": [
                    {"$ref": "#/parameters/sessionHeader"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.PaymentMethodRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/session/signin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Sign in",
                "operationId": "signIn",
                "parameters": [
                    {"$ref": "#/parameters/sessionHeader"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identity.SignInInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/session/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Register and sign in",
                "operationId": "signUp",
                "parameters": [
                    {"$ref": "#/parameters/sessionHeader"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identity.SignUpInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/session/signout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Sign out",
                "operationId": "signOut",
                "parameters": [{"$ref": "#/parameters/sessionHeader"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}}}
            }
        },
        "/session/profile": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Update the signed-in user's profile",
                "operationId": "updateProfile",
                "parameters": [
                    {"$ref": "#/parameters/sessionHeader"},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identity.UpdateProfileInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/session/checkout/preview": {
            "get": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Preview order totals",
                "operationId": "previewCheckout",
                "parameters": [{"$ref": "#/parameters/sessionHeader"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}}}
            }
        },
        "/session/checkout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Place the order",
                "operationId": "checkout",
                "parameters": [{"$ref": "#/parameters/sessionHeader"}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/orders": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Create an order",
                "operationId": "createOrder",
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/orders/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "List the caller's orders",
                "operationId": "listMyOrders",
                "parameters": [
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}}}
            }
        },
        "/orders/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order",
                "operationId": "getOrder",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/orders/{id}/pay": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Mark an order as paid",
                "operationId": "payOrder",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        },
        "/orders/{id}/deliver": {
            "put": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Mark an order as delivered",
                "operationId": "deliverOrder",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.Response"}}
                }
            }
        }
    },
    "parameters": {
        "sessionHeader": {"type": "string", "description": "Session ID", "name": "X-Session-ID", "in": "header"}
    },
    "definitions": {
        "dto.ErrorInfo": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "ERR_NOT_FOUND"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/dto.ValidationDetail"}}
            }
        },
        "dto.Meta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "dto.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/dto.ErrorInfo"},
                "meta": {"$ref": "#/definitions/dto.Meta"}
            }
        },
        "dto.ValidationDetail": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.AddCartItemRequest": {
            "type": "object",
            "required": ["productId"],
            "properties": {
                "productId": {"type": "string"},
                "quantity": {"type": "integer", "minimum": 1}
            }
        },
        "handler.UpdateCartItemRequest": {
            "type": "object",
            "required": ["quantity"],
            "properties": {"quantity": {"type": "integer", "minimum": 1}}
        },
        "handler.ShippingAddressRequest": {
            "type": "object",
            "required": ["address", "city", "country", "fullName", "postalCode"],
            "properties": {
                "fullName": {"type": "string"},
                "address": {"type": "string"},
                "city": {"type": "string"},
                "postalCode": {"type": "string"},
                "country": {"type": "string"}
            }
        },
        "handler.PaymentMethodRequest": {
            "type": "object",
            "required": ["paymentMethod"],
            "properties": {"paymentMethod": {"type": "string", "example": "PayPal"}}
        },
        "identity.SignInInput": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "identity.SignUpInput": {
            "type": "object",
            "required": ["confirmPassword", "email", "name", "password"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "confirmPassword": {"type": "string"}
            }
        },
        "identity.UpdateProfileInput": {
            "type": "object",
            "required": ["email", "name"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "confirmPassword": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token authentication. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Shopper session, catalog and order API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
