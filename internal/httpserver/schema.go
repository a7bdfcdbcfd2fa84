package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
)

const maxBodyBytes = 1 << 20

const schemaPlaceOrder = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["items", "address"],
  "properties": {
    "userId": { "type": "string" },
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["quantity"],
        "properties": {
          "product": { "type": "string" },
          "productId": { "type": "string" },
          "quantity": { "type": "integer", "minimum": 1 }
        },
        "additionalProperties": false
      }
    },
    "address": { "type": ["object", "string", "null"] }
  },
  "additionalProperties": false
}`

const schemaUpdateStatus = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["orderId", "status"],
  "properties": {
    "orderId": { "type": "string", "minLength": 1 },
    "status": { "type": "string", "minLength": 1 }
  },
  "additionalProperties": false
}`

const schemaAddAddress = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["address"],
  "properties": {
    "userId": { "type": "string" },
    "address": {
      "type": "object",
      "required": ["firstName", "street", "city", "country"],
      "properties": {
        "firstName": { "type": "string" },
        "lastName": { "type": "string" },
        "email": { "type": "string" },
        "street": { "type": "string" },
        "city": { "type": "string" },
        "state": { "type": "string" },
        "country": { "type": "string" },
        "zipCode": { "type": "string" },
        "phone": { "type": "string" }
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

const schemaUpdateCart = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["cartItems"],
  "properties": {
    "userId": { "type": "string" },
    "cartItems": {
      "type": "object",
      "additionalProperties": { "type": "integer", "minimum": 0 }
    }
  },
  "additionalProperties": false
}`

const schemaCategory = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "id": { "type": "string" },
    "name": { "type": "string" },
    "image": { "type": "string" },
    "bgColor": { "type": "string" }
  },
  "additionalProperties": false
}`

const schemaByID = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id"],
  "properties": {
    "id": { "type": "string", "minLength": 1 }
  },
  "additionalProperties": false
}`

const schemaSellerLogin = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["email", "password"],
  "properties": {
    "email": { "type": "string" },
    "password": { "type": "string" }
  },
  "additionalProperties": false
}`

var (
	placeOrderLoader   = gojsonschema.NewStringLoader(schemaPlaceOrder)
	updateStatusLoader = gojsonschema.NewStringLoader(schemaUpdateStatus)
	addAddressLoader   = gojsonschema.NewStringLoader(schemaAddAddress)
	updateCartLoader   = gojsonschema.NewStringLoader(schemaUpdateCart)
	categoryLoader     = gojsonschema.NewStringLoader(schemaCategory)
	byIDLoader         = gojsonschema.NewStringLoader(schemaByID)
	sellerLoginLoader  = gojsonschema.NewStringLoader(schemaSellerLogin)
)

// decodeValidated reads the body, checks it against schema and decodes it into dst.
func decodeValidated(c *gin.Context, schema gojsonschema.JSONLoader, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var sb strings.Builder
		for _, e := range result.Errors() {
			sb.WriteString(e.String())
			sb.WriteString("; ")
		}
		return fmt.Errorf("request does not conform to schema: %s", sb.String())
	}
	return json.Unmarshal(body, dst)
}
