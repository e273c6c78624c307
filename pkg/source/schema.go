package source

// documentSchema is the JSON Schema that JSON toggle documents are validated
// against before decoding. It mirrors the strictness of the YAML path, which
// rejects unknown fields through the decoder instead.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Toggle definition document",
  "type": "object",
  "required": ["toggles"],
  "additionalProperties": false,
  "properties": {
    "toggles": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name": {
            "type": "string",
            "minLength": 1
          },
          "active": {
            "type": "boolean"
          },
          "variants": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name"],
              "additionalProperties": false,
              "properties": {
                "name": {
                  "type": "string",
                  "minLength": 1
                },
                "weight": {
                  "type": "integer",
                  "minimum": 0
                },
                "payload": {
                  "type": "string"
                }
              }
            }
          }
        }
      }
    }
  }
}`
