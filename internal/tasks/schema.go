package tasks

// bundledSchemaURL names the bundled schema inside the compiler.
const bundledSchemaURL = "tasks.schema.json"

// bundledSchema is the JSON Schema for task files. Unknown members are
// allowed because they are carried through rewrites.
const bundledSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "taskgraph task file",
  "type": "object",
  "required": ["tasks"],
  "properties": {
    "schemaVersion": { "type": "integer", "const": 1 },
    "tasks": {
      "type": "array",
      "items": { "$ref": "#/$defs/task" }
    }
  },
  "$defs": {
    "ids": {
      "type": "array",
      "items": { "type": "integer", "minimum": 1 }
    },
    "task": {
      "type": "object",
      "required": ["id", "title", "status"],
      "properties": {
        "id": { "type": "integer", "minimum": 1 },
        "title": { "type": "string", "minLength": 1 },
        "description": { "type": "string" },
        "status": { "type": "string", "minLength": 1 },
        "dependencies": { "$ref": "#/$defs/ids" },
        "priority": { "type": "string" },
        "details": { "type": "string" },
        "testStrategy": { "type": "string" },
        "subtasks": {
          "type": "array",
          "items": { "$ref": "#/$defs/subtask" }
        }
      }
    },
    "subtask": {
      "type": "object",
      "required": ["id", "title"],
      "properties": {
        "id": { "type": "integer", "minimum": 1 },
        "title": { "type": "string", "minLength": 1 },
        "description": { "type": "string" },
        "status": { "type": "string" },
        "dependencies": { "$ref": "#/$defs/ids" },
        "details": { "type": "string" }
      }
    }
  }
}
`

// BundledSchema returns the embedded task file schema.
func BundledSchema() []byte {
	return []byte(bundledSchema)
}
