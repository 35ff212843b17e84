package schemas

// Candidate is the schema for extracted application documents.
const Candidate = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Candidate",
  "type": "object",
  "required": ["name", "email", "summary", "full_text"],
  "properties": {
    "name":      {"type": "string", "minLength": 1},
    "phone":     {"type": "string"},
    "email":     {"type": "string", "minLength": 3, "pattern": "^[^@\\s]+@[^@\\s]+$"},
    "summary":   {"type": "string", "minLength": 1},
    "full_text": {"type": "string", "minLength": 1}
  },
  "additionalProperties": true
}`

// DraftEvaluation is the schema for the evaluator's verdict on a draft.
const DraftEvaluation = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "DraftEvaluation",
  "type": "object",
  "required": ["verdict", "feedback"],
  "properties": {
    "verdict":  {"type": "string", "enum": ["approved", "needs_improvement"]},
    "feedback": {"type": "string"}
  },
  "additionalProperties": true
}`
