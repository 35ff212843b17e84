// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "Candidate", "DraftEvaluation")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize beyond what is asked.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// CandidateSchema returns the extraction schema for application documents.
// Extracts contact identity, a short summary, and a cleaned full text.
func CandidateSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "Candidate",
		Description: `You are an expert resume parser. Your task is to extract applicant information from a raw resume.
Goal: Extract the applicant's identity, a concise summary, and a cleaned plain-text rendition of the whole document.`,
		Fields: []SchemaField{
			{
				Name:        "name",
				Type:        "\"string\"",
				Description: "Full name of the applicant",
				Required:    true,
			},
			{
				Name:        "phone",
				Type:        "\"string\"",
				Description: "Phone number if present",
				Required:    false,
			},
			{
				Name:        "email",
				Type:        "\"string\"",
				Description: "Email address of the applicant",
				Required:    true,
			},
			{
				Name:        "summary",
				Type:        "\"string\"",
				Description: "Summary of the resume within 100 words",
				Required:    true,
			},
			{
				Name:        "full_text",
				Type:        "\"string\"",
				Description: "Clean plain text of the full resume: skills, projects, scores, experience",
				Required:    true,
			},
		},
	}
}

// EvaluationSchema returns the extraction schema for draft evaluation output.
func EvaluationSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "DraftEvaluation",
		Description: `You are an exacting reviewer of job descriptions. Judge whether the draft is ready to publish
for the given role and explain what to improve if it is not.`,
		Fields: []SchemaField{
			{
				Name:        "verdict",
				Type:        "\"string\"",
				Description: "Either \"approved\" or \"needs_improvement\"",
				Required:    true,
			},
			{
				Name:        "feedback",
				Type:        "\"string\"",
				Description: "Concrete feedback for the draft",
				Required:    true,
			},
		},
	}
}
