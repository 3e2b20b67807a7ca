// Package embedding holds the pieces shared by the embedding service adapters:
// the HTTP status error they return and a rate-limiting decorator.
//
// Provider adapters live in sub-packages (ollama, openai).
package embedding
