// Package domain contains the core business entities and errors for the
// physics question-answering pipeline. It has no dependencies on
// adapters or external services.
package domain
