// Package provider defines the AI service client interfaces and
// implementations.
package provider

import "github.com/ZaguanLabs/doctran"

// ChunkTranslator is an alias to the main package interface.
type ChunkTranslator = doctran.ChunkTranslator

// TermTranslator is an alias to the main package interface.
type TermTranslator = doctran.TermTranslator

// FineTuner is an alias to the main package interface.
type FineTuner = doctran.FineTuner

// UnitsRequest is an alias to the main package type.
type UnitsRequest = doctran.UnitsRequest
