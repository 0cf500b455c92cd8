// Package builder defines the collaborator that performs the actual
// file-system work for a named customization step. The orchestrator only
// knows the Builder interface; concrete implementations live elsewhere
// (see package recipe) or are test doubles such as Recorder.
package builder
