// Package services implements the driving ports.
//
// The Orchestrator extracts a search term, runs one of the three strategies
// over the knowledge sources and hands the gathered fragments to the
// Synthesizer. ConversationService and SettingsService wrap it for the
// outer adapters. Services see infrastructure only through driven ports.
package services
