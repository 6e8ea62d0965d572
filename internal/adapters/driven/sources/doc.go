// Package sources groups the knowledge sources consulted by the orchestrator.
//
// Each subpackage implements driven.KnowledgeSource:
//   - local: numbered-section medical corpus on disk
//   - pubmed: NCBI E-utilities literature search
//   - who: WHO Global Health Observatory plus built-in fact sheets
//
// The remote subpackage holds the rate-limited, circuit-broken HTTP client
// shared by the two network sources.
package sources
