// Package display renders scan results for the terminal.
//
// Every function writes to an io.Writer so output can be captured in tests.
// Color is applied only when the destination is a terminal (see ColorEnabled),
// so redirected output stays plain text.
//
// # Records
//
// PrintRecords writes one line per classified file:
//
//	./logs/app.log | 2.00 MB | 2024-05-01 09:30:00 | Active
//
// The two-decimal size is for display only; exports keep full precision.
//
// # Summary
//
// PrintSummary writes the per-tier totals after the record lines, and
// PrintExported reports each export destination.
//
// # Warnings
//
// Warning renders a titled block with optional message, affected files and a
// suggestion. WarnSkipped builds one from the entries a scan could not read.
package display
