// Package render defines the renderer contract shared by every layout output
// (HTML, terminal, spreadsheet, prompts) and a name-keyed registry.
package render
