// Package importer turns spreadsheet data into patient records.
//
// A Parser decodes raw file bytes into ordered Rows keyed by the header row:
//
//	parser, err := importer.ParserFor("patients.xlsx")
//	rows, err := parser.Parse(data)
//
// A Pipeline feeds those rows, in order, one at a time, to the data service:
//
//	p := importer.NewPipeline(svc, logger)
//	result, err := p.Import(ctx, rows)
//
// # Failure Policy
//
// Imports are fail-fast and non-atomic. The first row that cannot be mapped
// or that the store rejects stops the import; rows before it stay persisted.
// The failure is returned as *ImportRowError carrying the 1-indexed data row,
// together with the partial Result.
//
// Columns are matched case-insensitively against name, age, gender and
// address. Any other column is ignored.
package importer
