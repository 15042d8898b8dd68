// Package mcp implements the Model Context Protocol (MCP) server for patientdb.
//
// The server exposes the patient data service to MCP clients as tools:
//   - init_store: Create the schema (idempotent)
//   - add_patient: Register one record
//   - list_patients: List records, filtered by name and sorted
//   - run_query: Execute ad-hoc SQL and return the rows
//   - query_history: Recent statements and example queries
//   - import_patients: Bulk import from an .xlsx or .csv file
//   - get_status: Storage availability and statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Logs go to stderr; stdout carries only protocol messages.
//
// # Basic Usage
//
//	patientdb serve
//
// # Tool: add_patient
//
//	Request:
//	{
//	  "name": "add_patient",
//	  "arguments": {"name": "Ada Lovelace", "age": 36, "gender": "female"}
//	}
//
//	Response:
//	{
//	  "added": true,
//	  "total": 12
//	}
//
// # Tool: run_query
//
//	Request:
//	{
//	  "name": "run_query",
//	  "arguments": {"sql": "SELECT * FROM patients WHERE age > 60"}
//	}
//
//	Response:
//	{
//	  "columns": ["id", "name", "age", "gender", "address"],
//	  "rows": [{"id": 3, "name": "Elder", "age": 80, "gender": null, "address": null}],
//	  "row_count": 1
//	}
//
// Statements are executed as given, including writes, unless the server runs
// with query.read_only enabled.
//
// # Tool: import_patients
//
//	Request:
//	{
//	  "name": "import_patients",
//	  "arguments": {"path": "/data/patients.xlsx"}
//	}
//
//	Response:
//	{
//	  "imported": 40,
//	  "batch_id": "0b8f6c1e-...",
//	  "duration_ms": 18,
//	  "total": 52,
//	  "message": "Successfully imported 40 patient records"
//	}
//
// Imports stop at the first bad row. Rows before it stay stored and the
// error reports the row number and how many rows were imported.
//
// # Error Handling
//
// Errors follow JSON-RPC 2.0 error format:
//
//	-32602: Invalid params (missing name, bad age, unsupported file)
//	-32603: Internal error
//	-32004: Empty query
//	-32005: Engine error (SQL rejected; message kept verbatim)
//	-32006: Import row error (data.row is the 1-indexed data row)
//	-32007: Import already in progress
package mcp
