// Package types provides shared type definitions for patientdb.
//
// This package defines the domain types used across the storage layer, the
// patient data service, the bulk importer and the driving surfaces (MCP
// server, CLI, terminal browser).
//
// # Core Types
//
// Patient is the only persisted entity. Its ID is assigned by the embedded
// store at insert time and never changes:
//
//	p := types.Patient{
//	    ID:     7,
//	    Name:   "Ada Lovelace",
//	    Age:    types.Int64(36),
//	    Gender: "female",
//	}
//
// NewPatient is the insert shape. It carries no ID:
//
//	rec := types.NewPatient{Name: "Ada Lovelace", Age: types.Int64(36)}
//	if err := rec.Validate(); err != nil {
//	    return err
//	}
//
// # Query Results
//
// QueryResult holds the rows produced by an ad-hoc SQL statement. Its shape
// depends entirely on the statement text, so each Row is a mapping from column
// name to a scalar value (int64, float64, string or nil):
//
//	result, _ := svc.QueryPatients(ctx, "SELECT gender, COUNT(*) AS count FROM patients GROUP BY gender")
//	for _, row := range result.Rows {
//	    fmt.Println(row["gender"], row["count"])
//	}
//
// Columns preserves the column order reported by the engine, which a Row map
// cannot.
package types
