package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// initStoreTool returns the tool definition for init_store
func initStoreTool() mcp.Tool {
	return mcp.Tool{
		Name:        "init_store",
		Description: "Create the patients table if it does not exist. Safe to call repeatedly.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// addPatientTool returns the tool definition for add_patient
func addPatientTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add_patient",
		Description: "Register one patient record",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Full name (required, non-empty)",
				},
				"age": map[string]interface{}{
					"type":        "integer",
					"description": "Age in years; omit when unknown",
					"minimum":     0,
				},
				"gender": map[string]interface{}{
					"type":        "string",
					"description": "Free-form gender",
				},
				"address": map[string]interface{}{
					"type":        "string",
					"description": "Free-form address",
				},
			},
			Required: []string{"name"},
		},
	}
}

// listPatientsTool returns the tool definition for list_patients
func listPatientsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_patients",
		Description: "List stored patients, optionally filtered by name and sorted",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"search": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive substring of the name",
				},
				"sort_by": map[string]interface{}{
					"type":        "string",
					"description": "Sort order",
					"enum":        []string{"name", "age", "id"},
					"default":     "name",
				},
			},
		},
	}
}

// runQueryTool returns the tool definition for run_query
func runQueryTool() mcp.Tool {
	return mcp.Tool{
		Name: "run_query",
		Description: "Execute an SQL statement against the patients database and return its rows. " +
			"Statements run verbatim; e.g. SELECT gender, COUNT(*) as count FROM patients GROUP BY gender",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sql": map[string]interface{}{
					"type":        "string",
					"description": "SQL text",
				},
			},
			Required: []string{"sql"},
		},
	}
}

// queryHistoryTool returns the tool definition for query_history
func queryHistoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "query_history",
		Description: "List recently executed statements, most recent first, plus example queries",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// importPatientsTool returns the tool definition for import_patients
func importPatientsTool() mcp.Tool {
	return mcp.Tool{
		Name: "import_patients",
		Description: "Import patients from a spreadsheet (.xlsx, .xlsm or .csv) whose header row names " +
			"name, age, gender and address columns. Stops at the first bad row; earlier rows are kept.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the spreadsheet file",
				},
			},
			Required: []string{"path"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report storage availability, driver, schema version and patient count",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
