package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/patientdb/internal/importer"
	"github.com/dshills/patientdb/internal/patients"
	"github.com/dshills/patientdb/internal/storage"
	"github.com/dshills/patientdb/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery       = -32004 // Query parameter is empty
	ErrorCodeEngineError      = -32005 // The database rejected the statement
	ErrorCodeImportRowError   = -32006 // A row stopped the import
	ErrorCodeImportInProgress = -32007 // Another import is already running
)

// handleInitStore handles the init_store tool invocation
func (s *Server) handleInitStore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.svc.Init(ctx); err != nil {
		return nil, toolError("failed to initialize store", err)
	}

	response := map[string]interface{}{
		"initialized": true,
		"available":   s.svc.Available(),
	}
	if store := s.svc.Store(); store != nil {
		version, err := store.SchemaVersion(ctx)
		if err == nil {
			response["schema_version"] = version
		}
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleAddPatient handles the add_patient tool invocation
func (s *Server) handleAddPatient(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	record := types.NewPatient{
		Name:    name,
		Gender:  getStringDefault(args, "gender", ""),
		Address: getStringDefault(args, "address", ""),
	}

	if raw, present := args["age"]; present && raw != nil {
		age, err := wholeNumber(raw)
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid age", map[string]interface{}{
				"param":  "age",
				"reason": err.Error(),
			})
		}
		record.Age = &age
	}

	if err := s.svc.AddPatient(ctx, record); err != nil {
		return nil, toolError("failed to add patient", err)
	}

	total, err := s.svc.Count(ctx)
	if err != nil {
		return nil, toolError("failed to count patients", err)
	}

	response := map[string]interface{}{
		"added": true,
		"total": total,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListPatients handles the list_patients tool invocation
func (s *Server) handleListPatients(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	sortBy, err := patients.ParseSortBy(getStringDefault(args, "sort_by", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid sort_by", map[string]interface{}{
			"param":   "sort_by",
			"reason":  err.Error(),
			"allowed": []string{"name", "age", "id"},
		})
	}

	all, err := s.svc.ListPatients(ctx)
	if err != nil {
		return nil, toolError("failed to list patients", err)
	}
	shown := patients.Browse(all, getStringDefault(args, "search", ""), sortBy)

	response := map[string]interface{}{
		"patients": shown,
		"count":    len(shown),
		"total":    len(all),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRunQuery handles the run_query tool invocation
func (s *Server) handleRunQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	sqlText, _ := args["sql"].(string)
	result, err := s.session.Run(ctx, sqlText)
	if err != nil {
		return nil, toolError("query failed", err)
	}

	response := map[string]interface{}{
		"columns":   result.Columns,
		"rows":      result.Rows,
		"row_count": result.Len(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleQueryHistory handles the query_history tool invocation
func (s *Server) handleQueryHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"history":  s.session.History(),
		"examples": patients.ExampleQueries,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleImportPatients handles the import_patients tool invocation
func (s *Server) handleImportPatients(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if !filepath.IsAbs(path) {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": "path must be absolute",
		})
	}

	if !s.importMu.TryAcquire() {
		return nil, newMCPError(ErrorCodeImportInProgress, "another import is already running", nil)
	}
	defer s.importMu.Release()

	result, err := s.pipeline.ImportFile(ctx, path)
	if err != nil {
		mcpErr := toolError("import failed", err)
		if result != nil {
			mcpErr.Data.(map[string]interface{})["imported"] = result.Imported
		}
		return nil, mcpErr
	}

	total, err := s.svc.Count(ctx)
	if err != nil {
		return nil, toolError("failed to count patients", err)
	}

	response := map[string]interface{}{
		"imported":    result.Imported,
		"batch_id":    result.BatchID.String(),
		"duration_ms": result.Duration.Milliseconds(),
		"total":       total,
		"message":     fmt.Sprintf("Successfully imported %d patient records", result.Imported),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"available":      s.svc.Available(),
		"driver":         storage.DriverName,
		"build_mode":     storage.BuildMode,
		"import_running": s.importMu.Held(),
	}

	store := s.svc.Store()
	if store == nil {
		response["message"] = "Persistent storage is unavailable; records are not saved."
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	response["db_path"] = store.Path()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		return nil, toolError("failed to read schema version", err)
	}
	response["schema_version"] = version

	if version != "" {
		count, err := s.svc.Count(ctx)
		if err != nil {
			return nil, toolError("failed to count patients", err)
		}
		response["patient_count"] = count
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// toolError maps a service error onto an MCP error code. The cause's message
// is passed through untouched in Data["error"].
func toolError(message string, err error) *MCPError {
	data := map[string]interface{}{
		"error": err.Error(),
	}
	e := &MCPError{Code: ErrorCodeInternalError, Message: message, Data: data}

	var rowErr *importer.ImportRowError
	var engineErr *storage.EngineError
	switch {
	case errors.As(err, &rowErr):
		e.Code = ErrorCodeImportRowError
		data["row"] = rowErr.Row
	case errors.Is(err, patients.ErrEmptyQuery):
		e.Code = ErrorCodeEmptyQuery
	case errors.As(err, &engineErr):
		e.Code = ErrorCodeEngineError
	case errors.Is(err, patients.ErrNameRequired),
		errors.Is(err, patients.ErrReadOnlyQuery),
		errors.Is(err, importer.ErrUnsupportedFormat),
		errors.Is(err, importer.ErrParse),
		errors.Is(err, fs.ErrNotExist):
		e.Code = ErrorCodeInvalidParams
	}
	return e
}

// wholeNumber converts a JSON number argument to int64
func wholeNumber(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%v is not a whole number", n)
		}
		if n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("%v is out of range", n)
		}
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
