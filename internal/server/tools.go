// internal/server/tools.go
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"

	"calorie-tracker/internal/models"
	"calorie-tracker/internal/nutrients"
)

var errInvalidParams = errors.New("invalid parameters")

// Tools only consult the configured reference table; remote callers cannot
// name files on the server.
type toolHandler func(r *http.Request, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

type AddFoodParams struct {
	Name      string   `json:"name" description:"Food name, matched case-insensitively against the reference table"`
	Calories  *float64 `json:"calories,omitempty" description:"Kilocalories; omit to use the reference value"`
	Carbs     *float64 `json:"carbs,omitempty" description:"Carbohydrate grams; omit to use the reference value"`
	Protein   *float64 `json:"protein,omitempty" description:"Protein grams; omit to use the reference value"`
	Fat       *float64 `json:"fat,omitempty" description:"Fat grams; omit to use the reference value"`
	Micros    []string `json:"micros,omitempty" description:"Micronutrients as key=value tokens"`
	MicroText string   `json:"micros_text,omitempty" description:"Micronutrients as one comma or space separated string"`
}

type LookupFoodParams struct {
	Name string `json:"name" description:"Food name to look up in the configured reference table"`
}

type serverInfo struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Tools   []string `json:"tools"`
}

type lookupResult struct {
	Found bool              `json:"found"`
	Name  string            `json:"name"`
	Row   map[string]string `json:"row,omitempty"`
}

// extractParams converts the request arguments into target.
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

func (h *handlers) registerTools() {
	h.tools["add_food"] = h.handleAddFood
	h.tools["get_summary"] = h.handleGetSummary
	h.tools["reset_log"] = h.handleResetLog
	h.tools["lookup_food"] = h.handleLookupFood
}

// handleServerInfo reports the server implementation and the tool names it
// accepts on POST /mcp.
func (h *handlers) handleServerInfo(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(h.tools))
	for name := range h.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	h.writeJSON(w, http.StatusOK, serverInfo{Name: h.info.Name, Version: h.info.Version, Tools: names})
}

// handleMCP routes a tool call to its handler.
func (h *handlers) handleMCP(w http.ResponseWriter, r *http.Request) {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	tool, ok := h.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	result, err := tool(r, &request)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handlers) handleAddFood(r *http.Request, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AddFoodParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, fmt.Errorf("%w: food name is required", errInvalidParams)
	}

	tokens := params.Micros
	if params.MicroText != "" {
		tokens = append(append([]string(nil), tokens...), nutrients.SplitMicroTokens(params.MicroText)...)
	}

	rec, err := h.tracker.Add(r.Context(), nutrients.Request{
		Name:     params.Name,
		Calories: params.Calories,
		Carbs:    params.Carbs,
		Protein:  params.Protein,
		Fat:      params.Fat,
		Micros:   tokens,
	})
	if err != nil {
		return nil, err
	}
	return createJSONResponse(rec)
}

func (h *handlers) handleGetSummary(r *http.Request, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	totals, err := h.tracker.Summary(r.Context())
	if err != nil {
		return nil, err
	}
	return createJSONResponse(totals)
}

func (h *handlers) handleResetLog(r *http.Request, _ *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	if err := h.tracker.Reset(r.Context()); err != nil {
		return nil, err
	}
	return createJSONResponse(map[string]string{"status": "Log reset"})
}

func (h *handlers) handleLookupFood(_ *http.Request, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LookupFoodParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, fmt.Errorf("%w: food name is required", errInvalidParams)
	}

	res := lookupResult{Name: params.Name}
	if row, ok := h.tracker.Lookup(params.Name, ""); ok {
		res.Found = true
		res.Row = rowMap(row)
	}
	return createJSONResponse(res)
}

func rowMap(row models.ReferenceRecord) map[string]string {
	m := make(map[string]string, len(row.Fields))
	for _, f := range row.Fields {
		m[f.Key] = f.Value
	}
	return m
}

func createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
