// Package mcp exposes the enrichment engine over the Model Context Protocol,
// so AI tools can enrich task directories and query run history through
// stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couloir/tasklens/internal/config"
	"github.com/couloir/tasklens/internal/enrich"
	"github.com/couloir/tasklens/internal/index"
	"github.com/couloir/tasklens/internal/task"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string // server name reported to clients
	Version string // server version reported to clients
	Root    string // corpus root (default: current directory)
}

// Server wraps an MCP server around the enrichment engine.
type Server struct {
	server *mcpsdk.Server
	cfg    config.Config
	layout task.Layout
	index  *index.Store
	root   string
}

// NewServer creates an MCP server rooted at cfg.Root. The corpus config file
// is honored, and the run index is opened eagerly so a broken index path
// fails at startup rather than mid-session.
func NewServer(cfg *Config) (*Server, error) {
	root := cfg.Root
	if root == "" {
		root = "."
	}

	fileCfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	idx, err := index.Open(fileCfg.ResolveIndexPath(root))
	if err != nil {
		return nil, fmt.Errorf("opening run index: %w", err)
	}

	s := &Server{
		server: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		cfg:    fileCfg,
		layout: fileCfg.Layout(),
		index:  idx,
		root:   root,
	}
	s.registerTools()
	return s, nil
}

// Run serves MCP over stdio until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases the run index. Safe to call more than once.
func (s *Server) Close() error {
	return s.index.Close()
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.server, &mcpsdk.Tool{
		Name:        "enrich_task",
		Description: "Enrich one task directory's base record from its trajectory, patch, and test log artifacts",
	}, s.handleEnrichTask)

	mcpsdk.AddTool(s.server, &mcpsdk.Tool{
		Name:        "task_metrics",
		Description: "Compute the extracted metrics for one task without writing anything",
	}, s.handleTaskMetrics)

	mcpsdk.AddTool(s.server, &mcpsdk.Tool{
		Name:        "list_runs",
		Description: "List recorded enrichment runs from the corpus index",
	}, s.handleListRuns)
}

// EnrichTaskArgs are the arguments for the enrich_task tool.
type EnrichTaskArgs struct {
	Dir   string `json:"dir" jsonschema:"task directory, absolute or relative to the corpus root"`
	Write bool   `json:"write,omitempty" jsonschema:"write the enriched document back and record the run"`
}

func (s *Server) handleEnrichTask(ctx context.Context, req *mcpsdk.CallToolRequest, args EnrichTaskArgs) (*mcpsdk.CallToolResult, interface{}, error) {
	if args.Dir == "" {
		return nil, nil, fmt.Errorf("dir is required")
	}
	dir := args.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.root, dir)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, fmt.Errorf("task directory: %w", err)
	}

	arts, err := s.layout.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	res := enrich.Enrich(arts.Base, arts.Ideal, arts.Failed, arts.FixPatch, arts.Logs)

	if args.Write {
		out := filepath.Join(dir, s.layout.BaseRecord)
		if err := task.WriteEnriched(out, res.Document); err != nil {
			return nil, nil, err
		}
		if _, err := s.index.Record(index.FromResult(filepath.Base(dir), res)); err != nil {
			return nil, nil, err
		}
	}
	return textResult(res.Document)
}

// TaskMetricsArgs are the arguments for the task_metrics tool.
type TaskMetricsArgs struct {
	Task string `json:"task" jsonschema:"task directory name under the samples directory"`
}

func (s *Server) handleTaskMetrics(ctx context.Context, req *mcpsdk.CallToolRequest, args TaskMetricsArgs) (*mcpsdk.CallToolResult, interface{}, error) {
	if args.Task == "" {
		return nil, nil, fmt.Errorf("task is required")
	}
	dir := filepath.Join(s.cfg.ResolveSamplesDir(s.root), args.Task)
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, fmt.Errorf("task directory: %w", err)
	}

	arts, err := s.layout.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	res := enrich.Enrich(arts.Base, arts.Ideal, arts.Failed, arts.FixPatch, arts.Logs)

	// The diagnostic view: extractor outputs without the merged document.
	return textResult(map[string]interface{}{
		"task":             args.Task,
		"idealTrajectory":  res.Ideal,
		"failedTrajectory": res.Failed,
		"diff":             res.Patch,
		"preTests":         res.PreTests,
		"postPatchTests":   res.PostPatch,
		"failureAnalysis":  res.Analysis,
	})
}

// ListRunsArgs are the arguments for the list_runs tool.
type ListRunsArgs struct {
	Task  string `json:"task,omitempty" jsonschema:"filter runs to one task"`
	Limit int    `json:"limit,omitempty" jsonschema:"cap the number of runs returned"`
}

func (s *Server) handleListRuns(ctx context.Context, req *mcpsdk.CallToolRequest, args ListRunsArgs) (*mcpsdk.CallToolResult, interface{}, error) {
	runs, err := s.index.List(args.Task, args.Limit)
	if err != nil {
		return nil, nil, err
	}
	if runs == nil {
		runs = []index.Run{}
	}
	return textResult(map[string]interface{}{
		"count": len(runs),
		"runs":  runs,
	})
}

func textResult(v interface{}) (*mcpsdk.CallToolResult, interface{}, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil, nil
}
