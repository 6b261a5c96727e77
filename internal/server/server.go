// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/meridianhq/meridian/internal/memlog"
	"github.com/meridianhq/meridian/internal/memtools"
	"github.com/meridianhq/meridian/internal/prompts"
	"github.com/meridianhq/meridian/internal/resources"
	"github.com/meridianhq/meridian/internal/tasks"
	"github.com/meridianhq/meridian/internal/templates"
	"github.com/meridianhq/meridian/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The search index is opened per-call inside the memory tools, so the
// server holds no long-lived handles and needs no cleanup.
func New() (*server.MCPServer, error) {
	// --- Create shared dependencies ---

	taskStore := tasks.NewFileStore()
	memStore := memlog.NewFileStore()

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating template renderer: %w", err)
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"meridian",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register project tools ---

	initTool := tools.NewProjectInitTool(renderer)
	s.AddTool(initTool.Definition(), initTool.Handle)

	statusTool := tools.NewProjectStatusTool(taskStore, memStore)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	reviewTool := tools.NewProjectReviewTool()
	s.AddTool(reviewTool.Definition(), reviewTool.Handle)

	// --- Register task tools ---

	taskCreate := tools.NewTaskCreateTool(taskStore)
	s.AddTool(taskCreate.Definition(), taskCreate.Handle)

	taskUpdate := tools.NewTaskUpdateTool(taskStore)
	s.AddTool(taskUpdate.Definition(), taskUpdate.Handle)

	taskDelete := tools.NewTaskDeleteTool(taskStore)
	s.AddTool(taskDelete.Definition(), taskDelete.Handle)

	taskList := tools.NewTaskListTool(taskStore)
	s.AddTool(taskList.Definition(), taskList.Handle)

	// --- Register memory tools ---

	memAppend := memtools.NewAppendTool(memStore)
	s.AddTool(memAppend.Definition(), memAppend.Handle)

	memList := memtools.NewListTool(memStore)
	s.AddTool(memList.Definition(), memList.Handle)

	memSearch := memtools.NewSearchTool()
	s.AddTool(memSearch.Definition(), memSearch.Handle)

	memReindex := memtools.NewReindexTool(memStore)
	s.AddTool(memReindex.Definition(), memReindex.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(taskStore)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)

	return s, nil
}

// serverInstructions returns the system instructions that tell the AI
// how to use Meridian effectively.
func serverInstructions() string {
	return `You have access to Meridian, a project governance MCP server.

## What Meridian Does

Meridian keeps three durable records for a software project, all under a
meridian/ directory at the project root:

1. A memory log: append-only record of decisions, discoveries, and outcomes
2. A task registry: numbered TASK-### folders with brief, plan, and context documents
3. A backlog index: one YAML file listing every task

It also enforces a plan review gate: when a review is pending, every
mutating tool refuses to run until the user has reviewed the plan.

## Getting Started

Run project_init once per project. It creates meridian/ with config.yaml,
the governance state, an empty backlog, and the TASK-000 template folder.
Check project_status anytime to see where things stand.

## The Review Gate

Before executing a non-trivial plan:
1. Call project_review with action='request' — this blocks all mutations
2. Present the plan to the user and wait for their explicit approval
3. Call project_review with action='clear' — mutations are unblocked
4. Execute the plan

NEVER clear a review the user has not approved.

## Tasks

Each task is a folder meridian/tasks/TASK-### with three documents:
- TASK-###.yaml — the brief: objective, scope, acceptance criteria
- TASK-###-plan.md — the approved plan
- TASK-###-context.md — running notes while working

Workflow:
1. task_create scaffolds the folder from the template and adds the backlog entry.
   Pass a backlog_block (YAML list item with id, title, status) so the backlog
   stays in sync — use the literal TASK-000 as the id placeholder.
2. task_update rewrites documents as work progresses. Keep the context
   document current: it is what lets a future session pick the task up.
3. task_delete removes a finished-and-archived or abandoned task.
4. task_list shows the registry and the backlog file.

## Memory

Call mem_append PROACTIVELY after:
- Architectural decisions or tradeoffs
- Bug fixes: what was wrong and how it was fixed
- New conventions or patterns established
- Discoveries, gotchas, edge cases

Keep summaries to one or two sentences. Use tags for topics ('auth, config')
and links for related IDs ('TASK-003 mem-0012'). Entries are permanent —
the log is append-only and is never rewritten.

At the start of a session, run mem_list or mem_search to recover context
from previous sessions. If search results look stale, run mem_reindex —
it rebuilds the index from the log and is always safe.

## Project Types

- standard: normal governance, review gate for non-trivial plans
- hackathon: move fast, review gate only for destructive operations
- production: strict — review gate for every plan, tdd_mode recommended

When tdd_mode is on, write the failing test before the implementation and
record the red-green step in the task's context document.`
}
