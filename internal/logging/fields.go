package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldConfig = "config"
	FieldFix    = "fix"
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"

	// Project and compile fields.
	FieldProject  = "project"
	FieldDocMode  = "doc_mode"
	FieldTemplate = "template"
	FieldBinary   = "binary"
	FieldBuildDir = "build_dir"
	FieldPDF      = "pdf"
	FieldEvent    = "event"

	// Parse fields.
	FieldTokens = "tokens"
	FieldNodes  = "nodes"
	FieldErrors = "errors"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldFilesModified    = "files_modified"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule fields.
	FieldRule = "rule"
)
