package validate

import (
	"context"
	"fmt"

	"github.com/neothan-dev/voice-ai-chat-agent-backend/internal/ctxlog"
)

// IssueCode classifies a validation finding. Errors block compilation of
// the whole source file; warnings are logged and compilation proceeds.
type IssueCode string

const (
	CodeSchema       IssueCode = "schema"         // grid shape or key-column declaration violations
	CodeEmptyKey     IssueCode = "empty_key"      // blank keys in the key column
	CodeDuplicateKey IssueCode = "duplicate_key"  // repeated keys within one sheet
	CodeType         IssueCode = "type"           // cell does not match its column's declared type
	CodeFormat       IssueCode = "format"         // recoverable format irregularities
	CodeIdentifier   IssueCode = "identifier"     // names unsafe for downstream identifiers
	CodeUnknownType  IssueCode = "unknown_type"   // type tags outside the valid set
	CodeSparseData   IssueCode = "sparse_data"    // mostly-empty data region
)

// Issue is one validation finding.
type Issue struct {
	Code    IssueCode
	Message string
}

// Report collects the ordered findings for one sheet.
type Report struct {
	Sheet    string
	Errors   []Issue
	Warnings []Issue
}

// OK reports whether the sheet may be compiled.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

func (r *Report) errorf(code IssueCode, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Code: code, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(code IssueCode, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Log writes every finding through the context logger: errors at error
// level, warnings at warn level.
func (r *Report) Log(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	for _, issue := range r.Errors {
		logger.Error("Sheet validation error.", "sheet", r.Sheet, "code", issue.Code, "detail", issue.Message)
	}
	for _, issue := range r.Warnings {
		logger.Warn("Sheet validation warning.", "sheet", r.Sheet, "code", issue.Code, "detail", issue.Message)
	}
}
