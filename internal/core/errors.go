package core

// errors.go maps technical errors to messages a spreadsheet user can act on.
//
// Each message carries a code that can be quoted to support:
//
//	FILE001-FILE007  upload problems (size, format, parsing, sheets)
//	COL001-COL002    location/region column problems
//	ANL001-ANL003    analysis capacity, cancellation and timeouts
//	SRC001-SRC003    database table source problems
//	RATE001          request throttling
//	ERR000           anything else; check the server log
//
// Known sentinel errors are matched with errors.Is first. Errors without a
// sentinel fall back to case-insensitive substring patterns, first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/sheetcheck/internal/columns"
	"github.com/JonMunkholm/sheetcheck/internal/pgsource"
	"github.com/JonMunkholm/sheetcheck/internal/table"
)

var (
	// ErrFileTooLarge is returned for uploads over the configured size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoFile is returned when a request carries no file.
	ErrNoFile = errors.New("no file provided")

	// ErrSourceDisabled is returned for database requests when no database
	// is configured.
	ErrSourceDisabled = errors.New("table source not configured")

	// ErrRateLimited is returned by the HTTP layer when a client is throttled.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// UserMessage is the user-facing side of an error.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

var (
	msgTooLarge = UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Remove unused sheets or columns, or split the file",
		Code:    "FILE001",
	}
	msgUnsupported = UserMessage{
		Message: "File type is not supported",
		Action:  "Upload a .csv, .xlsx or .xlsm file",
		Code:    "FILE002",
	}
	msgLegacyXLS = UserMessage{
		Message: "Legacy .xls workbooks are not supported",
		Action:  "Open the file in your spreadsheet program and save it as .xlsx",
		Code:    "FILE007",
	}
	msgUnreadable = UserMessage{
		Message: "File could not be read",
		Action:  "Re-export the file from your spreadsheet program and try again",
		Code:    "FILE003",
	}
	msgNoFile = UserMessage{
		Message: "No file was selected",
		Action:  "Choose a spreadsheet to analyze",
		Code:    "FILE004",
	}
	msgEmpty = UserMessage{
		Message: "The file has no header row",
		Action:  "Make sure the first row of the sheet holds column names",
		Code:    "FILE005",
	}
	msgNoSheet = UserMessage{
		Message: "The requested sheet does not exist",
		Action:  "Check the sheet name, or leave it blank to use the first sheet",
		Code:    "FILE006",
	}
	msgNoColumn = UserMessage{
		Message: "A requested column is not in the file",
		Action:  "Check the column names against the file's header row",
		Code:    "COL001",
	}
	msgUnresolved = UserMessage{
		Message: "Location and region columns could not be identified",
		Action:  "Name the location and region columns explicitly",
		Code:    "COL002",
	}
	msgBusy = UserMessage{
		Message: "The server is busy analyzing other files",
		Action:  "Please wait a moment and try again",
		Code:    "ANL001",
	}
	msgCanceled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "ANL002",
	}
	msgDeadline = UserMessage{
		Message: "Analysis timed out",
		Action:  "Try a smaller file or limit the number of rows",
		Code:    "ANL003",
	}
	msgBadTable = UserMessage{
		Message: "Table name is not valid",
		Action:  "Use table or schema.table",
		Code:    "SRC001",
	}
	msgNoSource = UserMessage{
		Message: "No database is configured",
		Action:  "Upload the data as a file instead",
		Code:    "SRC002",
	}
	msgNoRelation = UserMessage{
		Message: "Table not found in the database",
		Action:  "Verify the table name and schema",
		Code:    "SRC003",
	}
	msgRate = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
)

var sentinels = []struct {
	err error
	msg UserMessage
}{
	{ErrFileTooLarge, msgTooLarge},
	{table.ErrLegacyWorkbook, msgLegacyXLS},
	{table.ErrUnsupportedFormat, msgUnsupported},
	{ErrNoFile, msgNoFile},
	{table.ErrEmptyFile, msgEmpty},
	{table.ErrColumnNotFound, msgNoColumn},
	{columns.ErrUnresolved, msgUnresolved},
	{ErrTooManyAnalyses, msgBusy},
	{context.Canceled, msgCanceled},
	{context.DeadlineExceeded, msgDeadline},
	{pgsource.ErrInvalidName, msgBadTable},
	{ErrSourceDisabled, msgNoSource},
	{ErrRateLimited, msgRate},
}

var patterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"request body too large", msgTooLarge},
	{"not found (available:", msgNoSheet},
	{"does not exist", msgNoRelation},
	{"read csv", msgUnreadable},
	{"open workbook", msgUnreadable},
	{"read sheet", msgUnreadable},
	{"zip: not a valid zip file", msgUnreadable},
	{"timeout", msgDeadline},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts err to a user message. A nil error maps to the zero
// UserMessage; an unrecognized one to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue.User
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	text := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(text, p.pattern) {
			return p.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders err as "Message (Code: X). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than
// ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err, returning nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
