package tracing

// Span attribute keys.
const (
	// Command attributes
	AttrCommandName = "command.name"

	// Buffer attributes
	AttrBufferLength = "buffer.length"
	AttrSelection    = "buffer.selection"

	// Edit attributes
	AttrEditKind  = "edit.kind"
	AttrEditCount = "edit.count"
	AttrDelta     = "edit.delta"

	// Modification chain attributes
	AttrStepIndex     = "modify.step"
	AttrAffectedStart = "modify.affected.before"
	AttrAffectedEnd   = "modify.affected.after"

	// Undo attributes
	AttrSessionID  = "undo.session.id"
	AttrActionName = "undo.action"
	AttrGroupMode  = "undo.group.mode"
	AttrUndoCount  = "undo.count"

	// Error attributes
	AttrErrorMessage = "error.message"
)

// Span names.
const (
	SpanPrefixCommand = "command."
	SpanEditApply     = "edit.apply"
	SpanModifyStep    = "modify.step"
	SpanUndoGroup     = "undo.group"
	SpanUndo          = "undo.undo"
	SpanRedo          = "undo.redo"
)

// Event names for span events.
const (
	EventGroupReverted = "undo.group.reverted"
	EventErrorOccurred = "error.occurred"
)
