package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/splice/internal/buffer"
	"github.com/zjrosen/splice/internal/change"
	"github.com/zjrosen/splice/internal/edit"
	"github.com/zjrosen/splice/internal/modify"
	"github.com/zjrosen/splice/internal/undo"
)

// Command runs fn under a root span named after the command. A nil tracer
// runs fn untraced.
func Command(ctx context.Context, tracer trace.Tracer, name string, fn func(context.Context) error) error {
	if tracer == nil {
		return fn(ctx)
	}

	ctx, span := tracer.Start(ctx, SpanPrefixCommand+name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()
	span.SetAttributes(attribute.String(AttrCommandName, name))

	err := fn(ctx)
	recordOutcome(span, err)
	return err
}

// ApplySet applies set to buf under an edit.apply span.
func ApplySet(ctx context.Context, tracer trace.Tracer, set *edit.Set, buf buffer.Buffer) (*change.Record, error) {
	if tracer == nil {
		return set.Apply(buf)
	}

	_, span := tracer.Start(ctx, SpanEditApply)
	defer span.End()
	span.SetAttributes(
		attribute.String(AttrEditKind, set.Kind().String()),
		attribute.Int(AttrEditCount, set.Len()),
		attribute.Int(AttrBufferLength, buf.Range().Length),
	)

	record, err := set.Apply(buf)
	if record != nil {
		span.SetAttributes(attribute.Int(AttrDelta, record.PendingTotal()))
	}
	recordOutcome(span, err)
	return record, err
}

// Steps wraps every step so each run opens a modify.step span recording the
// affected range before and after the step.
func Steps(ctx context.Context, tracer trace.Tracer, steps ...modify.Step) []modify.Step {
	if tracer == nil {
		return steps
	}

	wrapped := make([]modify.Step, len(steps))
	for i, step := range steps {
		wrapped[i] = traceStep(ctx, tracer, i, step)
	}
	return wrapped
}

func traceStep(ctx context.Context, tracer trace.Tracer, index int, step modify.Step) modify.Step {
	return func(buf buffer.Buffer, affected *modify.AffectedRange) (*change.Record, error) {
		_, span := tracer.Start(ctx, SpanModifyStep)
		defer span.End()
		span.SetAttributes(
			attribute.Int(AttrStepIndex, index),
			attribute.String(AttrAffectedStart, affected.String()),
		)

		record, err := step(buf, affected)
		span.SetAttributes(attribute.String(AttrAffectedEnd, affected.String()))
		if record != nil {
			span.SetAttributes(attribute.Int(AttrDelta, record.PendingTotal()))
		}
		recordOutcome(span, err)
		return record, err
	}
}

// GroupMode selects how Group records and recovers an undo group.
type GroupMode int

const (
	// GroupPlain records the group without selection restores.
	GroupPlain GroupMode = iota
	// GroupRestoreSelection also restores the selection on undo.
	GroupRestoreSelection
	// GroupAtomic restores the selection on undo and reverts a failing body.
	GroupAtomic
)

func (m GroupMode) String() string {
	switch m {
	case GroupRestoreSelection:
		return "restore-selection"
	case GroupAtomic:
		return "atomic"
	default:
		return "plain"
	}
}

// Group runs body in an undo group of session under an undo.group span. A
// reverted atomic group is recorded as an event.
func Group(ctx context.Context, tracer trace.Tracer, session *undo.Session, action string, mode GroupMode, body func(context.Context) error) error {
	if tracer == nil {
		return group(ctx, session, action, mode, body)
	}

	ctx, span := tracer.Start(ctx, SpanUndoGroup)
	defer span.End()
	span.SetAttributes(
		attribute.String(AttrSessionID, session.ID().String()),
		attribute.String(AttrActionName, action),
		attribute.String(AttrGroupMode, mode.String()),
	)

	err := group(ctx, session, action, mode, body)
	if err != nil && mode == GroupAtomic {
		span.AddEvent(EventGroupReverted)
	}
	span.SetAttributes(attribute.Int(AttrUndoCount, session.Manager().UndoCount()))
	recordOutcome(span, err)
	return err
}

func group(ctx context.Context, session *undo.Session, action string, mode GroupMode, body func(context.Context) error) error {
	run := func() error { return body(ctx) }
	if mode == GroupAtomic {
		return session.Atomically(action, run)
	}
	return session.Grouping(action, mode == GroupRestoreSelection, run)
}

// Undo undoes the latest group of session under an undo.undo span.
func Undo(ctx context.Context, tracer trace.Tracer, session *undo.Session) error {
	return replay(ctx, tracer, SpanUndo, session, session.Manager().UndoActionName(), session.Undo)
}

// Redo redoes the latest undone group of session under an undo.redo span.
func Redo(ctx context.Context, tracer trace.Tracer, session *undo.Session) error {
	return replay(ctx, tracer, SpanRedo, session, session.Manager().RedoActionName(), session.Redo)
}

func replay(ctx context.Context, tracer trace.Tracer, name string, session *undo.Session, action string, fn func() error) error {
	if tracer == nil {
		return fn()
	}

	_, span := tracer.Start(ctx, name)
	defer span.End()
	span.SetAttributes(
		attribute.String(AttrSessionID, session.ID().String()),
		attribute.String(AttrActionName, action),
	)

	err := fn()
	recordOutcome(span, err)
	return err
}

func recordOutcome(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.AddEvent(EventErrorOccurred, trace.WithAttributes(attribute.String(AttrErrorMessage, err.Error())))
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
