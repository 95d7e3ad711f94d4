package action

import (
	"context"
	"fmt"
)

// dispatchFunc executes one plan step against h.
type dispatchFunc func(ctx context.Context, h *Handler, p Plan) (Result, error)

// dispatch is the open table over PlanActionType. Registered at package
// init so adding a new action type never requires touching the planner's
// JSON schema parsing beyond its own type tag.
var dispatch = map[Type]dispatchFunc{
	TypeTap: func(_ context.Context, h *Handler, p Plan) (Result, error) {
		return h.Click(p.ID)
	},
	TypeHover: func(_ context.Context, h *Handler, p Plan) (Result, error) {
		return h.Hover(p.ID)
	},
	TypeInput: func(_ context.Context, h *Handler, p Plan) (Result, error) {
		return h.Type(p.ID, p.Text, p.ClearBeforeType)
	},
	TypeClear: func(_ context.Context, h *Handler, p Plan) (Result, error) {
		return h.Clear(p.ID)
	},
	TypeSleep: func(_ context.Context, h *Handler, p Plan) (Result, error) {
		return h.Sleep(p.TimeMs)
	},
	TypeScroll: func(_ context.Context, h *Handler, p Plan) (Result, error) {
		return h.Scroll(p.Direction, p.ScrollType, p.Distance)
	},
	TypeKeyboardPress: func(_ context.Context, h *Handler, p Plan) (Result, error) {
		return h.KeyboardPress(p.Key)
	},
	TypeUpload: func(_ context.Context, h *Handler, p Plan) (Result, error) {
		return h.Upload(p.ID, p.FilePaths)
	},
	TypeSelectDropdown: func(_ context.Context, h *Handler, p Plan) (Result, error) {
		return h.SelectDropdownOption(p.ID, p.OptionText, p.OptionID)
	},
	TypeDrag: func(_ context.Context, h *Handler, p Plan) (Result, error) {
		return h.Drag(p.DragFromID, p.DragToID)
	},
	TypeGetNewPage: func(_ context.Context, h *Handler, _ Plan) (Result, error) {
		return h.GetNewPage()
	},
	TypeCheck: func(_ context.Context, h *Handler, p Plan) (Result, error) {
		return h.Click(p.ID)
	},
	TypeFalsyConditionStatement: func(_ context.Context, _ *Handler, p Plan) (Result, error) {
		return ok(fmt.Sprintf("condition evaluated: %s", p.Condition)), nil
	},
}

// Execute routes p to its registered handler. An unknown Type returns
// false without raising: {success: false, message} is this package's
// convention for every failure path, and an unrecognized type is no
// different.
func Execute(ctx context.Context, h *Handler, p Plan) (Result, error) {
	fn, known := dispatch[p.Type]
	if !known {
		return fail(fmt.Sprintf("unknown action type %q", p.Type)), nil
	}
	return fn(ctx, h, p)
}
