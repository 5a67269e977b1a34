package action

import (
	"context"
	"time"
)

// Named presets over Execute. Pure configuration: fixed default messages,
// and for search/filter/load no success toast. Caller options win over the
// preset's.

func (r *Runner) HandleCreate(ctx context.Context, fn Func, opts ...Option) interface{} {
	base := []Option{
		SuccessMessage("Created successfully"),
		ErrorMessage("Could not create"),
	}
	return r.Execute(ctx, "create", fn, append(base, opts...)...)
}

func (r *Runner) HandleUpdate(ctx context.Context, fn Func, opts ...Option) interface{} {
	base := []Option{
		SuccessMessage("Updated successfully"),
		ErrorMessage("Could not update"),
	}
	return r.Execute(ctx, "update", fn, append(base, opts...)...)
}

func (r *Runner) HandleDelete(ctx context.Context, fn Func, opts ...Option) interface{} {
	base := []Option{
		SuccessMessage("Deleted successfully"),
		ErrorMessage("Could not delete"),
	}
	return r.Execute(ctx, "delete", fn, append(base, opts...)...)
}

func (r *Runner) HandleSearch(ctx context.Context, fn Func, opts ...Option) interface{} {
	base := []Option{
		ShowSuccess(false),
		ErrorMessage("Could not perform search"),
		Debounce(500 * time.Millisecond),
	}
	return r.Execute(ctx, "search", fn, append(base, opts...)...)
}

func (r *Runner) HandleFilter(ctx context.Context, fn Func, opts ...Option) interface{} {
	base := []Option{
		ShowSuccess(false),
		ErrorMessage("Could not apply filters"),
	}
	return r.Execute(ctx, "filter", fn, append(base, opts...)...)
}

func (r *Runner) HandleLoad(ctx context.Context, fn Func, opts ...Option) interface{} {
	base := []Option{
		ShowSuccess(false),
		ErrorMessage("Could not load data"),
	}
	return r.Execute(ctx, "load", fn, append(base, opts...)...)
}

func (r *Runner) HandleSave(ctx context.Context, fn Func, opts ...Option) interface{} {
	base := []Option{
		SuccessMessage("Saved successfully"),
		ErrorMessage("Could not save"),
	}
	return r.Execute(ctx, "save", fn, append(base, opts...)...)
}
