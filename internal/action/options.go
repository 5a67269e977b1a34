package action

import "time"

// Options controls reporting and the duplicate guard for one invocation.
type Options struct {
	ShowLoading      bool
	ShowSuccess      bool
	ShowError        bool
	PreventDuplicate bool
	Debounce         time.Duration
	SuccessMessage   string
	ErrorMessage     string
}

func defaultOptions() Options {
	return Options{
		ShowLoading:      true,
		ShowSuccess:      true,
		ShowError:        true,
		PreventDuplicate: true,
		Debounce:         defaultDebounce,
	}
}

type Option func(*Options)

func ShowLoading(show bool) Option {
	return func(o *Options) { o.ShowLoading = show }
}

func ShowSuccess(show bool) Option {
	return func(o *Options) { o.ShowSuccess = show }
}

func ShowError(show bool) Option {
	return func(o *Options) { o.ShowError = show }
}

func PreventDuplicate(prevent bool) Option {
	return func(o *Options) { o.PreventDuplicate = prevent }
}

func Debounce(d time.Duration) Option {
	return func(o *Options) { o.Debounce = d }
}

func SuccessMessage(msg string) Option {
	return func(o *Options) { o.SuccessMessage = msg }
}

func ErrorMessage(msg string) Option {
	return func(o *Options) { o.ErrorMessage = msg }
}
