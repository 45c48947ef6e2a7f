// Package field binds the numeric pipeline to a single input field.
//
// A Field holds the state of one bound input: the last canonical value the
// owner was told about, the display string and whether the pending change
// came from a keystroke. Every event (key down, change, blur, external value)
// runs to completion on the caller's goroutine. Only the correction of an
// invalid initial or external value is deferred through a Scheduler, so the
// owner is never notified while it is still constructing or updating the
// field.
//
// By default a Field queues deferred work on its own Loop. The queue is
// drained by Flush and at the start of the next event, always on the
// caller's goroutine.
//
// A Field is not safe for concurrent use.
package field

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/mbd888/numerics/pkg/numeric"
)

// Observer receives pipeline events, e.g. for metrics.
type Observer interface {
	Edited(change ChangeType)
	Suppressed(key string)
	Notified(value string)
}

// Field is the stateful pipeline behind one input.
type Field struct {
	filter    numeric.Filter
	formatter numeric.Formatter
	converter numeric.Converter
	scheduler Scheduler
	own       *Loop // set when no scheduler was given
	logger    *slog.Logger
	observer  Observer
	pad       int

	onNumericChange func(string)

	numeric   string
	display   string
	userKeyed bool
	lastKey   string

	mu      sync.Mutex
	pending []func()
	closed  atomic.Bool
}

// Option configures a Field.
type Option func(*Field)

// WithFilter sets the filter. The default passes values through.
func WithFilter(f numeric.Filter) Option {
	return func(fd *Field) { fd.filter = f }
}

// WithFormatter sets the formatter. The default passes values through.
func WithFormatter(f numeric.Formatter) Option {
	return func(fd *Field) { fd.formatter = f }
}

// WithConverter sets the converter from the display locale to the canonical
// locale. Without one, display text is filtered directly.
func WithConverter(c numeric.Converter) Option {
	return func(fd *Field) { fd.converter = c }
}

// WithScheduler sets where deferred corrections run. The owner of s is
// then responsible for running them. Without this option the field keeps
// its own Loop.
func WithScheduler(s Scheduler) Option {
	return func(fd *Field) { fd.scheduler = s }
}

// WithLogger sets the logger used for debug output of each pipeline step.
func WithLogger(l *slog.Logger) Option {
	return func(fd *Field) { fd.logger = l }
}

// WithObserver registers an observer for pipeline events.
func WithObserver(o Observer) Option {
	return func(fd *Field) { fd.observer = o }
}

// WithFractionPadding pads the canonical fraction to n digits on mount and
// on blur, as currency inputs do.
func WithFractionPadding(n int) Option {
	return func(fd *Field) { fd.pad = n }
}

var (
	passFilter    = numeric.FilterFunc(func(next, _ string) string { return next })
	passFormatter = numeric.FormatterFunc(func(value, _ string, _ numeric.Context) string { return value })
)

// New binds a field to numericValue. onNumericChange is called with the new
// canonical value whenever it changes; it may be nil.
//
// If numericValue does not survive the field's filter and formatter unchanged
// the corrected value is displayed immediately and reported to the owner
// through the scheduler.
func New(numericValue string, onNumericChange func(string), opts ...Option) *Field {
	f := &Field{
		filter:          passFilter,
		formatter:       passFormatter,
		onNumericChange: onNumericChange,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.scheduler == nil {
		f.own = NewLoop()
		f.scheduler = f.own
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	f.logger = f.logger.With("component", "field")

	f.apply(numericValue, "")
	return f
}

// Flush runs deferred corrections queued on the field's own Loop and
// returns how many ran. It is a no-op for fields given a scheduler.
func (f *Field) Flush() int {
	if f.own == nil {
		return 0
	}
	return f.own.Flush()
}

// Display returns the text the input should show.
func (f *Field) Display() string {
	return f.display
}

// Numeric returns the last canonical value.
func (f *Field) Numeric() string {
	return f.numeric
}

// KeyDown records a key press and reports whether the key may reach the
// input. Single characters rejected by the filter are suppressed; named keys
// such as "Backspace" always pass.
func (f *Field) KeyDown(key string) bool {
	f.Flush()
	f.userKeyed = true
	f.lastKey = key

	if utf8.RuneCountInString(key) != 1 {
		return true
	}
	if f.filter.Filter(f.convert(key), f.numeric) == "" {
		f.logger.Debug("key suppressed", "key", key, "numeric", f.numeric)
		if f.observer != nil {
			f.observer.Suppressed(key)
		}
		return false
	}
	return true
}

// Change processes the new raw text of the input. selectionEnd is the cursor
// position in characters; a negative value means the end of raw.
func (f *Field) Change(raw string, selectionEnd int) {
	f.Flush()
	length := utf8.RuneCountInString(raw)
	if selectionEnd < 0 || selectionEnd > length {
		selectionEnd = length
	}
	change := Classify(f.lastKey, selectionEnd, length)
	f.lastKey = ""

	value := truncate(raw, selectionEnd)
	canonical := f.convert(value)
	f.logger.Debug("change", "raw", raw, "value", canonical, "change_type", string(change))

	next := f.filter.Filter(canonical, f.numeric)
	f.logger.Debug("change filtered", "next", next)

	next = f.formatter.Format(next, f.display, numeric.Context{
		Trigger:   numeric.TriggerChange,
		UserKeyed: f.userKeyed,
	})
	f.logger.Debug("change formatted", "next", next)

	// Reformatting right after a deletion would put back what the user just
	// removed, e.g. a group separator.
	display := next
	if change.Deletes() {
		display = value
	}
	f.display = display
	f.userKeyed = false

	if f.observer != nil {
		f.observer.Edited(change)
	}

	nextNumeric := f.extract(display)
	f.logger.Debug("change numeric", "numeric", f.numeric, "next_numeric", nextNumeric, "display", display)
	if nextNumeric != f.numeric {
		f.numeric = nextNumeric
		f.notify(nextNumeric)
	}
}

// Blur reformats raw as the input loses focus. The display is always
// replaced and is formatted without a previous display, so a value the
// formatter rejects, e.g. one outside the range, leaves the input empty
// while Numeric keeps the last accepted value. Fields with fraction padding
// also report the padded value.
func (f *Field) Blur(raw string) {
	f.Flush()
	f.display = f.formatter.Format(f.filter.Filter(f.convert(raw), ""), "", numeric.Context{
		Trigger: numeric.TriggerBlur,
	})
	f.userKeyed = false
	f.lastKey = ""
	f.logger.Debug("blur", "raw", raw, "display", f.display)

	if f.pad > 0 {
		if padded := numeric.PadFraction(f.numeric, f.pad); padded != f.numeric {
			f.numeric = padded
			f.notify(padded)
		}
	}
}

// SetValue applies a canonical value supplied by the owner. The owner
// echoing a value the field reported is a no-op.
func (f *Field) SetValue(numericValue string) {
	f.Flush()
	if numericValue == f.numeric {
		return
	}
	f.apply(numericValue, f.display)
}

// Close cancels deferred notifications. Later events are still processed
// but no longer reach the owner.
func (f *Field) Close() {
	f.closed.Store(true)

	f.mu.Lock()
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()

	for _, cancel := range pending {
		cancel()
	}
}

// apply displays numericValue and schedules a correction when the field's
// rules changed it.
func (f *Field) apply(numericValue, previous string) {
	filtered := f.filter.Filter(numericValue, "")
	display := f.formatter.Format(filtered, previous, numeric.Context{UserKeyed: f.userKeyed})
	f.userKeyed = false

	corrected := f.extract(display)
	if f.pad > 0 {
		if padded := numeric.PadFraction(corrected, f.pad); padded != corrected {
			corrected = padded
			display = f.formatter.Format(padded, previous, numeric.Context{})
		}
	}

	f.display = display
	f.numeric = corrected
	f.logger.Debug("value applied", "numeric_value", numericValue, "display", display, "corrected", corrected)

	if corrected != numericValue {
		f.deferNotify(corrected)
	}
}

// deferNotify reports value later unless a newer value has replaced it by
// then; the owner already heard about that one.
func (f *Field) deferNotify(value string) {
	cancel := f.scheduler.Defer(func() {
		if f.numeric != value {
			return
		}
		f.notify(value)
	})

	f.mu.Lock()
	f.pending = append(f.pending, cancel)
	f.mu.Unlock()
}

func (f *Field) notify(value string) {
	if f.closed.Load() {
		return
	}
	f.logger.Debug("numeric change", "value", value)
	if f.observer != nil {
		f.observer.Notified(value)
	}
	if f.onNumericChange != nil {
		f.onNumericChange(value)
	}
}

func (f *Field) convert(value string) string {
	if f.converter == nil {
		return value
	}
	return f.converter.Convert(value, "")
}

// extract derives the canonical value from display text.
func (f *Field) extract(display string) string {
	return f.filter.Filter(f.convert(display), "")
}
