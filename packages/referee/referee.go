package referee

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/abdul-hamid-achik/referee/packages/core/config"
	"github.com/abdul-hamid-achik/referee/packages/format"
)

var placeholderRe = regexp.MustCompile(`\$\{([^}]+)\}`)

// Listener is notified of every assertion outcome.
type Listener interface {
	Pass(op, name string)
	Fail(op, name string, err *AssertionError)
}

// Referee holds registered assertions. It is safe for concurrent use.
type Referee struct {
	mu           sync.RWMutex
	definitions  map[string]Definition
	expectations map[string]string // alias -> assertion name

	formatter *format.Formatter
	messages  map[string]string
	listeners []Listener
	count     atomic.Int64
}

// Option is a functional option for configuring a Referee.
type Option func(*Referee)

// WithConfig applies rendering limits and message overrides from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(r *Referee) {
		if cfg == nil {
			return
		}
		r.formatter = &format.Formatter{MaxDepth: cfg.MaxDepth, MaxLength: cfg.MaxLength}
		for k, v := range cfg.Messages {
			r.messages[k] = v
		}
	}
}

// WithFormatter sets the formatter used to render template values.
func WithFormatter(f *format.Formatter) Option {
	return func(r *Referee) {
		if f != nil {
			r.formatter = f
		}
	}
}

// WithMessages overrides templates. Keys are "<op>.<name>" for the default
// failure message and "<op>.<name>.<key>" for keyed ones.
func WithMessages(messages map[string]string) Option {
	return func(r *Referee) {
		for k, v := range messages {
			r.messages[k] = v
		}
	}
}

// WithListener registers a listener for assertion outcomes.
func WithListener(l Listener) Option {
	return func(r *Referee) {
		if l != nil {
			r.listeners = append(r.listeners, l)
		}
	}
}

// New creates an empty Referee.
func New(opts ...Option) *Referee {
	r := &Referee{
		definitions:  make(map[string]Definition),
		expectations: make(map[string]string),
		formatter:    format.Default,
		messages:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers an assertion under name.
func (r *Referee) Add(name string, def Definition) error {
	if err := def.validate(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[name]; exists {
		return fmt.Errorf("assertion %q is already defined", name)
	}
	if def.Expectation != "" {
		if owner, exists := r.expectations[def.Expectation]; exists {
			return fmt.Errorf("expectation %q is already used by %q", def.Expectation, owner)
		}
		r.expectations[def.Expectation] = name
	}
	r.definitions[name] = def
	return nil
}

// Has reports whether an assertion is registered under name.
func (r *Referee) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.definitions[name]
	return ok
}

// Names returns the registered assertion names, sorted.
func (r *Referee) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of assertions run so far.
func (r *Referee) Count() int64 {
	return r.count.Load()
}

// Assert runs the named assertion. It returns nil when the assertion holds and
// an *AssertionError when it does not.
func (r *Referee) Assert(name string, args ...any) error {
	return r.run(OpAssert, name, "", args)
}

// Refute runs the negation of the named assertion.
func (r *Referee) Refute(name string, args ...any) error {
	return r.run(OpRefute, name, "", args)
}

// AssertMsg is Assert with a custom message prefixed to the failure.
func (r *Referee) AssertMsg(name, message string, args ...any) error {
	return r.run(OpAssert, name, message, args)
}

// RefuteMsg is Refute with a custom message prefixed to the failure.
func (r *Referee) RefuteMsg(name, message string, args ...any) error {
	return r.run(OpRefute, name, message, args)
}

func (r *Referee) lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[name]
	return def, ok
}

func (r *Referee) lookupExpectation(alias string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.expectations[alias]
	return name, ok
}

func (r *Referee) run(op, name, message string, args []any) error {
	def, ok := r.lookup(name)
	if !ok {
		return fmt.Errorf("unknown assertion %q", name)
	}
	r.count.Add(1)

	if len(args) < def.Arity {
		plural := "s"
		if def.Arity == 1 {
			plural = ""
		}
		return r.fail(op, name, &AssertionError{
			Operator: op,
			Name:     name,
			Message:  fmt.Sprintf("[%s.%s] Expected to receive at least %d argument%s", op, name, def.Arity, plural),
		})
	}

	check := newCheck(op, name)
	var passed bool
	if op == OpAssert {
		passed = def.Assert(check, args)
	} else {
		passed = def.Refute(check, args)
	}

	if passed {
		for _, l := range r.listeners {
			l.Pass(op, name)
		}
		return nil
	}

	prepared := prepareMessage(message)
	values := map[string]any{"customMessage": prepared}
	if def.Values != nil {
		for k, v := range def.Values(args, prepared) {
			values[k] = v
		}
	} else {
		for i, arg := range args {
			values[fmt.Sprint(i)] = arg
		}
	}
	for k, v := range check.values {
		values[k] = v
	}

	tmpl := r.template(op, name, check.failKey, def)
	return r.fail(op, name, &AssertionError{
		Operator: op,
		Name:     name,
		Message:  r.interpolate(tmpl, values),
	})
}

func (r *Referee) fail(op, name string, err *AssertionError) error {
	for _, l := range r.listeners {
		l.Fail(op, name, err)
	}
	return err
}

// template resolves the failure template: configured overrides first, then
// the definition's keyed messages, then the default for the direction.
func (r *Referee) template(op, name, key string, def Definition) string {
	if key != "" {
		if tmpl, ok := r.messages[op+"."+name+"."+key]; ok {
			return tmpl
		}
		if tmpl, ok := def.Messages[key]; ok {
			return tmpl
		}
	}
	if tmpl, ok := r.messages[op+"."+name]; ok {
		return tmpl
	}
	if op == OpAssert {
		return def.AssertMessage
	}
	return def.RefuteMessage
}

// interpolate replaces ${key} placeholders with rendered values. Unknown
// placeholders are left in place.
func (r *Referee) interpolate(tmpl string, values map[string]any) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(placeholder string) string {
		key := placeholderRe.FindStringSubmatch(placeholder)[1]
		v, ok := values[key]
		if !ok {
			return placeholder
		}
		if s, isString := v.(string); isString && key == "customMessage" {
			return s
		}
		return r.formatter.Format(v)
	})
}

// prepareMessage turns a custom message into a prefix: "msg: ", or "msg " when
// it already ends in punctuation.
func prepareMessage(message string) string {
	if message == "" {
		return ""
	}
	switch message[len(message)-1] {
	case '.', ':', '!', '?':
		return message + " "
	}
	return message + ": "
}
