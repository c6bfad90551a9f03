package search

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// DefaultScriptTimeout bounds one run of a category script.
const DefaultScriptTimeout = 100 * time.Millisecond

// ScriptClassifier runs a user-supplied JS function
//
//	function classify(name, description, keywords) { ... }
//
// ahead of a fallback classifier. An empty, null or unknown category from the
// script, a script error, or a run interrupted by its timeout or by context
// cancellation defers to the fallback.
type ScriptClassifier struct {
	mu       sync.Mutex
	vm       *goja.Runtime
	classify goja.Callable
	fallback Classifier
	known    map[string]bool
	logger   *zap.Logger
	timeout  time.Duration
}

// ScriptOption configures a ScriptClassifier.
type ScriptOption func(*ScriptClassifier)

// WithScriptTimeout bounds each script run, including the initial evaluation.
func WithScriptTimeout(d time.Duration) ScriptOption {
	return func(c *ScriptClassifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewScriptClassifier compiles src. When categories is non-empty, script
// results outside it are ignored.
func NewScriptClassifier(src string, fallback Classifier, categories []string, logger *zap.Logger, opts ...ScriptOption) (*ScriptClassifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallback == nil {
		fallback = NewRuleClassifier()
	}

	vm := goja.New()
	c := &ScriptClassifier{
		vm:       vm,
		fallback: fallback,
		logger:   logger,
		timeout:  DefaultScriptTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(categories) > 0 {
		c.known = make(map[string]bool, len(categories))
		for _, id := range categories {
			c.known[id] = true
		}
	}

	vm.Set("log", func(msg interface{}) {
		logger.Debug("classify script", zap.Any("msg", msg))
	})

	var err error
	c.bounded(context.Background(), func() { _, err = vm.RunString(src) })
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate category script: %w", err)
	}
	fn, ok := goja.AssertFunction(vm.Get("classify"))
	if !ok {
		return nil, fmt.Errorf("category script must define a classify function")
	}
	c.classify = fn
	return c, nil
}

// LoadScriptClassifier reads and compiles a category script file.
func LoadScriptClassifier(path string, fallback Classifier, categories []string, logger *zap.Logger, opts ...ScriptOption) (*ScriptClassifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category script: %w", err)
	}
	return NewScriptClassifier(string(data), fallback, categories, logger, opts...)
}

// bounded runs fn on the VM, interrupting it after the timeout or when ctx
// ends. No interrupt is left pending once it returns.
func (c *ScriptClassifier) bounded(ctx context.Context, fn func()) {
	var once sync.Once
	interrupt := func(reason string) {
		once.Do(func() { c.vm.Interrupt(reason) })
	}
	timer := time.AfterFunc(c.timeout, func() { interrupt("timeout") })
	stop := context.AfterFunc(ctx, func() { interrupt("cancelled") })

	fn()

	timer.Stop()
	stop()
	// Waits for an interrupt already in progress, and blocks any later one.
	once.Do(func() {})
	c.vm.ClearInterrupt()
}

func (c *ScriptClassifier) Classify(name, description string, keywords []string) string {
	return c.ClassifyContext(context.Background(), name, description, keywords)
}

// ClassifyContext is Classify with the script run interrupted when ctx ends.
func (c *ScriptClassifier) ClassifyContext(ctx context.Context, name, description string, keywords []string) string {
	kw := make([]interface{}, len(keywords))
	for i, k := range keywords {
		kw[i] = k
	}

	c.mu.Lock()
	var (
		v   goja.Value
		err error
	)
	c.bounded(ctx, func() {
		v, err = c.classify(goja.Undefined(), c.vm.ToValue(name), c.vm.ToValue(description), c.vm.ToValue(kw))
	})
	var category string
	if err == nil && v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
		category = v.String()
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("category script failed", zap.String("package", name), zap.Error(err))
	}
	if category == "" || (c.known != nil && !c.known[category]) {
		return c.fallback.Classify(name, description, keywords)
	}
	return category
}
