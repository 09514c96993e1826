// Package js embeds a JavaScript runtime that can script the document
// tree and its delegated event bindings. It uses the goja JavaScript
// engine (pure Go ES5.1+ implementation).
package js

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"
)

// Runtime wraps a goja JavaScript runtime with script execution,
// console output and error collection.
type Runtime struct {
	vm      *goja.Runtime
	console *goja.Object

	mu sync.Mutex // serializes script execution

	errMu   sync.Mutex // guards errors and the error callback
	errors  []error
	onError func(error)
}

// NewRuntime creates a new JavaScript runtime.
func NewRuntime() *Runtime {
	r := &Runtime{
		vm:     goja.New(),
		errors: make([]error, 0),
	}
	r.setupConsole()
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// SetOnError sets a callback invoked for every recorded error,
// including errors raised by event handler callbacks.
func (r *Runtime) SetOnError(handler func(error)) {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	r.onError = handler
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Recover from panics in the goja parser/runtime
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.reportError(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.reportError(err)
	}
	return result, err
}

// ExecuteScript runs JavaScript code with a named source for better
// error messages. Scripts are compiled in non-strict (sloppy) mode;
// scripts that need strict mode should include a "use strict" directive.
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
			r.reportError(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		r.reportError(err)
		return err
	}

	_, err = r.vm.RunProgram(program)
	if err != nil {
		r.reportError(err)
	}
	return err
}

// Errors returns all errors that occurred during execution.
func (r *Runtime) Errors() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	r.errors = r.errors[:0]
}

// reportError records an error and notifies the error callback.
func (r *Runtime) reportError(err error) {
	r.errMu.Lock()
	r.errors = append(r.errors, err)
	handler := r.onError
	r.errMu.Unlock()
	if handler != nil {
		handler(err)
	}
}

// setupConsole creates the console object with log, warn, error, etc.
func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()

	// console.log
	console.Set("log", func(call goja.FunctionCall) goja.Value {
		args := formatArgs(call.Arguments)
		fmt.Println(args)
		return goja.Undefined()
	})

	// console.warn
	console.Set("warn", func(call goja.FunctionCall) goja.Value {
		args := formatArgs(call.Arguments)
		fmt.Println("[WARN]", args)
		return goja.Undefined()
	})

	// console.error
	console.Set("error", func(call goja.FunctionCall) goja.Value {
		args := formatArgs(call.Arguments)
		fmt.Println("[ERROR]", args)
		return goja.Undefined()
	})

	// console.info
	console.Set("info", func(call goja.FunctionCall) goja.Value {
		args := formatArgs(call.Arguments)
		fmt.Println("[INFO]", args)
		return goja.Undefined()
	})

	// console.debug
	console.Set("debug", func(call goja.FunctionCall) goja.Value {
		args := formatArgs(call.Arguments)
		fmt.Println("[DEBUG]", args)
		return goja.Undefined()
	})

	// console.assert
	console.Set("assert", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || !call.Arguments[0].ToBoolean() {
			args := "Assertion failed"
			if len(call.Arguments) > 1 {
				args = formatArgs(call.Arguments[1:])
			}
			fmt.Println("[ASSERT]", args)
		}
		return goja.Undefined()
	})

	r.console = console
	r.vm.Set("console", console)
}

// formatArgs formats function call arguments for console output.
func formatArgs(args []goja.Value) string {
	if len(args) == 0 {
		return ""
	}

	result := ""
	for i, arg := range args {
		if i > 0 {
			result += " "
		}
		result += formatValue(arg)
	}
	return result
}

// formatValue formats a single value for output.
func formatValue(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	return v.String()
}
