// Package invariant provides contract assertions for the recognizer.
//
// Use Precondition/Postcondition to express function contracts and Invariant
// for internal consistency checks (stack machine balance, parser progress,
// frozen trees).
//
// All functions panic with a *Violation on failure. A violation is a
// programming error, not a user error: the recognition driver recovers it at
// the attempt boundary and reports it as a location-less diagnostic.
package invariant

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
)

// Violation is the panic value raised by every failed check.
type Violation struct {
	Kind     string // PRECONDITION, POSTCONDITION or INVARIANT
	Message  string
	Location string // file:line of the failing check, if known
}

func (v *Violation) Error() string {
	if v.Location == "" {
		return fmt.Sprintf("%s VIOLATION: %s", v.Kind, v.Message)
	}
	return fmt.Sprintf("%s VIOLATION: %s\n  at %s", v.Kind, v.Message, v.Location)
}

// Precondition checks an input contract at function entry.
//
// Example:
//
//	func (b *Balance) Exit(op BalanceOperator) {
//	    invariant.Precondition(len(b.stack) > 0, "balance exit %s on empty stack", op)
//	    // ...
//	}
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks an internal invariant during function execution.
//
// Example:
//
//	prev := p.pos
//	p.statement()
//	invariant.Invariant(p.pos > prev || p.halted(), "parser stuck at token %d", p.pos)
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil, including typed nils such as (*T)(nil).
func NotNil(value interface{}, name string) {
	if value == nil || isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value interface{}) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// ExpectNoError panics if err is not nil.
// Use it for operations that cannot fail on well-formed internal input.
func ExpectNoError(err error, msg string) {
	if err != nil {
		fail("POSTCONDITION", "%s must not fail: %v", msg, err)
	}
}

// Unreachable marks a branch the caller has proven impossible.
func Unreachable(format string, args ...interface{}) {
	fail("INVARIANT", "unreachable: "+format, args...)
}

// AsViolation reports whether a recovered panic value is a contract violation.
func AsViolation(r interface{}) (*Violation, bool) {
	err, ok := r.(error)
	if !ok {
		return nil, false
	}
	var v *Violation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// fail panics with a *Violation carrying the caller's location.
func fail(kind, format string, args ...interface{}) {
	v := &Violation{Kind: kind, Message: fmt.Sprintf(format, args...)}

	// Skip runtime.Callers, fail and the exported wrapper.
	pc := make([]uintptr, 1)
	if n := runtime.Callers(3, pc); n > 0 {
		frame, _ := runtime.CallersFrames(pc[:n]).Next()
		v.Location = fmt.Sprintf("%s:%d", frame.File, frame.Line)
	}

	panic(v)
}
