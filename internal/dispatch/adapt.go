// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dispatch

// arg converts a dispatched argument to T. A nil argument (only possible for
// parameters declared as Any) yields the zero value.
func arg[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Call1 adapts a one-argument function with no result.
func Call1[A any](f func(A)) Func {
	return func(args ...any) any {
		f(arg[A](args[0]))
		return nil
	}
}

// Call2 adapts a two-argument function with no result.
func Call2[A, B any](f func(A, B)) Func {
	return func(args ...any) any {
		f(arg[A](args[0]), arg[B](args[1]))
		return nil
	}
}

// Call3 adapts a three-argument function with no result.
func Call3[A, B, C any](f func(A, B, C)) Func {
	return func(args ...any) any {
		f(arg[A](args[0]), arg[B](args[1]), arg[C](args[2]))
		return nil
	}
}

// Eval1 adapts a one-argument function with a result.
func Eval1[A, R any](f func(A) R) Func {
	return func(args ...any) any {
		return f(arg[A](args[0]))
	}
}

// Eval2 adapts a two-argument function with a result.
func Eval2[A, B, R any](f func(A, B) R) Func {
	return func(args ...any) any {
		return f(arg[A](args[0]), arg[B](args[1]))
	}
}
