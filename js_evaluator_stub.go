//go:build !js_eval

package renderopts

// NewJSEvaluator needs the js_eval build tag; without it there is no
// JavaScript runtime and the result is nil, so Resolved falls back to expr.
func NewJSEvaluator(...JSEvaluatorOption) Evaluator {
	return nil
}

func jsEvaluatorAvailable() bool { return false }

func isJSEvaluator(Evaluator) bool { return false }
