// Package filter compiles expr-lang expressions into predicates over TMDB
// movie records, e.g.
//
//	Year >= 1990 and Rating > 7.5 and not Adult
//	Language == "en" and lower(Title) contains "star"
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/postarr/tmdb"
)

// Filter is a compiled movie predicate. It is safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles expression into a Filter. Unknown identifiers and
// non-boolean expressions are rejected here rather than at evaluation time.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnvironment(&tmdb.Movie{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Match evaluates the filter against movie. On error the movie does not match.
func (f *Filter) Match(movie *tmdb.Movie) (bool, error) {
	if movie == nil {
		return false, &EvaluationError{Expression: f.expression, Reason: "no movie record"}
	}

	result, err := expr.Run(f.program, newEnvironment(movie))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MovieTitle: movie.Title,
			Reason:     "failed to evaluate expression",
			Err:        err,
		}
	}

	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool), nil
}

// String returns the original expression
func (f *Filter) String() string {
	return f.expression
}
