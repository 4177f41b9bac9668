package filter

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/marquee/catalog"
)

const dateLayout = "2006-01-02"

// exprFilter implements Filter using the expr language
type exprFilter struct {
	expression   string
	program      *vm.Program
	now          func() time.Time
	needsDetails bool
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithClock replaces time.Now for date helpers
func WithClock(now func() time.Time) ExprCompilerOption {
	return func(c *exprCompiler) {
		c.now = now
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	cache *lruCache
	now   func() time.Time
}

// Compile compiles an expression into an executable filter. Unknown names
// are rejected at compile time.
func (c *exprCompiler) Compile(expression string) (Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	names := identifiers{}
	program, err := expr.Compile(expression,
		expr.Env(newEnvironment(catalog.Item{}, c.now)),
		expr.AsBool(),
		expr.Patch(names),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression:   expression,
		program:      program,
		now:          c.now,
		needsDetails: slices.ContainsFunc(DetailFields, names.has),
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Match evaluates the filter against an item
func (f *exprFilter) Match(item catalog.Item) (bool, error) {
	result, err := expr.Run(f.program, newEnvironment(item, f.now))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			ItemID:     item.ID,
			ItemTitle:  item.Title,
			Err:        err,
		}
	}

	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// NeedsDetails reports whether the expression reads a detail-only field
func (f *exprFilter) NeedsDetails() bool {
	return f.needsDetails
}

// identifiers collects every name an expression references
type identifiers map[string]struct{}

func (ids identifiers) Visit(node *ast.Node) {
	if n, ok := (*node).(*ast.IdentifierNode); ok {
		ids[n.Value] = struct{}{}
	}
}

func (ids identifiers) has(name string) bool {
	_, ok := ids[name]
	return ok
}

// Fields lists the item properties available to expressions
var Fields = []string{
	"ID", "Title", "Overview", "Popularity", "VoteAverage",
	"ReleaseDate", "Year", "HasPoster", "HasBackdrop", "Runtime", "Genres",
}

// DetailFields lists the fields list pages leave empty. Items must be loaded
// individually before a filter reading them can match.
var DetailFields = []string{"Runtime"}

// Helpers lists the helper functions available to expressions
var Helpers = []string{
	"titleContains", "hasGenre", "releasedAfter", "releasedBefore", "daysSinceRelease",
	"contains", "startsWith", "endsWith", "lower", "upper",
}

// newEnvironment exposes one item and the helpers bound to it
func newEnvironment(item catalog.Item, now func() time.Time) map[string]any {
	env := make(map[string]any, len(Fields)+len(Helpers))
	addHelperFunctions(env)

	genres := make([]string, 0, len(item.Genres))
	for _, g := range item.Genres {
		genres = append(genres, g.Name)
	}
	released, hasRelease := parseDate(item.ReleaseDate)

	env["ID"] = item.ID
	env["Title"] = item.Title
	env["Overview"] = item.Overview
	env["Popularity"] = item.Popularity
	env["VoteAverage"] = item.VoteAverage
	env["ReleaseDate"] = item.ReleaseDate
	env["Year"] = releaseYear(item.ReleaseDate)
	env["HasPoster"] = item.PosterPath != ""
	env["HasBackdrop"] = item.BackdropPath != ""
	env["Runtime"] = item.RuntimeMinutes
	env["Genres"] = genres

	title := strings.ToLower(item.Title)
	env["titleContains"] = func(s string) bool {
		return strings.Contains(title, strings.ToLower(s))
	}
	env["hasGenre"] = func(name string) bool {
		return slices.ContainsFunc(genres, func(g string) bool { return strings.EqualFold(g, name) })
	}
	env["releasedAfter"] = func(date string) bool {
		t, ok := parseDate(date)
		return hasRelease && ok && released.After(t)
	}
	env["releasedBefore"] = func(date string) bool {
		t, ok := parseDate(date)
		return hasRelease && ok && released.Before(t)
	}
	env["daysSinceRelease"] = func() int {
		if !hasRelease {
			return -1
		}
		return int(now().Sub(released).Hours() / 24)
	}

	return env
}

// addHelperFunctions adds the item-independent string helpers
func addHelperFunctions(env map[string]any) {
	maps.Copy(env, map[string]any{
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	})
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
