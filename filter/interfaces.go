package filter

import "github.com/s0up4200/marquee/catalog"

// Filter defines the basic interface for item filters
type Filter interface {
	// Match checks if an item matches the filter criteria
	Match(item catalog.Item) (bool, error)

	// Expression returns the original filter expression
	Expression() string

	// NeedsDetails reports whether the expression reads a field that only
	// a detail fetch fills
	NeedsDetails() bool
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (Filter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Size returns the number of cached filters
	Size() int
}
