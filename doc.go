/*
Package masonry assembles web pages from typed content blocks.

A page is an ordered list of blocks, each carrying a type tag, optional
variant and configuration, and a free-form content payload. The engine
renders every block through a registry of renderer functions with per-block
fault isolation, then composes the fragments into a single document: one
header always first, one footer always last, an optional sidebar making a
two-column layout, and full-width sections placed around the main column.

Beyond static blocks, Masonry drives two interactive block families:

  - Wizards: multi-step flows with required-field validation,
    condition-driven branching, history-based Back, and a terminal results
    screen fed by matching rules or a 0-100 score.
  - Calculators: author-provided arithmetic formulas, sanitized and compiled
    into a safe little AST, with one output slot per formula output.

Conditions use a deliberately small expression language (comparators,
includes, && and || folded in textual order) that fails closed: a malformed
condition is simply false, never an error on the visitor path.

# Usage

	eng, err := masonry.New("./site")
	if err != nil {
		log.Fatal(err)
	}
	res, err := eng.Page(ctx, "/")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Document)

The hexagonal layout keeps the cores decoupled from delivery: pkg/ports
defines the loader, session store and lead sink interfaces, pkg/adapters
holds the file, memory, redis and HTTP implementations, and cmd/masonry
wraps it all in a CLI.
*/
package masonry

// Version is the library version, overridable at build time via ldflags.
var Version = "0.3.0"
