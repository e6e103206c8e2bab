// Package errors provides the centralized, structured error reporting
// used across every compiler phase (loader, scope, inference,
// monomorphization). Every location-bearing failure is built from one
// of the codes below, wrapped in a *Report, so the CLI boundary can
// print a single consistent diagnostic line regardless of which phase
// produced it (spec §6, §7).
package errors

// Error code constants, namespaced by phase.
const (
	// ---- Loader (LDR###) / module system (MOD###) -------------------------

	// LDR001 indicates a module file could not be found in any search path.
	LDR001 = "LDR001"

	// LDR002 indicates a circular import was detected while walking the
	// module graph.
	LDR002 = "LDR002"

	// MOD001 indicates no stdlib path is configured and the module was not
	// found in the working directory.
	MOD001 = "MOD001"

	// MOD002 indicates the same name is exported by two distinct modules.
	MOD002 = "MOD002"

	// ---- Parser (PAR###) ---------------------------------------------------

	// PAR001 indicates malformed source that the parser could not build an
	// AST node for.
	PAR001 = "PAR001"

	// ---- Scope / resolver (SCP###) -----------------------------------------

	// SCP001 indicates a reference to an undeclared, unexported name.
	SCP001 = "SCP001"

	// ---- Type inference (TYP###) -------------------------------------------

	// TYP001 indicates two types could not be unified.
	TYP001 = "TYP001"

	// TYP002 indicates a function call site and its callee disagree on
	// argument count.
	TYP002 = "TYP002"

	// TYP003 indicates two struct types have a different member count.
	TYP003 = "TYP003"

	// TYP004 indicates two sum types disagree on tag names or count.
	TYP004 = "TYP004"

	// TYP005 indicates a type-constructor application names a constructor
	// that has no corresponding `cons` declaration in scope.
	TYP005 = "TYP005"

	// ---- Monomorphization (MONO###) ----------------------------------------

	// MONO001 indicates the monomorphization work-queue grew past its
	// bound without draining, which signals an instantiation cycle the
	// type system should have rejected (spec §8, Open Question in §9).
	MONO001 = "MONO001"

	// ---- Internal invariants (USG###) --------------------------------------

	// USG001 indicates a state the compiler should never reach; its
	// presence signals a bug in the compiler itself, not the input
	// program.
	USG001 = "USG001"

	// USG002 indicates a CLI usage error (bad working directory,
	// unreadable manifest) rather than either a compile-time failure or
	// an internal invariant violation; the CLI maps it to exit code 2
	// (spec §6).
	USG002 = "USG002"
)
