// Package opt is the transformation core of the zyl optimizer.
//
// It provides the naming-hygiene layer (NameDispenser and Disambiguate) and
// a catalog of independently invocable, semantics-preserving rewrite passes.
// Every pass shares the same contract:
//
//   - the input tree is disambiguated: every declared name is unique across
//     the whole program, and the pass preserves that invariant;
//   - new declarations are named through Context.Names.Fresh;
//   - observable behavior is unchanged: side-effecting operations keep their
//     count and relative order, as defined by the dialect;
//   - one application terminates; passes that need repetition to reach a
//     stable point are re-invoked by the driver, never by themselves;
//   - a failing pass reports either a *PreconditionError (malformed input)
//     or an *ExhaustedError (limit could not be met) and leaves the caller's
//     tree untouched (Apply runs passes on a clone).
//
// The driver owns pass selection, ordering, and fixpoint policy.
package opt
