// Package depends parses and evaluates the small boolean expressions that
// drive field visibility, mandatory and read-only rules.
//
// Expressions originate from a possibly untrusted schema source, so the
// grammar is deliberately restricted: field references, equality and ordering
// comparisons, membership over literal lists, boolean and/or, and parentheses.
// There are no function calls and no access beyond the supplied value map.
package depends
