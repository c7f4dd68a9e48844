// Package astjson converts between the AST and a JSON interchange format,
// so that any external parser can feed the checker.
//
// Expressions and patterns are objects discriminated by a "tag" field;
// type expressions are discriminated by "tctor":
//
//	{"tag": "binary", "op": "+", "x": {"tag": "ident", "name": "a"}, "y": {"tag": "literal", "value": 1}}
//	{"tctor": "array", "items": {"tctor": "builtin", "name": "string"}}
//
// Literal values are written as plain JSON scalars. A missing "value" field
// means undefined, while an explicit null means null. Values JSON cannot
// express use a wrapper object: {"bigint": "123"}, {"number": "NaN"},
// {"number": "Infinity"}, {"undefined": true}.
//
// A module is either a JSON array of items or an object with an "items"
// array.
package astjson
