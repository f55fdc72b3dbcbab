// Package skillspace composes contributor query vectors and ranks the skill
// space against them.
//
// An expertise query is the sum of the language anchors and the API tokens
// a contributor declares:
//
//	q = anchor("Go") + anchor("PY") + token("numpy") + token("grpc")
//
// A transfer query moves a skill set from one language to another:
//
//	q = anchor(dest) - anchor(source) + token(api)...
//
// Unknown APIs fail fast with *types.MissingTokenError naming the first
// missing API; no partial vector is returned.
package skillspace
