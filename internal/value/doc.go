// Package value provides the runtime document values that inferred types are
// checked against.
//
// Values are what a query would actually return when run against real
// documents: JSON null, booleans, numbers, strings, arrays and objects. This
// package never evaluates queries; it only models, decodes and serializes
// values so the conformance oracle and the test harness can compare them with
// inferred types.
//
// Key design constraints:
//   - Value is a sealed interface; only the six JSON kinds implement it
//   - Numbers are float64, matching the JSON data model of the query language
//   - MarshalExact (canonical ordering, byte-exact strings) is the ONLY
//     serialization used for content hashing; MarshalCanonical adds NFC
//   - Hashes are domain separated so different record kinds never collide
package value
