// Package conformance checks concrete documents against inferred types.
//
// It is the oracle used to cross-validate the evaluator: a result produced
// by a real query engine for a dataset that follows a schema must satisfy
// the type the evaluator inferred for the same query and schema.
//
//	c := conformance.NewChecker(schema)
//	if !c.Satisfies(inferred, result) {
//		for _, m := range c.Check(inferred, result) {
//			log.Println(m)
//		}
//	}
//
// Rules:
//   - unknown accepts everything
//   - a union accepts a value any member accepts
//   - literal types accept only their exact value
//   - an object accepts an object value that carries every required
//     attribute with a conforming value; extra keys are allowed
//   - an absent optional attribute is accepted unless RequireOptional is set
//   - references accept the reference stub `{_ref: string, ...}`
package conformance
