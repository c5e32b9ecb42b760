// Package form holds the state of one risk assessment form: the raw field
// values, the latest validation errors, the most recent prediction and any
// pending failure notice. State transitions go through Reduce; Session wraps
// a State for concurrent callers and drives submission; Store keys sessions
// for multi-user front-ends.
package form
