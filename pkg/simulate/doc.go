// Package simulate implements deterministic, caller-requested failure
// simulation: the error query parameter, the body-embedded timeout
// control directive, and the fixed-order request preprocessing pipeline
// that runs both before any store access.
package simulate
