package challenge

import "errors"

var (
	errUnexpectedElementShape = errors.New("challenge: array element is not an object")
	errTruncatedGeneration    = errors.New("challenge: generation stream truncated before a complete document")
	errIncompleteBatch        = errors.New("challenge: parsed batch does not hold exactly three valid challenges")
)
