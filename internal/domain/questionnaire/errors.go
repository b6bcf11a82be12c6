package questionnaire

import "errors"

// Sentinel errors returned by Collect and Parse.
var (
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrUnknownOption     = errors.New("unknown option")
	ErrInvalidAnswer     = errors.New("invalid answer")
	ErrCollectionAborted = errors.New("collection aborted")
	ErrInvalidCatalog    = errors.New("invalid catalog")
)
