package fallback

import "errors"

var (
	ErrReadingFixtures  = errors.New("error reading fixtures file")
	ErrDecodingFixtures = errors.New("error decoding fixtures")
	ErrMissingFixtureID = errors.New("fixture document has no id")
)
