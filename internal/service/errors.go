package service

import "errors"

// Error taxonomy for the synthesis pipeline. Callers test with errors.Is.
var (
	// ErrExpansion means the keyword-expansion call failed or returned content
	// without the expected reasoning delimiter. Recoverable: the query composer
	// degrades to the primary text embedding.
	ErrExpansion = errors.New("keyword expansion failed")

	// ErrRetrieval means the vector index query failed or was invalid.
	// Fatal to the current request.
	ErrRetrieval = errors.New("recipe retrieval failed")

	// ErrSynthesis means a single generation round produced unusable output
	// (malformed JSON or schema violation). Recoverable within the validation
	// loop's retry budget.
	ErrSynthesis = errors.New("recipe synthesis failed")

	// ErrReview means a single review round failed. Consumes a retry attempt,
	// same as a non-approval.
	ErrReview = errors.New("recipe review failed")

	// ErrSynthesisExhausted means no candidate was ever produced within the
	// retry budget. The one hard failure surfaced for the generation stage.
	ErrSynthesisExhausted = errors.New("no recipe candidate produced within retry budget")

	// ErrImageSelection means every image generation/scoring round failed.
	// Fatal to the image stage only; the recipe result stands.
	ErrImageSelection = errors.New("image selection failed")
)
