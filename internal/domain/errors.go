package domain

import "errors"

// ErrSourceUnavailable marks a network or HTTP failure against the
// content source.
var ErrSourceUnavailable = errors.New("content source unavailable")

// ErrLayoutChanged marks a structural extraction failure: the page was
// retrieved but an expected element is missing. A silently empty article
// is worse than a visible failure, so extraction never substitutes
// placeholder content.
var ErrLayoutChanged = errors.New("content source layout changed")
