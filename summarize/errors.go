package summarize

import apperrors "github.com/kbukum/jumptube/errors"

var errNoModel = apperrors.ServiceUnavailable("summarizer")
