package process

import "ytxtract/internal/contracts"

// StatusOnly forwards status texts and drops per-download progress, so the sequence ratio owns
// the progress bar.
func StatusOnly(r contracts.Reporter) contracts.Reporter {
	return statusOnly{r}
}

type statusOnly struct {
	r contracts.Reporter
}

func (s statusOnly) Status(text string) { s.r.Status(text) }
func (statusOnly) Progress(float64)     {}
