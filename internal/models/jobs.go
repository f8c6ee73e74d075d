package models

// JobState is the progress of the active job, owned by the job controller.
type JobState struct {
	ID         string `json:"id"`
	Active     bool   `json:"active"`
	Position   int    `json:"position"`
	Total      int    `json:"total"`
	Successful int    `json:"successful"`
	Failed     int    `json:"failed"`
	Cancelled  bool   `json:"cancelled"`
	Status     string `json:"status"`
}
