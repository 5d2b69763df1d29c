package metrics

import (
	"encoding/json"
	"net/http"
)

type report struct {
	Snapshot
	Resources ResourceUsage `json:"resources"`
}

// Handler serves the current snapshot plus resource usage as JSON.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := report{
			Snapshot:  c.metrics.Snapshot(),
			Resources: Resources(),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(body); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}
