package migrate

// Result is the outcome of one post's migration: exactly one of Path, Skipped
// or Err is meaningful.
type Result struct {
	PostID  int64
	Path    string // full path written, set only on success
	Skipped bool   // post was not published, nothing produced
	Err     error
}

// Report aggregates a whole run. Results keeps every per-post outcome in
// processing order; the counters are the tally over them.
type Report struct {
	RunID   string
	Results []Result
	Written int
	Failed  int
	Skipped int
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	switch {
	case res.Skipped:
		r.Skipped++
	case res.Err != nil:
		r.Failed++
	default:
		r.Written++
	}
}
