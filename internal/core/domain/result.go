package domain

import "time"

// ReasonEmptyContent is the failure reason for items with no usable content.
const ReasonEmptyContent = "empty content"

// Outcome is the result of transforming one item: either Success carrying the
// generated text or Failure carrying a reason.
type Outcome struct {
	ok     bool
	text   string
	reason string
}

// Success returns a successful outcome with the generated text.
func Success(text string) Outcome {
	return Outcome{ok: true, text: text}
}

// Failure returns a failed outcome with the given reason.
func Failure(reason string) Outcome {
	return Outcome{reason: reason}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool { return o.ok }

// Text returns the generated text. Empty for failures.
func (o Outcome) Text() string { return o.text }

// Reason returns the failure reason. Empty for successes.
func (o Outcome) Reason() string { return o.reason }

// String returns a short description for logs.
func (o Outcome) String() string {
	if o.ok {
		return "success"
	}
	return "failure: " + o.reason
}

// Delivery is the result of a best-effort side effect such as posting a
// notification or committing the processed flag.
type Delivery struct {
	delivered bool
	reason    string
}

// Delivered returns a successful delivery.
func Delivered() Delivery {
	return Delivery{delivered: true}
}

// NotDelivered returns a failed delivery with the given reason.
func NotDelivered(reason string) Delivery {
	return Delivery{reason: reason}
}

// OK reports whether the side effect happened.
func (d Delivery) OK() bool { return d.delivered }

// Reason returns why the side effect did not happen.
func (d Delivery) Reason() string { return d.reason }

// ProcessingResult records what happened to one item during a run.
type ProcessingResult struct {
	Item      Item
	Outcome   Outcome
	Notified  bool
	Committed bool
}

// RunReport aggregates the results of one pipeline run.
type RunReport struct {
	// RunID identifies the run in logs.
	RunID string

	// Results holds one entry per processed item, in fetch order.
	Results []ProcessingResult

	// Candidates lists the fetched items. Populated for every run,
	// it is the only output of a dry run.
	Candidates []Item

	// DryRun is true when no downstream calls were made.
	DryRun bool

	StartedAt  time.Time
	FinishedAt time.Time
}

// Total returns the number of processed items.
func (r *RunReport) Total() int {
	return len(r.Results)
}

// Succeeded returns the number of items with a Success outcome.
func (r *RunReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of items with a Failure outcome.
func (r *RunReport) Failed() int {
	return r.Total() - r.Succeeded()
}

// AllSucceeded reports whether no item failed. An empty run counts as success.
func (r *RunReport) AllSucceeded() bool {
	return r.Failed() == 0
}

// Duration returns how long the run took.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
