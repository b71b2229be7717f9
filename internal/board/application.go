package board

import (
	"fmt"
	"slices"
	"time"
)

// Application board columns.
const (
	StatusInterested   Status = "interested"
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusClosed       Status = "closed"
)

const PriorityDream Priority = "dream"

// ApplicationPriorities lists the priorities accepted on an application board.
var ApplicationPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityDream}

// Result records how a closed application ended.
type Result string

const (
	ResultNone      Result = ""
	ResultOffer     Result = "offer"
	ResultRejected  Result = "rejected"
	ResultWithdrawn Result = "withdrawn"
)

func (r Result) Valid() bool {
	switch r {
	case ResultOffer, ResultRejected, ResultWithdrawn:
		return true
	}
	return false
}

// Application is the payload of a job application card. Result is only
// meaningful once the card sits in the closed column.
type Application struct {
	Company   string     `json:"company"`
	Position  string     `json:"position"`
	Result    Result     `json:"result,omitempty"`
	Salary    string     `json:"salary,omitempty"`
	Location  string     `json:"location,omitempty"`
	AppliedOn *time.Time `json:"applied_on,omitempty"`
	Contacts  []string   `json:"contacts,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
}

func (a Application) Clone() Application {
	if a.AppliedOn != nil {
		d := *a.AppliedOn
		a.AppliedOn = &d
	}
	a.Contacts = slices.Clone(a.Contacts)
	a.Tags = slices.Clone(a.Tags)
	return a
}

func ApplicationColumns() []Column {
	return []Column{
		{Status: StatusInterested, Title: "Interested"},
		{Status: StatusApplied, Title: "Applied"},
		{Status: StatusInterviewing, Title: "Interviewing"},
		{Status: StatusClosed, Title: "Closed"},
	}
}

// NewApplicationBoard creates an engine with the application board columns.
func NewApplicationBoard(opts ...Option) (*Engine[Application], error) {
	return New[Application](ApplicationColumns(), append([]Option{WithTerminal(StatusClosed)}, opts...)...)
}

// Validate rejects a payload carrying a result outside the known set.
// An unset result is allowed.
func (a Application) Validate() error {
	if a.Result != ResultNone && !a.Result.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidResult, a.Result)
	}
	return nil
}

// UpdateResult records the outcome of an application. The card may be in
// any column; gating the control to closed cards is up to the client.
func UpdateResult(e *Engine[Application], id string, result Result) (Card[Application], error) {
	if !result.Valid() {
		return Card[Application]{}, fmt.Errorf("%w: %q", ErrInvalidResult, result)
	}
	return e.Edit(id, func(c *Card[Application]) {
		c.Details.Result = result
	})
}

// ApplicationSummary is the statistics block of an application board.
type ApplicationSummary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Closed   int `json:"closed"`
	Offers   int `json:"offers"`
	Rejected int `json:"rejected"`
	Overdue  int `json:"overdue"`
}

func ApplicationStats(e *Engine[Application]) ApplicationSummary {
	sum := ApplicationSummary{
		Total:   e.Count(),
		Active:  e.CountWhere(StatusIn(StatusApplied, StatusInterviewing)),
		Closed:  e.CountWhere(StatusIn(StatusClosed)),
		Overdue: e.Overdue(),
	}
	for _, c := range e.Cards() {
		if c.Status != StatusClosed {
			continue
		}
		switch c.Details.Result {
		case ResultOffer:
			sum.Offers++
		case ResultRejected:
			sum.Rejected++
		}
	}
	return sum
}
