package model

// Decision is the parsed form of one advisor reply. It is one of Simulate,
// Answer, Malformed or Unknown.
type Decision interface {
	isDecision()
}

// Simulate asks for one estimator run. Fields hold the raw decoded JSON values
// and are coerced by physics.NewRequest.
type Simulate struct {
	T             any
	D             any
	MaterialProps any
}

type Answer struct {
	Text string
}

// Malformed is a reply that is not a JSON object.
type Malformed struct {
	Err error
}

// Unknown is a JSON object whose action tag is missing or unsupported.
type Unknown struct {
	Action string
	Raw    string
}

func (Simulate) isDecision()  {}
func (Answer) isDecision()    {}
func (Malformed) isDecision() {}
func (Unknown) isDecision()   {}

const (
	ActionSimulate = "simulate"
	ActionAnswer   = "answer"
)
