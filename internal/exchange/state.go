package exchange

// State is a step of a round.
type State string

// Round states. PASS and FAIL are terminal.
const (
	StateInit       State = "INIT"
	StateGenerate   State = "GENERATE"
	StateReceive    State = "RECEIVE"
	StateSelfVerify State = "SELF_VERIFY"
	StatePublish    State = "PUBLISH"
	StateTranslate  State = "TRANSLATE"
	StateVerify     State = "VERIFY"
	StatePass       State = "PASS"
	StateFail       State = "FAIL"
)

// Terminal reports whether s ends a round.
func (s State) Terminal() bool {
	return s == StatePass || s == StateFail
}

// Role is the part a side plays in a round.
type Role string

// Roles.
const (
	Producer Role = "producer"
	Consumer Role = "consumer"
)

// next lists the legal transitions of each role.
var next = map[Role]map[State][]State{
	Producer: {
		StateInit:       {StateGenerate},
		StateGenerate:   {StateSelfVerify},
		StateSelfVerify: {StatePublish},
		StatePublish:    {StatePass},
	},
	Consumer: {
		StateInit:      {StateReceive},
		StateReceive:   {StateTranslate},
		StateTranslate: {StateVerify},
		StateVerify:    {StatePass},
	},
}

// allowed reports whether a round in role r may move from one state to
// another. Any non-terminal state may fail.
func allowed(r Role, from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == StateFail {
		return true
	}
	for _, s := range next[r][from] {
		if s == to {
			return true
		}
	}
	return false
}
