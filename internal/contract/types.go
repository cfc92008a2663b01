package contract

// ABIEntry is one ABI entry (function, event, etc.).
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs,omitempty"`
	StateMutability string     `json:"stateMutability,omitempty"`
	Anonymous       bool       `json:"anonymous,omitempty"`
}

// ABIParam is a parameter in an ABI entry. Indexed only applies to event inputs.
type ABIParam struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Indexed bool   `json:"indexed,omitempty"`
}

// IsReadFunction returns true if the function is read-only (view/pure).
func (e ABIEntry) IsReadFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "view" || e.StateMutability == "pure")
}

// IsWriteFunction returns true if the function modifies state.
func (e ABIEntry) IsWriteFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "nonpayable" || e.StateMutability == "payable")
}

// IsEvent returns true for event entries.
func (e ABIEntry) IsEvent() bool { return e.Type == "event" }

func param(name, typ string) ABIParam   { return ABIParam{Name: name, Type: typ} }
func indexed(name, typ string) ABIParam { return ABIParam{Name: name, Type: typ, Indexed: true} }

func view(name string, inputs []ABIParam, outputs ...ABIParam) ABIEntry {
	if inputs == nil {
		inputs = []ABIParam{}
	}
	return ABIEntry{Name: name, Type: "function", Inputs: inputs, Outputs: outputs, StateMutability: "view"}
}

func nonpayable(name string, inputs []ABIParam, outputs ...ABIParam) ABIEntry {
	if inputs == nil {
		inputs = []ABIParam{}
	}
	return ABIEntry{Name: name, Type: "function", Inputs: inputs, Outputs: outputs, StateMutability: "nonpayable"}
}

func event(name string, inputs ...ABIParam) ABIEntry {
	return ABIEntry{Name: name, Type: "event", Inputs: inputs}
}
