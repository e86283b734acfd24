/*
Package server implements msgpack IPC for the launcher.

A front end that draws its own window drives the interpreter through this
package instead of the TUI. Messages are msgpack maps streamed back to back
over stdin and stdout, with no framing between them. Every request carries an
id that is echoed in its response.

# IPC

On start the server sends a ready message with a session id:

	{"id": "", "status": "ready", "session": "6f1c..."}

The client then sends the whole search text on every keystroke:

	{"id": "req_001", "op": "search", "q": "sudo vi"}

and receives the interpreter state:

	{"id": "req_001", "q": "sudo vi", "i": "", "m": "sudo", "lm": "fuzzy",
	 "s": [{"n": "vim", "r": 1}, {"n": "vimdiff", "r": 2}], "c": 2, "sel": -1, "t": 81}

"q" is the text for the search box and "i" the highlighted candidate. After
autocomplete, up and down, "pv" is the full command the text stands for, with
every mode prefix expanded (the ssh host fragment for "!").
"s" is capped at the request limit ("l"), or the configured limit.

# Operations

	search        update the search with "q"
	autocomplete  fill in the common start of the prefix matches
	up, down      move the selection forward or back, wrapping
	resolve       return the resolved command without running it
	launch        resolve, record and run; "pw" is the sudo password
	reset         clear the search
	health        liveness check

Failures are reported as {"id": ..., "e": "message", "c": code}.
*/
package server

// Request is any client message; fields are used per op.
type Request struct {
	ID       string `msgpack:"id"`
	Op       string `msgpack:"op"`
	Text     string `msgpack:"q,omitempty"`
	Limit    int    `msgpack:"l,omitempty"`
	Password string `msgpack:"pw,omitempty"`
}

// Candidate is one ranked list entry.
type Candidate struct {
	Name string `msgpack:"n"`
	Rank uint16 `msgpack:"r"`
}

// StateResponse reports the interpreter after search, autocomplete, up, down and reset.
type StateResponse struct {
	ID         string      `msgpack:"id"`
	Text       string      `msgpack:"q"`
	Preview    string      `msgpack:"pv,omitempty"`
	Item       string      `msgpack:"i"`
	Mode       string      `msgpack:"m"`
	ListMode   string      `msgpack:"lm"`
	Candidates []Candidate `msgpack:"s"`
	Count      int         `msgpack:"c"`
	Selected   int         `msgpack:"sel"` // -1 for none
	TimeTaken  int64       `msgpack:"t"`   // microseconds
}

// ResolveResponse is the resolved command of the current search.
type ResolveResponse struct {
	ID     string `msgpack:"id"`
	Line   string `msgpack:"cmd"`
	Base   string `msgpack:"base,omitempty"`
	Kind   string `msgpack:"kind"`
	Target string `msgpack:"target,omitempty"`
}

// StatusResponse acknowledges ready, health and launch.
type StatusResponse struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	Session string `msgpack:"session,omitempty"`
	Error   string `msgpack:"error,omitempty"` // set when a launch ran but its usage could not be saved
}

// ErrorResponse holds basic error information for a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
