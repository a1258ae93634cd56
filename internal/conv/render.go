package conv

// Button is one inline keyboard cell. Action routes back into event
// dispatch as a callback key with optional Data payload; URL buttons
// open externally instead.
type Button struct {
	Label  string
	Action string
	Data   string
	URL    string
}

// Render is a single abstract instruction for the transport boundary.
// Text/Photo produce an outgoing message; Toast produces a short
// callback acknowledgement (popup when Alert is set).
type Render struct {
	Text     string
	Photo    string
	Keyboard [][]Button
	Toast    string
	Alert    bool
}

func textRender(text string, keyboard [][]Button) Render {
	return Render{Text: text, Keyboard: keyboard}
}

func toast(text string, alert bool) Render {
	return Render{Toast: text, Alert: alert}
}
