package console

// Intent is a parsed console line.
type Intent struct {
	Raw        string
	Normalised string
	Verb       string
	Args       []string
	Confidence float64
	// Suggestions holds near-miss verbs when Verb is empty.
	Suggestions []string
}

type CommandDef struct {
	Canonical string
	Aliases   []string
	MinArgs   int
	// MaxArgs below zero accepts any number of arguments.
	MaxArgs int
	Usage   string
	Summary string
}
