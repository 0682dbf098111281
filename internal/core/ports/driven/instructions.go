package driven

// InstructionStore provides access to system instructions for the generator.
// Implementations may load them from files or embed them in the binary.
type InstructionStore interface {
	// Load returns the instruction for the given name.
	// A name may also be a path to an instruction file.
	Load(name string) (string, error)

	// Reload clears any cached instructions, forcing fresh loads on next access.
	Reload()
}

// InstructionDefault is the built-in instruction used when none is configured.
const InstructionDefault = "default"
