package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the buffer's line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithLF configures the buffer to use Unix line endings (\n).
func WithLF() Option {
	return WithLineEnding(LineEndingLF)
}

// WithCRLF configures the buffer to use Windows line endings (\r\n).
func WithCRLF() Option {
	return WithLineEnding(LineEndingCRLF)
}

// WithCR configures the buffer to use old Mac line endings (\r).
func WithCR() Option {
	return WithLineEnding(LineEndingCR)
}

// WithParallelBuild sets the text length at or above which bulk builds of
// inserted or loaded text construct subtrees concurrently. Zero disables it.
func WithParallelBuild(threshold int) Option {
	return func(b *Buffer) {
		b.parallelThreshold = max(threshold, 0)
	}
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			crlfCount++
			i++
		case text[i] == '\r':
			crCount++
		case text[i] == '\n':
			lfCount++
		}
	}

	switch {
	case crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount:
		return LineEndingCRLF
	case crCount > 0 && crCount >= lfCount:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// WithDetectedLineEnding sets the buffer's line ending style based on content.
func WithDetectedLineEnding(text string) Option {
	return WithLineEnding(DetectLineEnding(text))
}
