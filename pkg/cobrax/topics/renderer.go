package topics

// Renderer turns raw topic markdown into terminal output.
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer passes content through untouched. It is the fallback
// when no richer renderer is configured.
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, format string) string {
	return content
}
