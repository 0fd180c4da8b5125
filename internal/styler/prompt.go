package styler

import (
	"fmt"
	"strings"
)

// Request describes one styling job.
type Request struct {
	// Name is the plain input text to decorate.
	Name string
	// Avoid, when non-empty, is a previously shown result the provider is
	// asked not to reproduce. Advisory only; uniqueness is not enforced.
	Avoid string
	// Style is an optional vibe tag chosen by the user (e.g. "soft", "dark").
	Style string
}

// BuildPrompt renders the provider instruction for a styling request.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("You are an expert modern aesthetic font designer for Gen-Z. ")
	fmt.Fprintf(&b, "Transform the name '%s' into a highly aesthetic, trendy, and stylish version. ", req.Name)
	b.WriteString("Use unique unicode symbols, kaomoji, and decorative borders. ")
	b.WriteString("Style Examples (Vibe): ᯓ𓂃❛ 𝐒 𝛖 𝐝 ֟፝ᥱ 𝛆 𝛒 </𝟑 𝁘ໍ𝀛𓂃🍷 or 𓆩🖤𓆪 or ✦ ִ ֶ ָ 𓆝 𓆟 𓆞 ")

	if req.Style != "" {
		fmt.Fprintf(&b, "Lean the design toward a %s vibe. ", req.Style)
	}

	b.WriteString("Strict Rules:\n")
	b.WriteString("1. No old/clunky symbols.\n")
	b.WriteString("2. Return ONLY the styled text.\n")
	if req.Avoid != "" {
		fmt.Fprintf(&b,
			"3. IMPORTANT: The user rejected this style: '%s'. Do NOT make it similar. Create something COMPLETELY different.\n",
			req.Avoid)
	}

	return b.String()
}
